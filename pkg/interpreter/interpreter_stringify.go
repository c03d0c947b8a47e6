package interpreter

import (
	"math"
	"strconv"
	"strings"

	"lox/interpreter-go/pkg/runtime"
)

// Stringify renders a value the way print shows it.
func Stringify(val runtime.Value) string {
	switch v := val.(type) {
	case nil, runtime.NilValue:
		return "nil"
	case runtime.BoolValue:
		return strconv.FormatBool(v.Val)
	case runtime.NumberValue:
		return formatNumber(v.Val)
	case runtime.StringValue:
		return v.Val
	case *runtime.NativeFunctionValue:
		return "<native fn " + v.Name + "()>"
	case *runtime.FunctionValue:
		if v.Name == "" {
			return "<lambda fn>"
		}
		return "<fn " + v.Name + ">"
	case *runtime.ClassValue:
		return v.Name
	case *runtime.InstanceValue:
		return v.Class.Name + " instance"
	default:
		return "<" + val.Kind().String() + ">"
	}
}

// formatNumber prints integral values without a fractional part, so 3.0
// prints as 3. Magnitudes outside [1e-3, 1e7) use exponent form with at
// least one fractional mantissa digit: 1.0E7, 1.5E-4.
func formatNumber(n float64) string {
	switch abs := math.Abs(n); {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case abs == 0 || (abs >= 1e-3 && abs < 1e7):
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(n, 'e', -1, 64), "e")
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		e, _ := strconv.Atoi(exp)
		return mantissa + "E" + strconv.Itoa(e)
	}
}
