package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

func (i *Interpreter) evaluateExpression(node ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return literalValue(n.Value), nil
	case *ast.GroupingExpression:
		return i.evaluateExpression(n.Expression, env)
	case *ast.VariableExpression:
		return i.lookUpVariable(n, n.Name, env)
	case *ast.AssignExpression:
		return i.evaluateAssignment(n, env)
	case *ast.UnaryExpression:
		return i.evaluateUnary(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinary(n, env)
	case *ast.LogicalExpression:
		return i.evaluateLogical(n, env)
	case *ast.TernaryExpression:
		cond, err := i.evaluateExpression(n.Condition, env)
		if err != nil {
			return nil, err
		}
		if isTruthy(cond) {
			return i.evaluateExpression(n.Then, env)
		}
		return i.evaluateExpression(n.Else, env)
	case *ast.CallExpression:
		return i.evaluateCall(n, env)
	case *ast.FunctionLiteral:
		return &runtime.FunctionValue{Declaration: n, Closure: env}, nil
	case *ast.GetExpression:
		return i.evaluateGet(n, env)
	case *ast.SetExpression:
		return i.evaluateSet(n, env)
	case *ast.ThisExpression:
		return i.lookUpVariable(n, n.Keyword, env)
	case *ast.SuperExpression:
		return i.evaluateSuper(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

func literalValue(v any) runtime.Value {
	switch val := v.(type) {
	case float64:
		return runtime.NumberValue{Val: val}
	case string:
		return runtime.StringValue{Val: val}
	case bool:
		return runtime.BoolValue{Val: val}
	default:
		return runtime.NilValue{}
	}
}

// lookUpVariable reads a resolved local at its recorded distance, or a
// global by name when the resolver left it unresolved.
func (i *Interpreter) lookUpVariable(expr ast.Expr, name token.Token, env *runtime.Environment) (runtime.Value, error) {
	var (
		val runtime.Value
		err error
	)
	if distance, ok := i.resolutions[expr]; ok {
		val, err = env.GetAt(distance, name.Lexeme)
	} else {
		val, err = i.globals.Get(name.Lexeme)
	}
	if err != nil {
		return nil, runtimeError(name, "%s", err.Error())
	}
	return val, nil
}

func (i *Interpreter) evaluateAssignment(expr *ast.AssignExpression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(expr.Value, env)
	if err != nil {
		return nil, err
	}
	if distance, ok := i.resolutions[expr]; ok {
		err = env.AssignAt(distance, expr.Name.Lexeme, val)
	} else {
		err = i.globals.Assign(expr.Name.Lexeme, val)
	}
	if err != nil {
		return nil, runtimeError(expr.Name, "%s", err.Error())
	}
	return val, nil
}

func (i *Interpreter) evaluateUnary(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case token.Bang:
		return runtime.BoolValue{Val: !isTruthy(right)}, nil
	case token.Minus:
		num, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, runtimeError(expr.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	default:
		return nil, runtimeError(expr.Operator, "Unsupported unary operator '%s'.", expr.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateBinary(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Kind {
	case token.EqualEqual:
		return runtime.BoolValue{Val: isEqual(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !isEqual(left, right)}, nil
	case token.Plus:
		return addValues(expr.Operator, left, right)
	}

	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, runtimeError(expr.Operator, "Operands must be numbers.")
	}
	switch expr.Operator.Kind {
	case token.Minus:
		return runtime.NumberValue{Val: l.Val - r.Val}, nil
	case token.Star:
		return runtime.NumberValue{Val: l.Val * r.Val}, nil
	case token.Slash:
		return runtime.NumberValue{Val: l.Val / r.Val}, nil
	case token.Greater:
		return runtime.BoolValue{Val: l.Val > r.Val}, nil
	case token.GreaterEqual:
		return runtime.BoolValue{Val: l.Val >= r.Val}, nil
	case token.Less:
		return runtime.BoolValue{Val: l.Val < r.Val}, nil
	case token.LessEqual:
		return runtime.BoolValue{Val: l.Val <= r.Val}, nil
	default:
		return nil, runtimeError(expr.Operator, "Unsupported binary operator '%s'.", expr.Operator.Lexeme)
	}
}

// addValues implements '+'. A string on the left accepts a number on the
// right, but not the other way around.
func addValues(op token.Token, left, right runtime.Value) (runtime.Value, error) {
	switch l := left.(type) {
	case runtime.NumberValue:
		if r, ok := right.(runtime.NumberValue); ok {
			return runtime.NumberValue{Val: l.Val + r.Val}, nil
		}
	case runtime.StringValue:
		switch r := right.(type) {
		case runtime.StringValue:
			return runtime.StringValue{Val: l.Val + r.Val}, nil
		case runtime.NumberValue:
			return runtime.StringValue{Val: l.Val + Stringify(r)}, nil
		}
	}
	return nil, runtimeError(op, "Operands of '+' must be numbers or strings.")
}

func (i *Interpreter) evaluateLogical(expr *ast.LogicalExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	if expr.Operator.Kind == token.Or {
		if isTruthy(left) {
			return left, nil
		}
	} else if !isTruthy(left) {
		return left, nil
	}
	return i.evaluateExpression(expr.Right, env)
}

func (i *Interpreter) evaluateCall(expr *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(expr.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(expr.Arguments))
	for _, argExpr := range expr.Arguments {
		val, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return i.callValue(callee, args, expr.Paren)
}

func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value, paren token.Token) (runtime.Value, error) {
	checkArity := func(arity int) error {
		if len(args) != arity {
			return runtimeError(paren, "Expected %d arguments but got %d.", arity, len(args))
		}
		return nil
	}

	switch fn := callee.(type) {
	case *runtime.NativeFunctionValue:
		if err := checkArity(fn.Arity); err != nil {
			return nil, err
		}
		val, err := fn.Impl(&runtime.NativeCallContext{Globals: i.globals}, args)
		if err != nil {
			return nil, runtimeError(paren, "%s", err.Error())
		}
		return val, nil
	case *runtime.FunctionValue:
		if err := checkArity(fn.Arity()); err != nil {
			return nil, err
		}
		return i.invokeFunction(fn, args, paren)
	case *runtime.ClassValue:
		if err := checkArity(fn.Arity()); err != nil {
			return nil, err
		}
		instance := runtime.NewInstance(fn)
		if init, ok := fn.FindMethod("init"); ok {
			if _, err := i.invokeFunction(init.Bind(instance), args, paren); err != nil {
				return nil, err
			}
		}
		return instance, nil
	default:
		return nil, runtimeError(paren, "Can only call functions and classes.")
	}
}

// invokeFunction runs a closure body in a fresh frame parented to the
// closure's defining environment. Return unwinds to here; a break that
// escapes the body keeps unwinding to the caller's innermost running loop.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value, paren token.Token) (runtime.Value, error) {
	if i.maxDepth > 0 && i.depth >= i.maxDepth {
		return nil, runtimeError(paren, "Stack overflow.")
	}
	i.depth++
	defer func() { i.depth-- }()

	env := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	var result runtime.Value = runtime.NilValue{}
	if err := i.evaluateBlock(fn.Declaration.Body, env); err != nil {
		switch sig := err.(type) {
		case returnSignal:
			result = sig.value
		default:
			return nil, err
		}
	}
	if fn.IsInitializer {
		return fn.Closure.GetAt(0, "this")
	}
	return result, nil
}

func isTruthy(val runtime.Value) bool {
	switch v := val.(type) {
	case runtime.BoolValue:
		return v.Val
	case runtime.NilValue:
		return false
	default:
		return true
	}
}

// isEqual never converts between kinds. NaN is not equal to itself.
func isEqual(a, b runtime.Value) bool {
	switch av := a.(type) {
	case runtime.NilValue:
		_, ok := b.(runtime.NilValue)
		return ok
	case runtime.BoolValue:
		bv, ok := b.(runtime.BoolValue)
		return ok && av.Val == bv.Val
	case runtime.NumberValue:
		bv, ok := b.(runtime.NumberValue)
		return ok && av.Val == bv.Val
	case runtime.StringValue:
		bv, ok := b.(runtime.StringValue)
		return ok && av.Val == bv.Val
	default:
		return a == b
	}
}
