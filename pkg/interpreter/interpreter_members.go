package interpreter

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateGet(expr *ast.GetExpression, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*runtime.InstanceValue)
	if !ok {
		return nil, runtimeError(expr.Name, "Only instances have properties.")
	}
	val, ok := inst.Get(expr.Name.Lexeme)
	if !ok {
		return nil, runtimeError(expr.Name, "Undefined property '%s'.", expr.Name.Lexeme)
	}
	return val, nil
}

func (i *Interpreter) evaluateSet(expr *ast.SetExpression, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*runtime.InstanceValue)
	if !ok {
		return nil, runtimeError(expr.Name, "Only instances have fields.")
	}
	val, err := i.evaluateExpression(expr.Value, env)
	if err != nil {
		return nil, err
	}
	inst.Set(expr.Name.Lexeme, val)
	return val, nil
}

// evaluateSuper finds the method on the superclass captured when the class
// was declared, and binds it to the current `this`, which lives one frame
// inside the `super` frame.
func (i *Interpreter) evaluateSuper(expr *ast.SuperExpression, env *runtime.Environment) (runtime.Value, error) {
	distance, ok := i.resolutions[expr]
	if !ok {
		return nil, runtimeError(expr.Keyword, "Can't use 'super' outside of a class.")
	}
	superVal, err := env.GetAt(distance, "super")
	if err != nil {
		return nil, runtimeError(expr.Keyword, "%s", err.Error())
	}
	superclass, ok := superVal.(*runtime.ClassValue)
	if !ok {
		return nil, runtimeError(expr.Keyword, "Superclass must be a class.")
	}
	thisVal, err := env.GetAt(distance-1, "this")
	if err != nil {
		return nil, runtimeError(expr.Keyword, "%s", err.Error())
	}
	instance, ok := thisVal.(*runtime.InstanceValue)
	if !ok {
		return nil, runtimeError(expr.Keyword, "Can't use 'super' outside of a class.")
	}
	method, ok := superclass.FindMethod(expr.Method.Lexeme)
	if !ok {
		return nil, runtimeError(expr.Method, "Undefined property '%s'.", expr.Method.Lexeme)
	}
	return method.Bind(instance), nil
}
