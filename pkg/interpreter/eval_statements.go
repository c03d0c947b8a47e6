package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateStatement(node ast.Stmt, env *runtime.Environment) error {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(n.Expression, env)
		return err
	case *ast.PrintStatement:
		val, err := i.evaluateExpression(n.Expression, env)
		if err != nil {
			return err
		}
		return i.print(val)
	case *ast.VarDeclaration:
		return i.evaluateVarDeclaration(n, env)
	case *ast.BlockStatement:
		return i.evaluateBlock(n.Statements, runtime.NewEnvironment(env))
	case *ast.IfStatement:
		return i.evaluateIfStatement(n, env)
	case *ast.WhileStatement:
		return i.evaluateWhileLoop(n, env)
	case *ast.FunctionDeclaration:
		env.Define(n.Name.Lexeme, &runtime.FunctionValue{
			Name:        n.Name.Lexeme,
			Declaration: n.Function,
			Closure:     env,
		})
		return nil
	case *ast.ClassDeclaration:
		return i.evaluateClassDeclaration(n, env)
	case *ast.ReturnStatement:
		return i.evaluateReturnStatement(n, env)
	case *ast.BreakStatement:
		return breakSignal{}
	default:
		return fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

// evaluateBlock runs stmts in env, which the caller has already created.
func (i *Interpreter) evaluateBlock(stmts []ast.Stmt, env *runtime.Environment) error {
	for _, stmt := range stmts {
		if err := i.evaluateStatement(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluateVarDeclaration(decl *ast.VarDeclaration, env *runtime.Environment) error {
	var val runtime.Value = runtime.NilValue{}
	if decl.Initializer != nil {
		v, err := i.evaluateExpression(decl.Initializer, env)
		if err != nil {
			return err
		}
		val = v
	}
	env.Define(decl.Name.Lexeme, val)
	return nil
}

func (i *Interpreter) evaluateIfStatement(stmt *ast.IfStatement, env *runtime.Environment) error {
	cond, err := i.evaluateExpression(stmt.Condition, env)
	if err != nil {
		return err
	}
	if isTruthy(cond) {
		return i.evaluateStatement(stmt.Then, env)
	}
	if stmt.Else != nil {
		return i.evaluateStatement(stmt.Else, env)
	}
	return nil
}

func (i *Interpreter) evaluateWhileLoop(loop *ast.WhileStatement, env *runtime.Environment) error {
	for {
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return absorbBreak(err)
		}
		if !isTruthy(cond) {
			return nil
		}
		if err := i.evaluateStatement(loop.Body, env); err != nil {
			return absorbBreak(err)
		}
	}
}

// absorbBreak stops a loop on a break raised in its condition or body,
// including one unwinding out of a called function.
func absorbBreak(err error) error {
	if _, ok := err.(breakSignal); ok {
		return nil
	}
	return err
}

func (i *Interpreter) evaluateReturnStatement(stmt *ast.ReturnStatement, env *runtime.Environment) error {
	var result runtime.Value = runtime.NilValue{}
	if stmt.Value != nil {
		val, err := i.evaluateExpression(stmt.Value, env)
		if err != nil {
			return err
		}
		result = val
	}
	return returnSignal{value: result}
}

func (i *Interpreter) evaluateClassDeclaration(decl *ast.ClassDeclaration, env *runtime.Environment) error {
	var superclass *runtime.ClassValue
	if decl.Superclass != nil {
		val, err := i.evaluateExpression(decl.Superclass, env)
		if err != nil {
			return err
		}
		class, ok := val.(*runtime.ClassValue)
		if !ok {
			return runtimeError(decl.Superclass.Name, "Superclass must be a class.")
		}
		superclass = class
	}

	env.Define(decl.Name.Lexeme, runtime.NilValue{})

	methodEnv := env
	if superclass != nil {
		methodEnv = runtime.NewEnvironment(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*runtime.FunctionValue, len(decl.Methods))
	for _, method := range decl.Methods {
		name := method.Name.Lexeme
		methods[name] = &runtime.FunctionValue{
			Name:          name,
			Declaration:   method.Function,
			Closure:       methodEnv,
			IsInitializer: name == "init",
		}
	}

	env.Define(decl.Name.Lexeme, &runtime.ClassValue{
		Name:       decl.Name.Lexeme,
		Superclass: superclass,
		Methods:    methods,
	})
	return nil
}
