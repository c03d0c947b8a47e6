package resolver

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/token"
)

// Resolutions maps a variable-referencing expression (by node identity) to
// the number of scopes between its use and its declaration. Globals are
// absent and looked up dynamically.
type Resolutions map[ast.Expr]int

type functionKind int

const (
	functionNone functionKind = iota
	functionPlain
	functionMethod
	functionInitializer
)

type classKind int

const (
	classNone classKind = iota
	classPlain
	classSubclass
)

// Resolver performs the static scope analysis pass. Each scope maps a name
// to whether its initializer has finished (false while declared only).
type Resolver struct {
	scopes          []map[string]bool
	resolutions     Resolutions
	currentFunction functionKind
	currentClass    classKind
	reporter        *diag.Reporter
}

// New creates a resolver writing into res, or into a fresh table when res
// is nil.
func New(reporter *diag.Reporter, res Resolutions) *Resolver {
	if res == nil {
		res = make(Resolutions)
	}
	return &Resolver{resolutions: res, reporter: reporter}
}

// Resolve walks the statements and returns the populated table.
func (r *Resolver) Resolve(stmts []ast.Stmt) Resolutions {
	r.resolveStatements(stmts)
	return r.resolutions
}

func (r *Resolver) resolveStatements(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		r.beginScope()
		r.resolveStatements(s.Statements)
		r.endScope()
	case *ast.VarDeclaration:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpression(s.Initializer)
		}
		r.define(s.Name)
	case *ast.FunctionDeclaration:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Function, functionPlain)
	case *ast.ClassDeclaration:
		r.resolveClass(s)
	case *ast.ExpressionStatement:
		r.resolveExpression(s.Expression)
	case *ast.PrintStatement:
		r.resolveExpression(s.Expression)
	case *ast.IfStatement:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Then)
		if s.Else != nil {
			r.resolveStatement(s.Else)
		}
	case *ast.WhileStatement:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Body)
	case *ast.BreakStatement:
	case *ast.ReturnStatement:
		if r.currentFunction == functionNone {
			r.error(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == functionInitializer {
				r.error(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpression(s.Value)
		}
	default:
		panic(fmt.Sprintf("resolver: unsupported statement %T", stmt))
	}
}

func (r *Resolver) resolveClass(s *ast.ClassDeclaration) {
	enclosingClass := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.error(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpression(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	for _, method := range s.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method.Function, kind)
	}
	r.endScope()
}

func (r *Resolver) resolveFunction(fn *ast.FunctionLiteral, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpression(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.VariableExpression:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.error(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	case *ast.AssignExpression:
		r.resolveExpression(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.TernaryExpression:
		r.resolveExpression(e.Condition)
		r.resolveExpression(e.Then)
		r.resolveExpression(e.Else)
	case *ast.BinaryExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.LogicalExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.GroupingExpression:
		r.resolveExpression(e.Expression)
	case *ast.UnaryExpression:
		r.resolveExpression(e.Right)
	case *ast.Literal:
	case *ast.CallExpression:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpression(arg)
		}
	case *ast.FunctionLiteral:
		r.resolveFunction(e, functionPlain)
	case *ast.GetExpression:
		r.resolveExpression(e.Object)
	case *ast.SetExpression:
		r.resolveExpression(e.Value)
		r.resolveExpression(e.Object)
	case *ast.ThisExpression:
		if r.currentClass == classNone {
			r.error(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.SuperExpression:
		switch r.currentClass {
		case classNone:
			r.error(e.Keyword, "Can't use 'super' outside of a class.")
			return
		case classPlain:
			r.error(e.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	default:
		panic(fmt.Sprintf("resolver: unsupported expression %T", expr))
	}
}

// resolveLocal records the distance to the innermost scope declaring name.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.resolutions[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name.Lexeme]; exists {
		r.error(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) error(tok token.Token, message string) {
	r.reporter.ErrorAt(diag.PhaseResolve, tok, message)
}
