package ast

import "lox/interpreter-go/pkg/token"

// Short constructors for building trees by hand in tests and tools. Tokens
// produced here are placed on line 1.

func Ident(name string) token.Token {
	return token.New(token.Identifier, name, nil, 1)
}

func Op(kind token.Kind, lexeme string) token.Token {
	return token.New(kind, lexeme, nil, 1)
}

func Num(value float64) *Literal { return NewLiteral(value) }
func Str(value string) *Literal  { return NewLiteral(value) }
func Bool(value bool) *Literal   { return NewLiteral(value) }
func Nil() *Literal              { return NewLiteral(nil) }

func Var(name string) *VariableExpression {
	return NewVariableExpression(Ident(name))
}

func Assign(name string, value Expr) *AssignExpression {
	return NewAssignExpression(Ident(name), value)
}

func Bin(left Expr, kind token.Kind, lexeme string, right Expr) *BinaryExpression {
	return NewBinaryExpression(left, Op(kind, lexeme), right)
}

func Group(expr Expr) *GroupingExpression {
	return NewGroupingExpression(expr)
}

func Call(callee Expr, args ...Expr) *CallExpression {
	return NewCallExpression(callee, Op(token.RightParen, ")"), args)
}

func Get(object Expr, name string) *GetExpression {
	return NewGetExpression(object, Ident(name))
}

func This() *ThisExpression {
	return NewThisExpression(Op(token.This, "this"))
}

func Super(method string) *SuperExpression {
	return NewSuperExpression(Op(token.Super, "super"), Ident(method))
}

func Fn(params []string, body ...Stmt) *FunctionLiteral {
	toks := make([]token.Token, len(params))
	for i, p := range params {
		toks[i] = Ident(p)
	}
	return NewFunctionLiteral(Op(token.Fun, "fun"), toks, body)
}

func ExprStmt(expr Expr) *ExpressionStatement { return NewExpressionStatement(expr) }
func PrintStmt(expr Expr) *PrintStatement     { return NewPrintStatement(expr) }
func Block(stmts ...Stmt) *BlockStatement     { return NewBlockStatement(stmts) }

func VarDecl(name string, init Expr) *VarDeclaration {
	return NewVarDeclaration(Ident(name), init)
}

func FunDecl(name string, params []string, body ...Stmt) *FunctionDeclaration {
	return NewFunctionDeclaration(Ident(name), Fn(params, body...))
}

func Ret(value Expr) *ReturnStatement {
	return NewReturnStatement(Op(token.Return, "return"), value)
}

func ClassDecl(name string, superclass string, methods ...*FunctionDeclaration) *ClassDeclaration {
	var sup *VariableExpression
	if superclass != "" {
		sup = Var(superclass)
	}
	return NewClassDeclaration(Ident(name), sup, methods)
}
