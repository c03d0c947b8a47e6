// Package astprint renders syntax trees as text for manual inspection.
package astprint

import (
	"fmt"
	"strconv"
	"strings"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/token"
)

// Paren renders an expression in a parenthesized prefix form, e.g.
// `1 + 2 * 3` becomes `(+ 1 (* 2 3))`.
func Paren(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.AssignExpression:
		return parenthesize("=", e.Name.Lexeme, Paren(e.Value))
	case *ast.TernaryExpression:
		return parenthesize("?:", Paren(e.Condition), Paren(e.Then), Paren(e.Else))
	case *ast.BinaryExpression:
		return parenthesize(e.Operator.Lexeme, Paren(e.Left), Paren(e.Right))
	case *ast.GroupingExpression:
		return parenthesize("group", Paren(e.Expression))
	case *ast.Literal:
		return literal(e.Value)
	case *ast.VariableExpression:
		return e.Name.Lexeme
	case *ast.UnaryExpression:
		return parenthesize(e.Operator.Lexeme, Paren(e.Right))
	case *ast.LogicalExpression:
		return parenthesize(e.Operator.Lexeme, Paren(e.Left), Paren(e.Right))
	case *ast.CallExpression:
		parts := []string{Paren(e.Callee)}
		for _, arg := range e.Arguments {
			parts = append(parts, Paren(arg))
		}
		return parenthesize("call", parts...)
	case *ast.FunctionLiteral:
		return parenthesize("fun", functionParts(e)...)
	case *ast.GetExpression:
		return parenthesize(".", Paren(e.Object), e.Name.Lexeme)
	case *ast.SetExpression:
		return parenthesize(".=", Paren(e.Object), e.Name.Lexeme, Paren(e.Value))
	case *ast.ThisExpression:
		return "this"
	case *ast.SuperExpression:
		return parenthesize("super", e.Method.Lexeme)
	default:
		return fmt.Sprintf("<unknown %T>", expr)
	}
}

// ParenStmt renders a statement in the same prefix form as Paren.
func ParenStmt(stmt ast.Stmt) string {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return parenthesize(";", Paren(s.Expression))
	case *ast.VarDeclaration:
		if s.Initializer == nil {
			return parenthesize("var", s.Name.Lexeme)
		}
		return parenthesize("var", s.Name.Lexeme, Paren(s.Initializer))
	case *ast.BlockStatement:
		return parenthesize("block", stmtParts(s.Statements)...)
	case *ast.PrintStatement:
		return parenthesize("print", Paren(s.Expression))
	case *ast.IfStatement:
		if s.Else == nil {
			return parenthesize("if", Paren(s.Condition), ParenStmt(s.Then))
		}
		return parenthesize("if", Paren(s.Condition), ParenStmt(s.Then), ParenStmt(s.Else))
	case *ast.WhileStatement:
		return parenthesize("while", Paren(s.Condition), ParenStmt(s.Body))
	case *ast.FunctionDeclaration:
		return parenthesize("fun", append([]string{s.Name.Lexeme}, functionParts(s.Function)...)...)
	case *ast.ClassDeclaration:
		parts := []string{s.Name.Lexeme}
		if s.Superclass != nil {
			parts = append(parts, "<", s.Superclass.Name.Lexeme)
		}
		for _, method := range s.Methods {
			parts = append(parts, ParenStmt(method))
		}
		return parenthesize("class", parts...)
	case *ast.BreakStatement:
		return "(break)"
	case *ast.ReturnStatement:
		if s.Value == nil {
			return "(return)"
		}
		return parenthesize("return", Paren(s.Value))
	default:
		return fmt.Sprintf("<unknown %T>", stmt)
	}
}

// Program renders each statement on its own line.
func Program(stmts []ast.Stmt, render func(ast.Stmt) string) string {
	var b strings.Builder
	for _, stmt := range stmts {
		b.WriteString(render(stmt))
		b.WriteByte('\n')
	}
	return b.String()
}

func parenthesize(name string, parts ...string) string {
	if len(parts) == 0 {
		return "(" + name + ")"
	}
	return "(" + name + " " + strings.Join(parts, " ") + ")"
}

func functionParts(fn *ast.FunctionLiteral) []string {
	return append([]string{"(" + joinParams(fn.Params) + ")"}, stmtParts(fn.Body)...)
}

func stmtParts(stmts []ast.Stmt) []string {
	parts := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		parts = append(parts, ParenStmt(stmt))
	}
	return parts
}

func joinParams(params []token.Token) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Lexeme
	}
	return strings.Join(names, " ")
}

func literal(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}
