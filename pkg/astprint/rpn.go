package astprint

import (
	"fmt"
	"strings"

	"lox/interpreter-go/pkg/ast"
)

// RPN renders an expression in postfix order, e.g. `(1 + 2) * (4 - 3)`
// becomes `1 2 + 4 3 - *`.
func RPN(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.AssignExpression:
		return join(RPN(e.Value), e.Name.Lexeme, "=")
	case *ast.TernaryExpression:
		return join(RPN(e.Condition), RPN(e.Then), RPN(e.Else), "?:")
	case *ast.BinaryExpression:
		return join(RPN(e.Left), RPN(e.Right), e.Operator.Lexeme)
	case *ast.GroupingExpression:
		return RPN(e.Expression)
	case *ast.Literal:
		return literal(e.Value)
	case *ast.VariableExpression:
		return e.Name.Lexeme
	case *ast.UnaryExpression:
		return join(RPN(e.Right), e.Operator.Lexeme)
	case *ast.LogicalExpression:
		return join(RPN(e.Left), RPN(e.Right), e.Operator.Lexeme)
	case *ast.CallExpression:
		parts := []string{RPN(e.Callee)}
		for _, arg := range e.Arguments {
			parts = append(parts, RPN(arg))
		}
		return join(append(parts, fmt.Sprintf("call/%d", len(e.Arguments)))...)
	case *ast.FunctionLiteral:
		return fmt.Sprintf("<fun/%d>", len(e.Params))
	case *ast.GetExpression:
		return join(RPN(e.Object), e.Name.Lexeme, ".")
	case *ast.SetExpression:
		return join(RPN(e.Object), RPN(e.Value), e.Name.Lexeme, ".=")
	case *ast.ThisExpression:
		return "this"
	case *ast.SuperExpression:
		return "super." + e.Method.Lexeme
	default:
		return fmt.Sprintf("<unknown %T>", expr)
	}
}

// RPNStmt renders expression-carrying statements in postfix order and
// falls back to the prefix form for everything else.
func RPNStmt(stmt ast.Stmt) string {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return RPN(s.Expression)
	case *ast.PrintStatement:
		return join(RPN(s.Expression), "print")
	case *ast.VarDeclaration:
		if s.Initializer == nil {
			return join("nil", s.Name.Lexeme, "var")
		}
		return join(RPN(s.Initializer), s.Name.Lexeme, "var")
	default:
		return ParenStmt(stmt)
	}
}

func join(parts ...string) string {
	return strings.Join(parts, " ")
}
