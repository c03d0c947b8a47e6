package parser

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/token"
)

// Precedence, lowest to highest: assignment, ternary, or, and, equality,
// comparison, term, factor, unary, call, primary.

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.ternary()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.VariableExpression:
			return ast.NewAssignExpression(target.Name, value)
		case *ast.GetExpression:
			return ast.NewSetExpression(target.Object, target.Name, value)
		}
		p.report(equals, "Invalid assignment target.")
	}
	return expr
}

func (p *Parser) ternary() ast.Expr {
	expr := p.or()

	if p.match(token.Question) {
		then := p.ternary()
		p.consume(token.Colon, "Expect ':' after then branch of conditional expression.")
		els := p.ternary()
		return ast.NewTernaryExpression(expr, then, els)
	}
	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.Or) {
		operator := p.previous()
		right := p.and()
		expr = ast.NewLogicalExpression(expr, operator, right)
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		operator := p.previous()
		right := p.equality()
		expr = ast.NewLogicalExpression(expr, operator, right)
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() ast.Expr {
	return p.binary(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() ast.Expr {
	return p.binary(p.factor, token.Minus, token.Plus)
}

func (p *Parser) factor() ast.Expr {
	return p.binary(p.unary, token.Slash, token.Star)
}

// binary parses a left-associative chain of operands joined by operators.
func (p *Parser) binary(operand func() ast.Expr, operators ...token.Kind) ast.Expr {
	expr := operand()
	for p.match(operators...) {
		operator := p.previous()
		right := operand()
		expr = ast.NewBinaryExpression(expr, operator, right)
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		return ast.NewUnaryExpression(operator, p.unary())
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "Expect property name after '.'.")
			expr = ast.NewGetExpression(expr, name)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	args := make([]ast.Expr, 0)
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.report(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "Expect ')' after arguments.")
	return ast.NewCallExpression(callee, paren, args)
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(false)
	case p.match(token.True):
		return ast.NewLiteral(true)
	case p.match(token.Nil):
		return ast.NewLiteral(nil)
	case p.match(token.Number, token.String):
		return ast.NewLiteral(p.previous().Literal)
	case p.match(token.This):
		return ast.NewThisExpression(p.previous())
	case p.match(token.Super):
		keyword := p.previous()
		p.consume(token.Dot, "Expect '.' after 'super'.")
		method := p.consume(token.Identifier, "Expect superclass method name.")
		return ast.NewSuperExpression(keyword, method)
	case p.match(token.Identifier):
		return ast.NewVariableExpression(p.previous())
	case p.match(token.Fun):
		keyword := p.previous()
		p.consume(token.LeftParen, "Expect '(' after 'fun'.")
		return p.functionBody("function", keyword)
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "Expect ')' after expression.")
		return ast.NewGroupingExpression(expr)
	}
	panic(p.fail(p.peek(), "Expect expression."))
}
