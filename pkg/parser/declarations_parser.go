package parser

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/token"
)

// declaration is the recovery point for syntax errors: a failed statement
// yields nil after the parser has skipped to the next statement boundary.
func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(token.Class):
		return p.classDeclaration()
	case p.check(token.Fun) && p.checkNext(token.Identifier):
		p.advance()
		return p.function("function")
	case p.match(token.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "Expect class name.")

	var superclass *ast.VariableExpression
	if p.match(token.Less) {
		p.consume(token.Identifier, "Expect superclass name.")
		superclass = ast.NewVariableExpression(p.previous())
	}

	p.consume(token.LeftBrace, "Expect '{' before class body.")
	methods := make([]*ast.FunctionDeclaration, 0)
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(token.RightBrace, "Expect '}' after class body.")

	return ast.NewClassDeclaration(name, superclass, methods)
}

// function parses a named function or method; kind is used in messages.
func (p *Parser) function(kind string) *ast.FunctionDeclaration {
	name := p.consume(token.Identifier, fmt.Sprintf("Expect %s name.", kind))
	p.consume(token.LeftParen, fmt.Sprintf("Expect '(' after %s name.", kind))
	return ast.NewFunctionDeclaration(name, p.functionBody(kind, name))
}

// functionBody parses the parameter list (after its opening paren) and body.
func (p *Parser) functionBody(kind string, keyword token.Token) *ast.FunctionLiteral {
	params := make([]token.Token, 0)
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.report(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters.")
	p.consume(token.LeftBrace, fmt.Sprintf("Expect '{' before %s body.", kind))
	return ast.NewFunctionLiteral(keyword, params, p.block())
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "Expect variable name.")

	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after variable declaration.")
	return ast.NewVarDeclaration(name, initializer)
}
