package parser

import (
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/token"
)

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) checkNext(kind token.Kind) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

// consume advances past the expected token or aborts the current statement.
func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	panic(p.fail(p.peek(), message))
}

// report records a syntax error without aborting the current statement.
func (p *Parser) report(tok token.Token, message string) {
	p.errors++
	p.reporter.ErrorAt(diag.PhaseParse, tok, message)
}

func (p *Parser) fail(tok token.Token, message string) parseError {
	p.report(tok, message)
	return parseError{}
}
