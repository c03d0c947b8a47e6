package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/token"
)

const maxArgs = 255

// Parser is a recursive-descent parser over a scanned token sequence.
// Syntax errors are reported and recovered from at statement boundaries so
// a single Parse call can surface several of them.
type Parser struct {
	tokens    []token.Token
	current   int
	loopDepth int
	errors    int
	reporter  *diag.Reporter
}

// parseError unwinds the parser to the nearest declaration boundary.
type parseError struct{}

// New creates a parser over tokens. A missing trailing EOF token is added.
func New(tokens []token.Token, reporter *diag.Reporter) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, token.New(token.EOF, "", nil, line))
	}
	return &Parser{tokens: tokens, reporter: reporter}
}

// Parse parses a whole program. Statements that failed to parse are omitted.
func (p *Parser) Parse() []ast.Stmt {
	stmts := make([]ast.Stmt, 0)
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// ParseExpression parses the entire input as one expression. ok is false
// when a syntax error was reported or tokens remain after the expression.
func (p *Parser) ParseExpression() (expr ast.Expr, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isParseErr := r.(parseError); !isParseErr {
				panic(r)
			}
			expr, ok = nil, false
		}
	}()
	expr = p.expression()
	if !p.isAtEnd() || p.errors > 0 {
		return nil, false
	}
	return expr, true
}

// synchronize discards tokens until the start of the next statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}
