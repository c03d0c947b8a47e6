package scanner

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/token"
)

// Scanner turns source text into a token sequence in a single pass.
// Lexical errors are reported and skipped so that one pass can surface
// several of them.
type Scanner struct {
	source   string
	start    int
	current  int
	line     int
	tokens   []token.Token
	reporter *diag.Reporter
}

// New creates a scanner over source reporting errors to reporter.
func New(source string, reporter *diag.Reporter) *Scanner {
	return &Scanner{source: source, line: 1, reporter: reporter}
}

// ScanTokens scans the whole input. The result always ends with one EOF token.
func (s *Scanner) ScanTokens() []token.Token {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.New(token.EOF, "", nil, s.line))
	return s.tokens
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.add(token.LeftParen)
	case ')':
		s.add(token.RightParen)
	case '{':
		s.add(token.LeftBrace)
	case '}':
		s.add(token.RightBrace)
	case ',':
		s.add(token.Comma)
	case '.':
		s.add(token.Dot)
	case '-':
		s.add(token.Minus)
	case '+':
		s.add(token.Plus)
	case ';':
		s.add(token.Semicolon)
	case '*':
		s.add(token.Star)
	case '?':
		s.add(token.Question)
	case ':':
		s.add(token.Colon)
	case '!':
		s.addEither('=', token.BangEqual, token.Bang)
	case '=':
		s.addEither('=', token.EqualEqual, token.Equal)
	case '<':
		s.addEither('=', token.LessEqual, token.Less)
	case '>':
		s.addEither('=', token.GreaterEqual, token.Greater)
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
			return
		}
		s.add(token.Slash)
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.string()
	default:
		switch {
		case isDigit(c):
			s.number()
		case isAlpha(c):
			s.identifier()
		default:
			s.unexpected()
		}
	}
}

func (s *Scanner) string() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		s.reporter.Error(s.line, "Unterminated string.")
		return
	}
	s.advance()
	s.addLiteral(token.String, s.source[s.start+1:s.current-1])
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	text := s.source[s.start:s.current]
	// Literals beyond float64 range come back as +Inf with ErrRange.
	value, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		s.reporter.Error(s.line, fmt.Sprintf("Invalid number '%s'.", text))
		return
	}
	s.addLiteral(token.Number, value)
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	s.add(token.Lookup(s.source[s.start:s.current]))
}

// unexpected reports the whole UTF-8 sequence starting at the offending byte.
func (s *Scanner) unexpected() {
	r, size := utf8.DecodeRuneInString(s.source[s.start:])
	if size > 1 {
		s.current = s.start + size
	}
	s.reporter.Error(s.line, fmt.Sprintf("Unexpected character '%c'.", r))
}

func (s *Scanner) add(kind token.Kind) {
	s.addLiteral(kind, nil)
}

func (s *Scanner) addLiteral(kind token.Kind, literal any) {
	s.tokens = append(s.tokens, token.New(kind, s.source[s.start:s.current], literal, s.line))
}

func (s *Scanner) addEither(next byte, matched, single token.Kind) {
	if s.match(next) {
		s.add(matched)
		return
	}
	s.add(single)
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
