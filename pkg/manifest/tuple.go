// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrTupleSyntax is wrapped by every tuple tokenizer failure.
var ErrTupleSyntax = errors.New("unsupported tuple literal")

// tupleScanner walks the inside of a parenthesized literal. It understands
// numbers, quoted strings and identifiers separated by commas, and nothing
// else: operators, calls and nested tuples are rejected.
type tupleScanner struct {
	src string
	pos int
}

// parseTuple splits a literal such as `(1, 2, "rc")` into its elements.
// `(1,)` and `(1)` both yield one element; `()` yields none.
func parseTuple(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)
	if len(text) < 2 || text[0] != '(' || text[len(text)-1] != ')' {
		return nil, fmt.Errorf("%w: %q is not parenthesized", ErrTupleSyntax, raw)
	}

	s := &tupleScanner{src: text[1 : len(text)-1]}
	elems := make([]string, 0, 4)
	for {
		s.skipSpace()
		if s.done() {
			return elems, nil
		}

		elem, err := s.element()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)

		s.skipSpace()
		if s.done() {
			return elems, nil
		}
		if s.src[s.pos] != ',' {
			return nil, fmt.Errorf("%w: expected ',' at offset %d in %q", ErrTupleSyntax, s.pos, raw)
		}
		s.pos++
	}
}

func (s *tupleScanner) done() bool { return s.pos >= len(s.src) }

func (s *tupleScanner) skipSpace() {
	for !s.done() && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

func (s *tupleScanner) element() (string, error) {
	c := s.src[s.pos]
	switch {
	case c == '"' || c == '\'':
		return s.quoted(c)
	case isDigit(c) || c == '-' || c == '+' || c == '.':
		return s.number()
	case isIdentStart(c):
		return s.identifier(), nil
	default:
		return "", fmt.Errorf("%w: unexpected %q at offset %d", ErrTupleSyntax, c, s.pos)
	}
}

func (s *tupleScanner) quoted(quote byte) (string, error) {
	start := s.pos
	s.pos++

	var sb strings.Builder
	for !s.done() {
		c := s.src[s.pos]
		switch {
		case c == '\\' && s.pos+1 < len(s.src):
			sb.WriteByte(unescape(s.src[s.pos+1]))
			s.pos += 2
		case c == quote:
			s.pos++
			return sb.String(), nil
		default:
			sb.WriteByte(c)
			s.pos++
		}
	}
	return "", fmt.Errorf("%w: unterminated string starting at offset %d", ErrTupleSyntax, start)
}

func (s *tupleScanner) number() (string, error) {
	start := s.pos
	if c := s.src[s.pos]; c == '-' || c == '+' {
		s.pos++
	}

	digits, dots := 0, 0
	for !s.done() {
		c := s.src[s.pos]
		if isDigit(c) {
			digits++
		} else if c == '.' && dots == 0 {
			dots++
		} else {
			break
		}
		s.pos++
	}

	if digits == 0 {
		return "", fmt.Errorf("%w: malformed number at offset %d", ErrTupleSyntax, start)
	}
	if !s.done() && !isSpace(s.src[s.pos]) && s.src[s.pos] != ',' {
		return "", fmt.Errorf("%w: unexpected %q after number at offset %d", ErrTupleSyntax, s.src[s.pos], s.pos)
	}
	return canonicalNumber(s.src[start:s.pos], dots > 0), nil
}

// canonicalNumber renders a numeric literal the way the evaluated value
// prints: "+2" is "2", "1.50" is "1.5" and "3." is "3.0". Literals outside
// the int64/float64 range keep their source spelling.
func canonicalNumber(lit string, float bool) string {
	if !float {
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return lit
		}
		return strconv.FormatInt(n, 10)
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

func (s *tupleScanner) identifier() string {
	start := s.pos
	for !s.done() && (isIdentStart(s.src[s.pos]) || isDigit(s.src[s.pos])) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	default:
		return c
	}
}

func isSpace(c byte) bool      { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
