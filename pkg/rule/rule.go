// Package rule compiles the small boolean expressions used by form
// definitions for conditional `required` and `invisible` flags into
// model.Requirement values.
//
// Supported syntax:
//   - truthiness: `company` (true when the field is not blank)
//   - comparisons: `plan == "team"`, `seats != 0`, `newsletter == true`,
//     `referrer == null`
//   - composition: `!a`, `a && b`, `a || b`, parentheses
//
// Identifiers name field ids; values are the raw strings held in
// model.Fields.
package rule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
)

// ErrSyntax wraps every compile failure.
var ErrSyntax = errors.New("rule: syntax error")

// Compile parses expr into a computed requirement carrying expr as its
// source. A blank expression compiles to Static(true), mirroring a bare
// `required: true`.
func Compile(expr string) (model.Requirement, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return model.Static(true), nil
	}

	node, err := parse(trimmed)
	if err != nil {
		return model.Requirement{}, err
	}
	return model.ComputedFrom(trimmed, node.eval), nil
}

// MustCompile panics when expr does not compile. Useful for package-level
// field spec tables.
func MustCompile(expr string) model.Requirement {
	req, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return req
}

// Identifiers lists the field ids referenced by expr, in first-use order.
func Identifiers(expr string) ([]string, error) {
	tokens, err := tokenize(strings.TrimSpace(expr))
	if err != nil {
		return nil, err
	}
	var out []string
	seen := make(map[string]struct{})
	for i, tok := range tokens {
		if tok.kind != tokenIdentifier {
			continue
		}
		// bare identifiers on the right of a comparison are string literals
		if i > 0 && (tokens[i-1].kind == tokenEq || tokens[i-1].kind == tokenNeq) {
			continue
		}
		if _, ok := seen[tok.raw]; ok {
			continue
		}
		seen[tok.raw] = struct{}{}
		out = append(out, tok.raw)
	}
	return out, nil
}

func syntaxErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}

type node interface {
	eval(fields model.Fields) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(fields model.Fields) bool {
	return n.left.eval(fields) || n.right.eval(fields)
}

type andNode struct{ left, right node }

func (n andNode) eval(fields model.Fields) bool {
	return n.left.eval(fields) && n.right.eval(fields)
}

type notNode struct{ inner node }

func (n notNode) eval(fields model.Fields) bool {
	return !n.inner.eval(fields)
}

type truthyNode struct{ field string }

func (n truthyNode) eval(fields model.Fields) bool {
	return strings.TrimSpace(fields[n.field]) != ""
}

type literalKind int

const (
	litString literalKind = iota
	litNumber
	litBool
	litNull
)

type compareNode struct {
	field  string
	negate bool
	kind   literalKind
	str    string
	num    float64
	flag   bool
}

func (n compareNode) eval(fields model.Fields) bool {
	value, present := fields[n.field]
	var match bool
	switch n.kind {
	case litNull:
		match = !present || value == ""
	case litBool:
		got, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			got = strings.TrimSpace(value) != ""
		}
		match = got == n.flag
	case litNumber:
		got, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			got = 0
		}
		match = got == n.num
	default:
		match = value == n.str
	}
	if n.negate {
		return !match
	}
	return match
}

func parse(expr string) (node, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, syntaxErr("empty expression")
	}
	p := &parser{tokens: tokens}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, syntaxErr("unexpected token %q", p.tokens[p.pos].raw)
	}
	return n, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(tokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(tokenAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.match(tokenNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.match(tokenLParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.match(tokenRParen) {
			return nil, syntaxErr("missing closing ')'")
		}
		return inner, nil
	}

	if p.pos >= len(p.tokens) {
		return nil, syntaxErr("unexpected end of expression")
	}
	ident := p.tokens[p.pos]
	if ident.kind != tokenIdentifier {
		return nil, syntaxErr("expected field name, got %q", ident.raw)
	}
	p.pos++

	switch {
	case p.match(tokenEq):
		return p.comparison(ident.raw, false)
	case p.match(tokenNeq):
		return p.comparison(ident.raw, true)
	default:
		return truthyNode{field: ident.raw}, nil
	}
}

func (p *parser) comparison(field string, negate bool) (node, error) {
	if p.pos >= len(p.tokens) {
		return nil, syntaxErr("missing literal after %q", field)
	}
	tok := p.tokens[p.pos]
	p.pos++

	n := compareNode{field: field, negate: negate}
	switch tok.kind {
	case tokenString, tokenIdentifier:
		n.kind, n.str = litString, tok.raw
	case tokenNumber:
		value, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return nil, syntaxErr("invalid number literal %q", tok.raw)
		}
		n.kind, n.num = litNumber, value
	case tokenBool:
		n.kind, n.flag = litBool, tok.raw == "true"
	case tokenNull:
		n.kind = litNull
	default:
		return nil, syntaxErr("expected literal, got %q", tok.raw)
	}
	return n, nil
}

func (p *parser) match(kind tokenKind) bool {
	if p.pos >= len(p.tokens) || p.tokens[p.pos].kind != kind {
		return false
	}
	p.pos++
	return true
}
