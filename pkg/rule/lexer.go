package rule

import (
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	return isSpace(ch) || strings.IndexByte("()!=&|\"'", ch) >= 0
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		ch := input[i]
		if isSpace(ch) {
			i++
			continue
		}

		// two-character operators first
		if i+1 < len(input) {
			switch input[i : i+2] {
			case "==":
				tokens = append(tokens, token{kind: tokenEq, raw: "=="})
				i += 2
				continue
			case "!=":
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				i += 2
				continue
			case "&&":
				tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
				i += 2
				continue
			case "||":
				tokens = append(tokens, token{kind: tokenOr, raw: "||"})
				i += 2
				continue
			}
		}

		switch ch {
		case '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
			continue
		case ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
			continue
		case '!':
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			i++
			continue
		case '=':
			return nil, syntaxErr("unexpected '='; use '=='")
		case '&':
			return nil, syntaxErr("unexpected '&'; use '&&'")
		case '|':
			return nil, syntaxErr("unexpected '|'; use '||'")
		case '"', '\'':
			value, next, err := readString(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i = next
			continue
		}

		start := i
		for i < len(input) && !isDelimiter(input[i]) {
			i++
		}
		tokens = append(tokens, classify(input[start:i]))
	}
	return tokens, nil
}

// readString consumes a quoted literal starting at input[start] and returns
// the unquoted value and the index after the closing quote.
func readString(input string, start int) (string, int, error) {
	quote := input[start]
	escaped := false
	for i := start + 1; i < len(input); i++ {
		c := input[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == quote:
			body := input[start+1 : i]
			if quote == '\'' {
				body = strings.ReplaceAll(body, `\'`, `'`)
				body = strings.ReplaceAll(body, `"`, `\"`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return "", 0, syntaxErr("invalid string literal %s", input[start:i+1])
			}
			return value, i + 1, nil
		}
	}
	return "", 0, syntaxErr("unterminated string literal")
}

func classify(raw string) token {
	switch strings.ToLower(raw) {
	case "true", "false":
		return token{kind: tokenBool, raw: strings.ToLower(raw)}
	case "null", "nil":
		return token{kind: tokenNull, raw: "null"}
	}
	if ch := raw[0]; (ch >= '0' && ch <= '9') || ch == '-' || ch == '+' || ch == '.' {
		return token{kind: tokenNumber, raw: raw}
	}
	return token{kind: tokenIdentifier, raw: raw}
}
