package validation

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*\.(?:[a-zA-Z]{2,}|xn--[a-zA-Z0-9-]{2,})$`)
	numericPattern = regexp.MustCompile(`^[+-]?(?:[0-9]*\.)?[0-9]+$`)
	floatPrefix    = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)
)

const (
	maxEmailLength    = 254
	maxEmailLocalPart = 64
)

// IsEmail reports whether s is a syntactically valid address. The empty
// string is not an address.
func IsEmail(s string) bool {
	if s == "" || len(s) > maxEmailLength {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at < 1 || at > maxEmailLocalPart {
		return false
	}
	local := s[:at]
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	return emailPattern.MatchString(s)
}

// IsNumeric reports whether s is a plain decimal number: optional sign,
// optional fractional part, no exponent, no surrounding space.
func IsNumeric(s string) bool {
	return numericPattern.MatchString(s)
}

// ParseFloat reads the longest decimal prefix of s after trimming leading
// whitespace, so "12px" parses as 12 and "px" fails.
func ParseFloat(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	switch {
	case strings.HasPrefix(trimmed, "Infinity"), strings.HasPrefix(trimmed, "+Infinity"):
		return math.Inf(1), true
	case strings.HasPrefix(trimmed, "-Infinity"):
		return math.Inf(-1), true
	}

	prefix := floatPrefix.FindString(trimmed)
	if prefix == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		// exponent overflow yields ±Inf with a range error; keep the value
		if errors.Is(err, strconv.ErrRange) {
			return value, true
		}
		return 0, false
	}
	return value, true
}
