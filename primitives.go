package parsekit

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Literal matches the exact string s. The format direction emits s
// unconditionally, whatever value it is given.
func Literal(s string) Parser[string] {
	return NewBidi(
		func(c Cursor) Result[string] {
			if strings.HasPrefix(c.Rest(), s) {
				return Success(s, c.Advance(len(s)))
			}
			return Failure[string](c.Offset(), strconv.Quote(s))
		},
		func(string) (string, error) { return s, nil },
	)
}

// Pattern matches a regular expression anchored at the current offset, with
// the usual greedy quantifier semantics. The format direction is identity on
// the matched string. Pattern panics if expr does not compile, mirroring
// regexp.MustCompile; parsers are built once at startup.
func Pattern(expr string) Parser[string] {
	re := regexp.MustCompile(`^(?:` + expr + `)`)
	return NewBidi(
		func(c Cursor) Result[string] {
			loc := re.FindStringIndex(c.Rest())
			if loc == nil {
				return Failure[string](c.Offset(), "pattern "+strconv.Quote(expr))
			}
			m := c.Rest()[:loc[1]]
			return Success(m, c.Advance(loc[1]))
		},
		func(s string) (string, error) { return s, nil },
	)
}

// Word matches an alphanumeric-plus-underscore run.
func Word() Parser[string] {
	return Pattern(`[A-Za-z0-9_]+`).Desc("a word")
}

// Token matches a run of non-whitespace characters.
func Token() Parser[string] {
	return Pattern(`\S+`).Desc("a token")
}

// Whitespace matches one or more whitespace characters.
func Whitespace() Parser[string] {
	return Pattern(`\s+`).Desc("whitespace")
}

// Integer matches an optional leading '-' followed by one or more digits,
// rejecting the match when it is the prefix of a float (a '.', 'e' or 'E'
// immediately follows the digits). Formats via standard decimal notation.
func Integer() Parser[int64] {
	return NewBidi(
		func(c Cursor) Result[int64] {
			rest := c.Rest()
			i := 0
			if i < len(rest) && rest[i] == '-' {
				i++
			}
			start := i
			for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
				i++
			}
			if i == start {
				return Failure[int64](c.Offset(), "an integer")
			}
			if i < len(rest) && (rest[i] == '.' || rest[i] == 'e' || rest[i] == 'E') {
				return Failure[int64](c.Offset(), "an integer")
			}
			v, err := strconv.ParseInt(rest[:i], 10, 64)
			if err != nil {
				return Failure[int64](c.Offset(), "an integer")
			}
			return Success(v, c.Advance(i))
		},
		func(v int64) (string, error) { return strconv.FormatInt(v, 10), nil },
	)
}

var floatRe = regexp.MustCompile(`^(?:-?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?)`)

// Float matches decimal and scientific-notation literals. The format
// direction uses the shortest representation that re-parses to the same
// value, so parse-format-parse is stable even when the text changes shape
// ("1.0" formats as "1").
func Float() Parser[float64] {
	return NewBidi(
		func(c Cursor) Result[float64] {
			loc := floatRe.FindStringIndex(c.Rest())
			if loc == nil {
				return Failure[float64](c.Offset(), "a number")
			}
			v, err := strconv.ParseFloat(c.Rest()[:loc[1]], 64)
			if err != nil {
				return Failure[float64](c.Offset(), "a number")
			}
			return Success(v, c.Advance(loc[1]))
		},
		func(v float64) (string, error) { return strconv.FormatFloat(v, 'g', -1, 64), nil },
	)
}

// AnyChar matches any single character.
func AnyChar() Parser[string] {
	return charWhere(func(rune) bool { return true }, "any character")
}

// Letter matches a single Unicode letter.
func Letter() Parser[string] {
	return Pattern(`\pL`).Desc("a letter")
}

// Digit matches a single decimal digit.
func Digit() Parser[string] {
	return Pattern(`[0-9]`).Desc("a digit")
}

// CharFrom matches one character drawn from set.
func CharFrom(set string) Parser[string] {
	return charWhere(func(r rune) bool { return strings.ContainsRune(set, r) },
		"one of "+strconv.Quote(set))
}

// StringFrom matches a run of characters drawn from set, at least min long
// and at most max long (max < 0 means unbounded).
func StringFrom(set string, min, max int) Parser[string] {
	return Concat(TimesRange(CharFrom(set), min, max))
}

// Take consumes exactly n characters.
func Take(n int) Parser[string] {
	return Concat(Times(AnyChar(), n))
}

// EOF succeeds only at end of input and consumes nothing.
func EOF() Parser[string] {
	return NewBidi(
		func(c Cursor) Result[string] {
			if c.AtEnd() {
				return Success("", c)
			}
			return Failure[string](c.Offset(), "end of input")
		},
		func(string) (string, error) { return "", nil },
	)
}

// Succeed always succeeds with v, consuming nothing. Formats as the empty
// string.
func Succeed[T any](v T) Parser[T] {
	return NewBidi(
		func(c Cursor) Result[T] { return Success(v, c) },
		func(T) (string, error) { return "", nil },
	)
}

// FailWith always fails with the given expected-description.
func FailWith[T any](expected string) Parser[T] {
	return New(func(c Cursor) Result[T] {
		return Failure[T](c.Offset(), expected)
	})
}

// Index succeeds with the current offset, consuming nothing.
func Index() Parser[int] {
	return New(func(c Cursor) Result[int] { return Success(c.Offset(), c) })
}

func charWhere(pred func(rune) bool, description string) Parser[string] {
	return NewBidi(
		func(c Cursor) Result[string] {
			rest := c.Rest()
			if rest == "" {
				return Failure[string](c.Offset(), description)
			}
			r, size := utf8.DecodeRuneInString(rest)
			if !pred(r) {
				return Failure[string](c.Offset(), description)
			}
			return Success(rest[:size], c.Advance(size))
		},
		func(s string) (string, error) { return s, nil },
	)
}
