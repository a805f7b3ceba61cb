package codec

import (
	"strconv"
	"strings"

	"github.com/reoring/parsekit"
)

// Quoted parses a double-quoted Go string literal, yielding the unquoted
// value. Formatting quotes with strconv.Quote, so values containing the
// schema separator (or any whitespace) survive a round trip.
func Quoted() parsekit.Parser[string] {
	p := parsekit.New(func(c parsekit.Cursor) parsekit.Result[string] {
		rest := c.Rest()
		if !strings.HasPrefix(rest, `"`) {
			return parsekit.Failure[string](c.Offset(), "a quoted string")
		}
		end := quotedEnd(rest)
		if end < 0 {
			return parsekit.Failure[string](c.Offset(), "a closing quote")
		}
		v, err := strconv.Unquote(rest[:end])
		if err != nil {
			return parsekit.Failure[string](c.Offset(), "a valid quoted string")
		}
		return parsekit.Success(v, c.Advance(end))
	})
	return p.WithFormat(func(s string) (string, error) {
		return strconv.Quote(s), nil
	})
}

// quotedEnd finds the index just past the closing quote of a double-quoted
// literal starting at s[0], honoring backslash escapes. Returns -1 when the
// literal never closes.
func quotedEnd(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		case '\n':
			return -1
		}
	}
	return -1
}
