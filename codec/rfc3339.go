// Package codec provides bidirectional parsers for common wire scalars:
// values whose canonical text form differs from how they are stored in Go.
// Each parser's format direction emits the canonical rendering and then
// re-parses it, so anything a codec writes is guaranteed readable back.
package codec

import (
	"time"

	"github.com/reoring/parsekit"
)

// RFC3339 timestamps embedded in running text: date, 'T', clock, optional
// fractional seconds, then 'Z' or a numeric zone offset.
const rfc3339Expr = `\d{4}-\d{2}-\d{2}[Tt]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:[Zz]|[+-]\d{2}:\d{2})`

// TimeRFC3339 parses an RFC3339 timestamp to time.Time. Formatting
// normalizes to UTC and uses RFC3339Nano (trailing zeros trimmed), so
// "2025-01-01T09:00:00+09:00" round-trips as "2025-01-01T00:00:00Z": the
// instant is preserved, the rendering is canonical.
func TimeRFC3339() parsekit.Parser[time.Time] {
	lexeme := parsekit.Pattern(rfc3339Expr).Desc("an RFC3339 timestamp")
	p := parsekit.New(func(c parsekit.Cursor) parsekit.Result[time.Time] {
		r := lexeme.Run(c)
		if !r.Ok() {
			return parsekit.Failure[time.Time](r.Pos(), r.Expected())
		}
		t, err := parseRFC3339(r.Value())
		if err != nil {
			return parsekit.Failure[time.Time](c.Offset(), "a valid RFC3339 timestamp")
		}
		return parsekit.Success(t, r.Cursor())
	})
	return p.WithFormat(func(t time.Time) (string, error) {
		s := formatRFC3339Canonical(t)
		// canonical output must parse back; years outside 0000-9999 cannot
		if _, err := parseRFC3339(s); err != nil {
			return "", parsekit.Issues{{
				Path:    "/",
				Code:    parsekit.CodeInvalidFormat,
				Message: "time does not render as RFC3339",
				Cause:   err,
			}}
		}
		return s, nil
	})
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
