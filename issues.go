package parsekit

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeInvalidFormat = "invalid_format"
	CodeParseError    = "parse_error"
	CodeConfigError   = "config_error"
	CodeUnknownField  = "unknown_field"
)

// Issue represents a single validation entry produced after a successful
// parse, for example by the reflection binder in the schema package. It is
// deliberately distinct from ParseError: callers can always tell "the text
// did not match the grammar" apart from "the text matched but violated a
// constraint".
type Issue struct {
	Path    string // slash-prefixed field path (for example: /count)
	Code    string // one of the codes listed above
	Message string
	Hint    string // optional: remediation hints
	Cause   error  // optional: underlying error
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice
// when needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
