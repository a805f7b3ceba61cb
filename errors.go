package parsekit

import (
	"fmt"
	"strings"

	"github.com/reoring/parsekit/i18n"
)

// ParseError reports that text did not match the grammar at some position.
// It carries the original input so the message can point at the offending
// line. ParseError is recoverable inside alternation; only the final,
// unhandled failure reaches the caller.
type ParseError struct {
	Text     string
	Offset   int
	Line     int // 1-based
	Column   int // 1-based
	Expected string
	Field    string // optional field-name context
}

func newParseError(text string, offset int, expected string) *ParseError {
	line, col := lineColumn(text, offset)
	return &ParseError{Text: text, Offset: offset, Line: line, Column: col, Expected: expected}
}

// NewParseError builds a ParseError at offset in text, computing the
// line/column from the text. For layers composing their own entry points on
// top of ParsePartial.
func NewParseError(text string, offset int, expected string) *ParseError {
	return newParseError(text, offset, expected)
}

// WithField returns a copy annotated with the field being parsed.
func (e *ParseError) WithField(name string) *ParseError {
	cp := *e
	cp.Field = name
	return &cp
}

// Error renders a three-line message: the sentence, the offending source
// line, and a caret pointing at the column.
func (e *ParseError) Error() string {
	b := &strings.Builder{}
	fieldPart := ""
	if e.Field != "" {
		fieldPart = fmt.Sprintf(" (field %q)", e.Field)
	}
	fmt.Fprintf(b, "%s at line %d, column %d%s: expected %s",
		i18n.T(CodeParseError, nil), e.Line, e.Column, fieldPart, e.Expected)
	if e.Text != "" {
		lines := strings.Split(e.Text, "\n")
		if e.Line-1 >= 0 && e.Line-1 < len(lines) {
			b.WriteString("\n")
			b.WriteString(lines[e.Line-1])
			b.WriteString("\n")
			b.WriteString(strings.Repeat(" ", e.Column-1))
			b.WriteString("^")
		}
	}
	return b.String()
}

// ConfigError reports a build-time misconfiguration: a schema field whose
// type has no inference rule, or a parser used for formatting without a
// format direction. It is raised when a schema's aggregate parser is first
// built, never at parse or format call time, so broken configurations fail
// deterministically regardless of input.
type ConfigError struct {
	Reason string
	Field  string // optional field-name context
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %s", i18n.T(CodeConfigError, nil), e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", i18n.T(CodeConfigError, nil), e.Reason)
}
