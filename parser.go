package parsekit

// Parser pairs a parse direction (Cursor -> Result[T]) with an optional
// format direction (T -> string). Parsers are immutable values; combinators
// return new parsers and never mutate their inputs, so a Parser may be
// shared freely across goroutines.
type Parser[T any] struct {
	run    func(Cursor) Result[T]
	format func(T) (string, error)
}

// New returns a parser with only a parse direction.
func New[T any](run func(Cursor) Result[T]) Parser[T] {
	return Parser[T]{run: run}
}

// NewBidi returns a parser with both directions populated.
func NewBidi[T any](run func(Cursor) Result[T], format func(T) (string, error)) Parser[T] {
	return Parser[T]{run: run, format: format}
}

// Run executes the parse direction at the given cursor.
func (p Parser[T]) Run(c Cursor) Result[T] { return p.run(c) }

// CanFormat reports whether the parser has a format direction.
func (p Parser[T]) CanFormat() bool { return p.format != nil }

// Format renders a value back to text. Parsers built with Map (or any other
// combinator that cannot derive an inverse) have no format direction and
// return a *ConfigError; schema compilation rejects such parsers up front so
// callers normally never see it here.
func (p Parser[T]) Format(v T) (string, error) {
	if p.format == nil {
		return "", &ConfigError{Reason: "parser has no format direction"}
	}
	return p.format(v)
}

// WithFormat returns a copy of the parser with the format direction
// replaced.
func (p Parser[T]) WithFormat(format func(T) (string, error)) Parser[T] {
	p.format = format
	return p
}

// Desc overrides the expected-description reported when the parser fails,
// anchoring the failure at the position the parser started from.
func (p Parser[T]) Desc(description string) Parser[T] {
	run := p.run
	p.run = func(c Cursor) Result[T] {
		r := run(c)
		if r.Ok() {
			return r
		}
		return Failure[T](c.Offset(), description)
	}
	return p
}

// Parse runs the parser over text and requires full consumption: any
// unconsumed trailing input is a *ParseError at the offset where parsing
// stopped.
func (p Parser[T]) Parse(text string) (T, error) {
	var zero T
	r := p.run(NewCursor(text))
	if !r.Ok() {
		return zero, newParseError(text, r.Pos(), r.Expected())
	}
	if !r.Cursor().AtEnd() {
		return zero, newParseError(text, r.Cursor().Offset(), "end of input")
	}
	return r.Value(), nil
}

// ParsePartial runs the parser over a prefix of text and returns the value
// together with the unconsumed remainder, verbatim.
func (p Parser[T]) ParsePartial(text string) (T, string, error) {
	var zero T
	r := p.run(NewCursor(text))
	if !r.Ok() {
		return zero, "", newParseError(text, r.Pos(), r.Expected())
	}
	return r.Value(), r.Cursor().Rest(), nil
}
