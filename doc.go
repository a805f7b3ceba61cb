package parsekit

// Package parsekit provides:
//
// - A bidirectional parser-combinator core: every Parser[T] carries a parse
//   direction (Cursor -> Result[T]) and an optional format direction
//   (T -> string), so well-formed text round-trips through parse and format.
// - A primitive library (literals, patterns, numbers, character classes)
//   and the usual combinators (sequencing, alternation, repetition,
//   lookahead) with full backtracking.
// - A generator protocol (Generate/Next) for imperative, data-dependent
//   grammars that pure composition cannot express.
// - Position-accurate errors: ParseError renders a line/column message with
//   the offending source line and a caret.
//
// Design policy:
// - Keep the combinator core and primitives in the root package; put schema
//   descriptors and inference under schema/, field codecs under codec/, and
//   the CLI under cmd/parsekit.
// - Parsers are immutable after construction and safe for concurrent reuse.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	p := parsekit.Skip(parsekit.Integer(), parsekit.Literal("!"))
//	v, err := p.Parse("42!")
//
//	s := buildSchema()
//	values, err := schema.Parse(ctx, s, "10 20")
//	text, err := schema.Format(ctx, s, values)
