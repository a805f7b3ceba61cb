package schema

import (
	"errors"
	"fmt"

	"github.com/reoring/parsekit"
)

type kind int

const (
	kindPrimitive kind = iota
	kindOptional
	kindUnion
	kindLiteral
	kindList
	kindNested
)

type primitive int

const (
	primInt primitive = iota
	primFloat
	primString
	primBool
)

// Type describes the shape of one field. Descriptors are immutable values;
// WithParser and WithFormat return modified copies, so a descriptor can be
// shared between fields and schemas.
type Type struct {
	kind     kind
	prim     primitive
	inner    *Type   // Optional
	alts     []*Type // Union, in declared order
	lits     []string
	elem     *Type   // List element
	nested   *Schema // Nested record
	override *parsekit.Parser[any]
	format   func(any) (string, error)
}

// Int matches an integer literal (no fractional part, no exponent) and
// yields an int64.
func Int() *Type { return &Type{kind: kindPrimitive, prim: primInt} }

// Float matches a decimal number, optionally with fraction and exponent,
// and yields a float64.
func Float() *Type { return &Type{kind: kindPrimitive, prim: primFloat} }

// String matches a maximal run of non-whitespace characters.
func String() *Type { return &Type{kind: kindPrimitive, prim: primString} }

// Bool has no default textual form. Declaring a Bool field without
// WithParser is a configuration error reported when the schema compiles;
// attach an explicit parser mapping the concrete representation ("yes"/"no",
// "0"/"1", ...) to a bool.
func Bool() *Type { return &Type{kind: kindPrimitive, prim: primBool} }

// Optional wraps a descriptor so that absence of a match yields nil instead
// of a failure. Whether a malformed-but-present value is softened to nil is
// controlled by the schema's StrictOptional setting.
func Optional(inner *Type) *Type { return &Type{kind: kindOptional, inner: inner} }

// Union tries each alternative in declared order with full backtracking.
// When all alternatives fail, the one that progressed furthest names the
// error; ties keep the earlier alternative's description.
func Union(alts ...*Type) *Type { return &Type{kind: kindUnion, alts: alts} }

// Literal matches exactly one of the given strings, tried in declared
// order, and yields the matched string.
func Literal(values ...string) *Type { return &Type{kind: kindLiteral, lits: values} }

// List matches zero or more elements separated by the schema's separator.
func List(elem *Type) *Type { return &Type{kind: kindList, elem: elem} }

// Nested embeds another schema as a single field. The nested schema keeps
// its own separator; it does not inherit the outer one.
func Nested(s *Schema) *Type { return &Type{kind: kindNested, nested: s} }

// WithParser returns a copy of the descriptor whose parser is p instead of
// the inferred one. The override takes precedence over every inference rule.
// Use Erase to adapt a typed parser.
func (t *Type) WithParser(p parsekit.Parser[any]) *Type {
	cp := *t
	cp.override = &p
	return &cp
}

// WithFormat returns a copy whose format direction is replaced. Combine with
// WithParser when the explicit parser was built from Map and lost its
// inverse.
func (t *Type) WithFormat(format func(any) (string, error)) *Type {
	cp := *t
	cp.format = format
	return &cp
}

// Field is one named, typed slot of a Schema.
type Field struct {
	Name string
	Type *Type
	Desc string // optional human description, used in failure messages
}

// Schema is an ordered field list plus a separator specification. Build one
// with the Builder; a built Schema is immutable and safe for concurrent use.
// Schemas are compared by identity: the Cache memoizes per *Schema pointer.
type Schema struct {
	fields  []Field
	sep     parsekit.Parser[string]
	sepText string
	strict  bool
}

// Fields returns a copy of the ordered field list.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// SeparatorText returns the canonical text emitted between fields when
// formatting.
func (s *Schema) SeparatorText() string { return s.sepText }

// StrictOptional reports whether optional fields treat malformed-but-present
// values as hard failures.
func (s *Schema) StrictOptional() bool { return s.strict }

// Builder accumulates fields and settings for a Schema. The zero Builder is
// not usable; start from New.
type Builder struct {
	fields  []Field
	sep     parsekit.Parser[string]
	sepText string
	strict  bool
	errs    []error
}

// New returns a Builder with whitespace separation and strict optionals.
func New() *Builder {
	return &Builder{
		sep:     parsekit.Whitespace(),
		sepText: " ",
		strict:  true,
	}
}

// Field appends a field. Returns a FieldStep so a description can be chained
// before the next field.
func (b *Builder) Field(name string, t *Type) *FieldStep {
	if name == "" {
		b.errs = append(b.errs, &parsekit.ConfigError{Reason: "field name must not be empty"})
	}
	for _, f := range b.fields {
		if f.Name == name {
			b.errs = append(b.errs, &parsekit.ConfigError{Field: name, Reason: "duplicate field name"})
		}
	}
	b.fields = append(b.fields, Field{Name: name, Type: t})
	return &FieldStep{b: b}
}

// Separator sets a literal separator. It is both parsed between fields and
// emitted between them when formatting.
func (b *Builder) Separator(text string) *Builder {
	if text == "" {
		b.errs = append(b.errs, &parsekit.ConfigError{Reason: "separator must not be empty"})
		return b
	}
	b.sep = parsekit.Literal(text)
	b.sepText = text
	return b
}

// SeparatorParser sets a custom separator parser together with the canonical
// text emitted when formatting (a whitespace-run parser with canonical " ",
// for example).
func (b *Builder) SeparatorParser(p parsekit.Parser[string], canonical string) *Builder {
	b.sep = p
	b.sepText = canonical
	return b
}

// StrictOptional toggles optional-field strictness for the whole schema.
// Strict (the default) softens a failure to nil only when nothing parseable
// is present; lenient turns any optional failure into nil.
func (b *Builder) StrictOptional(on bool) *Builder {
	b.strict = on
	return b
}

// Build validates the accumulated definition and returns the Schema. All
// accumulated definition errors are reported together as parsekit.Issues.
func (b *Builder) Build() (*Schema, error) {
	if len(b.fields) == 0 {
		b.errs = append(b.errs, &parsekit.ConfigError{Reason: "schema needs at least one field"})
	}
	if len(b.errs) > 0 {
		var iss parsekit.Issues
		for _, err := range b.errs {
			issue := parsekit.Issue{Code: parsekit.CodeConfigError, Message: err.Error(), Cause: err}
			var ce *parsekit.ConfigError
			if errors.As(err, &ce) && ce.Field != "" {
				issue.Path = "/" + ce.Field
			}
			iss = parsekit.AppendIssues(iss, issue)
		}
		return nil, iss
	}
	fields := make([]Field, len(b.fields))
	copy(fields, b.fields)
	return &Schema{fields: fields, sep: b.sep, sepText: b.sepText, strict: b.strict}, nil
}

// MustBuild is Build but panics on definition errors. Intended for
// package-level schema variables.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("schema: build: %v", err))
	}
	return s
}

// FieldStep allows attaching a description to the field just declared. Every
// Builder method is forwarded, so field chains read naturally.
type FieldStep struct {
	b *Builder
}

// Desc sets the human description of the preceding field. It is used as the
// expected-description when that field fails to parse.
func (fs *FieldStep) Desc(d string) *Builder {
	fs.b.fields[len(fs.b.fields)-1].Desc = d
	return fs.b
}

func (fs *FieldStep) Field(name string, t *Type) *FieldStep     { return fs.b.Field(name, t) }
func (fs *FieldStep) Separator(text string) *Builder            { return fs.b.Separator(text) }
func (fs *FieldStep) StrictOptional(on bool) *Builder           { return fs.b.StrictOptional(on) }
func (fs *FieldStep) Build() (*Schema, error)                   { return fs.b.Build() }
func (fs *FieldStep) MustBuild() *Schema                        { return fs.b.MustBuild() }
func (fs *FieldStep) SeparatorParser(p parsekit.Parser[string], canonical string) *Builder {
	return fs.b.SeparatorParser(p, canonical)
}
