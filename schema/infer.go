package schema

import (
	"fmt"
	"reflect"

	"github.com/reoring/parsekit"
)

// Erase adapts a typed parser to the any-valued shape field overrides use.
// The parse direction wraps values as-is; the format direction accepts the
// exact type or any value convertible to it within the numeric kinds (so an
// int formats through an int64 parser).
func Erase[T any](p parsekit.Parser[T]) parsekit.Parser[any] {
	out := parsekit.New(func(c parsekit.Cursor) parsekit.Result[any] {
		r := p.Run(c)
		if !r.Ok() {
			return parsekit.Failure[any](r.Pos(), r.Expected())
		}
		return parsekit.Success[any](r.Value(), r.Cursor())
	})
	if !p.CanFormat() {
		return out
	}
	return out.WithFormat(func(v any) (string, error) {
		tv, ok := coerce[T](v)
		if !ok {
			return "", parsekit.Issues{{
				Code:    parsekit.CodeInvalidType,
				Message: fmt.Sprintf("cannot format %T as %T", v, tv),
			}}
		}
		return p.Format(tv)
	})
}

// coerce narrows an any to T, allowing numeric-kind conversions (int -> int64,
// float32 -> float64) but nothing else: string/number cross-conversions would
// silently produce garbage, and float -> int would silently truncate.
func coerce[T any](v any) (T, bool) {
	var zero T
	if tv, ok := v.(T); ok {
		return tv, true
	}
	tt := reflect.TypeOf(zero)
	if v == nil || tt == nil {
		return zero, false
	}
	rv := reflect.ValueOf(v)
	if convertibleNumeric(rv.Kind(), tt.Kind()) && rv.Type().ConvertibleTo(tt) {
		return rv.Convert(tt).Interface().(T), true
	}
	return zero, false
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func floatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// convertibleNumeric permits numeric conversions except float -> integer,
// which truncates the fraction (2.7 would become 2).
func convertibleNumeric(from, to reflect.Kind) bool {
	if !numericKind(from) || !numericKind(to) {
		return false
	}
	if floatKind(from) && !floatKind(to) {
		return false
	}
	return true
}

// inferField resolves one field to its any-valued parser. Resolution order:
// explicit override first, then the descriptor walk. A field description, if
// present, replaces the failure message for the whole field.
func inferField(cache *Cache, s *Schema, f Field) (parsekit.Parser[any], error) {
	if f.Type == nil {
		return parsekit.Parser[any]{}, &parsekit.ConfigError{Field: f.Name, Reason: "field has no type descriptor"}
	}
	p, err := inferType(cache, s, f.Type)
	if err != nil {
		annotateField(err, f.Name)
		return parsekit.Parser[any]{}, err
	}
	if f.Desc != "" {
		p = p.Desc(f.Desc)
	}
	return p, nil
}

func annotateField(err error, name string) {
	if ce, ok := err.(*parsekit.ConfigError); ok && ce.Field == "" {
		ce.Field = name
	}
}

func inferType(cache *Cache, s *Schema, t *Type) (parsekit.Parser[any], error) {
	if t.override != nil {
		p := *t.override
		if t.format != nil {
			p = p.WithFormat(t.format)
		}
		return p, nil
	}
	var p parsekit.Parser[any]
	var err error
	switch t.kind {
	case kindPrimitive:
		p, err = inferPrimitive(t.prim)
	case kindOptional:
		p, err = inferOptional(cache, s, t)
	case kindUnion:
		p, err = inferUnion(cache, s, t)
	case kindLiteral:
		p, err = inferLiteral(t)
	case kindList:
		p, err = inferList(cache, s, t)
	case kindNested:
		p, err = inferNested(cache, t)
	default:
		err = &parsekit.ConfigError{Reason: "unknown type descriptor"}
	}
	if err != nil {
		return parsekit.Parser[any]{}, err
	}
	if t.format != nil {
		p = p.WithFormat(t.format)
	}
	return p, nil
}

func inferPrimitive(prim primitive) (parsekit.Parser[any], error) {
	switch prim {
	case primInt:
		return Erase(parsekit.Integer()), nil
	case primFloat:
		return Erase(parsekit.Float()), nil
	case primString:
		return Erase(parsekit.Token()), nil
	case primBool:
		return parsekit.Parser[any]{}, &parsekit.ConfigError{
			Reason: "bool has no default textual form; attach an explicit parser with WithParser",
		}
	}
	return parsekit.Parser[any]{}, &parsekit.ConfigError{Reason: "unknown primitive"}
}

// inferOptional wraps the inner parser so absence yields a nil any. The
// strictness policy is the schema's: strict softens only pure absence
// (nothing consumed, input exhausted), lenient softens every failure.
func inferOptional(cache *Cache, s *Schema, t *Type) (parsekit.Parser[any], error) {
	inner, err := inferType(cache, s, t.inner)
	if err != nil {
		return parsekit.Parser[any]{}, err
	}
	strict := s.strict
	out := parsekit.New(func(c parsekit.Cursor) parsekit.Result[any] {
		r := inner.Run(c)
		if r.Ok() {
			return r
		}
		if strict && !(r.Pos() == c.Offset() && c.AtEnd()) {
			return r
		}
		return parsekit.Success[any](nil, c)
	})
	if !inner.CanFormat() {
		return out, nil
	}
	return out.WithFormat(func(v any) (string, error) {
		if v == nil {
			return "", nil
		}
		return inner.Format(v)
	}), nil
}

func inferUnion(cache *Cache, s *Schema, t *Type) (parsekit.Parser[any], error) {
	if len(t.alts) == 0 {
		return parsekit.Parser[any]{}, &parsekit.ConfigError{Reason: "union needs at least one alternative"}
	}
	alts := make([]parsekit.Parser[any], len(t.alts))
	for i, at := range t.alts {
		p, err := inferType(cache, s, at)
		if err != nil {
			return parsekit.Parser[any]{}, err
		}
		alts[i] = p
	}
	return parsekit.Or(alts...), nil
}

// inferLiteral matches one of the declared strings, earlier declarations
// winning. Formatting is the identity on the string, rejected when the value
// is not one of the declared alternatives.
func inferLiteral(t *Type) (parsekit.Parser[any], error) {
	if len(t.lits) == 0 {
		return parsekit.Parser[any]{}, &parsekit.ConfigError{Reason: "literal needs at least one value"}
	}
	values := append([]string(nil), t.lits...)
	alts := make([]parsekit.Parser[string], len(values))
	for i, v := range values {
		alts[i] = parsekit.Literal(v)
	}
	p := Erase(parsekit.Or(alts...))
	return p.WithFormat(func(v any) (string, error) {
		sv, ok := v.(string)
		if !ok {
			return "", parsekit.Issues{{
				Code:    parsekit.CodeInvalidType,
				Message: fmt.Sprintf("literal wants a string, got %T", v),
			}}
		}
		for _, want := range values {
			if sv == want {
				return sv, nil
			}
		}
		return "", parsekit.Issues{{
			Code:    parsekit.CodeInvalidFormat,
			Message: fmt.Sprintf("%q is not one of the declared literals %v", sv, values),
		}}
	}), nil
}

// inferList parses elements separated by the schema separator; the value is
// a []any. Zero elements succeed with an empty slice.
func inferList(cache *Cache, s *Schema, t *Type) (parsekit.Parser[any], error) {
	elem, err := inferType(cache, s, t.elem)
	if err != nil {
		return parsekit.Parser[any]{}, err
	}
	list := parsekit.SepByText(elem, s.sep, s.sepText)
	out := Erase(list)
	if !elem.CanFormat() {
		return out, nil
	}
	return out.WithFormat(func(v any) (string, error) {
		items, ok := toAnySlice(v)
		if !ok {
			return "", parsekit.Issues{{
				Code:    parsekit.CodeInvalidType,
				Message: fmt.Sprintf("list wants a slice, got %T", v),
			}}
		}
		return list.Format(items)
	}), nil
}

// toAnySlice widens any slice value to []any. Non-slice values are rejected.
func toAnySlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func inferNested(cache *Cache, t *Type) (parsekit.Parser[any], error) {
	if t.nested == nil {
		return parsekit.Parser[any]{}, &parsekit.ConfigError{Reason: "nested descriptor has no schema"}
	}
	entry, err := cache.lookupOrBuild(t.nested)
	if err != nil {
		return parsekit.Parser[any]{}, err
	}
	p := Erase(entry.parser)
	return p.WithFormat(func(v any) (string, error) {
		m, ok := v.(map[string]any)
		if !ok {
			return "", parsekit.Issues{{
				Code:    parsekit.CodeInvalidType,
				Message: fmt.Sprintf("nested record wants map[string]any, got %T", v),
			}}
		}
		return entry.format(m)
	}), nil
}
