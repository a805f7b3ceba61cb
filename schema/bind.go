package schema

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/reoring/parsekit"
)

// Constructor turns a parsed field-value map into a domain value. It is the
// validation collaborator: any error it returns is surfaced unchanged, so
// callers can distinguish grammar failures (*parsekit.ParseError) from
// domain rejections (whatever the Constructor returns, typically
// parsekit.Issues).
type Constructor[T any] interface {
	Construct(ctx context.Context, fields map[string]any) (T, error)
}

// ConstructorFunc adapts a function to the Constructor interface.
type ConstructorFunc[T any] func(ctx context.Context, fields map[string]any) (T, error)

func (f ConstructorFunc[T]) Construct(ctx context.Context, fields map[string]any) (T, error) {
	return f(ctx, fields)
}

// Typed couples a schema with a Constructor for T and, when available, the
// inverse that turns T back into a field-value map for formatting.
type Typed[T any] struct {
	schema *Schema
	cache  *Cache
	ctor   Constructor[T]
	decon  func(T) (map[string]any, error)
}

// Bind builds a Typed[T] whose Constructor and deconstructor are derived by
// reflection over T's struct fields. Field names resolve through the `parse`
// struct tag, then the `json` tag, then the Go field name. Every schema
// field must resolve to a settable struct field; the schema is compiled
// eagerly so configuration errors surface here, not at first parse.
func Bind[T any](s *Schema) (*Typed[T], error) {
	return BindOn[T](DefaultCache, s)
}

// BindOn is Bind against an explicit cache.
func BindOn[T any](cache *Cache, s *Schema) (*Typed[T], error) {
	if cache == nil {
		cache = DefaultCache
	}
	if _, err := cache.lookupOrBuild(s); err != nil {
		return nil, err
	}
	var zero T
	rt := reflect.TypeOf(zero)
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, &parsekit.ConfigError{Reason: fmt.Sprintf("Bind wants a struct type, got %T", zero)}
	}
	if _, err := fieldIndex(rt, s); err != nil {
		return nil, err
	}
	return &Typed[T]{
		schema: s,
		cache:  cache,
		ctor: ConstructorFunc[T](func(_ context.Context, fields map[string]any) (T, error) {
			var out T
			rv := reflect.ValueOf(&out).Elem()
			if iss := assignStruct(rv, s, fields, ""); len(iss) > 0 {
				return out, iss
			}
			return out, nil
		}),
		decon: func(v T) (map[string]any, error) {
			return deconstructStruct(reflect.ValueOf(v), s)
		},
	}, nil
}

// MustBind is Bind but panics on configuration errors. Intended for
// package-level variables.
func MustBind[T any](s *Schema) *Typed[T] {
	t, err := Bind[T](s)
	if err != nil {
		panic(fmt.Sprintf("schema: bind: %v", err))
	}
	return t
}

// BindFunc builds a Typed[T] around a caller-supplied Constructor. The
// result has no format direction until WithDeconstructor supplies one.
func BindFunc[T any](s *Schema, ctor Constructor[T]) *Typed[T] {
	return &Typed[T]{schema: s, cache: DefaultCache, ctor: ctor}
}

// WithDeconstructor returns a copy able to format: decon inverts the
// Constructor, producing the field-value map that Format renders.
func (t *Typed[T]) WithDeconstructor(decon func(T) (map[string]any, error)) *Typed[T] {
	cp := *t
	cp.decon = decon
	return &cp
}

// WithCache returns a copy using the given cache.
func (t *Typed[T]) WithCache(cache *Cache) *Typed[T] {
	cp := *t
	cp.cache = cache
	return &cp
}

// Schema returns the bound schema.
func (t *Typed[T]) Schema() *Schema { return t.schema }

// Parse parses text fully, then constructs T from the field-value map.
func (t *Typed[T]) Parse(ctx context.Context, text string) (T, error) {
	var zero T
	entry, err := t.cache.lookupOrBuild(t.schema)
	if err != nil {
		return zero, err
	}
	values, err := entry.parseFull(t.schema, text)
	if err != nil {
		return zero, err
	}
	return t.ctor.Construct(ctx, values)
}

// ParsePartial parses a prefix of text and returns T together with the
// unconsumed remainder.
func (t *Typed[T]) ParsePartial(ctx context.Context, text string) (T, string, error) {
	var zero T
	entry, err := t.cache.lookupOrBuild(t.schema)
	if err != nil {
		return zero, "", err
	}
	values, rest, err := entry.parser.ParsePartial(text)
	if err != nil {
		return zero, "", err
	}
	v, err := t.ctor.Construct(ctx, values)
	if err != nil {
		return zero, "", err
	}
	return v, rest, nil
}

// Format renders v back to text through the deconstructor and the schema's
// formatter.
func (t *Typed[T]) Format(ctx context.Context, v T) (string, error) {
	_ = ctx
	if t.decon == nil {
		return "", &parsekit.ConfigError{Reason: "no deconstructor; use Bind or WithDeconstructor"}
	}
	entry, err := t.cache.lookupOrBuild(t.schema)
	if err != nil {
		return "", err
	}
	values, err := t.decon(v)
	if err != nil {
		return "", err
	}
	return entry.format(values)
}

// resolveStructKey maps a struct field to the schema field name it binds:
// the `parse` tag, then the `json` tag (name part only), then the Go field
// name verbatim. A "-" tag opts the field out.
func resolveStructKey(f reflect.StructField) string {
	for _, tag := range []string{"parse", "json"} {
		if v, ok := f.Tag.Lookup(tag); ok {
			name := strings.Split(v, ",")[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
	}
	return f.Name
}

// fieldIndex maps every schema field name to the struct field that binds it.
func fieldIndex(rt reflect.Type, s *Schema) (map[string]int, error) {
	byKey := make(map[string]int, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		if key := resolveStructKey(f); key != "" {
			byKey[key] = i
		}
	}
	idx := make(map[string]int, len(s.fields))
	for _, sf := range s.fields {
		i, ok := byKey[sf.Name]
		if !ok {
			return nil, &parsekit.ConfigError{
				Field:  sf.Name,
				Reason: fmt.Sprintf("no struct field on %s binds this schema field", rt),
			}
		}
		idx[sf.Name] = i
	}
	return idx, nil
}

func assignStruct(rv reflect.Value, s *Schema, fields map[string]any, path string) parsekit.Issues {
	idx, err := fieldIndex(rv.Type(), s)
	if err != nil {
		return parsekit.Issues{{Path: path, Code: parsekit.CodeConfigError, Message: err.Error(), Cause: err}}
	}
	var iss parsekit.Issues
	for _, sf := range s.fields {
		fieldPath := path + "/" + sf.Name
		v, ok := fields[sf.Name]
		if !ok {
			if sf.Type != nil && sf.Type.kind == kindOptional {
				continue
			}
			iss = parsekit.AppendIssues(iss, parsekit.Issue{
				Path: fieldPath, Code: parsekit.CodeRequired, Message: "required field missing",
			})
			continue
		}
		iss = append(iss, assignValue(rv.Field(idx[sf.Name]), sf.Type, v, fieldPath)...)
	}
	return iss
}

func assignValue(target reflect.Value, t *Type, v any, path string) parsekit.Issues {
	if v == nil {
		// absent optional: leave the zero value (nil for pointer fields)
		return nil
	}
	if target.Kind() == reflect.Pointer {
		elem := reflect.New(target.Type().Elem())
		if iss := assignValue(elem.Elem(), unwrapOptional(t), v, path); len(iss) > 0 {
			return iss
		}
		target.Set(elem)
		return nil
	}
	t = unwrapOptional(t)
	if t != nil && t.kind == kindNested {
		m, ok := v.(map[string]any)
		if !ok || target.Kind() != reflect.Struct {
			return parsekit.Issues{{
				Path: path, Code: parsekit.CodeInvalidType,
				Message: fmt.Sprintf("cannot bind %T to %s", v, target.Type()),
			}}
		}
		return assignStruct(target, t.nested, m, path)
	}
	if items, ok := v.([]any); ok && target.Kind() == reflect.Slice {
		out := reflect.MakeSlice(target.Type(), len(items), len(items))
		var et *Type
		if t != nil {
			et = t.elem
		}
		var iss parsekit.Issues
		for i, item := range items {
			iss = append(iss, assignValue(out.Index(i), et, item, fmt.Sprintf("%s/%d", path, i))...)
		}
		if len(iss) > 0 {
			return iss
		}
		target.Set(out)
		return nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(target.Type()):
		target.Set(rv)
	case convertibleNumeric(rv.Kind(), target.Kind()) && rv.Type().ConvertibleTo(target.Type()):
		target.Set(rv.Convert(target.Type()))
	default:
		return parsekit.Issues{{
			Path: path, Code: parsekit.CodeInvalidType,
			Message: fmt.Sprintf("cannot bind %T to %s", v, target.Type()),
		}}
	}
	return nil
}

func unwrapOptional(t *Type) *Type {
	if t != nil && t.kind == kindOptional {
		return t.inner
	}
	return t
}

func deconstructStruct(rv reflect.Value, s *Schema) (map[string]any, error) {
	idx, err := fieldIndex(rv.Type(), s)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(s.fields))
	for _, sf := range s.fields {
		v, err := deconstructValue(rv.Field(idx[sf.Name]), sf.Type)
		if err != nil {
			return nil, err
		}
		out[sf.Name] = v
	}
	return out, nil
}

func deconstructValue(fv reflect.Value, t *Type) (any, error) {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil, nil
		}
		return deconstructValue(fv.Elem(), unwrapOptional(t))
	}
	t = unwrapOptional(t)
	if t != nil && t.kind == kindNested && fv.Kind() == reflect.Struct {
		return deconstructStruct(fv, t.nested)
	}
	if t != nil && t.kind == kindList && fv.Kind() == reflect.Slice {
		items := make([]any, fv.Len())
		for i := range items {
			v, err := deconstructValue(fv.Index(i), t.elem)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil
	}
	return fv.Interface(), nil
}
