package schema

import (
	"strings"

	"github.com/reoring/parsekit"
)

// compiled is one memoized build product: the aggregate parser over the
// field-value map and its symmetric formatter.
type compiled struct {
	parser parsekit.Parser[map[string]any]
	format func(map[string]any) (string, error)
}

// build resolves every field parser, checks the format direction up front,
// and assembles the field/separator interleave. All configuration problems
// surface here, once, when a schema is first compiled; parse and format
// calls afterwards can only fail on input, never on configuration.
func build(cache *Cache, s *Schema) (*compiled, error) {
	fieldParsers := make([]parsekit.Parser[any], len(s.fields))
	for i, f := range s.fields {
		p, err := inferField(cache, s, f)
		if err != nil {
			return nil, err
		}
		if !p.CanFormat() {
			return nil, &parsekit.ConfigError{
				Field:  f.Name,
				Reason: "parser has no format direction; attach one with WithFormat",
			}
		}
		fieldParsers[i] = p
	}

	fields := s.fields
	sep := s.sep
	run := func(c parsekit.Cursor) parsekit.Result[map[string]any] {
		values := make(map[string]any, len(fields))
		cur := c
		for i, f := range fields {
			at := cur
			if i > 0 {
				rs := sep.Run(at)
				if !rs.Ok() {
					// a trailing optional may be absent together with its
					// separator
					if isOptional(f.Type) {
						values[f.Name] = nil
						continue
					}
					return parsekit.Failure[map[string]any](rs.Pos(), rs.Expected())
				}
				at = rs.Cursor()
			}
			r := fieldParsers[i].Run(at)
			if !r.Ok() {
				return parsekit.Failure[map[string]any](r.Pos(), r.Expected())
			}
			values[f.Name] = r.Value()
			if r.Value() == nil && r.Cursor().Offset() == at.Offset() {
				// absent optional consumed nothing: give the separator back
				continue
			}
			cur = r.Cursor()
		}
		return parsekit.Success(values, cur)
	}

	sepText := s.sepText
	format := func(values map[string]any) (string, error) {
		parts := make([]string, 0, len(fields))
		for i, f := range fields {
			v, ok := values[f.Name]
			if !ok {
				if isOptional(f.Type) {
					v = nil
				} else {
					return "", parsekit.Issues{{
						Path:    "/" + f.Name,
						Code:    parsekit.CodeRequired,
						Message: "value missing for required field",
					}}
				}
			}
			if v == nil && isOptional(f.Type) {
				// absent optionals are skipped along with their separator,
				// mirroring the parse direction
				continue
			}
			part, err := fieldParsers[i].Format(v)
			if err != nil {
				if iss, ok := parsekit.AsIssues(err); ok {
					return "", prefixIssues(iss, f.Name)
				}
				return "", err
			}
			parts = append(parts, part)
		}
		return strings.Join(parts, sepText), nil
	}

	p := parsekit.NewBidi(run, format)
	return &compiled{parser: p, format: format}, nil
}

// parseFull parses text requiring full consumption, except that one trailing
// separator after the last field is tolerated. Anything beyond that is a
// parse error at the offset where consumption stopped.
func (e *compiled) parseFull(s *Schema, text string) (map[string]any, error) {
	values, rest, err := e.parser.ParsePartial(text)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		at := parsekit.NewCursor(text).Advance(len(text) - len(rest))
		r := s.sep.Run(at)
		if !r.Ok() || !r.Cursor().AtEnd() {
			return nil, parsekit.NewParseError(text, at.Offset(), "end of input")
		}
	}
	return values, nil
}

func isOptional(t *Type) bool { return t != nil && t.kind == kindOptional }

// prefixIssues scopes issue paths from a field formatter under the field
// name, so nested problems read /point/x rather than /x.
func prefixIssues(iss parsekit.Issues, field string) parsekit.Issues {
	out := make(parsekit.Issues, len(iss))
	for i, it := range iss {
		it.Path = "/" + field + it.Path
		out[i] = it
	}
	return out
}

// Compile returns the aggregate parser for a schema, building and memoizing
// it in the cache on first use. The parser produces the field-value map in
// schema order; its format direction is the symmetric join.
func Compile(cache *Cache, s *Schema) (parsekit.Parser[map[string]any], error) {
	if cache == nil {
		cache = DefaultCache
	}
	entry, err := cache.lookupOrBuild(s)
	if err != nil {
		return parsekit.Parser[map[string]any]{}, err
	}
	return entry.parser, nil
}
