package schema

import "context"

// Parse compiles s on first use (memoized in the DefaultCache), parses text
// fully, and returns the field-value map in schema order. One trailing
// separator after the last field is tolerated; any further trailing input is
// an error. Grammar failures are *parsekit.ParseError; configuration
// problems are *parsekit.ConfigError raised at compile time.
func Parse(ctx context.Context, s *Schema, text string) (map[string]any, error) {
	return ParseOn(ctx, DefaultCache, s, text)
}

// ParseOn is Parse against an explicit cache.
func ParseOn(ctx context.Context, cache *Cache, s *Schema, text string) (map[string]any, error) {
	_ = ctx
	entry, err := cache.lookupOrBuild(s)
	if err != nil {
		return nil, err
	}
	return entry.parseFull(s, text)
}

// ParsePartial parses a prefix of text and returns the field-value map
// together with the unconsumed remainder, verbatim.
func ParsePartial(ctx context.Context, s *Schema, text string) (map[string]any, string, error) {
	return ParsePartialOn(ctx, DefaultCache, s, text)
}

// ParsePartialOn is ParsePartial against an explicit cache.
func ParsePartialOn(ctx context.Context, cache *Cache, s *Schema, text string) (map[string]any, string, error) {
	_ = ctx
	entry, err := cache.lookupOrBuild(s)
	if err != nil {
		return nil, "", err
	}
	return entry.parser.ParsePartial(text)
}

// Format renders a field-value map back to text: each field formatted by its
// parser's format direction, joined with the schema separator. Absent
// optional fields are skipped together with their separator.
func Format(ctx context.Context, s *Schema, values map[string]any) (string, error) {
	return FormatOn(ctx, DefaultCache, s, values)
}

// FormatOn is Format against an explicit cache.
func FormatOn(ctx context.Context, cache *Cache, s *Schema, values map[string]any) (string, error) {
	_ = ctx
	entry, err := cache.lookupOrBuild(s)
	if err != nil {
		return "", err
	}
	return entry.format(values)
}
