package benchmarks_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	parsekit "github.com/reoring/parsekit"
	"github.com/reoring/parsekit/schema"
)

// ---- Helpers ----

func requestSchema(tb testing.TB) *schema.Schema {
	tb.Helper()
	s, err := schema.New().
		Field("method", schema.Literal("GET", "POST", "PUT", "DELETE")).
		Field("path", schema.String()).
		Field("code", schema.Int()).
		Field("elapsed", schema.Float()).
		Build()
	if err != nil {
		tb.Fatalf("schema build failed: %v", err)
	}
	return s
}

func listSchema(tb testing.TB, n int) (*schema.Schema, string) {
	tb.Helper()
	s, err := schema.New().
		Field("items", schema.List(schema.Int())).
		Build()
	if err != nil {
		tb.Fatalf("schema build failed: %v", err)
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprint(i)
	}
	return s, strings.Join(parts, " ")
}

// ---- Benchmarks ----

func BenchmarkSchemaParse_SmallRecord(b *testing.B) {
	s := requestSchema(b)
	cache := schema.NewCache()
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := schema.ParseOn(ctx, cache, s, "GET /health 200 0.003"); err != nil {
			b.Fatalf("parse failed: %v", err)
		}
	}
}

func BenchmarkSchemaParse_ColdCache(b *testing.B) {
	s := requestSchema(b)
	cache := schema.NewCache()
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Clear(s)
		if _, err := schema.ParseOn(ctx, cache, s, "GET /health 200 0.003"); err != nil {
			b.Fatalf("parse failed: %v", err)
		}
	}
}

func BenchmarkSchemaFormat_SmallRecord(b *testing.B) {
	s := requestSchema(b)
	cache := schema.NewCache()
	ctx := context.Background()
	values, err := schema.ParseOn(ctx, cache, s, "GET /health 200 0.003")
	if err != nil {
		b.Fatalf("parse failed: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := schema.FormatOn(ctx, cache, s, values); err != nil {
			b.Fatalf("format failed: %v", err)
		}
	}
}

func BenchmarkSchemaParse_List1000(b *testing.B) {
	s, input := listSchema(b, 1000)
	cache := schema.NewCache()
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := schema.ParseOn(ctx, cache, s, input); err != nil {
			b.Fatalf("parse failed: %v", err)
		}
	}
}

func BenchmarkCombinators_Alternation(b *testing.B) {
	p := parsekit.Or(
		parsekit.Then(parsekit.Literal("status="), parsekit.Integer()),
		parsekit.Then(parsekit.Literal("elapsed="), parsekit.Integer()),
		parsekit.Then(parsekit.Literal("size="), parsekit.Integer()),
	)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse("size=4096"); err != nil {
			b.Fatalf("parse failed: %v", err)
		}
	}
}

func BenchmarkGenerator_LengthPrefixed(b *testing.B) {
	p := parsekit.Generate(func(g *parsekit.Gen) (string, error) {
		n := parsekit.Next(g, parsekit.Integer())
		parsekit.Next(g, parsekit.Literal("H"))
		return parsekit.Next(g, parsekit.Take(int(n))), nil
	})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse("5Hhello"); err != nil {
			b.Fatalf("parse failed: %v", err)
		}
	}
}
