package rules_test

import (
	"context"
	"testing"

	parsekit "github.com/reoring/parsekit"
	"github.com/reoring/parsekit/rules"
	"github.com/reoring/parsekit/schema"
)

func TestRange(t *testing.T) {
	r := rules.Range("/code", 100, 599)

	if iss := r(map[string]any{"code": int64(200)}); len(iss) != 0 {
		t.Fatalf("unexpected issues: %v", iss)
	}
	iss := r(map[string]any{"code": int64(700)})
	if len(iss) != 1 || iss[0].Path != "/code" || iss[0].Code != parsekit.CodeInvalidFormat {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestIfThen(t *testing.T) {
	r := rules.If("/method", rules.Eq, "POST").Then(rules.Require("/body"))

	if iss := r(map[string]any{"method": "GET"}); len(iss) != 0 {
		t.Fatalf("condition not met, rules must not run: %v", iss)
	}
	iss := r(map[string]any{"method": "POST", "body": nil})
	if len(iss) != 1 || iss[0].Code != parsekit.CodeRequired {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestConditionalComposition(t *testing.T) {
	cond := rules.If("/a", rules.Gt, 0).And(rules.If("/b", rules.Lt, 10))
	r := cond.Then(rules.Require("/c"))

	if iss := r(map[string]any{"a": int64(1), "b": int64(20)}); len(iss) != 0 {
		t.Fatalf("AND must short-circuit: %v", iss)
	}
	if iss := r(map[string]any{"a": int64(1), "b": int64(5)}); len(iss) != 1 {
		t.Fatalf("expected required issue: %v", iss)
	}
}

func TestUniqueAndAtLeastOne(t *testing.T) {
	fields := map[string]any{"items": []any{int64(1), int64(2), int64(1)}}

	iss := rules.Unique("/items")(fields)
	if len(iss) != 1 || iss[0].Path != "/items/2" {
		t.Fatalf("unexpected issues: %v", iss)
	}

	if iss := rules.AtLeastOne("/items")(fields); len(iss) != 0 {
		t.Fatalf("unexpected issues: %v", iss)
	}
	if iss := rules.AtLeastOne("/items")(map[string]any{"items": []any{}}); len(iss) != 1 {
		t.Fatalf("expected at-least-one issue: %v", iss)
	}
}

func TestNestedPath(t *testing.T) {
	fields := map[string]any{"point": map[string]any{"x": int64(-1)}}

	iss := rules.Range("/point/x", 0, 100)(fields)
	if len(iss) != 1 || iss[0].Path != "/point/x" {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestConstructor_PlugsIntoTypedBinding(t *testing.T) {
	s := schema.New().
		Field("method", schema.Literal("GET", "POST")).
		Field("code", schema.Int()).
		MustBuild()

	typed := schema.BindFunc[map[string]any](s, schema.ConstructorFunc[map[string]any](
		rules.Constructor(
			rules.Range("/code", 100, 599),
		)))

	ctx := context.Background()
	if _, err := typed.Parse(ctx, "GET 200"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := typed.Parse(ctx, "GET 999")
	iss, ok := parsekit.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got: %v", err)
	}
	if iss[0].Path != "/code" {
		t.Fatalf("unexpected issue path: %q", iss[0].Path)
	}
}
