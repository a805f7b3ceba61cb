package parsekit_test

import (
	"errors"
	"strings"
	"testing"

	parsekit "github.com/reoring/parsekit"
)

func TestParse_RequiresFullConsumption(t *testing.T) {
	p := parsekit.Word()

	got, err := p.Parse("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("want hello, got %q", got)
	}

	_, err = p.Parse("hello world")
	var pe *parsekit.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got: %v", err)
	}
	if pe.Offset != 5 {
		t.Fatalf("want failure at offset 5, got %d", pe.Offset)
	}
	if pe.Expected != "end of input" {
		t.Fatalf("unexpected expected-description: %q", pe.Expected)
	}
}

func TestParsePartial_ReturnsRemainderVerbatim(t *testing.T) {
	p := parsekit.Integer()

	v, rest, err := p.ParsePartial("1 payload more data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Fatalf("want 1, got %d", v)
	}
	if rest != " payload more data" {
		t.Fatalf("remainder must keep leading whitespace, got %q", rest)
	}
}

func TestDesc_RenamesAndReanchorsFailure(t *testing.T) {
	p := parsekit.Then(parsekit.Literal("a"), parsekit.Literal("b")).Desc("an ab pair")

	_, err := p.Parse("ax")
	var pe *parsekit.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got: %v", err)
	}
	if pe.Expected != "an ab pair" {
		t.Fatalf("want described failure, got %q", pe.Expected)
	}
	if pe.Offset != 0 {
		t.Fatalf("described failure must anchor at the start, got offset %d", pe.Offset)
	}
}

func TestFormat_WithoutDirectionIsConfigError(t *testing.T) {
	p := parsekit.Map(parsekit.Integer(), func(v int64) int64 { return v * 2 })

	if p.CanFormat() {
		t.Fatalf("mapped parser must not have a format direction")
	}
	_, err := p.Format(42)
	var ce *parsekit.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got: %v", err)
	}
}

func TestWithFormat_RestoresFormatting(t *testing.T) {
	double := parsekit.Map(parsekit.Integer(), func(v int64) int64 { return v * 2 })
	p := double.WithFormat(func(v int64) (string, error) {
		return parsekit.Integer().Format(v / 2)
	})

	v, err := p.Parse("21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("want 42, got %d", v)
	}
	out, err := p.Format(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "21" {
		t.Fatalf("want 21, got %q", out)
	}
}

func TestParse_ErrorMessagePointsAtColumn(t *testing.T) {
	p := parsekit.Then(parsekit.Then(parsekit.Word(), parsekit.Whitespace()), parsekit.Integer())

	_, err := p.Parse("alpha beta")
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "line 1, column 7") {
		t.Fatalf("expected line/column in message, got:\n%s", msg)
	}
	lines := strings.Split(msg, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected three-line message, got %d lines:\n%s", len(lines), msg)
	}
	if lines[1] != "alpha beta" {
		t.Fatalf("expected source line, got %q", lines[1])
	}
	if lines[2] != "      ^" {
		t.Fatalf("expected caret under column 7, got %q", lines[2])
	}
}
