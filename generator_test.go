package parsekit_test

import (
	"errors"
	"fmt"
	"testing"

	parsekit "github.com/reoring/parsekit"
)

// lengthPrefixed reads a count, an 'H' marker, then exactly count characters.
func lengthPrefixed() parsekit.Parser[string] {
	return parsekit.Generate(func(g *parsekit.Gen) (string, error) {
		n := parsekit.Next(g, parsekit.Integer())
		parsekit.Next(g, parsekit.Literal("H"))
		return parsekit.Next(g, parsekit.Take(int(n))), nil
	})
}

func TestGenerate_LengthPrefixedBody(t *testing.T) {
	p := lengthPrefixed()

	v, err := p.Parse("5Hhello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "hello" {
		t.Fatalf("want hello, got %q", v)
	}
}

func TestGenerate_ShortCountLeavesRemainder(t *testing.T) {
	p := lengthPrefixed()

	// full parse must reject the leftover
	if _, err := p.Parse("3Hhello"); err == nil {
		t.Fatalf("expected trailing-input error")
	}

	v, rest, err := p.ParsePartial("3Hhello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "hel" || rest != "lo" {
		t.Fatalf("got %q rest %q", v, rest)
	}
}

func TestGenerate_NegativeCountReadsNoBody(t *testing.T) {
	p := lengthPrefixed()

	if _, err := p.Parse("-3Hhello"); err == nil {
		t.Fatalf("a negative count must not swallow the rest of the input")
	}
	v, rest, err := p.ParsePartial("-3Hhello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "" || rest != "hello" {
		t.Fatalf("got %q rest %q", v, rest)
	}
}

func TestGenerate_SubParserFailureKeepsPosition(t *testing.T) {
	p := lengthPrefixed()

	_, err := p.Parse("5Xhello")
	var pe *parsekit.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got: %v", err)
	}
	if pe.Offset != 1 {
		t.Fatalf("failure must sit at the marker, got offset %d", pe.Offset)
	}
}

func TestGenerate_FailAbortsWithoutValue(t *testing.T) {
	p := parsekit.Generate(func(g *parsekit.Gen) (string, error) {
		tag := parsekit.Next(g, parsekit.Word())
		if tag != "ok" {
			g.Fail("tag \"ok\"")
		}
		return tag, nil
	})

	if _, err := p.Parse("nope"); err == nil {
		t.Fatalf("expected failure from Gen.Fail")
	}
	v, err := p.Parse("ok")
	if err != nil || v != "ok" {
		t.Fatalf("got %q, %v", v, err)
	}
}

func TestGenerate_StepErrorAnchorsAtCurrentOffset(t *testing.T) {
	p := parsekit.Generate(func(g *parsekit.Gen) (int64, error) {
		n := parsekit.Next(g, parsekit.Integer())
		if n > 100 {
			return 0, fmt.Errorf("a count of at most 100")
		}
		return n, nil
	})

	_, err := p.Parse("500")
	var pe *parsekit.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got: %v", err)
	}
	if pe.Offset != 3 {
		t.Fatalf("want failure after the consumed count, got offset %d", pe.Offset)
	}
}

func TestGenerate_BranchingOnParsedValue(t *testing.T) {
	// discriminant picks the body grammar
	p := parsekit.Generate(func(g *parsekit.Gen) (any, error) {
		kind := parsekit.Next(g, parsekit.CharFrom("if"))
		parsekit.Next(g, parsekit.Literal(":"))
		if kind == "i" {
			return parsekit.Next(g, parsekit.Integer()), nil
		}
		return parsekit.Next(g, parsekit.Float()), nil
	})

	v, err := p.Parse("i:42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != int64(42) {
		t.Fatalf("want int64 42, got %#v", v)
	}
	v, err = p.Parse("f:4.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 4.5 {
		t.Fatalf("want 4.5, got %#v", v)
	}
}

func TestGenerate_WithFormatMakesItBidirectional(t *testing.T) {
	p := lengthPrefixed().WithFormat(func(s string) (string, error) {
		return fmt.Sprintf("%dH%s", len([]rune(s)), s), nil
	})

	out, err := p.Format("hello")
	if err != nil || out != "5Hhello" {
		t.Fatalf("got %q, %v", out, err)
	}
	back, err := p.Parse(out)
	if err != nil || back != "hello" {
		t.Fatalf("got %q, %v", back, err)
	}
}
