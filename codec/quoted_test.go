package codec

import "testing"

func TestQuoted_Roundtrip(t *testing.T) {
	p := Quoted()

	got, err := p.Parse(`"hello world"`)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("unexpected value: %q", got)
	}

	out, err := p.Format(got)
	if err != nil {
		t.Fatalf("format err: %v", err)
	}
	if out != `"hello world"` {
		t.Fatalf("roundtrip mismatch: %q", out)
	}
}

func TestQuoted_Escapes(t *testing.T) {
	p := Quoted()

	got, err := p.Parse(`"a\"b\n"`)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got != "a\"b\n" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestQuoted_Unterminated(t *testing.T) {
	p := Quoted()

	if _, err := p.Parse(`"never closes`); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := p.Parse(`"across
lines"`); err == nil {
		t.Fatalf("expected parse error for newline inside literal")
	}
}

func TestQuoted_PartialLeavesRemainder(t *testing.T) {
	p := Quoted()

	got, rest, err := p.ParsePartial(`"x" y`)
	if err != nil {
		t.Fatalf("parse partial err: %v", err)
	}
	if got != "x" || rest != " y" {
		t.Fatalf("unexpected result: %q / %q", got, rest)
	}
}
