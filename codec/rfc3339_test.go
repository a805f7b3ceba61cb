package codec

import (
	"testing"
	"time"
)

func TestTimeRFC3339_Roundtrip(t *testing.T) {
	p := TimeRFC3339()

	in := "2025-01-01T00:00:00Z"
	got, err := p.Parse(in)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got)
	}

	out, err := p.Format(got)
	if err != nil {
		t.Fatalf("format err: %v", err)
	}
	if out != in {
		t.Fatalf("roundtrip mismatch: %s != %s", out, in)
	}
}

func TestTimeRFC3339_CanonicalizesZone(t *testing.T) {
	p := TimeRFC3339()

	got, err := p.Parse("2025-01-01T09:00:00+09:00")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	out, err := p.Format(got)
	if err != nil {
		t.Fatalf("format err: %v", err)
	}
	if out != "2025-01-01T00:00:00Z" {
		t.Fatalf("expected UTC canonical form, got %q", out)
	}
}

func TestTimeRFC3339_FractionalSeconds(t *testing.T) {
	p := TimeRFC3339()

	got, err := p.Parse("2025-06-15T12:30:45.5Z")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got.Nanosecond() != 500_000_000 {
		t.Fatalf("unexpected nanoseconds: %d", got.Nanosecond())
	}
	out, err := p.Format(got)
	if err != nil {
		t.Fatalf("format err: %v", err)
	}
	if out != "2025-06-15T12:30:45.5Z" {
		t.Fatalf("unexpected canonical form: %q", out)
	}
}

func TestTimeRFC3339_RejectsGarbage(t *testing.T) {
	p := TimeRFC3339()

	if _, err := p.Parse("not a time"); err == nil {
		t.Fatalf("expected parse error")
	}
	// shaped like a timestamp but not a real instant
	if _, err := p.Parse("2025-13-40T99:99:99Z"); err == nil {
		t.Fatalf("expected parse error for impossible date")
	}
}

func TestTimeRFC3339_PartialLeavesRemainder(t *testing.T) {
	p := TimeRFC3339()

	got, rest, err := p.ParsePartial("2025-01-01T00:00:00Z trailing")
	if err != nil {
		t.Fatalf("parse partial err: %v", err)
	}
	if got.Year() != 2025 {
		t.Fatalf("unexpected time: %v", got)
	}
	if rest != " trailing" {
		t.Fatalf("unexpected remainder: %q", rest)
	}
}
