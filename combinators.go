package parsekit

import "strings"

// Then sequences two parsers and keeps the right value. Failures from either
// side propagate with their position and description unchanged. The format
// direction is the right parser's (the discarded side is reconstructed by
// higher layers that know its text, e.g. the schema separator interleave).
func Then[A, B any](a Parser[A], b Parser[B]) Parser[B] {
	return Parser[B]{
		run: func(c Cursor) Result[B] {
			ra := a.run(c)
			if !ra.Ok() {
				return refail[A, B](ra)
			}
			return b.run(ra.Cursor())
		},
		format: b.format,
	}
}

// Skip sequences two parsers and keeps the left value.
func Skip[A, B any](a Parser[A], b Parser[B]) Parser[A] {
	return Parser[A]{
		run: func(c Cursor) Result[A] {
			ra := a.run(c)
			if !ra.Ok() {
				return ra
			}
			rb := b.run(ra.Cursor())
			if !rb.Ok() {
				return refail[B, A](rb)
			}
			return Success(ra.Value(), rb.Cursor())
		},
		format: a.format,
	}
}

// Combine sequences two parsers and merges both values with fn. The combined
// parser has no format direction; supply one with WithFormat if needed.
func Combine[A, B, C any](a Parser[A], b Parser[B], fn func(A, B) C) Parser[C] {
	return New(func(c Cursor) Result[C] {
		ra := a.run(c)
		if !ra.Ok() {
			return refail[A, C](ra)
		}
		rb := b.run(ra.Cursor())
		if !rb.Ok() {
			return refail[B, C](rb)
		}
		return Success(fn(ra.Value(), rb.Value()), rb.Cursor())
	})
}

// Or tries each alternative from the original cursor, backtracking fully
// between attempts. The first success wins. When every alternative fails,
// the failure with the greatest offset is reported; on equal offsets the
// earlier-declared alternative's description is kept.
//
// The format direction tries each alternative in declared order and returns
// the first that succeeds.
func Or[T any](alts ...Parser[T]) Parser[T] {
	if len(alts) == 0 {
		return FailWith[T]("at least one alternative")
	}
	formats := make([]func(T) (string, error), 0, len(alts))
	for _, a := range alts {
		if a.format != nil {
			formats = append(formats, a.format)
		}
	}
	var format func(T) (string, error)
	if len(formats) == len(alts) {
		format = func(v T) (string, error) {
			var lastErr error
			for _, f := range formats {
				s, err := f(v)
				if err == nil {
					return s, nil
				}
				lastErr = err
			}
			return "", lastErr
		}
	}
	return Parser[T]{
		run: func(c Cursor) Result[T] {
			best := Failure[T](-1, "")
			for _, alt := range alts {
				r := alt.run(c)
				if r.Ok() {
					return r
				}
				if r.Pos() > best.Pos() {
					best = r
				}
			}
			return best
		},
		format: format,
	}
}

// Or tries p first, then q, with full backtracking between attempts.
func (p Parser[T]) Or(q Parser[T]) Parser[T] { return Or(p, q) }

// Map transforms a success value with fn; failures pass through unchanged.
// The mapped parser has no format direction because fn has no declared
// inverse; use MapFormat to keep the parser usable for formatting.
func Map[A, B any](p Parser[A], fn func(A) B) Parser[B] {
	return New(func(c Cursor) Result[B] {
		r := p.run(c)
		if !r.Ok() {
			return refail[A, B](r)
		}
		return Success(fn(r.Value()), r.Cursor())
	})
}

// MapFormat is Map with an explicit format direction for the mapped value.
func MapFormat[A, B any](p Parser[A], fn func(A) B, format func(B) (string, error)) Parser[B] {
	return Map(p, fn).WithFormat(format)
}

// Bind runs p, then runs the parser produced by fn from p's value. This is
// the monadic bind: the second grammar may depend on the first value.
func Bind[A, B any](p Parser[A], fn func(A) Parser[B]) Parser[B] {
	return New(func(c Cursor) Result[B] {
		r := p.run(c)
		if !r.Ok() {
			return refail[A, B](r)
		}
		return fn(r.Value()).run(r.Cursor())
	})
}

// Replace substitutes a constant for the success value.
func Replace[A, B any](p Parser[A], v B) Parser[B] {
	return Map(p, func(A) B { return v })
}

// Concat joins a string-slice result into one string.
func Concat(p Parser[[]string]) Parser[string] {
	return MapFormat(p,
		func(parts []string) string { return strings.Join(parts, "") },
		func(s string) (string, error) { return s, nil },
	)
}

// Many parses p zero or more times and never fails: zero matches yield an
// empty slice. An iteration that succeeds without consuming input fails the
// whole parse, guarding against non-termination.
func Many[T any](p Parser[T]) Parser[[]T] {
	return Parser[[]T]{
		run: func(c Cursor) Result[[]T] {
			var out []T
			cur := c
			for {
				r := p.run(cur)
				if !r.Ok() {
					return Success(out, cur)
				}
				if r.Cursor().Offset() == cur.Offset() {
					return Failure[[]T](cur.Offset(), "repetition to make progress (zero-width match)")
				}
				out = append(out, r.Value())
				cur = r.Cursor()
			}
		},
		format: sliceFormat(p.format, " "),
	}
}

// Times parses p exactly n times. A negative n is clamped to zero, so it
// parses nothing rather than running unbounded.
func Times[T any](p Parser[T], n int) Parser[[]T] {
	if n < 0 {
		n = 0
	}
	return TimesRange(p, n, n)
}

// TimesRange parses p between min and max times; max < 0 means unbounded.
// A negative min is clamped to zero.
func TimesRange[T any](p Parser[T], min, max int) Parser[[]T] {
	if min < 0 {
		min = 0
	}
	return Parser[[]T]{
		run: func(c Cursor) Result[[]T] {
			var out []T
			cur := c
			for max < 0 || len(out) < max {
				r := p.run(cur)
				if !r.Ok() {
					if len(out) < min {
						return refail[T, []T](r)
					}
					break
				}
				if max < 0 && r.Cursor().Offset() == cur.Offset() {
					return Failure[[]T](cur.Offset(), "repetition to make progress (zero-width match)")
				}
				out = append(out, r.Value())
				cur = r.Cursor()
			}
			return Success(out, cur)
		},
		format: sliceFormat(p.format, " "),
	}
}

// SepBy parses zero or more elem occurrences separated by sep. Zero elements
// is a valid, empty result. A trailing separator is not consumed.
func SepBy[T, S any](elem Parser[T], sep Parser[S]) Parser[[]T] {
	return SepByText(elem, sep, " ")
}

// SepByText is SepBy with an explicit join text for the format direction, so
// lists written with a known separator round-trip exactly.
func SepByText[T, S any](elem Parser[T], sep Parser[S], joinWith string) Parser[[]T] {
	return Parser[[]T]{
		run:    sepByRun(elem, sep, false),
		format: sliceFormat(elem.format, joinWith),
	}
}

// SepByTrailing is SepBy but permits (and consumes) one trailing separator.
func SepByTrailing[T, S any](elem Parser[T], sep Parser[S], joinWith string) Parser[[]T] {
	return Parser[[]T]{
		run:    sepByRun(elem, sep, true),
		format: sliceFormat(elem.format, joinWith),
	}
}

func sepByRun[T, S any](elem Parser[T], sep Parser[S], trailing bool) func(Cursor) Result[[]T] {
	return func(c Cursor) Result[[]T] {
		var out []T
		first := elem.run(c)
		if !first.Ok() {
			return Success(out, c)
		}
		out = append(out, first.Value())
		cur := first.Cursor()
		for {
			rs := sep.run(cur)
			if !rs.Ok() {
				return Success(out, cur)
			}
			re := elem.run(rs.Cursor())
			if !re.Ok() {
				if trailing {
					return Success(out, rs.Cursor())
				}
				// separator consumed but no element follows: back off to
				// before the separator
				return Success(out, cur)
			}
			out = append(out, re.Value())
			cur = re.Cursor()
		}
	}
}

// Optional tries p and, on failure, succeeds with nil at the original cursor
// (no consumption). In strict mode a failure is only softened to nil when
// nothing parseable is present at all (the parser consumed nothing and the
// input is exhausted); a value that is present but malformed stays a hard
// failure. In lenient mode any failure becomes nil.
func Optional[T any](p Parser[T], strict bool) Parser[*T] {
	var format func(*T) (string, error)
	if p.format != nil {
		inner := p.format
		format = func(v *T) (string, error) {
			if v == nil {
				return "", nil
			}
			return inner(*v)
		}
	}
	return Parser[*T]{
		run: func(c Cursor) Result[*T] {
			r := p.run(c)
			if r.Ok() {
				v := r.Value()
				return Success(&v, r.Cursor())
			}
			if strict && !(r.Pos() == c.Offset() && c.AtEnd()) {
				return refail[T, *T](r)
			}
			return Success[*T](nil, c)
		},
		format: format,
	}
}

// Peek runs p without consuming input.
func Peek[T any](p Parser[T]) Parser[T] {
	return New(func(c Cursor) Result[T] {
		r := p.run(c)
		if !r.Ok() {
			return r
		}
		return Success(r.Value(), c)
	})
}

// Not succeeds (with an empty string) exactly when p fails, consuming
// nothing either way. description names what must be absent.
func Not[T any](p Parser[T], description string) Parser[string] {
	return New(func(c Cursor) Result[string] {
		if r := p.run(c); r.Ok() {
			return Failure[string](c.Offset(), "not "+description)
		}
		return Success("", c)
	})
}

func sliceFormat[T any](inner func(T) (string, error), joinWith string) func([]T) (string, error) {
	if inner == nil {
		return nil
	}
	return func(vs []T) (string, error) {
		parts := make([]string, len(vs))
		for i, v := range vs {
			s, err := inner(v)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, joinWith), nil
	}
}
