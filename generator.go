package parsekit

import "errors"

// Gen is the handle passed to a Generate step function. It tracks the
// cursor across sub-parses; one Gen drives exactly one parse and is never
// shared between goroutines.
type Gen struct {
	cur Cursor
}

// genAbort is the failure sentinel raised by Next and Gen.Fail and
// recovered by the Generate driver.
type genAbort struct {
	pos      int
	expected string
}

// Generate turns an imperative step function into a parser. The step
// function calls Next to run sub-parsers one at a time, inspecting each
// value before deciding what to parse next; this allows data-dependent
// grammars (for example a length read before its body) that pure
// composition cannot express.
//
// The moment any sub-parser fails, the whole generator parse aborts and
// fails at the sub-parser's failure position; no partial value escapes.
// An error returned by fn itself becomes a failure anchored at the cursor
// position reached so far.
//
// Generator parsers have no derivable format direction; attach one with
// WithFormat when the parser is used for formatting.
func Generate[T any](fn func(*Gen) (T, error)) Parser[T] {
	return New(func(c Cursor) Result[T] {
		g := &Gen{cur: c}
		res, aborted := runGen(g, fn)
		if aborted != nil {
			return Failure[T](aborted.pos, aborted.expected)
		}
		return res
	})
}

func runGen[T any](g *Gen, fn func(*Gen) (T, error)) (res Result[T], aborted *genAbort) {
	defer func() {
		if r := recover(); r != nil {
			if a, ok := r.(genAbort); ok {
				aborted = &a
				return
			}
			panic(r)
		}
	}()
	v, err := fn(g)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return Failure[T](pe.Offset, pe.Expected), nil
		}
		return Failure[T](g.cur.Offset(), err.Error()), nil
	}
	return Success(v, g.cur), nil
}

// Next runs a sub-parser at the generator's current position and advances
// past its consumption. On sub-parser failure the generator parse aborts
// immediately; control does not return to the step function.
func Next[U any](g *Gen, p Parser[U]) U {
	r := p.Run(g.cur)
	if !r.Ok() {
		panic(genAbort{pos: r.Pos(), expected: r.Expected()})
	}
	g.cur = r.Cursor()
	return r.Value()
}

// Fail aborts the generator parse with a failure anchored at the position
// reached so far. Use it for step-function logic errors such as an
// unrecognized discriminant.
func (g *Gen) Fail(expected string) {
	panic(genAbort{pos: g.cur.Offset(), expected: expected})
}

// Offset returns the position the generator has consumed up to.
func (g *Gen) Offset() int { return g.cur.Offset() }

// Rest returns the unconsumed remainder at the generator's position.
func (g *Gen) Rest() string { return g.cur.Rest() }
