package parsekit

// Result is the outcome of running a parser at a cursor. Exactly one of the
// two variants is populated: success carries the value and the advanced
// cursor, failure carries the offset reached and an expected-description.
type Result[T any] struct {
	ok       bool
	value    T
	cur      Cursor
	pos      int
	expected string
}

// Success returns a successful result with the given value and cursor.
func Success[T any](v T, cur Cursor) Result[T] {
	return Result[T]{ok: true, value: v, cur: cur}
}

// Failure returns a failed result at pos with an expected-description.
func Failure[T any](pos int, expected string) Result[T] {
	return Result[T]{pos: pos, expected: expected}
}

// Ok reports whether the result is a success.
func (r Result[T]) Ok() bool { return r.ok }

// Value returns the parsed value. Zero for failures.
func (r Result[T]) Value() T { return r.value }

// Cursor returns the cursor after the successful parse.
func (r Result[T]) Cursor() Cursor { return r.cur }

// Pos returns the failure offset.
func (r Result[T]) Pos() int { return r.pos }

// Expected returns the failure's expected-description.
func (r Result[T]) Expected() string { return r.expected }

// refail converts a failure across value types without touching its
// position or description.
func refail[A, B any](r Result[A]) Result[B] {
	return Failure[B](r.pos, r.expected)
}
