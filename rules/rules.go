// Package rules provides declarative post-parse checks over the field-value
// map a schema parse produces. Rules compose into a single validator that
// plugs in as the Constructor step of a typed binding, keeping semantic
// constraints (ranges, conditional requirements, uniqueness) out of the
// grammar itself. Every violation is reported as a parsekit.Issue, so rule
// failures stay distinguishable from grammar failures.
package rules

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	parsekit "github.com/reoring/parsekit"
)

// Rule checks one constraint over parsed field values.
type Rule func(fields map[string]any) parsekit.Issues

// Op defines comparison operators for If(...).Then(...).
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of rules.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates a field path against a value. The
// path is slash-separated into nested records (e.g. "/point/x").
func If(path string, op Op, want any) Conditional {
	return Conditional{path: normalizePath(path), op: op, want: want}
}

// IfAll requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(rules ...Rule) Rule {
	return func(fields map[string]any) parsekit.Issues {
		if !evalConditional(fields, c) {
			return nil
		}
		var all parsekit.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			all = append(all, r(fields)...)
		}
		return all
	}
}

// Require reports a required issue when the field is absent or nil.
func Require(path string) Rule {
	p := normalizePath(path)
	return func(fields map[string]any) parsekit.Issues {
		if v, ok := valueAtPath(fields, p); !ok || v == nil {
			return parsekit.Issues{{Path: p, Code: parsekit.CodeRequired, Message: "value is required"}}
		}
		return nil
	}
}

// Range constrains a numeric field to [min, max].
func Range(path string, min, max float64) Rule {
	p := normalizePath(path)
	return func(fields map[string]any) parsekit.Issues {
		v, ok := valueAtPath(fields, p)
		if !ok || v == nil {
			return nil
		}
		n, ok := asFloat(v)
		if !ok {
			return parsekit.Issues{{Path: p, Code: parsekit.CodeInvalidType, Message: fmt.Sprintf("expected a number, got %T", v)}}
		}
		if n < min || n > max {
			return parsekit.Issues{{
				Path:    p,
				Code:    parsekit.CodeInvalidFormat,
				Message: fmt.Sprintf("%v is outside [%v, %v]", n, min, max),
			}}
		}
		return nil
	}
}

// OneOf constrains a string field to the given values.
func OneOf(path string, values ...string) Rule {
	p := normalizePath(path)
	return func(fields map[string]any) parsekit.Issues {
		v, ok := valueAtPath(fields, p)
		if !ok || v == nil {
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return parsekit.Issues{{Path: p, Code: parsekit.CodeInvalidType, Message: fmt.Sprintf("expected a string, got %T", v)}}
		}
		for _, want := range values {
			if s == want {
				return nil
			}
		}
		return parsekit.Issues{{
			Path:    p,
			Code:    parsekit.CodeInvalidFormat,
			Message: fmt.Sprintf("%q is not one of %v", s, values),
		}}
	}
}

// AtLeastOne ensures the list at path has at least one element.
func AtLeastOne(path string) Rule {
	p := normalizePath(path)
	return func(fields map[string]any) parsekit.Issues {
		v, ok := valueAtPath(fields, p)
		if !ok || v == nil {
			return nil
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice && rv.Len() == 0 {
			return parsekit.Issues{{Path: p, Code: parsekit.CodeInvalidFormat, Message: "at least 1 item is required"}}
		}
		return nil
	}
}

// Unique ensures the list at path has no duplicate elements. Prefer a
// stable, comparable element type; mixed-type elements may stringify to
// identical keys and cause false positives.
func Unique(path string) Rule {
	p := normalizePath(path)
	return func(fields map[string]any) parsekit.Issues {
		v, ok := valueAtPath(fields, p)
		if !ok || v == nil {
			return nil
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice {
			return nil
		}
		seen := map[string]int{}
		var out parsekit.Issues
		for i := 0; i < rv.Len(); i++ {
			key := fmt.Sprint(rv.Index(i).Interface())
			if j, dup := seen[key]; dup {
				out = append(out, parsekit.Issue{
					Path:    fmt.Sprintf("%s/%d", p, i),
					Code:    parsekit.CodeInvalidFormat,
					Message: fmt.Sprintf("duplicate of element %d", j),
				})
			} else {
				seen[key] = i
			}
		}
		return out
	}
}

// Check wraps an arbitrary predicate over one field value.
func Check(path string, message string, pred func(v any) bool) Rule {
	p := normalizePath(path)
	return func(fields map[string]any) parsekit.Issues {
		v, ok := valueAtPath(fields, p)
		if !ok {
			return nil
		}
		if !pred(v) {
			return parsekit.Issues{{Path: p, Code: parsekit.CodeInvalidFormat, Message: message}}
		}
		return nil
	}
}

// Validate runs all rules over the field values and returns the accumulated
// issues as an error, or nil when every rule passes.
func Validate(fields map[string]any, rules ...Rule) error {
	var all parsekit.Issues
	for _, r := range rules {
		if r == nil {
			continue
		}
		all = append(all, r(fields)...)
	}
	if len(all) > 0 {
		return all
	}
	return nil
}

// Constructor adapts a rule set into a validation collaborator producing the
// checked field-value map itself. Compose with a custom constructor when a
// domain type is wanted.
func Constructor(rules ...Rule) func(ctx context.Context, fields map[string]any) (map[string]any, error) {
	return func(_ context.Context, fields map[string]any) (map[string]any, error) {
		if err := Validate(fields, rules...); err != nil {
			return nil, err
		}
		return fields, nil
	}
}

// ------- helpers -------

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

func evalConditional(fields map[string]any, c Conditional) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !evalConditional(fields, it) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if evalConditional(fields, it) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAtPath(fields, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// valueAtPath walks nested field maps by slash-separated path segments.
func valueAtPath(fields map[string]any, pointer string) (any, bool) {
	rel := strings.TrimPrefix(pointer, "/")
	if rel == "" {
		return fields, true
	}
	var cur any = fields
	for _, seg := range strings.Split(rel, "/") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func compare(got any, op Op, want any) bool {
	switch op {
	case Eq, Ne:
		eq := fmt.Sprint(got) == fmt.Sprint(want)
		if op == Eq {
			return eq
		}
		return !eq
	}
	gn, ok1 := asFloat(got)
	wn, ok2 := asFloat(want)
	if !ok1 || !ok2 {
		return false
	}
	switch op {
	case Lt:
		return gn < wn
	case Le:
		return gn <= wn
	case Gt:
		return gn > wn
	case Ge:
		return gn >= wn
	}
	return false
}

func asFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
