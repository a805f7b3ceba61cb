// Package schema derives text parsers and formatters from record
// descriptors. A Schema is an ordered list of named, typed fields plus a
// separator specification; Compile walks each field's type descriptor
// (primitive, optional, union, literal, list, nested schema) and synthesizes
// one aggregate parser producing a field-value map, together with the
// symmetric formatter. Compiled parsers are memoized in a Cache keyed by
// schema identity.
//
// The package never performs semantic validation itself: after a successful
// parse the field-value map is handed to a Constructor (the reflection-based
// binder from Bind, or a caller-supplied one), whose error is surfaced
// unchanged and is always distinguishable from a grammar-level
// *parsekit.ParseError.
package schema
