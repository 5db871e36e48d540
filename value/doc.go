// Package value provides the generic in-memory representation of YAML
// content.
//
// # Overview
//
// A Value represents any YAML node: null, boolean, number, string,
// sequence, or mapping, optionally annotated with an explicit `!tag`.
// Values parsed from text carry their source position; values built
// programmatically do not. The tree is exactly that, a tree: no node is
// ever shared or back-referenced, so depth is bounded only by input size.
//
// # Value Structure
//
// Value works as a recursive tagged union, with payload fields selected
// by Kind:
//
//   - NullKind: no payload
//   - BoolKind: Bool
//   - NumberKind: exactly one of Int64, Uint64, Float64, with Number as a
//     string fallback for out-of-range literals
//   - StringKind: Str
//   - SequenceKind: Values
//   - MappingKind: Keys[i] is the key for Values[i]; entries keep
//     insertion order, and no two keys compare equal under Equal
//
// The integer/unsigned/float sub-kinds of NumberKind are preserved
// because they govern both equality and re-emission formatting: a value
// parsed as 1.0 round-trips as 1.0, not 1.
//
// # Creating Values
//
// Use the constructor functions:
//
//	v := value.FromString("hello")
//	n := value.FromInt(42)
//	m := value.FromPairs([]value.Pair{
//	    {Key: value.FromString("name"), Val: value.FromString("bob")},
//	})
//	a := value.FromSlice([]*value.Value{value.FromInt(1), value.FromInt(2)})
//
// WithTag attaches a `!name` annotation to any node.
//
// # Access
//
// Get and Index return an absence indicator rather than an error:
//
//	v, ok := m.Get("name")
//	e, ok := a.Index(0)
//
// # Events
//
// FromEvents builds a Value from a structural event stream, and Emit
// drives an event.Emitter from a Value, making Value both a
// deserialization target and a serialization source.
//
// # Equality
//
// Compare and Equal are deep and structural. Positions are not part of
// equality, and a tag compares equal to itself with or without its
// leading bang. Numbers compare by numeric value across sub-kinds.
package value
