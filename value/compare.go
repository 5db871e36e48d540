package value

import (
	"cmp"
	"strings"
)

// Compare returns an integer comparing two values.
// The result is 0 if a == b, -1 if a < b, and +1 if a > b.
// Positions never participate; tags compare with the leading bang
// stripped, so `!Foo` and `Foo` spellings of a tag are equal.
func Compare(a, b *Value) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	rankA := rank(a.Kind)
	rankB := rank(b.Kind)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}
	if c := strings.Compare(nobang(a.Tag), nobang(b.Tag)); c != 0 {
		return c
	}

	switch a.Kind {
	case NullKind:
		return 0
	case BoolKind:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case NumberKind:
		return compareNumbers(a, b)
	case StringKind:
		return strings.Compare(a.Str, b.Str)
	case SequenceKind:
		return compareSequences(a, b)
	case MappingKind:
		return compareMappings(a, b)
	}
	return 0
}

// Equal reports deep structural equality, excluding positions.
func Equal(a, b *Value) bool {
	return Compare(a, b) == 0
}

// rank returns the sorting rank of a kind.
// Order: Null < Bool < Number < String < Sequence < Mapping
func rank(k Kind) int {
	switch k {
	case NullKind:
		return 0
	case BoolKind:
		return 1
	case NumberKind:
		return 2
	case StringKind:
		return 3
	case SequenceKind:
		return 4
	case MappingKind:
		return 5
	}
	return 100
}

func nobang(tag string) string {
	return strings.TrimPrefix(tag, "!")
}

func compareNumbers(a, b *Value) int {
	// Sub-rank: integer < float < string fallback. Signed and unsigned
	// integers share a sub-rank and compare by numeric value.
	subA := numberSubRank(a)
	subB := numberSubRank(b)
	if subA != subB {
		return cmp.Compare(subA, subB)
	}
	switch subA {
	case 0:
		return compareIntegers(a, b)
	case 1:
		return cmp.Compare(*a.Float64, *b.Float64)
	default:
		return strings.Compare(a.Number, b.Number)
	}
}

func numberSubRank(v *Value) int {
	if v.Int64 != nil || v.Uint64 != nil {
		return 0
	}
	if v.Float64 != nil {
		return 1
	}
	return 2
}

func compareIntegers(a, b *Value) int {
	// FromInt normalizes non-negative inputs to Uint64, but Int64 can
	// hold any value on a hand-built node, so mixed pairs compare by
	// numeric value rather than by sub-field.
	switch {
	case a.Int64 != nil && b.Int64 != nil:
		return cmp.Compare(*a.Int64, *b.Int64)
	case a.Uint64 != nil && b.Uint64 != nil:
		return cmp.Compare(*a.Uint64, *b.Uint64)
	case a.Int64 != nil:
		if *a.Int64 < 0 {
			return -1
		}
		return cmp.Compare(uint64(*a.Int64), *b.Uint64)
	default:
		if *b.Int64 < 0 {
			return 1
		}
		return cmp.Compare(*a.Uint64, uint64(*b.Int64))
	}
}

func compareSequences(a, b *Value) int {
	lenA := len(a.Values)
	lenB := len(b.Values)
	for i := 0; i < min(lenA, lenB); i++ {
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

func compareMappings(a, b *Value) int {
	lenA := len(a.Keys)
	lenB := len(b.Keys)
	for i := 0; i < min(lenA, lenB); i++ {
		if c := Compare(a.Keys[i], b.Keys[i]); c != 0 {
			return c
		}
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}
