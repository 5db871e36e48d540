package value

import (
	"slices"

	"github.com/yamlkit/go-yamlkit/errs"
)

type Value struct {
	Kind Kind

	Bool    bool
	Str     string
	Int64   *int64
	Uint64  *uint64
	Float64 *float64
	Number  string

	// Keys and Values hold mapping entries pairwise; for sequences only
	// Values is populated.
	Keys   []*Value
	Values []*Value

	Tag string
	// Flow marks a container parsed from (or to be emitted in) flow
	// style. Style, like Pos, is not part of equality.
	Flow bool
	Pos  *errs.Pos
}

func (v *Value) WithTag(tag string) *Value {
	v.Tag = tag
	return v
}

func (v *Value) Clone() *Value {
	res := &Value{}
	return v.CloneTo(res)
}

func (v *Value) CloneTo(dst *Value) *Value {
	dst.Kind = v.Kind
	dst.Bool = v.Bool
	dst.Str = v.Str
	dst.Number = v.Number
	dst.Tag = v.Tag
	dst.Flow = v.Flow
	dst.Pos = v.Pos
	if v.Int64 != nil {
		i := *v.Int64
		dst.Int64 = &i
	}
	if v.Uint64 != nil {
		u := *v.Uint64
		dst.Uint64 = &u
	}
	if v.Float64 != nil {
		f := *v.Float64
		dst.Float64 = &f
	}
	if v.Keys != nil {
		dst.Keys = make([]*Value, len(v.Keys))
		for i, k := range v.Keys {
			dst.Keys[i] = k.Clone()
		}
	}
	if v.Values != nil {
		dst.Values = make([]*Value, len(v.Values))
		for i, vv := range v.Values {
			dst.Values[i] = vv.Clone()
		}
	}
	return dst
}

func Null() *Value {
	return &Value{Kind: NullKind}
}

func FromBool(v bool) *Value {
	return &Value{Kind: BoolKind, Bool: v}
}

// FromInt normalizes non-negative inputs to the unsigned sub-kind, so an
// integer compares equal regardless of the width it arrived through.
func FromInt(v int64) *Value {
	if v >= 0 {
		u := uint64(v)
		return &Value{Kind: NumberKind, Uint64: &u}
	}
	return &Value{Kind: NumberKind, Int64: &v}
}

func FromUint(v uint64) *Value {
	return &Value{Kind: NumberKind, Uint64: &v}
}

func FromFloat(f float64) *Value {
	return &Value{Kind: NumberKind, Float64: &f}
}

func FromString(v string) *Value {
	return &Value{Kind: StringKind, Str: v}
}

func FromSlice(vs []*Value) *Value {
	return &Value{Kind: SequenceKind, Values: vs}
}

type Pair struct {
	Key *Value
	Val *Value
}

// FromPairs builds a mapping preserving the given entry order. A key
// equal to an earlier key replaces that entry in place.
func FromPairs(pairs []Pair) *Value {
	res := &Value{Kind: MappingKind}
	for i := range pairs {
		key := pairs[i].Key
		if key == nil {
			key = Null()
		}
		res.SetKey(key, pairs[i].Val)
	}
	return res
}

// FromMap builds a mapping from a Go map, with keys in sorted order since
// Go maps carry none.
func FromMap(m map[string]*Value) *Value {
	res := &Value{
		Kind:   MappingKind,
		Keys:   make([]*Value, 0, len(m)),
		Values: make([]*Value, 0, len(m)),
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		res.Keys = append(res.Keys, FromString(key))
		res.Values = append(res.Values, m[key])
	}
	return res
}

// Get returns the mapping value for the string key field. The second
// result is false when v is not a mapping or has no such key.
func (v *Value) Get(field string) (*Value, bool) {
	if v == nil || v.Kind != MappingKind {
		return nil, false
	}
	for i, k := range v.Keys {
		if k.Kind == StringKind && k.Str == field {
			return v.Values[i], true
		}
	}
	return nil, false
}

// GetKey is Get for arbitrary (non-string) keys, under deep equality.
func (v *Value) GetKey(key *Value) (*Value, bool) {
	if v == nil || v.Kind != MappingKind {
		return nil, false
	}
	for i, k := range v.Keys {
		if Equal(k, key) {
			return v.Values[i], true
		}
	}
	return nil, false
}

// Index returns the i-th sequence element, or false when v is not a
// sequence or i is out of range.
func (v *Value) Index(i int) (*Value, bool) {
	if v == nil || v.Kind != SequenceKind || i < 0 || i >= len(v.Values) {
		return nil, false
	}
	return v.Values[i], true
}

// SetKey inserts or replaces a mapping entry, maintaining the invariant
// that no two keys compare equal. Replacing keeps the original entry's
// position.
func (v *Value) SetKey(key, val *Value) {
	for i, k := range v.Keys {
		if Equal(k, key) {
			v.Values[i] = val
			return
		}
	}
	v.Keys = append(v.Keys, key)
	v.Values = append(v.Values, val)
}

// Len returns the number of entries of a sequence or mapping, 0 for
// leaves.
func (v *Value) Len() int {
	return len(v.Values)
}

// IsZero reports whether v is the scalar zero of its kind, for omitempty
// handling.
func (v *Value) IsZero() bool {
	if v == nil {
		return true
	}
	switch v.Kind {
	case NullKind:
		return true
	case BoolKind:
		return !v.Bool
	case StringKind:
		return v.Str == ""
	case NumberKind:
		switch {
		case v.Int64 != nil:
			return *v.Int64 == 0
		case v.Uint64 != nil:
			return *v.Uint64 == 0
		case v.Float64 != nil:
			return *v.Float64 == 0
		}
		return v.Number == ""
	case SequenceKind, MappingKind:
		return len(v.Values) == 0
	}
	return false
}

// Visit walks the tree in depth-first order, calling f before (isPost
// false) and after (isPost true) each node's children. Returning false
// from the pre call skips the children.
func (v *Value) Visit(f func(v *Value, isPost bool) (bool, error)) error {
	dive, err := f(v, false)
	if err != nil {
		return err
	}
	if dive {
		for _, k := range v.Keys {
			if err := k.Visit(f); err != nil {
				return err
			}
		}
		for _, vv := range v.Values {
			if err := vv.Visit(f); err != nil {
				return err
			}
		}
	}
	_, err = f(v, true)
	return err
}
