package bind

import (
	"math"
	"strings"
	"testing"

	"github.com/yamlkit/go-yamlkit/errs"
	"github.com/yamlkit/go-yamlkit/value"
)

type person struct {
	Name     string `yaml:"name"`
	Age      int    `yaml:"age"`
	Nickname string `yaml:"nickname,omitempty"`
}

type renamed struct {
	CamelCase string `yaml:"camel_case"`
	Untagged  string
	Skipped   string `yaml:"-"`
}

func TestMarshalBasicTypes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *value.Value
	}{
		{"nil", nil, value.Null()},
		{"string", "hello", value.FromString("hello")},
		{"int", 42, value.FromInt(42)},
		{"negative", -7, value.FromInt(-7)},
		{"uint", uint8(9), value.FromUint(9)},
		{"float", 3.25, value.FromFloat(3.25)},
		{"bool", true, value.FromBool(true)},
		{"bytes", []byte("raw"), value.FromString("raw")},
		{"slice", []int{1, 2}, value.FromSlice([]*value.Value{value.FromInt(1), value.FromInt(2)})},
		{"nil slice", []int(nil), value.Null()},
		{"nil map", map[string]int(nil), value.Null()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if !value.Equal(got, tt.want) {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMarshalStructFieldOrder(t *testing.T) {
	got, err := Marshal(person{Name: "anne", Age: 3})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got.Kind != value.MappingKind || got.Len() != 2 {
		t.Fatalf("Marshal() = %s, want two-entry mapping", got)
	}
	if got.Keys[0].Str != "name" || got.Keys[1].Str != "age" {
		t.Errorf("field order = %s, want name before age", got)
	}
}

func TestMarshalOmitEmpty(t *testing.T) {
	got, err := Marshal(person{Name: "anne", Age: 3, Nickname: "nan"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if _, ok := got.Get("nickname"); !ok {
		t.Errorf("populated omitempty field missing from %s", got)
	}

	got, err = Marshal(person{Name: "anne", Age: 3})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if _, ok := got.Get("nickname"); ok {
		t.Errorf("empty omitempty field present in %s", got)
	}
}

func TestMarshalFieldNaming(t *testing.T) {
	got, err := Marshal(renamed{CamelCase: "a", Untagged: "b", Skipped: "c"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if _, ok := got.Get("camel_case"); !ok {
		t.Errorf("renamed field missing from %s", got)
	}
	if _, ok := got.Get("untagged"); !ok {
		t.Errorf("lowercased field missing from %s", got)
	}
	if _, ok := got.Get("skipped"); ok {
		t.Errorf("skipped field present in %s", got)
	}
	if got.Len() != 2 {
		t.Errorf("Len() = %d, want 2", got.Len())
	}
}

type Inner struct {
	A int `yaml:"a"`
}

type outer struct {
	Inner
	B int `yaml:"b"`
}

func TestMarshalEmbeddedFlattened(t *testing.T) {
	got, err := Marshal(outer{Inner: Inner{A: 1}, B: 2})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if _, ok := got.Get("a"); !ok {
		t.Errorf("embedded field not flattened in %s", got)
	}
	if _, ok := got.Get("b"); !ok {
		t.Errorf("own field missing from %s", got)
	}
}

func TestMarshalNilPointerIsNull(t *testing.T) {
	type holder struct {
		P *int `yaml:"p"`
	}
	got, err := Marshal(holder{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	p, ok := got.Get("p")
	if !ok || p.Kind != value.NullKind {
		t.Errorf("nil pointer field = %s, want null", p)
	}
}

func TestMarshalMapSortedKeys(t *testing.T) {
	got, err := Marshal(map[string]int{"zebra": 1, "apple": 2})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got.Keys[0].Str != "apple" || got.Keys[1].Str != "zebra" {
		t.Errorf("map keys not sorted in %s", got)
	}
}

func TestMarshalNonFinite(t *testing.T) {
	type holder struct {
		F float64 `yaml:"f"`
	}
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Marshal(holder{F: f})
		if err == nil {
			t.Fatalf("Marshal(%v) succeeded", f)
		}
		if !errs.IsKind(err, errs.NonFiniteNumber) {
			t.Errorf("Marshal(%v) error = %v, want NonFiniteNumber", f, err)
		}
		if !strings.Contains(err.Error(), "f") {
			t.Errorf("error %q does not name the field", err)
		}
	}
}

func TestMarshalUnsupportedKind(t *testing.T) {
	_, err := Marshal(make(chan int))
	if err == nil {
		t.Fatalf("Marshal(chan) succeeded")
	}
	if !errs.IsKind(err, errs.UnexpectedShape) {
		t.Errorf("error = %v, want UnexpectedShape", err)
	}
}

func TestMarshalValuePassthrough(t *testing.T) {
	orig := value.FromPairs([]value.Pair{
		{Key: value.FromString("k"), Val: value.FromInt(1)},
	})
	got, err := Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got != orig {
		t.Errorf("Marshal(*value.Value) did not pass through")
	}
}

type upper string

func (u upper) MarshalText() ([]byte, error) {
	return []byte(strings.ToUpper(string(u))), nil
}

func TestMarshalTextMarshaler(t *testing.T) {
	got, err := Marshal(upper("loud"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got.Kind != value.StringKind || got.Str != "LOUD" {
		t.Errorf("Marshal(upper) = %s, want LOUD", got)
	}
}

func TestMarshalDuplicateFieldNames(t *testing.T) {
	type dup struct {
		A int `yaml:"x"`
		B int `yaml:"x"`
	}
	_, err := Marshal(dup{})
	if err == nil {
		t.Fatalf("duplicate wire names accepted")
	}
	if !errs.IsKind(err, errs.UnexpectedShape) {
		t.Errorf("error = %v, want UnexpectedShape", err)
	}
}
