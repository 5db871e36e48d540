// Package variant implements the representation layer for variant types
// (closed sets of named cases over a Go interface type).
//
// # Declaring a variant type
//
// A variant type is a Go interface with a registered, ordered set of
// cases; each case pairs a name with the concrete Go type carrying its
// payload:
//
//	type Shape interface{ area() float64 }
//
//	var shapes = variant.Register[Shape](
//	    variant.CaseOf[Circle]("Circle"),
//	    variant.CaseOf[Rect]("Rect"),
//	)
//
// Registration happens once per interface type, at package init time;
// lookups afterwards are read-only, so concurrent serialization never
// contends.
//
// # Payload shapes
//
// The payload shape follows from the case's concrete type: a struct with
// exported fields is a named-field payload (mapping), a slice or array a
// positional payload (sequence), any other kind a single scalar payload,
// and a struct with no exported fields a unit case with no payload.
//
// # Representation modes
//
// Mode selects the wire shape of a variant-typed field and is chosen per
// field through the `variant` struct tag, or per call through the
// bridges' options:
//
//	Field Shape `variant:"singletonMap"`
//
// Tag form (the default) writes `!Case payload` (unit cases as the bare
// case name). The singleton-mapping forms write `{Case: payload}`; the
// recursive form propagates itself into every nested variant value, and
// the custom form delegates the field's whole wire form to functions
// registered with RegisterCustom.
package variant

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/yamlkit/go-yamlkit/value"
)

type Mode int

const (
	// Tag is the default `!Case` representation.
	Tag Mode = iota
	// SingletonMap represents a case as a one-entry mapping.
	SingletonMap
	// SingletonMapOptional is SingletonMap applied through an optional
	// (pointer) wrapper; absence still serializes as absent.
	SingletonMapOptional
	// SingletonMapRecursive is SingletonMap propagated into every
	// variant value reachable from the annotated field.
	SingletonMapRecursive
	// SingletonMapCustom delegates the field's whole wire form to
	// registered Custom functions.
	SingletonMapCustom
)

func (m Mode) String() string {
	s, ok := map[Mode]string{
		Tag:                   "tag",
		SingletonMap:          "singletonMap",
		SingletonMapOptional:  "singletonMapOptional",
		SingletonMapRecursive: "singletonMapRecursive",
		SingletonMapCustom:    "singletonMapCustom",
	}[m]
	if ok {
		return s
	}
	return "<unknown mode>"
}

// ParseMode reads a `variant` struct tag value. The empty tag is the
// default Tag mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "tag":
		return Tag, nil
	case "singletonMap":
		return SingletonMap, nil
	case "singletonMapOptional":
		return SingletonMapOptional, nil
	case "singletonMapRecursive":
		return SingletonMapRecursive, nil
	case "singletonMapCustom":
		return SingletonMapCustom, nil
	}
	return Tag, fmt.Errorf("unrecognized variant mode %q", s)
}

// Singleton reports whether m uses the singleton-mapping wire shape.
func (m Mode) Singleton() bool {
	return m != Tag
}

// Propagate returns the mode nested values inherit: only the recursive
// mode survives descent, every other mode applies to the annotated
// value alone.
func (m Mode) Propagate() Mode {
	if m == SingletonMapRecursive {
		return SingletonMapRecursive
	}
	return Tag
}

// Case pairs a case name with the concrete Go type of its payload.
type Case struct {
	Name string
	Type reflect.Type
}

func CaseOf[T any](name string) Case {
	return Case{Name: name, Type: reflect.TypeOf((*T)(nil)).Elem()}
}

// Shape classifies a case payload.
type Shape int

const (
	UnitShape Shape = iota
	ScalarShape
	SequenceShape
	MappingShape
)

// ShapeOf derives the payload shape from a case's concrete type.
func ShapeOf(t reflect.Type) Shape {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				return MappingShape
			}
		}
		return UnitShape
	case reflect.Slice, reflect.Array:
		return SequenceShape
	default:
		return ScalarShape
	}
}

// Set is the fixed, ordered case set of one variant type. Sets are
// immutable after registration.
type Set struct {
	iface  reflect.Type
	cases  []Case
	byName map[string]int
	byType map[reflect.Type]int
}

func (s *Set) Interface() reflect.Type { return s.iface }

func (s *Set) Cases() []Case { return s.cases }

func (s *Set) ByName(name string) (Case, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Case{}, false
	}
	return s.cases[i], true
}

// ByType resolves a concrete payload type, looking through one pointer
// level.
func (s *Set) ByType(t reflect.Type) (Case, bool) {
	if i, ok := s.byType[t]; ok {
		return s.cases[i], true
	}
	if t.Kind() == reflect.Pointer {
		if i, ok := s.byType[t.Elem()]; ok {
			return s.cases[i], true
		}
	}
	return Case{}, false
}

func (s *Set) Names() []string {
	names := make([]string, len(s.cases))
	for i, c := range s.cases {
		names[i] = c.Name
	}
	return names
}

var registry = struct {
	sync.RWMutex
	sets map[reflect.Type]*Set
}{sets: map[reflect.Type]*Set{}}

// Register declares the case set of the interface type I. It panics on
// misuse (non-interface I, a case type not implementing I, duplicate
// names) since registration runs at package init time.
func Register[I any](cases ...Case) *Set {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	set, err := NewSet(iface, cases)
	if err != nil {
		panic("variant: " + err.Error())
	}
	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.sets[iface]; dup {
		panic(fmt.Sprintf("variant: %s registered twice", iface))
	}
	registry.sets[iface] = set
	return set
}

// NewSet builds a Set without installing it in the registry.
func NewSet(iface reflect.Type, cases []Case) (*Set, error) {
	if iface.Kind() != reflect.Interface {
		return nil, fmt.Errorf("%s is not an interface type", iface)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("%s has no cases", iface)
	}
	set := &Set{
		iface:  iface,
		cases:  cases,
		byName: make(map[string]int, len(cases)),
		byType: make(map[reflect.Type]int, len(cases)),
	}
	for i, c := range cases {
		if c.Name == "" {
			return nil, fmt.Errorf("%s case %d has an empty name", iface, i)
		}
		if !c.Type.Implements(iface) && !reflect.PointerTo(c.Type).Implements(iface) {
			return nil, fmt.Errorf("%s does not implement %s", c.Type, iface)
		}
		if _, dup := set.byName[c.Name]; dup {
			return nil, fmt.Errorf("%s declares case %q twice", iface, c.Name)
		}
		if _, dup := set.byType[c.Type]; dup {
			return nil, fmt.Errorf("%s declares case type %s twice", iface, c.Type)
		}
		set.byName[c.Name] = i
		set.byType[c.Type] = i
	}
	return set, nil
}

// For returns the registered case set of an interface type.
func For(t reflect.Type) (*Set, bool) {
	registry.RLock()
	defer registry.RUnlock()
	set, ok := registry.sets[t]
	return set, ok
}

// ForCase returns a registered set that declares t as a case type, for
// values that arrive with the concrete type instead of the interface.
// When a type is a case of several sets, which one is returned is
// unspecified.
func ForCase(t reflect.Type) (*Set, bool) {
	registry.RLock()
	defer registry.RUnlock()
	for _, set := range registry.sets {
		if _, ok := set.ByType(t); ok {
			return set, true
		}
	}
	return nil, false
}

// Custom holds caller-supplied conversion functions for one annotated
// field. The functions own the field's whole wire form: Encode produces
// and Decode consumes the complete node, case wrapping included.
type Custom struct {
	Encode func(v any) (*value.Value, error)
	Decode func(node *value.Value) (any, error)
}

type customKey struct {
	owner reflect.Type
	field string
}

var customs = struct {
	sync.RWMutex
	m map[customKey]Custom
}{m: map[customKey]Custom{}}

// RegisterCustom installs the conversion functions for the named field
// of the owner struct type, for fields annotated
// `variant:"singletonMapCustom"`.
func RegisterCustom(owner reflect.Type, field string, c Custom) {
	customs.Lock()
	defer customs.Unlock()
	customs.m[customKey{owner, field}] = c
}

func CustomFor(owner reflect.Type, field string) (Custom, bool) {
	customs.RLock()
	defer customs.RUnlock()
	c, ok := customs.m[customKey{owner, field}]
	return c, ok
}
