package bind

import (
	"reflect"
	"strings"

	"github.com/yamlkit/go-yamlkit/errs"
	"github.com/yamlkit/go-yamlkit/value"
	"github.com/yamlkit/go-yamlkit/variant"
)

// marshalVariant converts one case value, already stripped of its
// interface wrapper.
func marshalVariant(concrete reflect.Value, set *variant.Set, fieldPath string, mode variant.Mode, custom *variant.Custom) (*value.Value, error) {
	for concrete.Kind() == reflect.Pointer {
		if concrete.IsNil() {
			return value.Null(), nil
		}
		concrete = concrete.Elem()
	}
	cs, ok := set.ByType(concrete.Type())
	if !ok {
		return nil, errs.Newf(errs.UnknownVariant,
			"type %s is not a registered case of %s at %s",
			concrete.Type(), set.Interface(), pathOr(fieldPath, "document root"))
	}

	// custom hooks own the whole wire form, case wrapping included
	if mode == variant.SingletonMapCustom {
		if custom == nil {
			return nil, errs.Newf(errs.UnexpectedShape,
				"no custom variant functions registered for %s", pathOr(fieldPath, set.Interface().String()))
		}
		node, err := custom.Encode(concrete.Interface())
		if err != nil {
			return nil, errs.Wrap(err, errs.UnexpectedShape)
		}
		return node, nil
	}

	shape := variant.ShapeOf(cs.Type)

	if mode.Singleton() {
		var payload *value.Value
		if shape == variant.UnitShape {
			payload = value.Null()
		} else {
			var err error
			payload, err = marshalPlain(concrete, childPath(fieldPath, cs.Name), mode.Propagate(), nil)
			if err != nil {
				return nil, err
			}
		}
		return value.FromPairs([]value.Pair{{Key: value.FromString(cs.Name), Val: payload}}), nil
	}

	if shape == variant.UnitShape {
		return value.FromString(cs.Name), nil
	}
	payload, err := marshalPlain(concrete, childPath(fieldPath, cs.Name), mode.Propagate(), nil)
	if err != nil {
		return nil, err
	}
	return payload.WithTag("!" + cs.Name), nil
}

func unmarshalVariant(node *value.Value, rv reflect.Value, set *variant.Set, cfg *unmarshalConfig, mode variant.Mode, custom *variant.Custom) error {
	if node.Kind == value.NullKind {
		rv.SetZero()
		return nil
	}

	if mode == variant.SingletonMapCustom && custom != nil {
		got, err := custom.Decode(node)
		if err != nil {
			return errs.Wrap(err, errs.UnexpectedShape).With(node.Pos)
		}
		if got == nil {
			rv.SetZero()
			return nil
		}
		gv := reflect.ValueOf(got)
		if !gv.Type().AssignableTo(rv.Type()) {
			return errs.Atf(errs.UnexpectedShape, node.Pos,
				"custom decode returned %s, want %s", gv.Type(), rv.Type())
		}
		rv.Set(gv)
		return nil
	}

	if mode.Singleton() {
		return unmarshalSingleton(node, rv, set, cfg, mode)
	}
	return unmarshalTagged(node, rv, set, cfg, mode)
}

func unmarshalSingleton(node *value.Value, rv reflect.Value, set *variant.Set, cfg *unmarshalConfig, mode variant.Mode) error {
	// a bare scalar names a unit case, the shorthand for {Name: null}
	if node.Kind == value.StringKind {
		return unmarshalUnitName(node, rv, set)
	}
	if node.Kind != value.MappingKind {
		return errs.Atf(errs.UnexpectedShape, node.Pos,
			"expected singleton mapping for %s, got %s", set.Interface(), node.Kind)
	}
	if len(node.Keys) != 1 {
		return errs.Atf(errs.AmbiguousVariantRepresentation, node.Pos,
			"expected exactly one case key for %s, got %d entries", set.Interface(), len(node.Keys))
	}
	key, payload := node.Keys[0], node.Values[0]
	if key.Kind != value.StringKind {
		return errs.Atf(errs.UnexpectedShape, key.Pos,
			"expected string case key, got %s", key.Kind)
	}
	cs, ok := set.ByName(key.Str)
	if !ok {
		return errs.Atf(errs.UnknownVariant, key.Pos,
			"unknown case %q of %s, expected one of %s",
			key.Str, set.Interface(), quoteNames(set.Names()))
	}
	if variant.ShapeOf(cs.Type) == variant.UnitShape {
		if payload.Kind != value.NullKind {
			return errs.Atf(errs.UnexpectedShape, payload.Pos,
				"case %q of %s takes no payload", cs.Name, set.Interface())
		}
		return setCase(rv, set, cs, reflect.New(cs.Type))
	}
	pv := reflect.New(cs.Type)
	if err := unmarshalValue(payload, pv.Elem(), cfg, mode.Propagate(), nil); err != nil {
		return err
	}
	return setCase(rv, set, cs, pv)
}

func unmarshalTagged(node *value.Value, rv reflect.Value, set *variant.Set, cfg *unmarshalConfig, mode variant.Mode) error {
	if node.Tag != "" {
		name := strings.TrimPrefix(node.Tag, "!")
		cs, ok := set.ByName(name)
		if !ok {
			return errs.Atf(errs.UnknownVariant, node.Pos,
				"unknown case %q of %s, expected one of %s",
				name, set.Interface(), quoteNames(set.Names()))
		}
		payload := node.Clone()
		payload.Tag = ""
		if variant.ShapeOf(cs.Type) == variant.UnitShape {
			if payload.Kind != value.NullKind &&
				!(payload.Kind == value.StringKind && payload.Str == "") {
				return errs.Atf(errs.UnexpectedShape, node.Pos,
					"case %q of %s takes no payload", cs.Name, set.Interface())
			}
			return setCase(rv, set, cs, reflect.New(cs.Type))
		}
		pv := reflect.New(cs.Type)
		if err := unmarshalValue(payload, pv.Elem(), cfg, mode.Propagate(), nil); err != nil {
			return err
		}
		return setCase(rv, set, cs, pv)
	}
	if node.Kind == value.StringKind {
		return unmarshalUnitName(node, rv, set)
	}
	return errs.Atf(errs.UnexpectedShape, node.Pos,
		"expected tagged value or case name for %s, got %s", set.Interface(), node.Kind)
}

func unmarshalUnitName(node *value.Value, rv reflect.Value, set *variant.Set) error {
	cs, ok := set.ByName(node.Str)
	if !ok {
		return errs.Atf(errs.UnknownVariant, node.Pos,
			"unknown case %q of %s, expected one of %s",
			node.Str, set.Interface(), quoteNames(set.Names()))
	}
	if variant.ShapeOf(cs.Type) != variant.UnitShape {
		return errs.Atf(errs.UnexpectedShape, node.Pos,
			"case %q of %s requires a payload", cs.Name, set.Interface())
	}
	return setCase(rv, set, cs, reflect.New(cs.Type))
}

// setCase stores the populated *T in rv, dereferencing when T itself
// satisfies the variant interface.
func setCase(rv reflect.Value, set *variant.Set, cs variant.Case, pv reflect.Value) error {
	if cs.Type.Implements(set.Interface()) {
		rv.Set(pv.Elem())
		return nil
	}
	if pv.Type().Implements(set.Interface()) {
		rv.Set(pv)
		return nil
	}
	return errs.Newf(errs.UnexpectedShape,
		"case type %s does not satisfy %s", cs.Type, set.Interface())
}

func quoteNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}
	return strings.Join(quoted, ", ")
}
