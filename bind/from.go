package bind

import (
	"encoding"
	"math"
	"reflect"
	"strings"

	"github.com/yamlkit/go-yamlkit/errs"
	"github.com/yamlkit/go-yamlkit/value"
	"github.com/yamlkit/go-yamlkit/variant"
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// Unmarshal populates dest, which must be a non-nil pointer, from the
// Value tree. On error the destination's contents are undefined.
func Unmarshal(node *value.Value, dest any, opts ...UnmarshalOption) error {
	cfg := newUnmarshalConfig(opts)
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errs.New(errs.UnexpectedShape, "destination must be a non-nil pointer")
	}
	if node == nil {
		node = value.Null()
	}
	return unmarshalValue(node, rv.Elem(), cfg, cfg.mode, nil)
}

func unmarshalValue(node *value.Value, rv reflect.Value, cfg *unmarshalConfig, mode variant.Mode, custom *variant.Custom) error {
	typ := rv.Type()

	switch typ {
	case valuePtrType:
		rv.Set(reflect.ValueOf(node.Clone()))
		return nil
	case valueStructType:
		rv.Set(reflect.ValueOf(*node.Clone()))
		return nil
	}

	if typ.Kind() == reflect.Interface {
		if set, ok := variant.For(typ); ok {
			return unmarshalVariant(node, rv, set, cfg, mode, custom)
		}
		if typ.NumMethod() == 0 {
			got, err := toGo(node)
			if err != nil {
				return err
			}
			if got == nil {
				rv.SetZero()
			} else {
				rv.Set(reflect.ValueOf(got))
			}
			return nil
		}
		return errs.Atf(errs.UnexpectedShape, node.Pos,
			"cannot decode into unregistered interface type %s", typ)
	}

	if typ.Kind() == reflect.Pointer {
		if node.Kind == value.NullKind {
			rv.SetZero()
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(typ.Elem()))
		}
		return unmarshalValue(node, rv.Elem(), cfg, mode, custom)
	}

	if node.Kind == value.StringKind && rv.CanAddr() {
		if pv := rv.Addr(); pv.Type().Implements(textUnmarshalerType) {
			if err := pv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(node.Str)); err != nil {
				return errs.Atf(errs.UnexpectedShape, node.Pos, "decode %s: %v", typ, err)
			}
			return nil
		}
	}

	switch typ.Kind() {
	case reflect.Bool:
		if node.Kind != value.BoolKind {
			return shapeErr(node, "bool")
		}
		rv.SetBool(node.Bool)
		return nil
	case reflect.String:
		if node.Kind != value.StringKind {
			return shapeErr(node, "string")
		}
		rv.SetString(node.Str)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return unmarshalInt(node, rv)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unmarshalUint(node, rv)
	case reflect.Float32, reflect.Float64:
		return unmarshalFloat(node, rv)
	case reflect.Slice:
		return unmarshalSlice(node, rv, cfg, mode)
	case reflect.Array:
		return unmarshalArray(node, rv, cfg, mode)
	case reflect.Map:
		return unmarshalMap(node, rv, cfg, mode)
	case reflect.Struct:
		return unmarshalStruct(node, rv, cfg, mode)
	default:
		return errs.Atf(errs.UnexpectedShape, node.Pos, "unsupported destination type %s", typ)
	}
}

func shapeErr(node *value.Value, want string) error {
	return errs.Atf(errs.UnexpectedShape, node.Pos, "expected %s, got %s", want, node.Kind)
}

func unmarshalInt(node *value.Value, rv reflect.Value) error {
	if node.Kind != value.NumberKind {
		return shapeErr(node, "integer")
	}
	if node.IsFloat() {
		if f, ok := node.AsFloat64(); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return errs.Atf(errs.NonFiniteNumber, node.Pos,
				"cannot decode %s into %s", node.FormatNumber(), rv.Type())
		}
		return shapeErr(node, "integer")
	}
	i, ok := node.AsInt64()
	if !ok || rv.OverflowInt(i) {
		return errs.Atf(errs.NumericRange, node.Pos,
			"%s out of range for %s", node.FormatNumber(), rv.Type())
	}
	rv.SetInt(i)
	return nil
}

func unmarshalUint(node *value.Value, rv reflect.Value) error {
	if node.Kind != value.NumberKind {
		return shapeErr(node, "integer")
	}
	if node.IsFloat() {
		if f, ok := node.AsFloat64(); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return errs.Atf(errs.NonFiniteNumber, node.Pos,
				"cannot decode %s into %s", node.FormatNumber(), rv.Type())
		}
		return shapeErr(node, "integer")
	}
	u, ok := node.AsUint64()
	if !ok || rv.OverflowUint(u) {
		return errs.Atf(errs.NumericRange, node.Pos,
			"%s out of range for %s", node.FormatNumber(), rv.Type())
	}
	rv.SetUint(u)
	return nil
}

func unmarshalFloat(node *value.Value, rv reflect.Value) error {
	if node.Kind != value.NumberKind {
		return shapeErr(node, "number")
	}
	f, ok := node.AsFloat64()
	if !ok {
		return shapeErr(node, "number")
	}
	if rv.OverflowFloat(f) {
		return errs.Atf(errs.NumericRange, node.Pos,
			"%s out of range for %s", node.FormatNumber(), rv.Type())
	}
	rv.SetFloat(f)
	return nil
}

func unmarshalSlice(node *value.Value, rv reflect.Value, cfg *unmarshalConfig, mode variant.Mode) error {
	if node.Kind == value.NullKind {
		rv.SetZero()
		return nil
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 && node.Kind == value.StringKind {
		rv.SetBytes([]byte(node.Str))
		return nil
	}
	if node.Kind != value.SequenceKind {
		return shapeErr(node, "sequence")
	}
	out := reflect.MakeSlice(rv.Type(), len(node.Values), len(node.Values))
	for i, elem := range node.Values {
		if err := unmarshalValue(elem, out.Index(i), cfg, mode, nil); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func unmarshalArray(node *value.Value, rv reflect.Value, cfg *unmarshalConfig, mode variant.Mode) error {
	if node.Kind != value.SequenceKind {
		return shapeErr(node, "sequence")
	}
	if len(node.Values) != rv.Len() {
		return errs.Atf(errs.UnexpectedShape, node.Pos,
			"expected sequence of length %d, got %d", rv.Len(), len(node.Values))
	}
	for i, elem := range node.Values {
		if err := unmarshalValue(elem, rv.Index(i), cfg, mode, nil); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalMap(node *value.Value, rv reflect.Value, cfg *unmarshalConfig, mode variant.Mode) error {
	if node.Kind == value.NullKind {
		rv.SetZero()
		return nil
	}
	if node.Kind != value.MappingKind {
		return shapeErr(node, "mapping")
	}
	typ := rv.Type()
	out := reflect.MakeMapWithSize(typ, len(node.Keys))
	for i, key := range node.Keys {
		kv := reflect.New(typ.Key()).Elem()
		if err := unmarshalValue(key, kv, cfg, variant.Tag, nil); err != nil {
			return err
		}
		ev := reflect.New(typ.Elem()).Elem()
		if err := unmarshalValue(node.Values[i], ev, cfg, mode, nil); err != nil {
			return err
		}
		out.SetMapIndex(kv, ev)
	}
	rv.Set(out)
	return nil
}

func unmarshalStruct(node *value.Value, rv reflect.Value, cfg *unmarshalConfig, mode variant.Mode) error {
	fields, err := fieldsOf(rv.Type())
	if err != nil {
		return err
	}
	if node.Kind == value.NullKind {
		for _, f := range fields {
			if !f.Optional && !f.OmitEmpty {
				return errs.Atf(errs.MissingField, node.Pos,
					"missing field %q in %s", f.Name, rv.Type())
			}
		}
		rv.SetZero()
		return nil
	}
	if node.Kind != value.MappingKind {
		return shapeErr(node, "mapping")
	}

	byName := make(map[string]*fieldInfo, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	seen := make(map[string]bool, len(node.Keys))
	for i, key := range node.Keys {
		if key.Kind != value.StringKind {
			return errs.Atf(errs.UnexpectedShape, key.Pos,
				"expected string key, got %s", key.Kind)
		}
		f, ok := byName[key.Str]
		if !ok {
			if cfg.strict {
				return errs.Atf(errs.UnknownField, key.Pos,
					"unknown field %q in %s, expected one of %s",
					key.Str, rv.Type(), fieldNames(fields))
			}
			continue
		}
		seen[key.Str] = true
		childMode := mode.Propagate()
		if f.HasMode {
			childMode = f.Mode
		}
		if err := unmarshalValue(node.Values[i], rv.FieldByIndex(f.Index), cfg, childMode, f.Custom); err != nil {
			return err
		}
	}

	for _, f := range fields {
		if seen[f.Name] || f.Optional || f.OmitEmpty {
			continue
		}
		return errs.Atf(errs.MissingField, node.Pos,
			"missing field %q in %s", f.Name, rv.Type())
	}
	return nil
}

func fieldNames(fields []*fieldInfo) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = `"` + f.Name + `"`
	}
	return strings.Join(names, ", ")
}

// toGo converts a Value subtree to plain Go data for an empty interface
// target: nil, bool, int64/uint64/float64, string, []any, map[string]any.
func toGo(node *value.Value) (any, error) {
	switch node.Kind {
	case value.NullKind:
		return nil, nil
	case value.BoolKind:
		return node.Bool, nil
	case value.NumberKind:
		if i, ok := node.AsInt64(); ok {
			return i, nil
		}
		if u, ok := node.AsUint64(); ok {
			return u, nil
		}
		if f, ok := node.AsFloat64(); ok {
			return f, nil
		}
		return node.FormatNumber(), nil
	case value.StringKind:
		return node.Str, nil
	case value.SequenceKind:
		out := make([]any, len(node.Values))
		for i, elem := range node.Values {
			got, err := toGo(elem)
			if err != nil {
				return nil, err
			}
			out[i] = got
		}
		return out, nil
	case value.MappingKind:
		out := make(map[string]any, len(node.Keys))
		for i, key := range node.Keys {
			if key.Kind != value.StringKind {
				return nil, errs.Atf(errs.UnexpectedShape, key.Pos,
					"expected string key, got %s", key.Kind)
			}
			got, err := toGo(node.Values[i])
			if err != nil {
				return nil, err
			}
			out[key.Str] = got
		}
		return out, nil
	default:
		return nil, errs.Atf(errs.UnexpectedShape, node.Pos, "unexpected kind %s", node.Kind)
	}
}
