package bind

import (
	"encoding"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/yamlkit/go-yamlkit/errs"
	"github.com/yamlkit/go-yamlkit/value"
	"github.com/yamlkit/go-yamlkit/variant"
)

var (
	valuePtrType      = reflect.TypeOf((*value.Value)(nil))
	valueStructType   = valuePtrType.Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Marshal converts a Go value to a Value tree. A *value.Value input
// passes through unchanged: the Value model is its own producer.
func Marshal(v any, opts ...MarshalOption) (*value.Value, error) {
	cfg := newMarshalConfig(opts)
	if v == nil {
		return value.Null(), nil
	}
	return marshalValue(reflect.ValueOf(v), "", cfg.mode, nil)
}

func marshalValue(val reflect.Value, fieldPath string, mode variant.Mode, custom *variant.Custom) (*value.Value, error) {
	if !val.IsValid() {
		return value.Null(), nil
	}
	typ := val.Type()

	switch typ {
	case valuePtrType:
		if val.IsNil() {
			return value.Null(), nil
		}
		return val.Interface().(*value.Value), nil
	case valueStructType:
		vv := val.Interface().(value.Value)
		return &vv, nil
	}

	if typ.Kind() == reflect.Interface {
		if val.IsNil() {
			return value.Null(), nil
		}
		if set, ok := variant.For(typ); ok {
			return marshalVariant(val.Elem(), set, fieldPath, mode, custom)
		}
		return marshalValue(val.Elem(), fieldPath, mode, custom)
	}

	// a case value can arrive with its concrete type when the interface
	// was erased on the way in (any parameters, container elements)
	if set, ok := variant.ForCase(typ); ok {
		return marshalVariant(val, set, fieldPath, mode, custom)
	}

	return marshalPlain(val, fieldPath, mode, custom)
}

// marshalPlain converts without variant dispatch; marshalVariant uses it
// for case payloads.
func marshalPlain(val reflect.Value, fieldPath string, mode variant.Mode, custom *variant.Custom) (*value.Value, error) {
	typ := val.Type()

	if typ.Kind() == reflect.Pointer {
		if val.IsNil() {
			return value.Null(), nil
		}
		return marshalValue(val.Elem(), fieldPath, mode, custom)
	}

	if typ.Implements(textMarshalerType) && val.CanInterface() {
		b, err := val.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, errs.Newf(errs.UnexpectedShape, "marshal %s: %v", pathOr(fieldPath, typ.String()), err)
		}
		return value.FromString(string(b)), nil
	}

	switch typ.Kind() {
	case reflect.Bool:
		return value.FromBool(val.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.FromInt(val.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value.FromUint(val.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := val.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errs.Newf(errs.NonFiniteNumber,
				"cannot serialize non-finite number at %s", pathOr(fieldPath, "document root"))
		}
		return value.FromFloat(f), nil
	case reflect.String:
		return value.FromString(val.String()), nil
	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 {
			return value.FromString(string(val.Bytes())), nil
		}
		if val.IsNil() {
			return value.Null(), nil
		}
		return marshalSequence(val, fieldPath, mode)
	case reflect.Array:
		return marshalSequence(val, fieldPath, mode)
	case reflect.Map:
		return marshalMap(val, fieldPath, mode)
	case reflect.Struct:
		return marshalStruct(val, fieldPath, mode)
	default:
		return nil, errs.Newf(errs.UnexpectedShape,
			"unsupported type %s at %s", typ, pathOr(fieldPath, "document root"))
	}
}

func marshalSequence(val reflect.Value, fieldPath string, mode variant.Mode) (*value.Value, error) {
	n := val.Len()
	elems := make([]*value.Value, n)
	for i := 0; i < n; i++ {
		// elements inherit the container's mode: a sequence of variant
		// values applies the same descriptor to each element
		elem, err := marshalValue(val.Index(i), elemPath(fieldPath, i), mode, nil)
		if err != nil {
			return nil, err
		}
		elems[i] = elem
	}
	return value.FromSlice(elems), nil
}

func marshalMap(val reflect.Value, fieldPath string, mode variant.Mode) (*value.Value, error) {
	if val.IsNil() {
		return value.Null(), nil
	}
	pairs := make([]value.Pair, 0, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		key, err := marshalValue(iter.Key(), fieldPath, variant.Tag, nil)
		if err != nil {
			return nil, err
		}
		if !key.Kind.IsLeaf() {
			return nil, errs.Newf(errs.UnexpectedShape,
				"map key must be a scalar, got %s at %s", key.Kind, pathOr(fieldPath, "document root"))
		}
		elem, err := marshalValue(iter.Value(), fieldPath+"."+key.String(), mode, nil)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, value.Pair{Key: key, Val: elem})
	}
	// Go maps carry no order; sort for deterministic output
	sort.Slice(pairs, func(i, j int) bool {
		return value.Compare(pairs[i].Key, pairs[j].Key) < 0
	})
	return value.FromPairs(pairs), nil
}

func marshalStruct(val reflect.Value, fieldPath string, mode variant.Mode) (*value.Value, error) {
	fields, err := fieldsOf(val.Type())
	if err != nil {
		return nil, err
	}
	pairs := make([]value.Pair, 0, len(fields))
	for _, f := range fields {
		fv := val.FieldByIndex(f.Index)
		if f.OmitEmpty && isEmptyValue(fv) {
			continue
		}
		childMode := mode.Propagate()
		if f.HasMode {
			childMode = f.Mode
		}
		elem, err := marshalValue(fv, childPath(fieldPath, f.Name), childMode, f.Custom)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, value.Pair{Key: value.FromString(f.Name), Val: elem})
	}
	return value.FromPairs(pairs), nil
}

func isEmptyValue(val reflect.Value) bool {
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		return val.IsNil()
	case reflect.Slice, reflect.Map, reflect.String:
		return val.Len() == 0
	default:
		return val.IsZero()
	}
}

func childPath(fieldPath, name string) string {
	if fieldPath == "" {
		return name
	}
	return fieldPath + "." + name
}

func elemPath(fieldPath string, i int) string {
	return childPath(fieldPath, "["+strconv.Itoa(i)+"]")
}

func pathOr(fieldPath, alt string) string {
	if fieldPath == "" {
		return alt
	}
	return fieldPath
}
