package bind

import (
	"reflect"
	"strings"

	"github.com/yamlkit/go-yamlkit/errs"
	"github.com/yamlkit/go-yamlkit/variant"
)

// fieldInfo holds the wire metadata of one struct field.
type fieldInfo struct {
	// Name is the mapping key: the `yaml` tag name, or the lowercased
	// Go field name.
	Name string

	// Index is the field index path from the owning struct, through
	// flattened embedded structs.
	Index []int

	Type reflect.Type

	// OmitEmpty skips the field on marshal when its value is empty.
	OmitEmpty bool

	// Optional fields may be absent on unmarshal. Pointer, slice, map
	// and interface fields are optional, as are omitempty fields.
	Optional bool

	// Mode is the variant representation mode from the `variant` tag;
	// HasMode distinguishes an explicit tag from the default.
	Mode    variant.Mode
	HasMode bool

	// Custom is the registered payload hook pair, present when the
	// owning struct registered one for this field.
	Custom *variant.Custom
}

// fieldsOf returns the wire fields of a struct type in declaration
// order, flattening anonymous embedded structs.
func fieldsOf(t reflect.Type) ([]*fieldInfo, error) {
	var fields []*fieldInfo
	byName := map[string]bool{}
	if err := appendFields(t, t, nil, &fields, byName); err != nil {
		return nil, err
	}
	return fields, nil
}

func appendFields(owner, t reflect.Type, prefix []int, fields *[]*fieldInfo, byName map[string]bool) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("yaml")
		name, omitEmpty := splitYAMLTag(tag)
		if name == "-" {
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct && name == "" {
			if err := appendFields(owner, f.Type, append(append([]int{}, prefix...), i), fields, byName); err != nil {
				return err
			}
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		if byName[name] {
			return errs.Newf(errs.UnexpectedShape, "duplicate field %q in %s", name, owner)
		}
		byName[name] = true

		mode, hasMode, err := fieldMode(owner, f)
		if err != nil {
			return err
		}
		info := &fieldInfo{
			Name:      name,
			Index:     append(append([]int{}, prefix...), i),
			Type:      f.Type,
			OmitEmpty: omitEmpty,
			Optional:  omitEmpty || isOptionalType(f.Type),
			Mode:      mode,
			HasMode:   hasMode,
		}
		if mode == variant.SingletonMapCustom {
			if c, ok := variant.CustomFor(owner, f.Name); ok {
				info.Custom = &c
			} else {
				return errs.Newf(errs.UnexpectedShape,
					"field %s.%s uses singletonMapCustom but has no registered hooks", owner, f.Name)
			}
		}
		*fields = append(*fields, info)
	}
	return nil
}

func fieldMode(owner reflect.Type, f reflect.StructField) (variant.Mode, bool, error) {
	tag, ok := f.Tag.Lookup("variant")
	if !ok {
		return variant.Tag, false, nil
	}
	mode, err := variant.ParseMode(tag)
	if err != nil {
		return variant.Tag, false, errs.Newf(errs.UnexpectedShape, "field %s.%s: %v", owner, f.Name, err)
	}
	return mode, true, nil
}

func splitYAMLTag(tag string) (name string, omitEmpty bool) {
	parts := strings.Split(tag, ",")
	name = parts[0]
	for _, p := range parts[1:] {
		if p == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty
}

// isOptionalType reports whether a field type can represent absence.
func isOptionalType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}
