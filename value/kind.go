package value

import "fmt"

type Kind int

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	SequenceKind
	MappingKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		NullKind:     "Null",
		BoolKind:     "Bool",
		NumberKind:   "Number",
		StringKind:   "String",
		SequenceKind: "Sequence",
		MappingKind:  "Mapping",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"Null":     NullKind,
		"Bool":     BoolKind,
		"Number":   NumberKind,
		"String":   StringKind,
		"Sequence": SequenceKind,
		"Mapping":  MappingKind,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized kind %q", d)
	}
	*k = kk
	return nil
}

func Kinds() []Kind {
	return []Kind{
		NullKind,
		BoolKind,
		NumberKind,
		StringKind,
		SequenceKind,
		MappingKind,
	}
}

func (k Kind) IsLeaf() bool {
	switch k {
	case SequenceKind, MappingKind:
		return false
	default:
		return true
	}
}
