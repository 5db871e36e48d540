// Package yamlkit converts between Go values and YAML documents.
//
// Marshal and Unmarshal are the common entry points. Both route through
// the generic value.Value tree, so a *value.Value works as a source or a
// destination wherever a typed Go value does:
//
//	var cfg Config
//	if err := yamlkit.Unmarshal(data, &cfg); err != nil { ... }
//
//	out, err := yamlkit.Marshal(cfg)
//
// The bind package holds the reflection bridge and its options, parse
// and emit hold the engine adapters, and variant holds the
// representation modes for interface-typed case sets.
package yamlkit

import (
	"io"

	"github.com/yamlkit/go-yamlkit/bind"
	"github.com/yamlkit/go-yamlkit/emit"
	"github.com/yamlkit/go-yamlkit/parse"
)

// Marshal renders v as a YAML document.
func Marshal(v any, opts ...bind.MarshalOption) ([]byte, error) {
	node, err := bind.Marshal(v, opts...)
	if err != nil {
		return nil, err
	}
	return emit.Bytes(node)
}

// MarshalTo renders v as a YAML document written to w.
func MarshalTo(w io.Writer, v any, opts ...bind.MarshalOption) error {
	node, err := bind.Marshal(v, opts...)
	if err != nil {
		return err
	}
	return emit.To(w, node)
}

// Unmarshal parses a YAML document and populates v, which must be a
// non-nil pointer.
func Unmarshal(data []byte, v any, opts ...bind.UnmarshalOption) error {
	node, err := parse.Parse(data)
	if err != nil {
		return err
	}
	return bind.Unmarshal(node, v, opts...)
}

// UnmarshalString is Unmarshal on a string source.
func UnmarshalString(s string, v any, opts ...bind.UnmarshalOption) error {
	node, err := parse.ParseString(s)
	if err != nil {
		return err
	}
	return bind.Unmarshal(node, v, opts...)
}

// Read parses a YAML document from r and populates v.
func Read(r io.Reader, v any, opts ...bind.UnmarshalOption) error {
	node, err := parse.ParseReader(r)
	if err != nil {
		return err
	}
	return bind.Unmarshal(node, v, opts...)
}
