// Package bind converts between Go values and the generic Value model.
//
// # Overview
//
// Marshal walks any Go value by reflection into a value.Value tree; the
// emit package then renders that tree as YAML. Unmarshal walks a parsed
// value.Value into a Go destination, carrying the source position of
// every node so failures point at the offending input.
//
// Struct fields use the `yaml` tag for naming and omission, following
// the usual convention:
//
//	type Server struct {
//	    Host string  `yaml:"host"`
//	    Port int     `yaml:"port,omitempty"`
//	    Note *string // optional; nil marshals as omitted or null
//	}
//
// Untagged exported fields use their lowercased name. Anonymous embedded
// structs are flattened into the parent mapping.
//
// # Variant fields
//
// A field whose type is an interface registered with the variant package
// encodes per the active representation mode, chosen with the `variant`
// struct tag (`singletonMap`, `singletonMapOptional`,
// `singletonMapRecursive`, `singletonMapCustom`) or defaulting to the
// tag form. The recursive mode is threaded through the walk as an
// explicit parameter, so concurrent calls never interfere.
//
// # Failure
//
// All failures are *errs.Error values. Unmarshal failures carry the
// position of the innermost offending node and abort the walk at the
// first failure; on error the destination's contents are undefined.
package bind
