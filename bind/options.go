package bind

import "github.com/yamlkit/go-yamlkit/variant"

// MarshalOption configures a Marshal call.
type MarshalOption interface {
	applyMarshal(*marshalConfig)
}

// UnmarshalOption configures an Unmarshal call.
type UnmarshalOption interface {
	applyUnmarshal(*unmarshalConfig)
}

type marshalConfig struct {
	mode variant.Mode
}

type unmarshalConfig struct {
	mode   variant.Mode
	strict bool
}

// ModeOption selects the variant representation mode for the whole call,
// the per-container counterpart of the `variant` field tag. It applies
// to both directions.
type ModeOption struct {
	mode variant.Mode
}

func VariantMode(m variant.Mode) ModeOption {
	return ModeOption{mode: m}
}

func (o ModeOption) applyMarshal(cfg *marshalConfig)     { cfg.mode = o.mode }
func (o ModeOption) applyUnmarshal(cfg *unmarshalConfig) { cfg.mode = o.mode }

type strictOption struct{}

// Strict makes record targets closed: an unknown mapping key fails with
// UnknownField instead of being ignored.
func Strict() UnmarshalOption {
	return strictOption{}
}

func (strictOption) applyUnmarshal(cfg *unmarshalConfig) { cfg.strict = true }

func newMarshalConfig(opts []MarshalOption) *marshalConfig {
	cfg := &marshalConfig{mode: variant.Tag}
	for _, opt := range opts {
		opt.applyMarshal(cfg)
	}
	return cfg
}

func newUnmarshalConfig(opts []UnmarshalOption) *unmarshalConfig {
	cfg := &unmarshalConfig{mode: variant.Tag}
	for _, opt := range opts {
		opt.applyUnmarshal(cfg)
	}
	return cfg
}
