// Package emit adapts the external YAML grammar engine's write side to
// the structural event protocol.
//
// An Emitter accepts structural write calls, assembles the engine's node
// tree, and renders it through gopkg.in/yaml.v3. Scalar style selection
// is the engine's: it quotes keys and values whose plain spelling would
// resolve to another kind (`y`, `true`, `1.0`), wraps long lines, and
// owns indentation.
package emit

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/yamlkit/go-yamlkit/errs"
	"github.com/yamlkit/go-yamlkit/event"
	"github.com/yamlkit/go-yamlkit/value"
)

type Emitter struct {
	indent  int
	root    *yamlv3.Node
	stack   []*yamlv3.Node
	hasRoot bool
}

type Option func(*Emitter)

func Indent(n int) Option {
	return func(e *Emitter) { e.indent = n }
}

func New(opts ...Option) *Emitter {
	e := &Emitter{indent: 2}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bytes renders v as YAML text.
func Bytes(v *value.Value, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := To(&buf, v, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// To renders v as YAML text onto w without buffering the whole output
// beyond the node tree.
func To(w io.Writer, v *value.Value, opts ...Option) error {
	e := New(opts...)
	if err := v.Emit(e); err != nil {
		return err
	}
	return e.WriteTo(w)
}

func (e *Emitter) attach(n *yamlv3.Node) error {
	if len(e.stack) > 0 {
		top := e.stack[len(e.stack)-1]
		top.Content = append(top.Content, n)
		return nil
	}
	if e.hasRoot {
		return errs.New(errs.UnexpectedShape, "multiple document roots written")
	}
	e.root = n
	e.hasRoot = true
	return nil
}

func (e *Emitter) Scalar(ev *event.Event) error {
	n := &yamlv3.Node{Kind: yamlv3.ScalarNode}
	switch ev.Scalar {
	case event.NullScalar:
		n.Tag = "!!null"
		n.Value = "null"
	case event.BoolScalar:
		n.Tag = "!!bool"
		n.Value = strconv.FormatBool(ev.Bool)
	case event.IntScalar:
		n.Tag = "!!int"
		n.Value = strconv.FormatInt(ev.Int, 10)
	case event.UintScalar:
		n.Tag = "!!int"
		n.Value = strconv.FormatUint(ev.Uint, 10)
	case event.FloatScalar:
		n.Tag = "!!float"
		n.Value = value.FormatFloat(ev.Float)
	case event.NumberScalar:
		// out-of-range literal, engine re-resolves the kind
		n.Value = ev.Str
	default:
		n.Tag = "!!str"
		n.Value = ev.Str
	}
	applyTag(n, ev.Tag)
	return e.attach(n)
}

func (e *Emitter) BeginSequence(tag string, flow bool) error {
	n := &yamlv3.Node{Kind: yamlv3.SequenceNode, Tag: "!!seq"}
	if flow {
		n.Style |= yamlv3.FlowStyle
	}
	applyTag(n, tag)
	if err := e.attach(n); err != nil {
		return err
	}
	e.stack = append(e.stack, n)
	return nil
}

func (e *Emitter) EndSequence() error {
	return e.pop(yamlv3.SequenceNode)
}

func (e *Emitter) BeginMapping(tag string, flow bool) error {
	n := &yamlv3.Node{Kind: yamlv3.MappingNode, Tag: "!!map"}
	if flow {
		n.Style |= yamlv3.FlowStyle
	}
	applyTag(n, tag)
	if err := e.attach(n); err != nil {
		return err
	}
	e.stack = append(e.stack, n)
	return nil
}

func (e *Emitter) EndMapping() error {
	return e.pop(yamlv3.MappingNode)
}

func (e *Emitter) pop(kind yamlv3.Kind) error {
	if len(e.stack) == 0 {
		return errs.New(errs.UnexpectedShape, "container end without start")
	}
	top := e.stack[len(e.stack)-1]
	if top.Kind != kind {
		return errs.New(errs.UnexpectedShape, "mismatched container end")
	}
	if kind == yamlv3.MappingNode && len(top.Content)%2 != 0 {
		return errs.New(errs.UnexpectedShape, "mapping key written without value")
	}
	e.stack = e.stack[:len(e.stack)-1]
	return nil
}

// WriteTo renders the accumulated document. The write-call sequence must
// be complete and balanced.
func (e *Emitter) WriteTo(w io.Writer) error {
	if e.root == nil || len(e.stack) != 0 {
		return errs.New(errs.UnexpectedShape, "incomplete document")
	}
	enc := yamlv3.NewEncoder(w)
	enc.SetIndent(e.indent)
	if err := enc.Encode(e.root); err != nil {
		return errs.Wrap(err, errs.Io)
	}
	if err := enc.Close(); err != nil {
		return errs.Wrap(err, errs.Io)
	}
	return nil
}

func (e *Emitter) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// applyTag attaches an application tag (`!name`) to a node, overriding
// the implicit tag. Standard `!!` tags pass unchanged.
func applyTag(n *yamlv3.Node, tag string) {
	if tag == "" {
		return
	}
	if strings.HasPrefix(tag, "!!") {
		n.Tag = tag
		return
	}
	if !strings.HasPrefix(tag, "!") {
		tag = "!" + tag
	}
	n.Tag = tag
	n.Style |= yamlv3.TaggedStyle
}
