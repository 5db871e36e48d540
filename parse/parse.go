// Package parse adapts the external YAML grammar engine's read side into
// the structural event protocol and the Value model.
//
// The engine (github.com/goccy/go-yaml) owns the character-level
// grammar: indentation, scalar styles, comments, anchors. This package
// walks its AST into a stream of structural events with byte/line/column
// positions, and builds a value.Value from that stream. Aliases are
// resolved by replaying the anchored node's events; merge keys pass
// through as ordinary keys.
package parse

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/yamlkit/go-yamlkit/errs"
	"github.com/yamlkit/go-yamlkit/event"
	"github.com/yamlkit/go-yamlkit/value"
)

// Parse converts YAML text into a Value with positions attached to every
// node. Input must be valid UTF-8. An empty document parses to Null; of
// a multi-document stream, only the first document is read.
func Parse(data []byte) (*value.Value, error) {
	evs, err := Events(data)
	if err != nil {
		return nil, err
	}
	if len(evs) == 0 {
		return value.Null(), nil
	}
	return value.FromEvents(event.NewEvents(evs))
}

func ParseString(s string) (*value.Value, error) {
	return Parse([]byte(s))
}

func ParseReader(r io.Reader) (*value.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(err, errs.Io)
	}
	return Parse(data)
}

// Events returns the structural event stream for the first document of
// data, without building a Value.
func Events(data []byte) ([]*event.Event, error) {
	if !utf8.Valid(data) {
		return nil, errs.New(errs.Utf8, "invalid UTF-8 input")
	}
	f, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, syntaxError(err, data)
	}
	if len(f.Docs) == 0 || f.Docs[0].Body == nil {
		return nil, nil
	}
	w := &walker{anchors: map[string]ast.Node{}, busy: map[string]bool{}}
	if err := w.walk(f.Docs[0].Body, ""); err != nil {
		return nil, err
	}
	return w.evs, nil
}

type walker struct {
	evs     []*event.Event
	anchors map[string]ast.Node
	busy    map[string]bool
}

func (w *walker) emit(ev *event.Event) {
	w.evs = append(w.evs, ev)
}

func (w *walker) walk(n ast.Node, tag string) error {
	if n == nil {
		w.emit(&event.Event{Kind: event.ScalarEvent, Scalar: event.NullScalar, Tag: tag})
		return nil
	}
	switch n := n.(type) {
	case *ast.NullNode:
		w.emit(&event.Event{Kind: event.ScalarEvent, Scalar: event.NullScalar, Tag: tag, Pos: pos(n)})
	case *ast.BoolNode:
		w.emit(&event.Event{Kind: event.ScalarEvent, Scalar: event.BoolScalar, Bool: n.Value, Tag: tag, Pos: pos(n)})
	case *ast.IntegerNode:
		ev := &event.Event{Kind: event.ScalarEvent, Tag: tag, Pos: pos(n)}
		switch v := n.Value.(type) {
		case int64:
			ev.Scalar = event.IntScalar
			ev.Int = v
		case uint64:
			ev.Scalar = event.UintScalar
			ev.Uint = v
		case int:
			ev.Scalar = event.IntScalar
			ev.Int = int64(v)
		default:
			ev.Scalar = event.NumberScalar
			ev.Str = n.GetToken().Value
		}
		w.emit(ev)
	case *ast.FloatNode:
		w.emit(&event.Event{Kind: event.ScalarEvent, Scalar: event.FloatScalar, Float: n.Value, Tag: tag, Pos: pos(n)})
	case *ast.InfinityNode:
		w.emit(&event.Event{Kind: event.ScalarEvent, Scalar: event.FloatScalar, Float: n.Value, Tag: tag, Pos: pos(n)})
	case *ast.NanNode:
		w.emit(&event.Event{Kind: event.ScalarEvent, Scalar: event.FloatScalar, Float: math.NaN(), Tag: tag, Pos: pos(n)})
	case *ast.StringNode:
		w.emit(&event.Event{Kind: event.ScalarEvent, Scalar: event.StringScalar, Str: n.Value, Tag: tag, Pos: pos(n)})
	case *ast.LiteralNode:
		w.emit(&event.Event{Kind: event.ScalarEvent, Scalar: event.StringScalar, Str: n.Value.Value, Tag: tag, Pos: pos(n)})
	case *ast.MergeKeyNode:
		// merge semantics are a non-goal; the key passes through
		w.emit(&event.Event{Kind: event.ScalarEvent, Scalar: event.StringScalar, Str: "<<", Tag: tag, Pos: pos(n)})
	case *ast.TagNode:
		return w.walkTagged(n, tag)
	case *ast.AnchorNode:
		name := strings.TrimPrefix(n.Name.GetToken().Value, "&")
		w.anchors[name] = n.Value
		w.busy[name] = true
		err := w.walk(n.Value, tag)
		delete(w.busy, name)
		return err
	case *ast.AliasNode:
		name := strings.TrimPrefix(n.Value.GetToken().Value, "*")
		target, ok := w.anchors[name]
		if !ok {
			return errs.Atf(errs.ParseSyntax, pos(n), "unknown anchor %q", name)
		}
		if w.busy[name] {
			return errs.Atf(errs.ParseSyntax, pos(n), "recursive alias %q", name)
		}
		return w.walk(target, tag)
	case *ast.SequenceNode:
		w.emit(&event.Event{Kind: event.SequenceStartEvent, Tag: tag, Flow: n.IsFlowStyle, Pos: pos(n)})
		for _, vn := range n.Values {
			if err := w.walk(vn, ""); err != nil {
				return err
			}
		}
		w.emit(&event.Event{Kind: event.SequenceEndEvent})
	case *ast.MappingNode:
		w.emit(&event.Event{Kind: event.MappingStartEvent, Tag: tag, Flow: n.IsFlowStyle, Pos: pos(n)})
		for _, mv := range n.Values {
			if err := w.walk(mv.Key, ""); err != nil {
				return err
			}
			if err := w.walk(mv.Value, ""); err != nil {
				return err
			}
		}
		w.emit(&event.Event{Kind: event.MappingEndEvent})
	case *ast.MappingValueNode:
		// single-pair mapping document
		w.emit(&event.Event{Kind: event.MappingStartEvent, Tag: tag, Pos: pos(n)})
		if err := w.walk(n.Key, ""); err != nil {
			return err
		}
		if err := w.walk(n.Value, ""); err != nil {
			return err
		}
		w.emit(&event.Event{Kind: event.MappingEndEvent})
	case *ast.MappingKeyNode:
		return w.walk(n.Value, tag)
	default:
		return errs.Atf(errs.ParseSyntax, pos(n), "unsupported YAML node %T", n)
	}
	return nil
}

// walkTagged handles an explicit tag. Standard `!!` tags are the
// engine's domain: `!!str` coerces a scalar to string, the rest restate
// what resolution already decided and are dropped. Application tags
// (single bang) attach to the next node's event.
func (w *walker) walkTagged(n *ast.TagNode, outer string) error {
	t := n.Start.Value
	if !strings.HasPrefix(t, "!!") {
		if outer != "" {
			// a tag already pending for this node, as when an alias
			// use site retags its anchor, overrides the nested one
			t = outer
		}
		return w.walk(n.Value, t)
	}
	if t == "!!str" {
		w.emit(&event.Event{
			Kind:   event.ScalarEvent,
			Scalar: event.StringScalar,
			Str:    scalarText(n.Value),
			Tag:    outer,
			Pos:    pos(n.Value),
		})
		return nil
	}
	return w.walk(n.Value, outer)
}

func scalarText(n ast.Node) string {
	switch n := n.(type) {
	case *ast.StringNode:
		return n.Value
	case *ast.LiteralNode:
		return n.Value.Value
	default:
		if tk := n.GetToken(); tk != nil {
			return tk.Value
		}
		return ""
	}
}

func pos(n ast.Node) *errs.Pos {
	if n == nil {
		return nil
	}
	tk := n.GetToken()
	if tk == nil || tk.Position == nil {
		return nil
	}
	return &errs.Pos{
		Offset: tk.Position.Offset,
		Line:   tk.Position.Line,
		Column: tk.Position.Column,
	}
}

// syntaxError maps an engine parse failure to ParseSyntax. The engine
// renders failures as "[line:column] message" followed by an annotated
// source excerpt; the position is recovered from that rendering.
func syntaxError(err error, data []byte) error {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if !strings.HasPrefix(msg, "[") {
		return errs.New(errs.ParseSyntax, msg)
	}
	end := strings.IndexByte(msg, ']')
	if end < 0 {
		return errs.New(errs.ParseSyntax, msg)
	}
	line, col, ok := splitLineCol(msg[1:end])
	if !ok {
		return errs.New(errs.ParseSyntax, msg)
	}
	return errs.At(errs.ParseSyntax, strings.TrimSpace(msg[end+1:]), &errs.Pos{
		Offset: offsetAt(data, line, col),
		Line:   line,
		Column: col,
	})
}

func splitLineCol(s string) (int, int, bool) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return 0, 0, false
	}
	line, err1 := strconv.Atoi(s[:i])
	col, err2 := strconv.Atoi(s[i+1:])
	if err1 != nil || err2 != nil || line < 1 || col < 1 {
		return 0, 0, false
	}
	return line, col, true
}

func offsetAt(data []byte, line, col int) int {
	off := 0
	for l := 1; l < line; l++ {
		i := bytes.IndexByte(data[off:], '\n')
		if i < 0 {
			break
		}
		off += i + 1
	}
	off += col - 1
	if off > len(data) {
		off = len(data)
	}
	return off
}
