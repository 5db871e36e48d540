// Package debug renders value.Value trees for inspection, with a color
// palette applied when the output is a terminal.
package debug

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/yamlkit/go-yamlkit/value"
)

type ColorAttr int

const (
	TagColor ColorAttr = iota
	KeyColor
	ValueColor
	SepColor
)

type Colorable struct {
	Kind value.Kind
	Attr ColorAttr
}

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, k := range value.Kinds() {
		able := Colorable{Kind: k, Attr: TagColor}
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
		able.Attr = SepColor
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
	}
	able := Colorable{Attr: ValueColor}

	able.Kind = value.NumberKind
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()

	able.Kind = value.NullKind
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()

	able.Kind = value.BoolKind
	colors.Map[able] = color.CyanString

	able.Kind = value.StringKind
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()

	able.Kind = value.MappingKind
	able.Attr = KeyColor
	colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	able.Attr = SepColor
	colors.Map[able] = color.RGB(196, 128, 128).SprintfFunc()

	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Get(k value.Kind, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Kind: k, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}

var plain = &Colors{Default: colorDefault, Map: map[Colorable]func(string, ...any) string{}}

// Dump writes an indented rendering of v to w, colorized when w is a
// terminal.
func Dump(w io.Writer, v *value.Value) error {
	colors := plain
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		colors = NewColors()
	}
	d := &dumper{w: w, colors: colors}
	d.node(v, 0)
	return d.err
}

// Sdump returns the uncolorized rendering of v as a string.
func Sdump(v *value.Value) string {
	var sb strings.Builder
	d := &dumper{w: &sb, colors: plain}
	d.node(v, 0)
	return sb.String()
}

type dumper struct {
	w      io.Writer
	colors *Colors
	err    error
}

func (d *dumper) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *dumper) node(v *value.Value, depth int) {
	indent := strings.Repeat("  ", depth)
	if v == nil {
		d.printf("%s%s\n", indent, d.colors.Get(value.NullKind, ValueColor)("null"))
		return
	}
	tag := ""
	if v.Tag != "" {
		tag = d.colors.Get(v.Kind, TagColor)(v.Tag) + " "
	}
	switch v.Kind {
	case value.NullKind:
		d.printf("%s%s%s\n", indent, tag, d.colors.Get(v.Kind, ValueColor)("null"))
	case value.BoolKind:
		d.printf("%s%s%s\n", indent, tag, d.colors.Get(v.Kind, ValueColor)(fmt.Sprintf("%t", v.Bool)))
	case value.NumberKind:
		d.printf("%s%s%s\n", indent, tag, d.colors.Get(v.Kind, ValueColor)(v.FormatNumber()))
	case value.StringKind:
		d.printf("%s%s%s\n", indent, tag, d.colors.Get(v.Kind, ValueColor)(fmt.Sprintf("%q", v.Str)))
	case value.SequenceKind:
		d.printf("%s%s%s\n", indent, tag, d.colors.Get(v.Kind, SepColor)("["))
		for _, elem := range v.Values {
			d.node(elem, depth+1)
		}
		d.printf("%s%s\n", indent, d.colors.Get(v.Kind, SepColor)("]"))
	case value.MappingKind:
		d.printf("%s%s%s\n", indent, tag, d.colors.Get(v.Kind, SepColor)("{"))
		for i, key := range v.Keys {
			d.printf("%s  %s%s\n", indent,
				d.colors.Get(v.Kind, KeyColor)(key.String()),
				d.colors.Get(v.Kind, SepColor)(":"))
			d.node(v.Values[i], depth+2)
		}
		d.printf("%s%s\n", indent, d.colors.Get(v.Kind, SepColor)("}"))
	}
}
