package yamlkit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yamlkit/go-yamlkit/bind"
	"github.com/yamlkit/go-yamlkit/errs"
	"github.com/yamlkit/go-yamlkit/textdiff"
	"github.com/yamlkit/go-yamlkit/value"
	"github.com/yamlkit/go-yamlkit/variant"
)

type Status interface{ isStatus() }

type Unit struct{}

func (Unit) isStatus() {}

type Variant2 struct {
	Field int `yaml:"field"`
}

func (Variant2) isStatus() {}

var _ = variant.Register[Status](
	variant.CaseOf[Unit]("Unit"),
	variant.CaseOf[Variant2]("Variant2"),
)

func TestValueRoundTrip(t *testing.T) {
	orig := value.FromPairs([]value.Pair{
		{Key: value.FromString("title"), Val: value.FromString("doc")},
		{Key: value.FromString("count"), Val: value.FromInt(-3)},
		{Key: value.FromString("ratio"), Val: value.FromFloat(1.0)},
		{Key: value.FromString("flags"), Val: value.FromSlice([]*value.Value{
			value.FromBool(true), value.Null(),
		})},
		{Key: value.FromString("meta"), Val: value.FromPairs([]value.Pair{
			{Key: value.FromString("inner"), Val: value.FromUint(1 << 63)},
		})},
	})
	text, err := Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back *value.Value
	if err := Unmarshal(text, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !value.Equal(orig, back) {
		t.Errorf("round trip changed the value:\n%s",
			textdiff.Strings(orig.String(), back.String()))
	}
}

func TestTagFormUnitRoundTrip(t *testing.T) {
	type holder struct {
		S Status `yaml:"s"`
	}
	text, err := Marshal(holder{S: Unit{}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back holder
	if err := Unmarshal(text, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := back.S.(Unit); !ok {
		t.Errorf("round trip = %#v, want Unit", back.S)
	}

	for _, doc := range []string{"s: Unit\n", "s: !Unit\n"} {
		var h holder
		if err := UnmarshalString(doc, &h); err != nil {
			t.Fatalf("UnmarshalString(%q) error = %v", doc, err)
		}
		if _, ok := h.S.(Unit); !ok {
			t.Errorf("UnmarshalString(%q) = %#v, want Unit", doc, h.S)
		}
	}
}

func TestSingletonMappingRoundTrip(t *testing.T) {
	node, err := bind.Marshal(Status(Variant2{Field: 42}), bind.VariantMode(variant.SingletonMap))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if node.Kind != value.MappingKind || node.Len() != 1 || node.Keys[0].Str != "Variant2" {
		t.Fatalf("singleton form = %s", node)
	}

	var back Status
	if err := bind.Unmarshal(node, &back, bind.VariantMode(variant.SingletonMap)); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(Status(Variant2{Field: 42}), back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	node.SetKey(value.FromString("Unit"), value.Null())
	err = bind.Unmarshal(node, &back, bind.VariantMode(variant.SingletonMap))
	if err == nil {
		t.Fatalf("two-entry node accepted")
	}
	if !errs.IsKind(err, errs.AmbiguousVariantRepresentation) {
		t.Errorf("error = %v, want AmbiguousVariantRepresentation", err)
	}
}

type Expr interface{ isExpr() }

type Num struct {
	N int `yaml:"n"`
}

func (Num) isExpr() {}

type Not struct {
	Of Expr `yaml:"of"`
}

func (Not) isExpr() {}

var _ = variant.Register[Expr](
	variant.CaseOf[Num]("Num"),
	variant.CaseOf[Not]("Not"),
)

type rule struct {
	Name string `yaml:"name"`
	Cond Expr   `yaml:"cond,omitempty" variant:"singletonMapRecursive"`
}

func TestRecursivePropagation(t *testing.T) {
	text, err := Marshal(rule{Name: "r", Cond: Not{Of: Num{N: 1}}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(text)
	if strings.Contains(out, "!Num") || strings.Contains(out, "!Not") {
		t.Errorf("nested variant rendered in tag form:\n%s", out)
	}
	if !strings.Contains(out, "Not:") || !strings.Contains(out, "Num:") {
		t.Errorf("nested variants not in singleton form:\n%s", out)
	}

	var back rule
	if err := Unmarshal(text, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(rule{Name: "r", Cond: Not{Of: Num{N: 1}}}, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// absent optional variant field is omitted, not an empty mapping
	text, err = Marshal(rule{Name: "bare"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(text), "cond") {
		t.Errorf("absent field emitted:\n%s", text)
	}
}

func TestFieldQuoting(t *testing.T) {
	type point struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	}
	text, err := Marshal(point{X: 1.0, Y: 2.0})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(text), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("output = %q", text)
	}
	if lines[0] != "x: 1.0" {
		t.Errorf("first line = %q, want x: 1.0", lines[0])
	}
	if strings.HasPrefix(lines[1], "y:") {
		t.Errorf("ambiguous key y emitted unquoted: %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], ": 2.0") {
		t.Errorf("second line = %q, want a quoted y mapped to 2.0", lines[1])
	}

	var back point
	if err := Unmarshal(text, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != (point{X: 1.0, Y: 2.0}) {
		t.Errorf("round trip = %+v", back)
	}
}

func TestClosedRecordUnknownKey(t *testing.T) {
	type personRec struct {
		Name string `yaml:"name"`
		Age  int    `yaml:"age,omitempty"`
	}
	doc := "name: Alice\nextra: 1\n"

	var p personRec
	if err := UnmarshalString(doc, &p); err != nil {
		t.Fatalf("open decoding error = %v", err)
	}
	if p.Name != "Alice" {
		t.Errorf("Name = %q", p.Name)
	}

	err := UnmarshalString(doc, &p, bind.Strict())
	if err == nil {
		t.Fatalf("closed decoding accepted the unknown key")
	}
	if !errs.IsKind(err, errs.UnknownField) {
		t.Errorf("error = %v, want UnknownField", err)
	}
	if !strings.Contains(err.Error(), `"extra"`) {
		t.Errorf("error %q does not name the key", err)
	}
	pos := errs.PosOf(err)
	if pos == nil || pos.Line != 2 || pos.Column != 1 {
		t.Errorf("error position = %v, want line 2, column 1", pos)
	}
}

func TestNumericRangeFromText(t *testing.T) {
	var n uint8
	err := UnmarshalString("300", &n)
	if err == nil {
		t.Fatalf("300 fit into uint8")
	}
	if !errs.IsKind(err, errs.NumericRange) {
		t.Errorf("error = %v, want NumericRange", err)
	}
	if pos := errs.PosOf(err); pos == nil || pos.Line != 1 {
		t.Errorf("error position = %v, want the scalar's", pos)
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	m := value.FromPairs([]value.Pair{
		{Key: value.FromString("name"), Val: value.FromString("anne")},
		{Key: value.FromString("age"), Val: value.FromInt(3)},
	})
	text, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(text)
	if strings.Index(out, "name:") > strings.Index(out, "age:") {
		t.Errorf("insertion order not preserved:\n%s", out)
	}
}

func TestReadAndMarshalTo(t *testing.T) {
	type cfg struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	}
	var buf bytes.Buffer
	if err := MarshalTo(&buf, cfg{Host: "local", Port: 8080}); err != nil {
		t.Fatalf("MarshalTo() error = %v", err)
	}
	var back cfg
	if err := Read(&buf, &back); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff(cfg{Host: "local", Port: 8080}, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSyntaxErrorSurface(t *testing.T) {
	var v any
	err := UnmarshalString("k: [1, 2\n", &v)
	if err == nil {
		t.Fatalf("broken document decoded")
	}
	if !errs.IsKind(err, errs.ParseSyntax) {
		t.Errorf("error = %v, want ParseSyntax", err)
	}
}
