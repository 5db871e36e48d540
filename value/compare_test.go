package value

import (
	"testing"

	"github.com/yamlkit/go-yamlkit/errs"
)

func TestCompareKindRank(t *testing.T) {
	ordered := []*Value{
		Null(),
		FromBool(false),
		FromInt(0),
		FromString(""),
		FromSlice(nil),
		FromPairs(nil),
	}
	for i := 0; i < len(ordered)-1; i++ {
		if c := Compare(ordered[i], ordered[i+1]); c >= 0 {
			t.Errorf("Compare(%s, %s) = %d, want < 0",
				ordered[i].Kind, ordered[i+1].Kind, c)
		}
	}
}

func TestCompareNumbers(t *testing.T) {
	five := int64(5)
	tests := []struct {
		name string
		a, b *Value
		want int
	}{
		{"equal ints across width", FromInt(5), FromUint(5), 0},
		{"negative before positive", FromInt(-1), FromUint(1), -1},
		{"large unsigned", FromUint(1 << 63), FromInt(1), 1},
		{"int before float", FromInt(9), FromFloat(1.0), -1},
		{"float order", FromFloat(1.5), FromFloat(2.5), -1},
		{"float before fallback", FromFloat(1e300), &Value{Kind: NumberKind, Number: "1e99999"}, -1},
		{"hand-built positive Int64", &Value{Kind: NumberKind, Int64: &five}, FromUint(3), 1},
		{"hand-built Int64 equals Uint64", &Value{Kind: NumberKind, Int64: &five}, FromUint(5), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
			if got := Compare(tt.b, tt.a); got != -tt.want {
				t.Errorf("Compare() reversed = %d, want %d", got, -tt.want)
			}
		})
	}
}

func TestCompareTagsIgnoreBang(t *testing.T) {
	a := FromString("x").WithTag("!Thing")
	b := FromString("x").WithTag("Thing")
	if !Equal(a, b) {
		t.Errorf("!Thing and Thing spellings compare unequal")
	}
	c := FromString("x").WithTag("!Other")
	if Equal(a, c) {
		t.Errorf("different tags compare equal")
	}
	if Equal(a, FromString("x")) {
		t.Errorf("tagged and untagged compare equal")
	}
}

func TestComparePositionsIgnored(t *testing.T) {
	a := FromString("x")
	b := FromString("x")
	b.Pos = &errs.Pos{Offset: 3, Line: 1, Column: 4}
	if !Equal(a, b) {
		t.Errorf("positions participated in comparison")
	}
}

func TestCompareContainers(t *testing.T) {
	shorter := FromSlice([]*Value{FromInt(1)})
	longer := FromSlice([]*Value{FromInt(1), FromInt(2)})
	if Compare(shorter, longer) >= 0 {
		t.Errorf("prefix sequence did not compare less")
	}

	m1 := FromPairs([]Pair{{Key: FromString("a"), Val: FromInt(1)}})
	m2 := FromPairs([]Pair{{Key: FromString("a"), Val: FromInt(2)}})
	if Compare(m1, m2) >= 0 {
		t.Errorf("mapping value did not order entries")
	}
}
