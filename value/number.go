package value

import (
	"math"
	"strconv"
	"strings"
)

// AsInt64 returns the number as an int64 when it is an integer that fits.
func (v *Value) AsInt64() (int64, bool) {
	if v == nil || v.Kind != NumberKind {
		return 0, false
	}
	if v.Int64 != nil {
		return *v.Int64, true
	}
	if v.Uint64 != nil && *v.Uint64 <= math.MaxInt64 {
		return int64(*v.Uint64), true
	}
	return 0, false
}

// AsUint64 returns the number as a uint64 when it is a non-negative
// integer.
func (v *Value) AsUint64() (uint64, bool) {
	if v == nil || v.Kind != NumberKind {
		return 0, false
	}
	if v.Uint64 != nil {
		return *v.Uint64, true
	}
	if v.Int64 != nil && *v.Int64 >= 0 {
		return uint64(*v.Int64), true
	}
	return 0, false
}

// AsFloat64 returns the number as a float64, converting integer
// sub-kinds. The second result is false for non-numbers and for string
// fallback numbers.
func (v *Value) AsFloat64() (float64, bool) {
	if v == nil || v.Kind != NumberKind {
		return 0, false
	}
	switch {
	case v.Float64 != nil:
		return *v.Float64, true
	case v.Int64 != nil:
		return float64(*v.Int64), true
	case v.Uint64 != nil:
		return float64(*v.Uint64), true
	}
	return 0, false
}

// IsFloat reports whether the number is the floating sub-kind.
func (v *Value) IsFloat() bool {
	return v != nil && v.Kind == NumberKind && v.Float64 != nil
}

// FormatNumber renders the number in the minimal form that round-trips:
// integers without a point, floats always with a point or exponent so
// 1.0 re-parses as a float.
func (v *Value) FormatNumber() string {
	switch {
	case v.Int64 != nil:
		return strconv.FormatInt(*v.Int64, 10)
	case v.Uint64 != nil:
		return strconv.FormatUint(*v.Uint64, 10)
	case v.Float64 != nil:
		return FormatFloat(*v.Float64)
	}
	return v.Number
}

// FormatFloat renders f so that it re-parses as a float: integral values
// keep a trailing .0, non-finite values use the YAML spellings.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
