package value

import (
	"strconv"
	"strings"
)

// String renders a compact single-line form for debugging and error
// messages. It is not the YAML emission path.
func (v *Value) String() string {
	var sb strings.Builder
	v.writeTo(&sb)
	return sb.String()
}

func (v *Value) writeTo(sb *strings.Builder) {
	if v == nil {
		sb.WriteString("<nil>")
		return
	}
	if v.Tag != "" {
		sb.WriteString(v.Tag)
		sb.WriteByte(' ')
	}
	switch v.Kind {
	case NullKind:
		sb.WriteString("null")
	case BoolKind:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case NumberKind:
		sb.WriteString(v.FormatNumber())
	case StringKind:
		sb.WriteString(strconv.Quote(v.Str))
	case SequenceKind:
		sb.WriteByte('[')
		for i, vv := range v.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			vv.writeTo(sb)
		}
		sb.WriteByte(']')
	case MappingKind:
		sb.WriteByte('{')
		for i, k := range v.Keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			k.writeTo(sb)
			sb.WriteString(": ")
			v.Values[i].writeTo(sb)
		}
		sb.WriteByte('}')
	}
}
