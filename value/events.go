package value

import (
	"errors"
	"io"

	"github.com/yamlkit/go-yamlkit/errs"
	"github.com/yamlkit/go-yamlkit/event"
)

// FromEvents reconstructs a Value from a structural event stream,
// consuming exactly the events of one node. Positions on events carry
// over to the built nodes. Duplicate mapping keys keep the last value,
// preserving the unique-keys invariant.
func FromEvents(src event.Source) (*Value, error) {
	ev, err := next(src)
	if err != nil {
		return nil, err
	}
	return build(src, ev)
}

func next(src event.Source) (*event.Event, error) {
	ev, err := src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.New(errs.ParseSyntax, "unexpected end of event stream")
		}
		return nil, errs.Wrap(err, errs.Io)
	}
	return ev, nil
}

func build(src event.Source, ev *event.Event) (*Value, error) {
	switch ev.Kind {
	case event.ScalarEvent:
		return scalarValue(ev), nil
	case event.SequenceStartEvent:
		res := &Value{Kind: SequenceKind, Tag: ev.Tag, Flow: ev.Flow, Pos: ev.Pos}
		for {
			nev, err := next(src)
			if err != nil {
				return nil, err
			}
			if nev.Kind == event.SequenceEndEvent {
				return res, nil
			}
			child, err := build(src, nev)
			if err != nil {
				return nil, err
			}
			res.Values = append(res.Values, child)
		}
	case event.MappingStartEvent:
		res := &Value{Kind: MappingKind, Tag: ev.Tag, Flow: ev.Flow, Pos: ev.Pos}
		for {
			kev, err := next(src)
			if err != nil {
				return nil, err
			}
			if kev.Kind == event.MappingEndEvent {
				return res, nil
			}
			key, err := build(src, kev)
			if err != nil {
				return nil, err
			}
			vev, err := next(src)
			if err != nil {
				return nil, err
			}
			val, err := build(src, vev)
			if err != nil {
				return nil, err
			}
			res.SetKey(key, val)
		}
	default:
		return nil, errs.At(errs.ParseSyntax, "unbalanced container end event", ev.Pos)
	}
}

func scalarValue(ev *event.Event) *Value {
	var res *Value
	switch ev.Scalar {
	case event.NullScalar:
		res = Null()
	case event.BoolScalar:
		res = FromBool(ev.Bool)
	case event.IntScalar:
		res = FromInt(ev.Int)
	case event.UintScalar:
		res = FromUint(ev.Uint)
	case event.FloatScalar:
		res = FromFloat(ev.Float)
	case event.NumberScalar:
		res = &Value{Kind: NumberKind, Number: ev.Str}
	default:
		res = FromString(ev.Str)
	}
	res.Tag = ev.Tag
	res.Pos = ev.Pos
	return res
}

// Emit drives an emitter with the write calls describing v, making any
// Value a serialization source.
func (v *Value) Emit(em event.Emitter) error {
	switch v.Kind {
	case NullKind:
		return em.Scalar(&event.Event{Scalar: event.NullScalar, Tag: v.Tag, Pos: v.Pos})
	case BoolKind:
		return em.Scalar(&event.Event{Scalar: event.BoolScalar, Bool: v.Bool, Tag: v.Tag, Pos: v.Pos})
	case NumberKind:
		return v.emitNumber(em)
	case StringKind:
		return em.Scalar(&event.Event{Scalar: event.StringScalar, Str: v.Str, Tag: v.Tag, Pos: v.Pos})
	case SequenceKind:
		if err := em.BeginSequence(v.Tag, v.Flow); err != nil {
			return err
		}
		for _, vv := range v.Values {
			if err := vv.Emit(em); err != nil {
				return err
			}
		}
		return em.EndSequence()
	case MappingKind:
		if err := em.BeginMapping(v.Tag, v.Flow); err != nil {
			return err
		}
		for i, k := range v.Keys {
			if err := k.Emit(em); err != nil {
				return err
			}
			if err := v.Values[i].Emit(em); err != nil {
				return err
			}
		}
		return em.EndMapping()
	}
	return errs.Newf(errs.UnexpectedShape, "cannot emit value of kind %s", v.Kind)
}

func (v *Value) emitNumber(em event.Emitter) error {
	ev := &event.Event{Tag: v.Tag, Pos: v.Pos}
	switch {
	case v.Int64 != nil:
		ev.Scalar = event.IntScalar
		ev.Int = *v.Int64
	case v.Uint64 != nil:
		ev.Scalar = event.UintScalar
		ev.Uint = *v.Uint64
	case v.Float64 != nil:
		ev.Scalar = event.FloatScalar
		ev.Float = *v.Float64
	default:
		ev.Scalar = event.NumberScalar
		ev.Str = v.Number
	}
	return em.Scalar(ev)
}
