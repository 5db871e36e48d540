// Package event defines the structural event protocol exchanged with the
// external YAML grammar engines.
//
// The read side produces a pull-style sequence of events with source
// positions attached; the write side accepts structural write calls
// through the Emitter interface. This package is the contract only: the
// parse package adapts a real parser into a Source, and the emit package
// adapts a real emitter into an Emitter.
package event

import (
	"io"

	"github.com/yamlkit/go-yamlkit/errs"
)

type EventKind int

const (
	ScalarEvent EventKind = iota
	SequenceStartEvent
	SequenceEndEvent
	MappingStartEvent
	MappingEndEvent
)

func (k EventKind) String() string {
	s, ok := map[EventKind]string{
		ScalarEvent:        "Scalar",
		SequenceStartEvent: "SequenceStart",
		SequenceEndEvent:   "SequenceEnd",
		MappingStartEvent:  "MappingStart",
		MappingEndEvent:    "MappingEnd",
	}[k]
	if ok {
		return s
	}
	return "<unknown event>"
}

type ScalarKind int

const (
	NullScalar ScalarKind = iota
	BoolScalar
	IntScalar
	UintScalar
	FloatScalar
	StringScalar
	// NumberScalar carries pre-formatted number text in Str, for numeric
	// literals outside the int64/uint64/float64 ranges.
	NumberScalar
)

// Event is one structural parse or write unit. For scalar events exactly
// one of the payload fields selected by Scalar is meaningful. Tag carries
// an explicit `!name` annotation, empty when none. Flow marks flow-style
// containers.
type Event struct {
	Kind   EventKind
	Scalar ScalarKind

	Str   string
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64

	Tag  string
	Flow bool
	Pos  *errs.Pos
}

// Emitter accepts structural write calls. Implementations produce
// syntactically valid YAML text; style selection (quoting, wrapping,
// indentation) belongs to the implementation, not the caller.
type Emitter interface {
	Scalar(ev *Event) error
	BeginSequence(tag string, flow bool) error
	EndSequence() error
	BeginMapping(tag string, flow bool) error
	EndMapping() error
}

// Source is a pull-style stream of parse events. Next returns io.EOF
// after the last event.
type Source interface {
	Next() (*Event, error)
}

// Events is a slice-backed Source.
type Events struct {
	evs []*Event
	i   int
}

func NewEvents(evs []*Event) *Events {
	return &Events{evs: evs}
}

func (e *Events) Next() (*Event, error) {
	if e.i >= len(e.evs) {
		return nil, io.EOF
	}
	ev := e.evs[e.i]
	e.i++
	return ev, nil
}
