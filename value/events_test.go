package value

import (
	"testing"

	"github.com/yamlkit/go-yamlkit/errs"
	"github.com/yamlkit/go-yamlkit/event"
)

func TestFromEventsBuildsTree(t *testing.T) {
	src := event.NewEvents([]*event.Event{
		{Kind: event.MappingStartEvent},
		{Kind: event.ScalarEvent, Scalar: event.StringScalar, Str: "items"},
		{Kind: event.SequenceStartEvent, Flow: true},
		{Kind: event.ScalarEvent, Scalar: event.IntScalar, Int: 1},
		{Kind: event.ScalarEvent, Scalar: event.UintScalar, Uint: 2},
		{Kind: event.SequenceEndEvent},
		{Kind: event.MappingEndEvent},
	})
	got, err := FromEvents(src)
	if err != nil {
		t.Fatalf("FromEvents() error = %v", err)
	}
	want := FromPairs([]Pair{
		{Key: FromString("items"), Val: FromSlice([]*Value{FromInt(1), FromInt(2)})},
	})
	if !Equal(got, want) {
		t.Errorf("FromEvents() = %s, want %s", got, want)
	}
	items, _ := got.Get("items")
	if !items.Flow {
		t.Errorf("flow style dropped")
	}
}

func TestFromEventsTruncatedStream(t *testing.T) {
	src := event.NewEvents([]*event.Event{
		{Kind: event.SequenceStartEvent},
		{Kind: event.ScalarEvent, Scalar: event.IntScalar, Int: 1},
	})
	_, err := FromEvents(src)
	if err == nil {
		t.Fatalf("truncated stream accepted")
	}
	if !errs.IsKind(err, errs.ParseSyntax) {
		t.Errorf("error = %v, want ParseSyntax", err)
	}
}

func TestFromEventsUnbalancedEnd(t *testing.T) {
	src := event.NewEvents([]*event.Event{
		{Kind: event.MappingEndEvent},
	})
	if _, err := FromEvents(src); err == nil {
		t.Errorf("stray container end accepted")
	}
}

func TestEmitRoundTripThroughEvents(t *testing.T) {
	orig := FromPairs([]Pair{
		{Key: FromString("a"), Val: FromFloat(1.5)},
		{Key: FromString("b"), Val: FromSlice([]*Value{Null(), FromBool(true)})},
	})
	rec := &recorder{}
	if err := orig.Emit(rec); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	back, err := FromEvents(event.NewEvents(rec.evs))
	if err != nil {
		t.Fatalf("FromEvents() error = %v", err)
	}
	if !Equal(orig, back) {
		t.Errorf("event round trip = %s, want %s", back, orig)
	}
}

// recorder collects write calls back into an event slice.
type recorder struct {
	evs []*event.Event
}

func (r *recorder) Scalar(ev *event.Event) error {
	ev.Kind = event.ScalarEvent
	r.evs = append(r.evs, ev)
	return nil
}

func (r *recorder) BeginSequence(tag string, flow bool) error {
	r.evs = append(r.evs, &event.Event{Kind: event.SequenceStartEvent, Tag: tag, Flow: flow})
	return nil
}

func (r *recorder) EndSequence() error {
	r.evs = append(r.evs, &event.Event{Kind: event.SequenceEndEvent})
	return nil
}

func (r *recorder) BeginMapping(tag string, flow bool) error {
	r.evs = append(r.evs, &event.Event{Kind: event.MappingStartEvent, Tag: tag, Flow: flow})
	return nil
}

func (r *recorder) EndMapping() error {
	r.evs = append(r.evs, &event.Event{Kind: event.MappingEndEvent})
	return nil
}
