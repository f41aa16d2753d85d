package chatlist

import (
	"errors"
	"slices"
	"testing"
	"time"

	"chatlist/internal/animation"
	"chatlist/internal/chat"
	"chatlist/internal/diff"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func msg(id, author string) chat.Item {
	return chat.MessageItem{Message: chat.Message{
		ID:        id,
		Author:    chat.User{ID: author},
		Text:      "text " + id,
		CreatedAt: epoch,
	}}
}

func newTestSequence(clock *animation.ManualClock, done *[]Completion) *Sequence {
	return NewSequence(SequenceOptions{
		Enter: 200 * time.Millisecond,
		Exit:  300 * time.Millisecond,
		Clock: clock,
		OnComplete: func(c Completion) {
			if done != nil {
				*done = append(*done, c)
			}
		},
	})
}

func visibleKeys(views []SlotView) []chat.Key {
	out := make([]chat.Key, 0, len(views))
	for _, v := range views {
		out = append(out, v.Key)
	}
	return out
}

func visibleStates(views []SlotView) []SlotState {
	out := make([]SlotState, 0, len(views))
	for _, v := range views {
		out = append(out, v.State)
	}
	return out
}

func TestSequenceInsertEntersThenSettles(t *testing.T) {
	clock := animation.NewManualClock(epoch)
	var done []Completion
	seq := newTestSequence(clock, &done)

	ops := diff.Diff(nil, []chat.Item{msg("m1", "u")}, chat.SameKey)
	if len(ops) != 1 || ops[0].String() != "Insert(0,1)" {
		t.Fatalf("ops = %v, want [Insert(0,1)]", ops)
	}
	if err := seq.ApplyOps(ops); err != nil {
		t.Fatalf("ApplyOps: %v", err)
	}

	views := seq.Visible()
	if len(views) != 1 || views[0].State != Entering {
		t.Fatalf("after insert: %+v", views)
	}
	if views[0].Presence != 0 {
		t.Fatalf("entering presence = %v, want 0", views[0].Presence)
	}

	seq.Tick(clock.Advance(100 * time.Millisecond))
	mid := seq.Visible()[0]
	if mid.State != Entering || mid.Progress <= 0 || mid.Progress >= 1 {
		t.Fatalf("mid animation: %+v", mid)
	}

	seq.Tick(clock.Advance(150 * time.Millisecond))
	views = seq.Visible()
	if views[0].State != Steady || views[0].Presence != 1 {
		t.Fatalf("after enter: %+v", views[0])
	}
	if len(done) != 1 || done[0].Key != "m1" || done[0].Removed {
		t.Fatalf("completions = %+v", done)
	}
	if seq.Animating() {
		t.Fatalf("sequence still animating")
	}
}

func TestSequenceRemoveKeepsExitingInPlace(t *testing.T) {
	clock := animation.NewManualClock(epoch)
	var done []Completion
	seq := newTestSequence(clock, &done)
	old := []chat.Item{msg("m1", "u"), msg("m2", "u")}
	next := []chat.Item{msg("m2", "u")}
	seq.Reset(old)

	ops := diff.Diff(old, next, chat.SameKey)
	if len(ops) != 1 || ops[0].String() != "Remove(0,1)" {
		t.Fatalf("ops = %v, want [Remove(0,1)]", ops)
	}
	if err := seq.ApplyOps(ops); err != nil {
		t.Fatalf("ApplyOps: %v", err)
	}

	views := seq.Visible()
	if got := visibleKeys(views); !slices.Equal(got, []chat.Key{"m1", "m2"}) {
		t.Fatalf("visible keys = %v", got)
	}
	if views[0].State != Exiting || views[0].PositionHint() != nil {
		t.Fatalf("m1 = %+v, want exiting without position hint", views[0])
	}
	if views[1].Index != 0 || *views[1].PositionHint() != 0 {
		t.Fatalf("m2 = %+v, want logical index 0", views[1])
	}
	if got := seq.Items(); len(got) != 1 || chat.KeyOf(got[0]) != "m2" {
		t.Fatalf("live items = %v", chat.Keys(got))
	}

	seq.Tick(clock.Advance(150 * time.Millisecond))
	if n := seq.Len(); n != 2 {
		t.Fatalf("exiting slot removed early, len = %d", n)
	}
	seq.Tick(clock.Advance(200 * time.Millisecond))
	if got := visibleKeys(seq.Visible()); !slices.Equal(got, []chat.Key{"m2"}) {
		t.Fatalf("after exit: %v", got)
	}
	if len(done) != 1 || !done[0].Removed || done[0].Key != "m1" {
		t.Fatalf("completions = %+v", done)
	}
}

func TestSequenceLifecycleClosure(t *testing.T) {
	clock := animation.NewManualClock(epoch)
	var done []Completion
	seq := newTestSequence(clock, &done)

	lists := [][]chat.Item{
		{msg("a", "u"), msg("b", "u")},
		{msg("c", "u"), msg("a", "u")},
		{msg("d", "u"), msg("b", "u"), msg("c", "u")},
		{},
		{msg("e", "u")},
	}
	var prev []chat.Item
	for _, next := range lists {
		if err := seq.ApplyOps(diff.Diff(prev, next, chat.SameKey)); err != nil {
			t.Fatalf("ApplyOps: %v", err)
		}
		live := chat.Keys(seq.Items())
		if !slices.Equal(live, chat.Keys(next)) {
			t.Fatalf("live keys = %v, want %v", live, chat.Keys(next))
		}
		seq.Tick(clock.Advance(50 * time.Millisecond))
		prev = next
	}

	seq.Tick(clock.Advance(time.Second))
	views := seq.Visible()
	if got := visibleKeys(views); !slices.Equal(got, []chat.Key{"e"}) {
		t.Fatalf("final visible = %v", got)
	}
	for _, v := range views {
		if v.State != Steady {
			t.Fatalf("slot %s not steady: %v", v.Key, v.State)
		}
	}
	if seq.Animating() {
		t.Fatalf("still animating after all durations elapsed")
	}
}

func TestSequenceRemoveWhileEntering(t *testing.T) {
	clock := animation.NewManualClock(epoch)
	seq := newTestSequence(clock, nil)
	if err := seq.ApplyOps(diff.Diff(nil, []chat.Item{msg("m1", "u")}, chat.SameKey)); err != nil {
		t.Fatalf("ApplyOps: %v", err)
	}
	seq.Tick(clock.Advance(100 * time.Millisecond))
	entering := seq.Visible()[0].Presence

	if err := seq.ApplyOps(diff.Diff([]chat.Item{msg("m1", "u")}, nil, chat.SameKey)); err != nil {
		t.Fatalf("ApplyOps: %v", err)
	}
	v := seq.Visible()[0]
	if v.State != Exiting {
		t.Fatalf("state = %v, want exiting", v.State)
	}
	if v.Presence != entering {
		t.Fatalf("exit should start from current presence %v, got %v", entering, v.Presence)
	}
	seq.Tick(clock.Advance(300 * time.Millisecond))
	if seq.Len() != 0 {
		t.Fatalf("len = %d, want 0", seq.Len())
	}
}

func TestSequenceZeroDurationSettlesImmediately(t *testing.T) {
	var done []Completion
	seq := NewSequence(SequenceOptions{OnComplete: func(c Completion) { done = append(done, c) }})
	if err := seq.ApplyOps(diff.Diff(nil, []chat.Item{msg("m1", "u")}, chat.SameKey)); err != nil {
		t.Fatalf("ApplyOps: %v", err)
	}
	if got := visibleStates(seq.Visible()); !slices.Equal(got, []SlotState{Steady}) {
		t.Fatalf("states = %v", got)
	}
	if err := seq.ApplyOps(diff.Diff([]chat.Item{msg("m1", "u")}, nil, chat.SameKey)); err != nil {
		t.Fatalf("ApplyOps: %v", err)
	}
	if seq.Len() != 0 || len(done) != 2 {
		t.Fatalf("len = %d completions = %d", seq.Len(), len(done))
	}
}

func TestSequenceOutOfRangeFailsFast(t *testing.T) {
	clock := animation.NewManualClock(epoch)
	seq := newTestSequence(clock, nil)
	seq.Reset([]chat.Item{msg("a", "u"), msg("b", "u")})

	ops := []diff.Op[chat.Item]{
		{Kind: diff.Remove, Pos: 0, Count: 1},
		{Kind: diff.Remove, Pos: 5, Count: 1},
	}
	err := seq.ApplyOps(ops)
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("err = %v, want *OpError", err)
	}
	if opErr.Index != 1 || opErr.Live != 1 {
		t.Fatalf("OpError = %+v", opErr)
	}
	if !errors.Is(err, ErrOpOutOfRange) {
		t.Fatalf("err does not wrap ErrOpOutOfRange")
	}
	if got := visibleStates(seq.Visible()); !slices.Equal(got, []SlotState{Steady, Steady}) {
		t.Fatalf("sequence mutated on failure: %v", got)
	}
}

func TestSequenceChangeReplacesInPlace(t *testing.T) {
	seq := newTestSequence(animation.NewManualClock(epoch), nil)
	old := []chat.Item{msg("a", "u"), msg("b", "u")}
	seq.Reset(old)

	edited := chat.MessageItem{Message: chat.Message{ID: "b", Author: chat.User{ID: "u"}, Text: "edited", CreatedAt: epoch}}
	next := []chat.Item{msg("a", "u"), edited}
	ops := diff.DiffFunc(old, next, chat.SameKey, chat.ContentChanged)
	if len(ops) != 1 || ops[0].Kind != diff.Change {
		t.Fatalf("ops = %v, want one Change", ops)
	}
	if err := seq.ApplyOps(ops); err != nil {
		t.Fatalf("ApplyOps: %v", err)
	}
	v := seq.Visible()[1]
	m, _ := chat.AsMessage(v.Item)
	if v.State != Steady || m.Text != "edited" {
		t.Fatalf("changed slot = %+v", v)
	}
}

func TestSequenceMoveRelocatesWithoutAnimation(t *testing.T) {
	seq := newTestSequence(animation.NewManualClock(epoch), nil)
	seq.Reset([]chat.Item{msg("a", "u"), msg("b", "u"), msg("c", "u")})

	if err := seq.ApplyOps([]diff.Op[chat.Item]{{Kind: diff.Move, Pos: 0, To: 2}}); err != nil {
		t.Fatalf("ApplyOps: %v", err)
	}
	views := seq.Visible()
	if got := visibleKeys(views); !slices.Equal(got, []chat.Key{"b", "c", "a"}) {
		t.Fatalf("after move = %v", got)
	}
	if seq.Animating() {
		t.Fatalf("move should not animate")
	}
}

func TestSequenceFindIndexForKey(t *testing.T) {
	clock := animation.NewManualClock(epoch)
	seq := newTestSequence(clock, nil)
	old := []chat.Item{msg("a", "u"), msg("b", "u"), msg("c", "u")}
	seq.Reset(old)
	if err := seq.ApplyOps(diff.Diff(old, []chat.Item{msg("b", "u"), msg("c", "u")}, chat.SameKey)); err != nil {
		t.Fatalf("ApplyOps: %v", err)
	}

	if _, ok := seq.FindIndexForKey("a"); ok {
		t.Fatalf("exiting slot should not be found")
	}
	if i, ok := seq.FindIndexForKey("c"); !ok || i != 2 {
		t.Fatalf("FindIndexForKey(c) = %d, %v", i, ok)
	}
	if _, ok := seq.FindIndexForKey("zzz"); ok {
		t.Fatalf("unknown key found")
	}
}

func TestSequenceDisposeStopsMutation(t *testing.T) {
	clock := animation.NewManualClock(epoch)
	var done []Completion
	seq := newTestSequence(clock, &done)
	if err := seq.ApplyOps(diff.Diff(nil, []chat.Item{msg("a", "u")}, chat.SameKey)); err != nil {
		t.Fatalf("ApplyOps: %v", err)
	}
	seq.Dispose()

	if seq.Tick(clock.Advance(time.Second)) {
		t.Fatalf("Tick after dispose reported change")
	}
	if err := seq.ApplyOps(nil); !errors.Is(err, ErrDisposed) {
		t.Fatalf("ApplyOps after dispose = %v", err)
	}
	if len(done) != 0 {
		t.Fatalf("completion fired after dispose: %+v", done)
	}
}

func TestSequenceReinsertRevivesExitingSlot(t *testing.T) {
	clock := animation.NewManualClock(epoch)
	var done []Completion
	seq := newTestSequence(clock, &done)
	full := []chat.Item{spacer, msg("a", "u"), msg("b", "u")}
	without := []chat.Item{spacer, msg("b", "u")}
	seq.Reset(full)

	if err := seq.ApplyOps(diff.Diff(full, without, chat.SameKey)); err != nil {
		t.Fatalf("ApplyOps: %v", err)
	}
	seq.Tick(clock.Advance(50 * time.Millisecond))
	fading := seq.Visible()[1].Presence
	if fading <= 0 || fading >= 1 {
		t.Fatalf("exit presence = %v", fading)
	}

	if err := seq.ApplyOps(diff.Diff(without, full, chat.SameKey)); err != nil {
		t.Fatalf("ApplyOps: %v", err)
	}
	views := seq.Visible()
	if got := visibleKeys(views); !slices.Equal(got, []chat.Key{"spacer:bottom", "a", "b"}) {
		t.Fatalf("visible = %v", got)
	}
	if got := visibleStates(views); !slices.Equal(got, []SlotState{Steady, Entering, Steady}) {
		t.Fatalf("states = %v", got)
	}
	if views[1].Presence != fading {
		t.Fatalf("enter should resume from %v, got %v", fading, views[1].Presence)
	}

	seq.Tick(clock.Advance(50 * time.Millisecond))
	if got := visibleKeys(seq.Visible()); len(got) != 3 {
		t.Fatalf("visible = %v", got)
	}
	seq.Tick(clock.Advance(300 * time.Millisecond))
	if got := visibleStates(seq.Visible()); !slices.Equal(got, []SlotState{Steady, Steady, Steady}) {
		t.Fatalf("states = %v", got)
	}
	for _, c := range done {
		if c.Removed {
			t.Fatalf("revived slot reported removal: %+v", done)
		}
	}
	if len(done) != 1 || done[0].Key != "a" {
		t.Fatalf("completions = %+v", done)
	}
}
