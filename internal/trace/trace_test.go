package trace

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func testEvent(scope Scope, name string) *Event {
	return &Event{
		Time:   time.Now(),
		Kind:   KindBegin,
		Scope:  scope,
		Cycle:  7,
		Worker: -1,
		Name:   name,
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeCycle, false},
		{LevelError, ScopeCycle, false},
		{LevelCycle, ScopeCycle, true},
		{LevelCycle, ScopePause, true},
		{LevelCycle, ScopePhase, false},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeWorker, false},
		{LevelDebug, ScopeWorker, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("Level %v ShouldEmit(%v) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelRoundTrip(t *testing.T) {
	for _, l := range []Level{LevelOff, LevelError, LevelCycle, LevelPhase, LevelDebug} {
		got, err := ParseLevel(l.String())
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", l.String(), err)
		}
		if got != l {
			t.Fatalf("ParseLevel(%q) = %v, want %v", l.String(), got, l)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestRingTracerFiltersByLevel(t *testing.T) {
	ring := NewRingTracer(8, LevelCycle)
	ring.Emit(testEvent(ScopeCycle, "cycle"))
	ring.Emit(testEvent(ScopeWorker, "worker"))

	events := ring.Snapshot()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Name != "cycle" {
		t.Fatalf("kept wrong event: %+v", events[0])
	}
}

func TestRingTracerWraparound(t *testing.T) {
	ring := NewRingTracer(4, LevelDebug)
	for i := 0; i < 6; i++ {
		ev := testEvent(ScopePhase, "phase")
		ev.Cycle = uint64(i)
		ring.Emit(ev)
	}

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("got %d events, want capacity 4", len(events))
	}
	// Oldest two dropped; order preserved.
	for i, ev := range events {
		if want := uint64(i + 2); ev.Cycle != want {
			t.Fatalf("event %d cycle = %d, want %d", i, ev.Cycle, want)
		}
	}
}

func TestStreamTracerWritesNDJSON(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)

	ev := testEvent(ScopePause, "final_mark")
	ev.Worker = 3
	st.Emit(ev)

	line := buf.String()
	for _, want := range []string{`"name":"final_mark"`, `"scope":"pause"`, `"cycle":7`, `"worker":3`} {
		if !strings.Contains(line, want) {
			t.Errorf("ndjson output missing %s: %s", want, line)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Errorf("ndjson lines must end with newline")
	}
}

func TestChromeFormatPhases(t *testing.T) {
	ev := testEvent(ScopePhase, "conc_mark")
	if got := string(FormatEvent(ev, FormatChrome)); !strings.Contains(got, `"ph":"B"`) {
		t.Errorf("begin event ph mismatch: %s", got)
	}
	ev.Kind = KindEnd
	if got := string(FormatEvent(ev, FormatChrome)); !strings.Contains(got, `"ph":"E"`) {
		t.Errorf("end event ph mismatch: %s", got)
	}
	ev.Kind = KindPoint
	if got := string(FormatEvent(ev, FormatChrome)); !strings.Contains(got, `"ph":"i"`) {
		t.Errorf("point event ph mismatch: %s", got)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	ev := testEvent(ScopeWorker, "scan_roots")
	ev.Kind = KindPoint
	ev.Worker = 2
	ev.Detail = "w"
	ev.Extra = map[string]string{"k": "v"}

	data := FormatEvent(ev, FormatMsgpack)
	if len(data) == 0 {
		t.Fatalf("empty msgpack encoding")
	}

	got, err := DecodeMsgpackEvent(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Kind != KindPoint || got.Scope != ScopeWorker {
		t.Fatalf("kind/scope mismatch: %+v", got)
	}
	if got.Name != "scan_roots" || got.Worker != 2 || got.Cycle != 7 {
		t.Fatalf("payload mismatch: %+v", got)
	}
	if got.Extra["k"] != "v" {
		t.Fatalf("extra lost: %+v", got.Extra)
	}
}

func TestNewTracerOffReturnsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
}

func TestMultiTracerFansOut(t *testing.T) {
	a := NewRingTracer(8, LevelDebug)
	b := NewRingTracer(8, LevelDebug)
	m := NewMultiTracer(LevelDebug, a, b)

	m.Emit(testEvent(ScopeCycle, "cycle"))

	if len(a.Snapshot()) != 1 || len(b.Snapshot()) != 1 {
		t.Fatalf("event not fanned out to all tracers")
	}
}

func TestFromContextDefaultsToNop(t *testing.T) {
	if got := FromContext(nil); got != Nop {
		t.Fatalf("nil context must yield Nop")
	}
}
