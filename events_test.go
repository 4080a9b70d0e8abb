package lattice

import (
	"testing"
	"time"
)

type mockSink struct {
	events []Event
}

func (m *mockSink) EmitEvent(e Event) {
	m.events = append(m.events, e)
}

func (m *mockSink) ofType(t EventType) []Event {
	var out []Event
	for _, e := range m.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		t    EventType
		want string
	}{
		{EventNodeClick, "node_click"},
		{EventHoverStart, "hover_start"},
		{EventHoverEnd, "hover_end"},
		{EventModeChange, "mode_change"},
		{EventQualityChange, "quality_change"},
		{EventNodesReduced, "nodes_reduced"},
		{EventType(99), "EventType(99)"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestEventsWithoutSink(t *testing.T) {
	v := newTestVisualization(t, testOptions())
	g := v.Graph()
	v.InjectClick(g.X[0], g.Y[0])
	v.SetMode(ModeCluster)
	tickN(v, 5, fastFrame)
}

func TestModeChangeEvents(t *testing.T) {
	v := newTestVisualization(t, testOptions())
	sink := &mockSink{}
	v.SetEventSink(sink)

	v.SetMode(ModeCluster)
	v.SetMode(ModeLogo) // refused
	v.SetMode(ModeCluster)
	v.FormLogo()
	v.SetMode(ModeFloat)

	got := sink.ofType(EventModeChange)
	want := [][2]Mode{
		{ModeFloat, ModeCluster},
		{ModeCluster, ModeLogo},
		{ModeLogo, ModeFloat},
	}
	if len(got) != len(want) {
		t.Fatalf("mode events = %+v, want %d", got, len(want))
	}
	for i, w := range want {
		if got[i].PrevMode != w[0] || got[i].Mode != w[1] {
			t.Errorf("event %d: %v -> %v, want %v -> %v", i, got[i].PrevMode, got[i].Mode, w[0], w[1])
		}
	}
}

func TestLogoReleaseEmitsModeChange(t *testing.T) {
	v := newTestVisualization(t, testOptions())
	sink := &mockSink{}
	v.SetEventSink(sink)
	v.FormLogo()

	f := v.opts.Formation
	limit := 2 * (f.LogoDuration + f.LogoHold)
	for elapsed := time.Duration(0); v.Mode() == ModeLogo && elapsed <= limit; elapsed += fastFrame {
		v.Tick(fastFrame)
	}
	got := sink.ofType(EventModeChange)
	if len(got) != 2 {
		t.Fatalf("mode events = %+v, want 2", got)
	}
	if got[1].PrevMode != ModeLogo || got[1].Mode != ModeFloat {
		t.Errorf("release event %v -> %v, want logo -> float", got[1].PrevMode, got[1].Mode)
	}
	if got[1].Frame == 0 {
		t.Error("release event has no frame number")
	}
}

func TestHoverAndClickEvents(t *testing.T) {
	v := newTestVisualization(t, testOptions())
	sink := &mockSink{}
	v.SetEventSink(sink)
	g := v.Graph()

	v.InjectMove(g.X[0], g.Y[0])
	v.Tick(fastFrame)
	v.Tick(fastFrame)
	starts := sink.ofType(EventHoverStart)
	if len(starts) != 1 || starts[0].Node != 0 {
		t.Fatalf("hover start events = %+v, want one for node 0", starts)
	}
	if starts[0].Label != g.Info[0].Label || starts[0].Category != g.Info[0].Category {
		t.Errorf("hover start carries %q/%v, want %q/%v",
			starts[0].Label, starts[0].Category, g.Info[0].Label, g.Info[0].Category)
	}

	v.InjectPress(g.X[0], g.Y[0], MouseButtonLeft)
	v.Tick(fastFrame)
	v.InjectRelease(g.X[0], g.Y[0])
	v.Tick(fastFrame)
	clicks := sink.ofType(EventNodeClick)
	if len(clicks) != 1 || clicks[0].Node != 0 {
		t.Fatalf("click events = %+v, want one for node 0", clicks)
	}

	v.InjectLeave()
	v.Tick(fastFrame)
	ends := sink.ofType(EventHoverEnd)
	if len(ends) != 1 || ends[0].Node != 0 {
		t.Fatalf("hover end events = %+v, want one for node 0", ends)
	}
}

func TestQualityEvents(t *testing.T) {
	opts := testOptions()
	opts.Quality.Window = 10
	opts.Quality.EvalEvery = 10
	v := newTestVisualization(t, opts)
	sink := &mockSink{}
	v.SetEventSink(sink)

	tickN(v, 260, slowFrame)

	changes := sink.ofType(EventQualityChange)
	if len(changes) != 2 {
		t.Fatalf("quality events = %+v, want 2", changes)
	}
	if changes[0].PrevQuality != QualityHigh || changes[0].Quality != QualityMedium {
		t.Errorf("first change %v -> %v, want high -> medium", changes[0].PrevQuality, changes[0].Quality)
	}
	if changes[1].PrevQuality != QualityMedium || changes[1].Quality != QualityLow {
		t.Errorf("second change %v -> %v, want medium -> low", changes[1].PrevQuality, changes[1].Quality)
	}

	reduced := sink.ofType(EventNodesReduced)
	if len(reduced) != 1 {
		t.Fatalf("reduction events = %+v, want 1", reduced)
	}
	if reduced[0].PrevNodes != TierLow.NodeCeiling() || reduced[0].Nodes != TierLow.ReducedNodeCount() {
		t.Errorf("reduction %d -> %d, want %d -> %d", reduced[0].PrevNodes, reduced[0].Nodes,
			TierLow.NodeCeiling(), TierLow.ReducedNodeCount())
	}
}

func TestSetEventSinkNilDetaches(t *testing.T) {
	v := newTestVisualization(t, testOptions())
	sink := &mockSink{}
	v.SetEventSink(sink)
	v.SetMode(ModeCluster)
	v.SetEventSink(nil)
	v.SetMode(ModeFloat)
	if len(sink.events) != 1 {
		t.Errorf("events after detach = %+v, want 1", sink.events)
	}
}
