package lattice

import "fmt"

// EventType identifies a visualization event.
type EventType uint8

const (
	EventNodeClick EventType = iota // primary click released over the pressed node
	EventHoverStart
	EventHoverEnd
	EventModeChange
	EventQualityChange
	EventNodesReduced
)

func (t EventType) String() string {
	switch t {
	case EventNodeClick:
		return "node_click"
	case EventHoverStart:
		return "hover_start"
	case EventHoverEnd:
		return "hover_end"
	case EventModeChange:
		return "mode_change"
	case EventQualityChange:
		return "quality_change"
	case EventNodesReduced:
		return "nodes_reduced"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

// EventSink is the interface for optional event integration, such as an
// ECS bridge. When set on a Visualization, events are forwarded to it from
// inside Tick and the mode setters.
type EventSink interface {
	EmitEvent(event Event)
}

// Event carries one visualization event.
type Event struct {
	Type  EventType
	Frame uint64
	// Node fields (valid for EventNodeClick, EventHoverStart, EventHoverEnd)
	Node     int
	Label    string
	Category Category
	X, Y     float64
	// Mode fields (valid for EventModeChange)
	Mode     Mode
	PrevMode Mode
	// Quality fields (valid for EventQualityChange and EventNodesReduced)
	Quality     QualityLevel
	PrevQuality QualityLevel
	Nodes       int
	PrevNodes   int
}

// SetEventSink sets the optional event bridge. Pass nil to detach.
func (v *Visualization) SetEventSink(sink EventSink) {
	v.sink = sink
}

func (v *Visualization) emit(e Event) {
	if v.sink == nil {
		return
	}
	e.Frame = v.frame
	v.sink.EmitEvent(e)
}

func (v *Visualization) emitNode(t EventType, i int) {
	if v.sink == nil || i < 0 || i >= v.graph.Len() {
		return
	}
	info := &v.graph.Info[i]
	v.emit(Event{
		Type:     t,
		Node:     i,
		Label:    info.Label,
		Category: info.Category,
		X:        v.graph.X[i],
		Y:        v.graph.Y[i],
	})
}

func (v *Visualization) emitMode(prev Mode) {
	if m := v.planner.Mode(); m != prev {
		v.emit(Event{Type: EventModeChange, Mode: m, PrevMode: prev})
	}
}
