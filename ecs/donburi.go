package ecs

import (
	"github.com/phanxgames/lattice"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EventType is the Donburi event type for lattice visualization events.
// Subscribe to this in your ECS systems to receive clicks, hover changes,
// mode changes and quality changes.
var EventType = events.NewEventType[lattice.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Events are published to EventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) lattice.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event lattice.Event) {
	EventType.Publish(s.world, event)
}
