package ecs

import (
	"github.com/phanxgames/bramble"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for bramble interaction
// events.
var InteractionEventType = events.NewEventType[bramble.InteractionEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on InteractionEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) bramble.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) Emit(event bramble.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}
