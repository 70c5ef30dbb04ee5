package ecs

import (
	"github.com/phanxgames/loupe"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ChangeEventType carries every loupe viewport change, queued until the
// world's events are processed.
var ChangeEventType = events.NewEventType[loupe.ChangeEvent]()

// ViewState is the most recent viewport state of one controller.
type ViewState struct {
	ContentID string
	Transform loupe.Transform
}

// ViewComponent holds a ViewState. Each DonburiSink owns one entity with it,
// updated immediately on every change, so systems can read the current
// zoom without subscribing.
var ViewComponent = donburi.NewComponentType[ViewState]()

// DonburiSink mirrors a controller into a donburi world.
type DonburiSink struct {
	world  donburi.World
	entity donburi.Entity
}

// NewDonburiSink creates the sink's view entity in world at 100% and returns
// a sink ready for Controller.SetEventSink.
func NewDonburiSink(world donburi.World) *DonburiSink {
	e := world.Create(ViewComponent)
	ViewComponent.SetValue(world.Entry(e), ViewState{Transform: loupe.Transform{Scale: 1}})
	return &DonburiSink{world: world, entity: e}
}

// Entity returns the entity carrying this sink's ViewComponent.
func (s *DonburiSink) Entity() donburi.Entity { return s.entity }

// View returns the mirrored state.
func (s *DonburiSink) View() ViewState {
	return *ViewComponent.Get(s.world.Entry(s.entity))
}

// EmitChange updates the view entity and publishes ev on ChangeEventType.
func (s *DonburiSink) EmitChange(ev loupe.ChangeEvent) {
	ViewComponent.SetValue(s.world.Entry(s.entity), ViewState{ContentID: ev.ContentID, Transform: ev.Transform})
	ChangeEventType.Publish(s.world, ev)
}
