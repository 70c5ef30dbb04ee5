// Package ecs connects a loupe Controller to a [Donburi] world.
//
// [DonburiSink] does two things with each viewport change: it overwrites the
// [ViewComponent] on its own entity, and it queues a [ChangeEventType] event
// for systems that care about individual gestures (the Cause field tells a
// pinch from a wheel tick or a content reset).
//
//	sink := ecs.NewDonburiSink(world)
//	ctrl.SetEventSink(sink)
//
//	// in a system
//	view := ecs.ViewComponent.Get(world.Entry(sink.Entity()))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
