// Package loupe is a zoom/pan/gesture viewport engine for inspecting a
// displayed image at variable magnification, with an [Ebitengine] host.
//
// Three input modalities arrive independently: pointer drag, scroll wheel,
// and multi-touch pinch/double-tap. loupe reconciles them into one
// [Transform] (scale + translation) that never leaves the configured scale
// range and never glitches between input modes.
//
// # Pipeline
//
// Raw host input is an [Event]. [Recognize] classifies it into a [Gesture].
// A [Controller] gates and applies gestures to its [Viewport] through
// clamped mutators, and renderers read [Controller.Snapshot] every frame:
//
//	ctrl, err := loupe.NewController(loupe.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctrl.SetContent(loupe.Content{ID: "photo.png"}) // input is ignored until content is set
//	ctrl.Handle(loupe.Event{Type: loupe.EventWheel, WheelY: 1})
//	fmt.Println(ctrl.Label()) // 125%
//
// Panning is only offered above native size. A double click or tap toggles
// between native size and a fixed inspect zoom. Changing the content
// identity resets the view and discards any gesture in flight.
//
// # Ebitengine host
//
// [Host] polls mouse, wheel and touch input, feeds the controller, and
// draws the displayed image. Implement [ebiten.Game] and delegate:
//
//	type Game struct{ host *loupe.Host }
//
//	func (g *Game) Update() error              { return g.host.Update() }
//	func (g *Game) Draw(s *ebiten.Image)       { g.host.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// Synthetic input ([Host.InjectDrag], [Host.InjectPinch], ...) and JSON
// gesture scripts ([LoadScript]) drive the same code paths as a device.
//
// # ECS
//
// Viewport changes can be forwarded to a [Donburi] world through the
// adapter in loupe/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package loupe
