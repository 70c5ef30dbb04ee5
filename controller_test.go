package loupe

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c, err := NewController(DefaultConfig())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	c.SetContent(Content{ID: "a.png"})
	return c
}

func wheel(c *Controller, dy float64) {
	c.Handle(Event{Type: EventWheel, WheelY: dy})
}

func pinch(c *Controller, dists ...float64) {
	for i, d := range dists {
		typ := EventTouchMove
		if i == 0 {
			typ = EventTouchStart
		}
		c.Handle(Event{Type: typ, Touches: []Vec2{{0, 0}, {d, 0}}})
	}
	c.Handle(Event{Type: EventTouchEnd})
}

func click(c *Controller, at time.Time) {
	c.Handle(Event{Type: EventClick, Time: at})
}

func TestNewControllerDefaults(t *testing.T) {
	c, err := NewController(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), c.Config()); diff != "" {
		t.Errorf("zero Config should take defaults (-want +got):\n%s", diff)
	}
	if c.Open() {
		t.Error("new controller should start closed")
	}
	if c.Snapshot() != identityView {
		t.Errorf("Snapshot = %+v, want %+v", c.Snapshot(), identityView)
	}
}

func TestNewControllerInvalid(t *testing.T) {
	_, err := NewController(Config{MinScale: 2, MaxScale: 5})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestControllerWheelZoom(t *testing.T) {
	c := newTestController(t)
	wheel(c, 1)
	wheel(c, 1)
	if got := c.Snapshot().Scale; got != 1.5 {
		t.Errorf("scale after two zoom-in ticks = %v, want 1.5", got)
	}
	wheel(c, -1)
	if got := c.Snapshot().Scale; got != 1.25 {
		t.Errorf("scale after zoom-out tick = %v, want 1.25", got)
	}
	for range 40 {
		wheel(c, 1)
	}
	if got := c.Snapshot().Scale; got != 5 {
		t.Errorf("scale after many ticks = %v, want clamp 5", got)
	}
}

func TestControllerDragGating(t *testing.T) {
	t.Run("scale 1 ignores drag", func(t *testing.T) {
		c := newTestController(t)
		c.Handle(Event{Type: EventPointerDown, X: 10, Y: 10})
		if c.Dragging() {
			t.Error("drag session should not open at scale 1")
		}
		c.Handle(Event{Type: EventPointerMove, X: 50, Y: 90})
		if x, y := c.vp.Translation(); x != 0 || y != 0 {
			t.Errorf("translation = (%v,%v), want (0,0)", x, y)
		}
	})

	t.Run("scale below 1 ignores drag", func(t *testing.T) {
		c := newTestController(t)
		wheel(c, -1)
		c.Handle(Event{Type: EventPointerDown, X: 10, Y: 10})
		c.Handle(Event{Type: EventPointerMove, X: 50, Y: 90})
		if tr := c.Snapshot(); tr.TranslateX != 0 || tr.TranslateY != 0 {
			t.Errorf("translation = (%v,%v), want (0,0)", tr.TranslateX, tr.TranslateY)
		}
	})

	t.Run("scale 2 pans by delta/2", func(t *testing.T) {
		c := newTestController(t)
		c.vp.SetScale(2)
		c.Handle(Event{Type: EventPointerDown, X: 10, Y: 10})
		if !c.Dragging() {
			t.Fatal("drag session should open above scale 1")
		}
		c.Handle(Event{Type: EventPointerMove, X: 50, Y: 90})
		tr := c.Snapshot()
		if !approxEqual(tr.TranslateX, 20, epsilon) || !approxEqual(tr.TranslateY, 40, epsilon) {
			t.Errorf("translation = (%v,%v), want (20,40)", tr.TranslateX, tr.TranslateY)
		}

		// Moves are relative to the anchor, not cumulative.
		c.Handle(Event{Type: EventPointerMove, X: 30, Y: 10})
		tr = c.Snapshot()
		if !approxEqual(tr.TranslateX, 10, epsilon) || !approxEqual(tr.TranslateY, 0, epsilon) {
			t.Errorf("translation = (%v,%v), want (10,0)", tr.TranslateX, tr.TranslateY)
		}

		c.Handle(Event{Type: EventPointerUp, X: 30, Y: 10})
		if c.Dragging() {
			t.Error("drag session should close on pointer up")
		}
		c.Handle(Event{Type: EventPointerMove, X: 500, Y: 500})
		if c.Snapshot() != tr {
			t.Error("move after drag end should not pan")
		}
	})

	t.Run("second drag anchors at current translation", func(t *testing.T) {
		c := newTestController(t)
		c.vp.SetScale(2)
		c.Handle(Event{Type: EventPointerDown, X: 0, Y: 0})
		c.Handle(Event{Type: EventPointerMove, X: 20, Y: 0})
		c.Handle(Event{Type: EventPointerLeave})
		c.Handle(Event{Type: EventPointerDown, X: 100, Y: 100})
		c.Handle(Event{Type: EventPointerMove, X: 120, Y: 100})
		if got := c.Snapshot().TranslateX; !approxEqual(got, 20, epsilon) {
			t.Errorf("TranslateX = %v, want 20", got)
		}
	})
}

func TestControllerMoveWithoutSession(t *testing.T) {
	c := newTestController(t)
	c.vp.SetScale(3)
	c.Handle(Event{Type: EventPointerMove, X: 100, Y: 100})
	c.Handle(Event{Type: EventPointerUp})
	if tr := c.Snapshot(); tr.TranslateX != 0 || tr.TranslateY != 0 {
		t.Errorf("stray move/up changed translation to (%v,%v)", tr.TranslateX, tr.TranslateY)
	}
}

func TestControllerPinch(t *testing.T) {
	c := newTestController(t)
	c.Handle(Event{Type: EventTouchStart, Touches: []Vec2{{0, 0}, {100, 0}}})
	if !c.Pinching() {
		t.Fatal("pinch baseline should be recorded")
	}
	if c.Snapshot().Scale != 1 {
		t.Error("baseline frame must not change scale")
	}
	c.Handle(Event{Type: EventTouchMove, Touches: []Vec2{{0, 0}, {200, 0}}})
	if got := c.Snapshot().Scale; !approxEqual(got, 2, epsilon) {
		t.Errorf("scale = %v, want 2", got)
	}
	c.Handle(Event{Type: EventTouchEnd, Touches: []Vec2{{0, 0}}})
	if c.Pinching() {
		t.Error("touch end below two contacts should clear the baseline")
	}
}

func TestControllerPinchComposition(t *testing.T) {
	tests := []struct {
		name   string
		r1, r2 float64
	}{
		{"in then in", 1.2, 1.5},
		{"in then out", 2, 0.75},
		{"out then out", 0.8, 0.9},
		{"clamped high", 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestController(t)
			pinch(a, 100, 100*tt.r1, 100*tt.r1*tt.r2)

			b := newTestController(t)
			pinch(b, 100, 100*tt.r1*tt.r2)

			if !approxEqual(a.Snapshot().Scale, b.Snapshot().Scale, 1e-9) {
				t.Errorf("r1 then r2 = %v, r1*r2 at once = %v", a.Snapshot().Scale, b.Snapshot().Scale)
			}
		})
	}
}

func TestControllerPinchInconsistentSequences(t *testing.T) {
	c := newTestController(t)

	// Move with one touch: ignored.
	c.Handle(Event{Type: EventTouchMove, Touches: []Vec2{{0, 0}}})
	// End without any start: clears nothing, no crash.
	c.Handle(Event{Type: EventTouchEnd})
	// Move with two touches but no start records a baseline only.
	c.Handle(Event{Type: EventTouchMove, Touches: []Vec2{{0, 0}, {50, 0}}})
	if c.Snapshot().Scale != 1 {
		t.Errorf("scale = %v, want 1", c.Snapshot().Scale)
	}
	c.Handle(Event{Type: EventTouchMove, Touches: []Vec2{{0, 0}, {75, 0}}})
	if got := c.Snapshot().Scale; !approxEqual(got, 1.5, epsilon) {
		t.Errorf("scale = %v, want 1.5", got)
	}
	c.Handle(Event{Type: EventTouchEnd})

	// Stale baseline must not leak into the next pinch.
	c.Handle(Event{Type: EventTouchStart, Touches: []Vec2{{0, 0}, {300, 0}}})
	if got := c.Snapshot().Scale; !approxEqual(got, 1.5, epsilon) {
		t.Errorf("new pinch start changed scale to %v", got)
	}
}

func TestControllerDoubleActivation(t *testing.T) {
	t.Run("250ms toggles to inspect scale", func(t *testing.T) {
		c := newTestController(t)
		click(c, t0)
		click(c, t0.Add(250*time.Millisecond))
		if diff := cmp.Diff(Transform{Scale: 2}, c.Snapshot()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("400ms does not toggle", func(t *testing.T) {
		c := newTestController(t)
		click(c, t0)
		click(c, t0.Add(400*time.Millisecond))
		if c.Snapshot() != identityView {
			t.Errorf("Snapshot = %+v, want %+v", c.Snapshot(), identityView)
		}
	})

	t.Run("keeps translation when zooming in", func(t *testing.T) {
		c := newTestController(t)
		c.vp.SetScale(0.5)
		c.vp.SetTranslation(7, -3)
		click(c, t0)
		click(c, t0.Add(100*time.Millisecond))
		want := Transform{Scale: 2, TranslateX: 7, TranslateY: -3}
		if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("resets when zoomed in", func(t *testing.T) {
		c := newTestController(t)
		c.vp.SetScale(3)
		c.vp.SetTranslation(12, 34)
		click(c, t0)
		click(c, t0.Add(100*time.Millisecond))
		if c.Snapshot() != identityView {
			t.Errorf("Snapshot = %+v, want %+v", c.Snapshot(), identityView)
		}
	})

	t.Run("target scale is clamped", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxScale = 1.5
		c, err := NewController(cfg)
		if err != nil {
			t.Fatal(err)
		}
		c.SetContent(Content{ID: "a.png"})
		click(c, t0)
		click(c, t0.Add(10*time.Millisecond))
		if got := c.Snapshot().Scale; got != 1.5 {
			t.Errorf("scale = %v, want 1.5", got)
		}
	})
}

func TestControllerContentChangeReset(t *testing.T) {
	c := newTestController(t)
	c.vp.SetScale(3)
	c.Handle(Event{Type: EventPointerDown, X: 0, Y: 0})
	c.Handle(Event{Type: EventPointerMove, X: 30, Y: 30})
	c.Handle(Event{Type: EventTouchStart, Touches: []Vec2{{0, 0}, {100, 0}}})
	click(c, t0)

	c.SetContent(Content{ID: "b.png"})
	if c.Snapshot() != identityView {
		t.Fatalf("Snapshot = %+v, want %+v", c.Snapshot(), identityView)
	}
	if c.Dragging() || c.Pinching() {
		t.Fatal("transient sessions should be cleared on content change")
	}

	// Old-session moves are no-ops against the new content.
	c.Handle(Event{Type: EventPointerMove, X: 300, Y: 300})
	c.Handle(Event{Type: EventTouchMove, Touches: []Vec2{{0, 0}, {400, 0}}})
	click(c, t0.Add(50*time.Millisecond))
	if c.Snapshot() != identityView {
		t.Errorf("Snapshot after stale input = %+v, want %+v", c.Snapshot(), identityView)
	}
}

func TestControllerSameContentKeepsView(t *testing.T) {
	c := newTestController(t)
	wheel(c, 1)
	c.SetContent(Content{ID: "a.png"})
	if got := c.Snapshot().Scale; got != 1.25 {
		t.Errorf("scale = %v, want 1.25 (same identity must not reset)", got)
	}
}

func TestControllerDocumentIgnoresGestures(t *testing.T) {
	c := newTestController(t)
	c.SetContent(Content{ID: "paper.pdf", Kind: ContentDocument})
	wheel(c, 1)
	c.ZoomIn()
	click(c, t0)
	click(c, t0.Add(10*time.Millisecond))
	pinch(c, 100, 300)
	if c.Snapshot() != identityView {
		t.Errorf("document view changed to %+v", c.Snapshot())
	}
	if c.CanPan() {
		t.Error("CanPan should be false for documents")
	}
}

func TestControllerCloseReopen(t *testing.T) {
	c := newTestController(t)
	c.vp.SetScale(2)
	c.Handle(Event{Type: EventPointerDown, X: 0, Y: 0})
	c.Handle(Event{Type: EventTouchStart, Touches: []Vec2{{0, 0}, {100, 0}}})
	click(c, t0)

	c.Close()
	if c.Open() || c.Dragging() || c.Pinching() {
		t.Fatal("Close should discard all sessions")
	}
	wheel(c, 1)
	if c.Snapshot() != identityView {
		t.Errorf("input after Close changed view to %+v", c.Snapshot())
	}

	// Reopen the same asset: no drag or tap survives.
	c.SetContent(Content{ID: "a.png"})
	c.Handle(Event{Type: EventPointerMove, X: 100, Y: 100})
	click(c, t0.Add(10*time.Millisecond))
	if c.Snapshot() != identityView {
		t.Errorf("stale session survived Close: %+v", c.Snapshot())
	}
}

func TestControllerZoomButtons(t *testing.T) {
	c := newTestController(t)
	c.ZoomIn()
	c.ZoomIn()
	if got := c.Label(); got != "150%" {
		t.Errorf("Label = %q, want 150%%", got)
	}
	c.ZoomOut()
	if got := c.Label(); got != "125%" {
		t.Errorf("Label = %q, want 125%%", got)
	}
	c.vp.SetTranslation(4, 4)
	c.ResetZoom()
	if c.Snapshot() != identityView {
		t.Errorf("ResetZoom left %+v", c.Snapshot())
	}
	for range 10 {
		c.ZoomOut()
	}
	if got := c.Label(); got != "25%" {
		t.Errorf("Label = %q, want 25%%", got)
	}
}

func TestControllerOnChange(t *testing.T) {
	c := newTestController(t)
	var got []ChangeEvent
	h := c.OnChange(func(ev ChangeEvent) { got = append(got, ev) })

	wheel(c, 1)
	wheel(c, 0)      // no tick
	c.vp.SetScale(5) // direct, not notified
	wheel(c, 1)      // clamped, no change
	c.Handle(Event{Type: EventPointerDown, X: 0, Y: 0})
	c.Handle(Event{Type: EventPointerMove, X: 10, Y: 0})
	c.SetContent(Content{ID: "b.png"})

	want := []ChangeEvent{
		{ContentID: "a.png", Cause: GestureZoomTick, Transform: Transform{Scale: 1.25}},
		{ContentID: "a.png", Cause: GestureDragMove, Transform: Transform{Scale: 5, TranslateX: 2}},
		{ContentID: "b.png", Cause: GestureContent, Transform: identityView},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("change events mismatch (-want +got):\n%s", diff)
	}

	h.Remove()
	wheel(c, 1)
	if len(got) != len(want) {
		t.Errorf("removed handler still fired: %d events", len(got))
	}
	h.Remove() // double remove is a no-op
}

type recordingSink struct {
	events []ChangeEvent
}

func (s *recordingSink) EmitChange(ev ChangeEvent) { s.events = append(s.events, ev) }

func TestControllerEventSink(t *testing.T) {
	c := newTestController(t)
	sink := &recordingSink{}
	c.SetEventSink(sink)
	pinch(c, 100, 150)
	if len(sink.events) != 1 || sink.events[0].Cause != GesturePinch {
		t.Fatalf("sink events = %+v, want one pinch", sink.events)
	}
	c.SetEventSink(nil)
	wheel(c, 1)
	if len(sink.events) != 1 {
		t.Error("detached sink should not receive events")
	}
}

func TestControllerCanPan(t *testing.T) {
	c := newTestController(t)
	if c.CanPan() {
		t.Error("CanPan at scale 1 should be false")
	}
	wheel(c, 1)
	if !c.CanPan() {
		t.Error("CanPan above scale 1 should be true")
	}
}

func TestControllerEndToEnd(t *testing.T) {
	c := newTestController(t)

	wheel(c, 1)
	wheel(c, 1)
	if got := c.Snapshot().Scale; got != 1.5 {
		t.Fatalf("after two wheel ticks scale = %v, want 1.5", got)
	}

	pinch(c, 100, 200)
	if got := c.Snapshot().Scale; !approxEqual(got, 3, epsilon) {
		t.Fatalf("after pinch x2 scale = %v, want 3", got)
	}

	click(c, t0)
	click(c, t0.Add(200*time.Millisecond))
	if c.Snapshot() != identityView {
		t.Errorf("after double activation = %+v, want %+v", c.Snapshot(), identityView)
	}
}

func TestControllerIgnoresInputBeforeContent(t *testing.T) {
	c, err := NewController(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	wheel(c, 1)
	c.ZoomIn()
	if c.Snapshot() != identityView {
		t.Errorf("snapshot before SetContent = %+v, want identity", c.Snapshot())
	}
	c.SetContent(Content{ID: "a.png"})
	wheel(c, 1)
	if c.Snapshot().Scale != 1.25 {
		t.Errorf("scale = %v, want 1.25", c.Snapshot().Scale)
	}
}
