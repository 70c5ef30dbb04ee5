package loupe

import (
	"fmt"
	"log/slog"
)

// EventSink is the interface for optional ECS integration.
// When set on a Controller, every ChangeEvent is forwarded to it.
type EventSink interface {
	EmitChange(event ChangeEvent)
}

// ChangeEvent is emitted each time the viewport state changes.
type ChangeEvent struct {
	ContentID string
	// Cause is the gesture that produced the change.
	Cause     GestureKind
	Transform Transform
}

// --- Handler registry ---

type changeHandler struct {
	id uint32
	fn func(ChangeEvent)
}

type handlerRegistry struct {
	change []changeHandler
	nextID uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id  uint32
	reg *handlerRegistry
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.change
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = changeHandler{}
			h.reg.change = s[:len(s)-1]
			return
		}
	}
}

// Controller applies recognized gestures to a Viewport. It owns the viewport
// and every transient gesture session, and is driven synchronously from the
// host's input loop. A Controller is not safe for concurrent use.
type Controller struct {
	cfg Config
	vp  *Viewport

	content Content
	open    bool

	drag  dragSession
	pinch pinchSession
	taps  tapHistory

	handlers handlerRegistry
	sink     EventSink
}

// NewController creates a Controller for cfg. Zero fields in cfg take their
// defaults. The controller starts closed; call SetContent to display
// something.
func NewController(cfg Config) (*Controller, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	vp, err := NewViewport(cfg.MinScale, cfg.MaxScale)
	if err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	return &Controller{cfg: cfg, vp: vp}, nil
}

// Config returns the effective configuration.
func (c *Controller) Config() Config { return c.cfg }

// Snapshot returns the current transform. Renderers call this every frame
// rather than caching a previous value.
func (c *Controller) Snapshot() Transform { return c.vp.Transform() }

// Content returns the displayed content; the zero value when closed.
func (c *Controller) Content() Content { return c.content }

// Open reports whether content is displayed.
func (c *Controller) Open() bool { return c.open }

// Dragging reports whether a drag session is active.
func (c *Controller) Dragging() bool { return c.drag.active }

// Pinching reports whether a pinch baseline is recorded.
func (c *Controller) Pinching() bool { return c.pinch.tracking }

// CanPan reports whether a drag would be accepted, for cursor affordance.
func (c *Controller) CanPan() bool { return c.interactive() && c.vp.Scale() > 1 }

// Label returns the zoom percentage label, e.g. "100%".
func (c *Controller) Label() string { return c.Snapshot().Label() }

// interactive reports whether gesture wiring applies to the displayed content.
// Documents render through their own viewer and get none.
func (c *Controller) interactive() bool {
	return c.open && c.content.Kind == ContentImage
}

// OnChange registers a callback fired after every viewport state change.
func (c *Controller) OnChange(fn func(ChangeEvent)) CallbackHandle {
	c.handlers.nextID++
	id := c.handlers.nextID
	c.handlers.change = append(c.handlers.change, changeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &c.handlers}
}

// SetEventSink sets the optional ECS bridge. Pass nil to detach.
func (c *Controller) SetEventSink(sink EventSink) {
	c.sink = sink
}

// SetContent displays content. When its identity differs from the current
// one the viewport resets and every transient session is discarded,
// whatever gesture was mid-flight.
func (c *Controller) SetContent(content Content) {
	if c.open && content.ID == c.content.ID {
		c.content.Kind = content.Kind
		return
	}
	c.content = content
	c.open = true
	c.clearSessions()
	Logger().Info("loupe: content changed", slog.String("id", content.ID), slog.String("kind", content.Kind.String()))
	c.update(GestureContent, c.vp.Reset)
}

// Close stops listening: transient sessions are discarded, the viewport is
// reset, and input is ignored until the next SetContent.
func (c *Controller) Close() {
	c.clearSessions()
	id := c.content.ID
	c.update(GestureContent, c.vp.Reset)
	c.open = false
	c.content = Content{}
	Logger().Debug("loupe: closed", slog.String("id", id))
}

func (c *Controller) clearSessions() {
	c.drag.clear()
	c.pinch.clear()
	c.taps.clear()
}

// Handle recognizes and applies one raw event. Events are dropped until
// SetContent has displayed an image, and again after Close.
func (c *Controller) Handle(e Event) {
	c.Apply(Recognize(e, c.cfg.ZoomStep))
}

// Apply applies one recognized gesture. Inconsistent sequences (a move with
// no drag session, a pinch frame without a baseline) degrade to no-ops.
func (c *Controller) Apply(g Gesture) {
	if !c.interactive() {
		return
	}
	switch g.Kind {
	case GestureDragStart:
		if c.vp.Scale() <= 1 {
			return
		}
		tx, ty := c.vp.Translation()
		c.drag.begin(g.Pointer, Vec2{tx, ty})
		Logger().Debug("loupe: drag start", slog.Float64("x", g.Pointer.X), slog.Float64("y", g.Pointer.Y))

	case GestureDragMove:
		if !c.drag.active {
			return
		}
		t := c.drag.translation(g.Pointer, c.vp.Scale())
		c.update(g.Kind, func() { c.vp.SetTranslation(t.X, t.Y) })

	case GestureDragEnd:
		if c.drag.active {
			c.drag.clear()
			Logger().Debug("loupe: drag end")
		}

	case GestureZoomTick:
		c.update(g.Kind, func() { c.vp.AdjustScale(g.Step) })

	case GesturePinch:
		wasTracking := c.pinch.tracking
		ratio, ok := c.pinch.track(g.Touches)
		if !wasTracking && c.pinch.tracking {
			Logger().Debug("loupe: pinch start", slog.Float64("distance", c.pinch.lastDistance))
		}
		if ok {
			c.update(g.Kind, func() { c.vp.SetScale(c.vp.Scale() * ratio) })
		}

	case GesturePinchEnd:
		if c.pinch.tracking {
			Logger().Debug("loupe: pinch end")
		}
		c.pinch.clear()

	case GestureActivation:
		if !c.taps.activate(g.Time, c.cfg.DoubleActivationWindow) {
			return
		}
		c.update(g.Kind, c.toggle)
	}
}

// toggle resolves a double-activation: zoomed in returns to native size,
// otherwise jump straight to the inspect scale keeping the translation.
func (c *Controller) toggle() {
	if c.vp.Scale() > 1 {
		c.vp.Reset()
		Logger().Debug("loupe: toggle reset")
		return
	}
	applied := c.vp.SetScale(c.cfg.DoubleTapTargetScale)
	Logger().Debug("loupe: toggle inspect", slog.Float64("scale", applied))
}

// ZoomIn steps the scale up by ZoomStep, as a zoom button would.
func (c *Controller) ZoomIn() {
	if c.interactive() {
		c.update(GestureButton, func() { c.vp.AdjustScale(c.cfg.ZoomStep) })
	}
}

// ZoomOut steps the scale down by ZoomStep.
func (c *Controller) ZoomOut() {
	if c.interactive() {
		c.update(GestureButton, func() { c.vp.AdjustScale(-c.cfg.ZoomStep) })
	}
}

// ResetZoom returns to 100% with no pan, as the percentage label button does.
func (c *Controller) ResetZoom() {
	if c.interactive() {
		c.update(GestureButton, c.vp.Reset)
	}
}

// update runs mutate and notifies listeners if the state changed.
func (c *Controller) update(cause GestureKind, mutate func()) {
	before := c.vp.Transform()
	mutate()
	after := c.vp.Transform()
	if after == before {
		return
	}
	ev := ChangeEvent{ContentID: c.content.ID, Cause: cause, Transform: after}
	for _, h := range c.handlers.change {
		h.fn(ev)
	}
	if c.sink != nil {
		c.sink.EmitChange(ev)
	}
}
