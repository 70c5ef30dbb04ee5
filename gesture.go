package loupe

import (
	"fmt"
	"math"
	"time"
)

// GestureKind identifies a normalized, device-independent gesture signal.
type GestureKind uint8

const (
	GestureNone       GestureKind = iota // event carries nothing for the viewport
	GestureDragStart                     // pointer pressed; may open a drag session
	GestureDragMove                      // pointer moved; pans while a session is open
	GestureDragEnd                       // pointer released or left; closes the session
	GestureZoomTick                      // one signed wheel step
	GesturePinch                         // two or more live contacts; ratio is computed by the pinch session
	GesturePinchEnd                      // fewer than two contacts remain
	GestureActivation                    // click or tap; may complete a double-activation
	GestureContent                       // displayed content changed (synthetic cause for resets)
	GestureButton                        // zoom button press (synthetic cause)
)

var gestureKindNames = [...]string{
	GestureNone:       "none",
	GestureDragStart:  "dragstart",
	GestureDragMove:   "drag",
	GestureDragEnd:    "dragend",
	GestureZoomTick:   "zoomtick",
	GesturePinch:      "pinch",
	GesturePinchEnd:   "pinchend",
	GestureActivation: "activation",
	GestureContent:    "content",
	GestureButton:     "button",
}

func (k GestureKind) String() string {
	if int(k) < len(gestureKindNames) {
		return gestureKindNames[k]
	}
	return fmt.Sprintf("GestureKind(%d)", uint8(k))
}

// Gesture is the classified form of one Event.
type Gesture struct {
	Kind GestureKind
	// Pointer is the screen-space position for drag gestures.
	Pointer Vec2
	// Step is the signed scale delta of a zoom tick.
	Step float64
	// Touches are the live contact points of a pinch gesture.
	Touches []Vec2
	// Time is the event timestamp, used for activations.
	Time time.Time
}

// Recognize classifies a raw event. step is the magnitude of one zoom tick.
// Recognize is stateless; ratio, drag delta, and double-activation need the
// transient sessions held by the Controller.
func Recognize(e Event, step float64) Gesture {
	pos := Vec2{e.X, e.Y}
	switch e.Type {
	case EventPointerDown:
		return Gesture{Kind: GestureDragStart, Pointer: pos, Time: e.Time}
	case EventPointerMove:
		return Gesture{Kind: GestureDragMove, Pointer: pos, Time: e.Time}
	case EventPointerUp, EventPointerLeave:
		return Gesture{Kind: GestureDragEnd, Pointer: pos, Time: e.Time}
	case EventWheel:
		switch {
		case e.WheelY > 0:
			return Gesture{Kind: GestureZoomTick, Step: step, Time: e.Time}
		case e.WheelY < 0:
			return Gesture{Kind: GestureZoomTick, Step: -step, Time: e.Time}
		}
		return Gesture{Kind: GestureNone, Time: e.Time}
	case EventClick:
		return Gesture{Kind: GestureActivation, Pointer: pos, Time: e.Time}
	case EventTouchStart, EventTouchMove, EventTouchEnd:
		if len(e.Touches) < 2 {
			return Gesture{Kind: GesturePinchEnd, Time: e.Time}
		}
		return Gesture{Kind: GesturePinch, Touches: e.Touches, Time: e.Time}
	}
	return Gesture{Kind: GestureNone, Time: e.Time}
}

// touchDistance is the Euclidean distance between two contact points.
func touchDistance(a, b Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// --- Drag session ---

// dragSession anchors a pan gesture. It exists only while active is set.
type dragSession struct {
	active            bool
	anchor            Vec2
	anchorTranslation Vec2
}

func (d *dragSession) begin(pointer, translation Vec2) {
	d.active = true
	d.anchor = pointer
	d.anchorTranslation = translation
}

// translation returns the pan offset for the pointer at p. The pointer delta
// is divided by scale so a given physical movement moves the content the
// same on-screen distance at every zoom level.
func (d *dragSession) translation(p Vec2, scale float64) Vec2 {
	delta := p.Sub(d.anchor)
	return Vec2{
		X: d.anchorTranslation.X + delta.X/scale,
		Y: d.anchorTranslation.Y + delta.Y/scale,
	}
}

func (d *dragSession) clear() {
	*d = dragSession{}
}

// --- Pinch session ---

// pinchSession holds the baseline distance of a two-contact gesture.
// tracking=false means the baseline is absent.
type pinchSession struct {
	tracking     bool
	lastDistance float64
}

// track consumes the live contacts of one touch frame. It returns the zoom
// ratio relative to the previous frame and ok=true only when exactly two
// contacts are live and a usable baseline exists. The baseline always moves
// to the new distance, so zoom is relative frame-to-frame.
func (p *pinchSession) track(touches []Vec2) (ratio float64, ok bool) {
	if len(touches) != 2 {
		p.clear()
		return 0, false
	}
	dist := touchDistance(touches[0], touches[1])
	if !p.tracking || p.lastDistance <= 0 {
		p.tracking = true
		p.lastDistance = dist
		return 0, false
	}
	ratio = dist / p.lastDistance
	p.lastDistance = dist
	return ratio, true
}

func (p *pinchSession) clear() {
	*p = pinchSession{}
}

// --- Tap history ---

// tapHistory remembers the previous activation for double-activation
// detection.
type tapHistory struct {
	armed bool
	last  time.Time
}

// activate records an activation at t and reports whether it completes a
// double-activation: strictly less than window after the previous one.
// The timestamp is re-recorded either way.
func (h *tapHistory) activate(t time.Time, window time.Duration) bool {
	double := h.armed && t.Sub(h.last) < window && !t.Before(h.last)
	h.armed = true
	h.last = t
	return double
}

func (h *tapHistory) clear() {
	*h = tapHistory{}
}
