package loupe

import (
	"fmt"
	"math"
	"time"
)

// Vec2 is a 2D vector used for pointer positions, touch contacts, and
// translations throughout the API.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Transform is the 2-D affine descriptor a renderer applies to displayed
// content: scale first, then translation in content-local units.
type Transform struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// identityView is the transform of freshly displayed content.
var identityView = Transform{Scale: 1}

// Percent returns the zoom level rounded to a whole percentage.
func (t Transform) Percent() int {
	return int(math.Round(t.Scale * 100))
}

// Label returns the zoom level formatted for a zoom-button label, e.g. "150%".
func (t Transform) Label() string {
	return fmt.Sprintf("%d%%", t.Percent())
}

// Matrix returns Scale(s) * Translate(tx, ty) as [a, b, c, d, tx, ty].
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func (t Transform) Matrix() [6]float64 {
	s := t.Scale
	return [6]float64{s, 0, 0, s, s * t.TranslateX, s * t.TranslateY}
}

// Apply maps a content-local point into view space.
func (t Transform) Apply(x, y float64) (vx, vy float64) {
	return transformPoint(t.Matrix(), x, y)
}

// Invert maps a view-space point back into content-local space.
func (t Transform) Invert(vx, vy float64) (x, y float64) {
	return transformPoint(invertAffine(t.Matrix()), vx, vy)
}

// EventType identifies a kind of raw host input event.
type EventType uint8

const (
	EventPointerDown  EventType = iota // primary button pressed
	EventPointerMove                   // pointer moved (button state irrelevant)
	EventPointerUp                     // primary button released
	EventPointerLeave                  // pointer left the viewer surface
	EventWheel                         // one discrete scroll-wheel notch
	EventClick                         // click or tap (an activation)
	EventTouchStart                    // a contact point was added
	EventTouchMove                     // one or more contact points moved
	EventTouchEnd                      // a contact point was lifted
)

var eventTypeNames = [...]string{
	EventPointerDown:  "pointerdown",
	EventPointerMove:  "pointermove",
	EventPointerUp:    "pointerup",
	EventPointerLeave: "pointerleave",
	EventWheel:        "wheel",
	EventClick:        "click",
	EventTouchStart:   "touchstart",
	EventTouchMove:    "touchmove",
	EventTouchEnd:     "touchend",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// Event is one raw input event delivered by the host.
type Event struct {
	Type EventType
	// X and Y are the screen-space pointer position.
	X, Y float64
	// WheelY is the vertical wheel offset. Positive values scroll up and
	// zoom in; only the sign is used.
	WheelY float64
	// Touches holds every contact point still active after the event
	// (touch events only).
	Touches []Vec2
	// Time is when the host observed the event.
	Time time.Time
}

// ContentKind tells the host whether gesture handling applies at all.
type ContentKind uint8

const (
	ContentImage    ContentKind = iota // raster image, gestures attached
	ContentDocument                    // page document with its own native viewer
)

func (k ContentKind) String() string {
	switch k {
	case ContentImage:
		return "image"
	case ContentDocument:
		return "document"
	default:
		return fmt.Sprintf("ContentKind(%d)", uint8(k))
	}
}

// Content identifies the displayed asset. The viewport resets whenever ID
// changes.
type Content struct {
	ID   string
	Kind ContentKind
}
