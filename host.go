package loupe

import (
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // pixels
)

// pointerState tracks one pointer between press and release so a release
// that never travelled past the dead zone can be reported as a click/tap.
type pointerState struct {
	down   bool
	startX float64
	startY float64
	lastX  float64
	lastY  float64
	moved  bool
}

// presentAnim eases the drawn transform toward the controller snapshot after
// a double-activation toggle.
type presentAnim struct {
	target        Transform
	scale, tx, ty *gween.Tween
}

// Host connects a Controller to Ebitengine: it polls mouse, wheel and touch
// input each tick, converts it into Events, and draws the displayed image
// under the current transform.
type Host struct {
	ctrl  *Controller
	image *ebiten.Image

	// DragDeadZone is how far a pointer may travel before its release no
	// longer counts as a click or tap.
	DragDeadZone float64
	// ToggleDuration, in seconds, eases the drawn view after a
	// double-activation. Zero snaps.
	ToggleDuration float32
	// Ease is the easing function for ToggleDuration. Defaults to ease.OutCubic.
	Ease ease.TweenFunc
	// Background fills the screen before the content is drawn.
	Background color.Color
	// Now timestamps events; defaults to time.Now.
	Now func() time.Time
	// Load returns the image for content a script switches to. Without it
	// the script's content is shown with no image.
	Load func(Content) (*ebiten.Image, error)
	// HitUI reports whether a screen point belongs to the host's own
	// widgets. Presses there are not forwarded to the controller.
	HitUI func(x, y float64) bool

	pointers     [maxPointers]pointerState
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	touchPointer int // slot driving pointer events while a single touch is down

	injectQueue []syntheticEvent
	script      *Script

	presented Transform
	anim      *presentAnim
	pending   GestureKind
}

// NewHost creates a Host driving ctrl.
func NewHost(ctrl *Controller) *Host {
	h := &Host{
		ctrl:         ctrl,
		DragDeadZone: defaultDragDeadZone,
		Ease:         ease.OutCubic,
		Background:   color.Black,
		presented:    ctrl.Snapshot(),
	}
	ctrl.OnChange(func(ev ChangeEvent) {
		if ev.Cause == GestureActivation {
			h.pending = GestureActivation
		}
	})
	return h
}

// Controller returns the driven controller.
func (h *Host) Controller() *Controller { return h.ctrl }

// Show displays img as content. Pointer tracking and the presented view are
// reset together with the controller.
func (h *Host) Show(content Content, img *ebiten.Image) {
	h.image = img
	h.setContent(content)
}

// loadContent switches to content, fetching its image through Load.
func (h *Host) loadContent(content Content) {
	h.image = nil
	if h.Load != nil {
		img, err := h.Load(content)
		if err != nil {
			Logger().Warn("loupe: load content", slog.String("id", content.ID), slog.Any("err", err))
		}
		h.image = img
	}
	h.setContent(content)
}

func (h *Host) setContent(content Content) {
	h.ctrl.SetContent(content)
	h.releasePointers()
	h.anim = nil
	h.pending = GestureNone
	h.presented = h.ctrl.Snapshot()
}

// Close closes the controller and drops the displayed image.
func (h *Host) Close() {
	h.ctrl.Close()
	h.image = nil
	h.releasePointers()
	h.injectQueue = h.injectQueue[:0]
	h.anim = nil
	h.presented = h.ctrl.Snapshot()
}

// releasePointers forgets every pointer press. Touch slots stay assigned so
// a finger still held is not seen as a new contact; it pans and taps nothing
// until it is lifted.
func (h *Host) releasePointers() {
	h.pointers = [maxPointers]pointerState{}
	h.touchPointer = 0
}

// Presented returns the transform drawn this frame. It equals the
// controller snapshot except while a toggle animation is running.
func (h *Host) Presented() Transform { return h.presented }

func (h *Host) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Update processes input and advances the presenter. Call it from
// ebiten.Game.Update.
func (h *Host) Update() error {
	h.step(float32(1.0 / float64(ebiten.TPS())))
	return nil
}

func (h *Host) step(dt float32) {
	if h.script != nil {
		h.script.step(h)
	}
	h.processInput()
	h.present(dt)
}

// processInput feeds one injected event if any are queued, otherwise the
// real mouse, wheel and touch state.
func (h *Host) processInput() {
	if !h.ctrl.interactive() {
		return
	}
	if h.processInjectedInput() {
		return
	}
	h.processMousePointer()
	h.processWheel()
	h.processTouchPointers()
}

// processMousePointer handles mouse input (pointer 0).
func (h *Host) processMousePointer() {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	h.processPointer(0, float64(mx), float64(my), pressed)
}

func (h *Host) processWheel() {
	_, dy := ebiten.Wheel()
	if dy != 0 {
		h.ctrl.Handle(Event{Type: EventWheel, WheelY: dy, Time: h.now()})
	}
}

// processPointer runs the press/move/release machine for one pointer.
func (h *Host) processPointer(pointerID int, x, y float64, pressed bool) {
	ps := &h.pointers[pointerID]
	now := h.now()

	switch {
	case pressed && !ps.down:
		if h.HitUI != nil && h.HitUI(x, y) {
			return
		}
		*ps = pointerState{down: true, startX: x, startY: y, lastX: x, lastY: y}
		h.ctrl.Handle(Event{Type: EventPointerDown, X: x, Y: y, Time: now})

	case !pressed && ps.down:
		h.ctrl.Handle(Event{Type: EventPointerUp, X: x, Y: y, Time: now})
		if !ps.moved {
			h.ctrl.Handle(Event{Type: EventClick, X: x, Y: y, Time: now})
		}
		ps.down = false

	case pressed && ps.down:
		if x == ps.lastX && y == ps.lastY {
			return
		}
		if !ps.moved && math.Hypot(x-ps.startX, y-ps.startY) > h.DragDeadZone {
			ps.moved = true
		}
		ps.lastX, ps.lastY = x, y
		h.ctrl.Handle(Event{Type: EventPointerMove, X: x, Y: y, Time: now})

	default:
		if x != ps.lastX || y != ps.lastY {
			ps.lastX, ps.lastY = x, y
			h.ctrl.Handle(Event{Type: EventPointerMove, X: x, Y: y, Time: now})
		}
	}
}

// cancelPointer ends a pointer without a click, used when a second finger
// turns a one-finger pan into a pinch.
func (h *Host) cancelPointer(pointerID int) {
	ps := &h.pointers[pointerID]
	if !ps.down {
		return
	}
	h.ctrl.Handle(Event{Type: EventPointerUp, X: ps.lastX, Y: ps.lastY, Time: h.now()})
	ps.down = false
}

// processTouchPointers handles touch input (pointers 1-9). One contact acts
// as a pointer; every contact is also reported in touch events for pinching.
func (h *Host) processTouchPointers() {
	touchIDs := ebiten.AppendTouchIDs(h.prevTouchIDs[:0])
	h.prevTouchIDs = touchIDs

	wasUsed := h.touchUsed
	var frame touchFrame
	for _, tid := range touchIDs {
		slot := h.touchSlot(tid)
		if slot < 0 {
			Logger().Warn("loupe: touch slots exhausted", "touch", int(tid))
			continue
		}
		frame.active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		frame.pos[slot] = Vec2{float64(tx), float64(ty)}
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if wasUsed[i] && !frame.active[i] {
			h.touchUsed[i] = false
			h.touchMap[i] = 0
		}
	}
	h.feedTouches(wasUsed, frame)
}

// touchFrame is the set of live contacts in one tick, indexed by slot.
type touchFrame struct {
	active [maxPointers]bool
	pos    [maxPointers]Vec2
}

func (f *touchFrame) contacts() []Vec2 {
	var out []Vec2
	for i := 1; i < maxPointers; i++ {
		if f.active[i] {
			out = append(out, f.pos[i])
		}
	}
	return out
}

// feedTouches emits touch events and single-finger pointer events for one
// frame, given which slots were live in the previous frame.
func (h *Host) feedTouches(wasActive [maxPointers]bool, frame touchFrame) {
	var started, ended bool
	for i := 1; i < maxPointers; i++ {
		if frame.active[i] && !wasActive[i] {
			started = true
		}
		if wasActive[i] && !frame.active[i] {
			ended = true
		}
	}
	contacts := frame.contacts()
	now := h.now()

	if ended {
		h.ctrl.Handle(Event{Type: EventTouchEnd, Touches: contacts, Time: now})
	}
	if started {
		h.ctrl.Handle(Event{Type: EventTouchStart, Touches: contacts, Time: now})
	}
	if !started && !ended && len(contacts) > 0 {
		h.ctrl.Handle(Event{Type: EventTouchMove, Touches: contacts, Time: now})
	}

	// Single-finger pan and tap. A second finger cancels the pointer so the
	// pan never competes with the pinch.
	if tp := h.touchPointer; tp != 0 {
		switch {
		case !frame.active[tp] && len(contacts) == 0:
			ps := &h.pointers[tp]
			h.processPointer(tp, ps.lastX, ps.lastY, false)
			h.touchPointer = 0
		case !frame.active[tp] || len(contacts) > 1:
			h.cancelPointer(tp)
			h.touchPointer = 0
		default:
			h.processPointer(tp, frame.pos[tp].X, frame.pos[tp].Y, true)
		}
		return
	}
	if len(contacts) == 1 && started {
		for i := 1; i < maxPointers; i++ {
			if frame.active[i] {
				h.touchPointer = i
				h.processPointer(i, frame.pos[i].X, frame.pos[i].Y, true)
				break
			}
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (h *Host) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if h.touchUsed[i] && h.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !h.touchUsed[i] {
			h.touchUsed[i] = true
			h.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// present moves the drawn transform toward the controller snapshot. A
// toggle starts an eased animation when ToggleDuration is set; any other
// change snaps.
func (h *Host) present(dt float32) {
	target := h.ctrl.Snapshot()
	pending := h.pending
	h.pending = GestureNone

	switch {
	case pending == GestureActivation && h.ToggleDuration > 0:
		fn := h.Ease
		if fn == nil {
			fn = ease.OutCubic
		}
		d := h.ToggleDuration
		h.anim = &presentAnim{
			target: target,
			scale:  gween.New(float32(h.presented.Scale), float32(target.Scale), d, fn),
			tx:     gween.New(float32(h.presented.TranslateX), float32(target.TranslateX), d, fn),
			ty:     gween.New(float32(h.presented.TranslateY), float32(target.TranslateY), d, fn),
		}
	case h.anim != nil && h.anim.target != target:
		h.anim = nil
	}

	if h.anim == nil {
		h.presented = target
		return
	}
	s, done := h.anim.scale.Update(dt)
	x, _ := h.anim.tx.Update(dt)
	y, _ := h.anim.ty.Update(dt)
	if done {
		h.anim = nil
		h.presented = target
		return
	}
	h.presented = Transform{Scale: float64(s), TranslateX: float64(x), TranslateY: float64(y)}
}

// Draw renders the displayed image under the presented transform. Documents
// are drawn unscaled; their own viewer owns navigation.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.Background != nil {
		screen.Fill(h.Background)
	}
	if h.image == nil {
		return
	}
	b := h.image.Bounds()
	sb := screen.Bounds()
	t := h.presented
	if h.ctrl.Content().Kind == ContentDocument {
		t = identityView
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = t.GeoM(float64(b.Dx()), float64(b.Dy()), float64(sb.Dx()), float64(sb.Dy()))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(h.image, op)
}

// Cursor returns the cursor shape matching the current affordance.
func (h *Host) Cursor() ebiten.CursorShapeType {
	switch {
	case h.ctrl.Dragging():
		return ebiten.CursorShapeMove
	case h.ctrl.CanPan():
		return ebiten.CursorShapePointer
	default:
		return ebiten.CursorShapeDefault
	}
}
