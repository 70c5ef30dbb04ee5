package loupe

// syntheticKind distinguishes queued synthetic input.
type syntheticKind uint8

const (
	syntheticPointer syntheticKind = iota
	syntheticWheel
	syntheticTouch
)

// syntheticEvent is one injected input frame. Pointer events run through
// the same press/move/release machine as the real mouse, so clicks are
// synthesized exactly as for physical input.
type syntheticEvent struct {
	kind             syntheticKind
	screenX, screenY float64
	pressed          bool
	wheelY           float64
	touches          []Vec2
}

// InjectPress queues a pointer press at the given screen coordinates. The
// event is consumed on the next Update.
func (h *Host) InjectPress(x, y float64) {
	h.injectQueue = append(h.injectQueue, syntheticEvent{
		kind: syntheticPointer, screenX: x, screenY: y, pressed: true,
	})
}

// InjectMove queues a pointer move with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (h *Host) InjectMove(x, y float64) {
	h.injectQueue = append(h.injectQueue, syntheticEvent{
		kind: syntheticPointer, screenX: x, screenY: y, pressed: true,
	})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (h *Host) InjectRelease(x, y float64) {
	h.injectQueue = append(h.injectQueue, syntheticEvent{
		kind: syntheticPointer, screenX: x, screenY: y,
	})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (h *Host) InjectClick(x, y float64) {
	h.InjectPress(x, y)
	h.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// frames-2 linearly interpolated moves, a move onto (toX, toY), and the
// release there. The sequence consumes frames+1 frames; minimum frames is 2.
func (h *Host) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	h.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		h.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	h.InjectMove(toX, toY)
	h.InjectRelease(toX, toY)
}

// InjectWheel queues one wheel notch. Positive dy zooms in.
func (h *Host) InjectWheel(dy float64) {
	h.injectQueue = append(h.injectQueue, syntheticEvent{kind: syntheticWheel, wheelY: dy})
}

// InjectTouches queues one touch frame with the given live contacts. An
// empty slice lifts every finger.
func (h *Host) InjectTouches(touches ...Vec2) {
	h.injectQueue = append(h.injectQueue, syntheticEvent{
		kind: syntheticTouch, touches: append([]Vec2(nil), touches...),
	})
}

// InjectPinch queues a horizontal two-finger pinch centered on (cx, cy)
// whose finger separation goes from fromDist to toDist over frames frames,
// followed by a lift. Minimum frames is 2.
func (h *Host) InjectPinch(cx, cy, fromDist, toDist float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		half := (fromDist + (toDist-fromDist)*t) / 2
		h.InjectTouches(Vec2{cx - half, cy}, Vec2{cx + half, cy})
	}
	h.InjectTouches()
}

// processInjectedInput pops one event from the inject queue and feeds it to
// the controller. Returns true if an event was consumed (real input is
// skipped for that frame).
func (h *Host) processInjectedInput() bool {
	if len(h.injectQueue) == 0 {
		return false
	}
	evt := h.injectQueue[0]
	copy(h.injectQueue, h.injectQueue[1:])
	h.injectQueue = h.injectQueue[:len(h.injectQueue)-1]

	switch evt.kind {
	case syntheticPointer:
		h.processPointer(0, evt.screenX, evt.screenY, evt.pressed)
	case syntheticWheel:
		h.ctrl.Handle(Event{Type: EventWheel, WheelY: evt.wheelY, Time: h.now()})
	case syntheticTouch:
		h.injectTouchFrame(evt.touches)
	}
	return true
}

// injectTouchFrame maps contacts onto slots 1..n in order and runs them
// through the same frame logic as real touches.
func (h *Host) injectTouchFrame(touches []Vec2) {
	was := h.touchUsed
	var frame touchFrame
	for i, p := range touches {
		slot := i + 1
		if slot >= maxPointers {
			Logger().Warn("loupe: touch slots exhausted", "touches", len(touches))
			break
		}
		frame.active[slot] = true
		frame.pos[slot] = p
	}
	h.touchUsed = frame.active
	h.feedTouches(was, frame)
}
