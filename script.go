package loupe

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a gesture script.
type scriptStep struct {
	Action string  `json:"action"`
	ID     string  `json:"id,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	From   float64 `json:"from,omitempty"`
	To     float64 `json:"to,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"click": true, "drag": true, "wheel": true, "pinch": true, "wait": true,
	"zoomin": true, "zoomout": true, "reset": true, "content": true,
}

// Script sequences injected gestures across frames, for demos and
// automated checks of the viewer. Attach to a Host via SetScript.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON gesture script:
//
//	{"steps": [
//		{"action": "wheel", "dy": 1},
//		{"action": "pinch", "x": 320, "y": 240, "from": 100, "to": 200, "frames": 4},
//		{"action": "click", "x": 320, "y": 240},
//		{"action": "wait", "frames": 10},
//		{"action": "content", "id": "next.png"}
//	]}
//
// A content step switches the displayed content; its image comes from
// Host.Load.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// SetScript attaches a Script to the host. Its step method runs from Update
// before input processing each frame.
func (h *Host) SetScript(s *Script) {
	h.script = s
}

// Done reports whether all steps have been executed.
func (r *Script) Done() bool {
	return r.done
}

// step advances the script by one frame.
func (r *Script) step(h *Host) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(h.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		h.InjectClick(st.X, st.Y)
	case "drag":
		h.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wheel":
		h.InjectWheel(st.DY)
	case "pinch":
		h.InjectPinch(st.X, st.Y, st.From, st.To, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "zoomin":
		h.ctrl.ZoomIn()
	case "zoomout":
		h.ctrl.ZoomOut()
	case "reset":
		h.ctrl.ResetZoom()
	case "content":
		h.loadContent(Content{ID: st.ID, Kind: KindFromPath(st.ID)})
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(h.injectQueue) == 0 {
		r.done = true
	}
}
