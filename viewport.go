package loupe

import (
	"fmt"
	"math"
)

// Viewport is the authoritative (scale, translation) pair plus its bounds.
// Every mutator that changes scale clamps atomically, so no observable state
// ever lies outside [MinScale, MaxScale].
//
// A Controller owns its Viewport exclusively; renderers read a Transform
// snapshot instead of holding the Viewport.
type Viewport struct {
	scale    float64
	tx, ty   float64
	minScale float64
	maxScale float64

	matrix [6]float64
	dirty  bool
}

// NewViewport creates a Viewport at scale 1, translation (0, 0) bounded by
// [minScale, maxScale]. Swapped bounds are reordered. Both bounds must be
// positive and finite, and the range must contain 1 so that Reset stays in
// bounds; otherwise the error wraps ErrInvalidConfig.
func NewViewport(minScale, maxScale float64) (*Viewport, error) {
	if minScale > maxScale {
		minScale, maxScale = maxScale, minScale
	}
	if !isFinite(minScale) || !isFinite(maxScale) || minScale <= 0 {
		return nil, fmt.Errorf("%w: scale bounds [%v, %v] must be positive and finite", ErrInvalidConfig, minScale, maxScale)
	}
	if minScale > 1 || maxScale < 1 {
		return nil, fmt.Errorf("%w: scale range [%v, %v] must contain 1", ErrInvalidConfig, minScale, maxScale)
	}
	return &Viewport{
		scale:    1,
		minScale: minScale,
		maxScale: maxScale,
		dirty:    true,
	}, nil
}

// Scale returns the current scale.
func (v *Viewport) Scale() float64 { return v.scale }

// Translation returns the pan offset in content-local units.
func (v *Viewport) Translation() (x, y float64) { return v.tx, v.ty }

// Bounds returns the configured scale range.
func (v *Viewport) Bounds() (minScale, maxScale float64) { return v.minScale, v.maxScale }

// Transform returns a value snapshot of the current state.
func (v *Viewport) Transform() Transform {
	return Transform{Scale: v.scale, TranslateX: v.tx, TranslateY: v.ty}
}

// SetScale clamps candidate into [MinScale, MaxScale], stores it, and returns
// the applied value. Callers must not assume candidate was honored verbatim.
// NaN leaves the scale unchanged.
func (v *Viewport) SetScale(candidate float64) float64 {
	if math.IsNaN(candidate) {
		return v.scale
	}
	s := math.Max(v.minScale, math.Min(candidate, v.maxScale))
	if s != v.scale {
		v.scale = s
		v.dirty = true
	}
	return s
}

// AdjustScale is SetScale(Scale() + delta).
func (v *Viewport) AdjustScale(delta float64) float64 {
	return v.SetScale(v.scale + delta)
}

// SetTranslation stores the pan offset verbatim. Panning past the content
// edges is permitted. Non-finite components are ignored.
func (v *Viewport) SetTranslation(x, y float64) {
	if !isFinite(x) || !isFinite(y) {
		return
	}
	if x != v.tx || y != v.ty {
		v.tx, v.ty = x, y
		v.dirty = true
	}
}

// Reset returns to scale 1, translation (0, 0). Idempotent.
func (v *Viewport) Reset() {
	if v.scale != 1 || v.tx != 0 || v.ty != 0 {
		v.scale, v.tx, v.ty = 1, 0, 0
		v.dirty = true
	}
}

// Matrix returns the cached affine matrix for the current state, recomputing
// it only after a mutation.
func (v *Viewport) Matrix() [6]float64 {
	if !v.dirty {
		return v.matrix
	}
	v.dirty = false
	v.matrix = v.Transform().Matrix()
	return v.matrix
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
