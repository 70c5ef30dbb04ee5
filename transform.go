package loupe

import "github.com/hajimehoshi/ebiten/v2"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func translation(x, y float64) [6]float64 {
	return [6]float64{1, 0, 0, 1, x, y}
}

// Placement returns the screen matrix for content of size (contentW, contentH)
// shown centered in a view of size (viewW, viewH) under t. The transform
// origin is the content's center, so scaling never shifts the midpoint.
//
//	Translate(viewW/2, viewH/2) * Scale(s) * Translate(tx, ty) * Translate(-contentW/2, -contentH/2)
func (t Transform) Placement(contentW, contentH, viewW, viewH float64) [6]float64 {
	m := multiplyAffine(translation(viewW/2, viewH/2), t.Matrix())
	return multiplyAffine(m, translation(-contentW/2, -contentH/2))
}

// GeoM converts Placement into an ebiten.GeoM for DrawImageOptions.
func (t Transform) GeoM(contentW, contentH, viewW, viewH float64) ebiten.GeoM {
	return matrixGeoM(t.Placement(contentW, contentH, viewW, viewH))
}

func matrixGeoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}
