package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/loupe"
)

const (
	buttonW      = 48
	buttonH      = 20
	buttonMargin = 8
)

var (
	buttonFill  = color.RGBA{0x30, 0x30, 0x30, 0xd0}
	buttonHover = color.RGBA{0x50, 0x50, 0x50, 0xe0}
)

// zoomButton is one of the on-screen zoom controls in the top-right corner.
type zoomButton struct {
	label  func(*loupe.Controller) string
	action func(*loupe.Controller)
}

var zoomButtons = []zoomButton{
	{label: func(*loupe.Controller) string { return "-" }, action: (*loupe.Controller).ZoomOut},
	{label: (*loupe.Controller).Label, action: (*loupe.Controller).ResetZoom},
	{label: func(*loupe.Controller) string { return "+" }, action: (*loupe.Controller).ZoomIn},
}

// buttonRect returns the screen rectangle of button i for a screen width w.
func buttonRect(i, w int) image.Rectangle {
	x := w - buttonMargin - (len(zoomButtons)-i)*(buttonW+2)
	return image.Rect(x, buttonMargin, x+buttonW, buttonMargin+buttonH)
}

// buttonAt returns the index of the button under (x, y), or -1.
func buttonAt(x, y, w int) int {
	p := image.Pt(x, y)
	for i := range zoomButtons {
		if p.In(buttonRect(i, w)) {
			return i
		}
	}
	return -1
}

func drawButtons(screen *ebiten.Image, ctrl *loupe.Controller) {
	w := screen.Bounds().Dx()
	cx, cy := ebiten.CursorPosition()
	hover := buttonAt(cx, cy, w)
	for i, b := range zoomButtons {
		r := buttonRect(i, w)
		fill := buttonFill
		if i == hover {
			fill = buttonHover
		}
		screen.SubImage(r).(*ebiten.Image).Fill(fill)
		ebitenutil.DebugPrintAt(screen, b.label(ctrl), r.Min.X+6, r.Min.Y+2)
	}
}
