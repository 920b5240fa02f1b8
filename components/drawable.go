package components

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Drawable is implemented by anything a renderer can place on screen.
type Drawable interface {
	Position() r2.Vec
	Heading() float64
}

// DebugAnnotated is implemented by entities that can report the directional
// signals behind their last decision. Purely observational.
type DebugAnnotated interface {
	Drawable
	DebugVectors() map[string]DebugVector
}

// DebugVector is one labelled arrow for an overlay.
type DebugVector struct {
	Heading   float64
	Color     color.RGBA
	Magnitude float64
}

// Overlay colors.
var (
	ColorHeading = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ColorTarget  = color.RGBA{R: 80, G: 220, B: 100, A: 255}
	ColorSniff   = color.RGBA{R: 230, G: 80, B: 220, A: 255}
	ColorNoise   = color.RGBA{R: 140, G: 140, B: 140, A: 255}
)
