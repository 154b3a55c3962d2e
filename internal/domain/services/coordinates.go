// Package services holds the page builder domain logic: coordinate
// translation, arrangement of the element list, drop dispatch, and
// selection/property editing. Every operation is a pure function over
// builder.State.
package services

import "github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"

// Point is an absolute screen position in pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Delta is a pointer movement in screen pixels
type Delta struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Rect is the on-screen bounding rectangle of the canvas
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CanvasDrop converts an absolute pointer position into canvas coordinates
func CanvasDrop(canvas Rect, pointer Point) (x, y float64) {
	return pointer.X - canvas.X, pointer.Y - canvas.Y
}

// Offset returns the element position moved by d. Positions are not clamped to
// the canvas; a missing prior position counts as zero.
func Offset(el builder.Element, d Delta) (posX, posY builder.Length) {
	return builder.Px(el.PosX.Pixels() + d.DX), builder.Px(el.PosY.Pixels() + d.DY)
}
