package canvas

import (
	"canvasd/internal/domain"
	"canvasd/internal/gesture"
)

// Frame is the root coordinate frame of a canvas. Every node of the canvas
// shares the same *Frame, so coordinate math never depends on how deeply a
// node is nested.
type Frame struct {
	Origin gesture.Point `json:"origin"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
}

// Local converts a screen point into canvas coordinates
func (f *Frame) Local(p gesture.Point) domain.Position {
	return domain.Position{X: p.X - f.Origin.X, Y: p.Y - f.Origin.Y}
}

// Contains reports whether pos lies inside the visible viewport. Content
// outside is clipped, not rejected.
func (f *Frame) Contains(pos domain.Position) bool {
	return pos.X >= 0 && pos.Y >= 0 &&
		pos.X <= float64(f.Width) && pos.Y <= float64(f.Height)
}
