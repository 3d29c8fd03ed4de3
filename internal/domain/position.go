package domain

// Position is a node location in canvas pixel space, relative to the canvas's
// top-left origin. No bounds are enforced: nodes may sit at negative
// coordinates or beyond the declared width and height.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Offset is a relative displacement, used both for committed moves and for
// the live offset of a drag gesture.
type Offset struct {
	DX float64 `json:"dx" yaml:"dx"`
	DY float64 `json:"dy" yaml:"dy"`
}

// NewPosition creates a position
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Translate returns the position moved by the offset
func (p Position) Translate(o Offset) Position {
	return Position{X: p.X + o.DX, Y: p.Y + o.DY}
}

// Sub returns the offset that moves other onto p
func (p Position) Sub(other Position) Offset {
	return Offset{DX: p.X - other.X, DY: p.Y - other.Y}
}

// IsZero reports whether the offset moves nothing
func (o Offset) IsZero() bool {
	return o.DX == 0 && o.DY == 0
}
