// Package grid computes the background grid lines drawn behind a canvas.
//
// A grid is described by the canvas size and two spacing sequences, one per
// axis. Lines start at the origin and the sequence is cycled until the canvas
// edge is passed; the first line of every cycle is a major line.
package grid

import (
	"fmt"
)

// DefaultSpacing is used for both axes when none is configured
var DefaultSpacing = []float64{50, 10, 10, 10}

// Spec is what the grid renderer needs to know about a canvas
type Spec struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Vertical   []float64 `json:"vertical"`
	Horizontal []float64 `json:"horizontal"`
}

// Line is a single grid line. Offset is measured from the left edge for
// vertical lines and from the top edge for horizontal lines.
type Line struct {
	Offset float64 `json:"offset"`
	Major  bool    `json:"major"`
}

// Grid holds the computed lines of both axes
type Grid struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Vertical   []Line `json:"vertical"`
	Horizontal []Line `json:"horizontal"`
}

// NewSpec builds a spec, falling back to DefaultSpacing for empty sequences
func NewSpec(width, height int, vertical, horizontal []float64) Spec {
	if len(vertical) == 0 {
		vertical = DefaultSpacing
	}
	if len(horizontal) == 0 {
		horizontal = DefaultSpacing
	}
	return Spec{
		Width:      width,
		Height:     height,
		Vertical:   append([]float64(nil), vertical...),
		Horizontal: append([]float64(nil), horizontal...),
	}
}

// Validate checks that every spacing is positive
func (s Spec) Validate() error {
	for i, v := range s.Vertical {
		if v <= 0 {
			return fmt.Errorf("vertical spacing %d must be positive, got %v", i, v)
		}
	}
	for i, v := range s.Horizontal {
		if v <= 0 {
			return fmt.Errorf("horizontal spacing %d must be positive, got %v", i, v)
		}
	}
	return nil
}

// Lines computes the grid lines of the spec
func (s Spec) Lines() (*Grid, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Grid{
		Width:      s.Width,
		Height:     s.Height,
		Vertical:   walk(float64(s.Width), s.Vertical),
		Horizontal: walk(float64(s.Height), s.Horizontal),
	}, nil
}

func walk(limit float64, spacing []float64) []Line {
	lines := make([]Line, 0)
	if len(spacing) == 0 || limit <= 0 {
		return lines
	}

	offset := 0.0
	for i := 0; offset <= limit; i++ {
		lines = append(lines, Line{Offset: offset, Major: i%len(spacing) == 0})
		offset += spacing[i%len(spacing)]
	}
	return lines
}
