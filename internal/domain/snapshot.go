package domain

import "time"

// Snapshot is a point-in-time copy of a canvas, used for export
type Snapshot struct {
	CanvasID   string     `json:"canvas_id" yaml:"canvas_id"`
	Width      int        `json:"width" yaml:"width"`
	Height     int        `json:"height" yaml:"height"`
	Background string     `json:"background" yaml:"background"`
	TakenAt    time.Time  `json:"taken_at" yaml:"taken_at"`
	State      GraphState `json:"state" yaml:"state"`
}

// NewSnapshot copies state into a snapshot
func NewSnapshot(canvasID string, width, height int, background string, state GraphState) *Snapshot {
	return &Snapshot{
		CanvasID:   canvasID,
		Width:      width,
		Height:     height,
		Background: background,
		TakenAt:    time.Now(),
		State:      state.Clone(),
	}
}

// MoveRecord describes one committed relative move
type MoveRecord struct {
	CanvasID    string    `json:"canvas_id"`
	NodeID      NodeID    `json:"node_id"`
	DX          float64   `json:"dx"`
	DY          float64   `json:"dy"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	CommittedAt time.Time `json:"committed_at"`
}
