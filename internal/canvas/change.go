package canvas

import "canvasd/internal/domain"

// ChangeType identifies what happened on a canvas
type ChangeType string

const (
	ChangeNodeAdded     ChangeType = "node_added"
	ChangeDragStarted   ChangeType = "drag_started"
	ChangeDragMoved     ChangeType = "drag_moved"
	ChangeDragCommitted ChangeType = "drag_committed"
	ChangeMoveApplied   ChangeType = "move_applied" // dispatched directly, not from a drag
	ChangeDragAbandoned ChangeType = "drag_abandoned"
	ChangeCanvasClosed  ChangeType = "canvas_closed"
)

// Change is delivered to observers after the canvas lock is released.
// Position is the effective position of the node once the change applied.
type Change struct {
	Type     ChangeType      `json:"type"`
	CanvasID string          `json:"canvas_id"`
	NodeID   domain.NodeID   `json:"node_id,omitempty"`
	Offset   domain.Offset   `json:"offset"`
	Position domain.Position `json:"position"`
	Version  uint64          `json:"version"`
}

// Observer receives canvas changes
type Observer func(Change)
