package repository

import (
	"context"

	"canvasd/internal/domain"
)

// MoveJournal records committed moves
type MoveJournal interface {
	// Record appends one committed move
	Record(ctx context.Context, rec domain.MoveRecord) error

	// List returns the most recent moves of a canvas, newest first.
	// A limit of zero or less returns every move.
	List(ctx context.Context, canvasID string, limit int) ([]domain.MoveRecord, error)

	// Close releases resources
	Close() error
}
