package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"canvasd/internal/domain"

	_ "modernc.org/sqlite"
)

// Journal implements repository.MoveJournal using SQLite
type Journal struct {
	db *sql.DB
}

// New opens the journal at dsn and migrates the schema.
// ":memory:" keeps the journal in process memory.
func New(dsn string) (*Journal, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database
	if isMemory(dsn) {
		db.SetMaxOpenConns(1)
	}

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return j, nil
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS moves (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		canvas_id TEXT NOT NULL,
		node_id TEXT NOT NULL,
		dx REAL NOT NULL,
		dy REAL NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		committed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_moves_canvas ON moves(canvas_id, seq);
	`

	_, err := j.db.Exec(schema)
	return err
}

// Record appends one committed move
func (j *Journal) Record(ctx context.Context, rec domain.MoveRecord) error {
	if rec.CommittedAt.IsZero() {
		rec.CommittedAt = time.Now()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO moves (canvas_id, node_id, dx, dy, x, y, committed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.CanvasID, rec.NodeID.String(), rec.DX, rec.DY, rec.X, rec.Y, rec.CommittedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record move: %w", err)
	}
	return nil
}

// List returns the most recent moves of a canvas, newest first
func (j *Journal) List(ctx context.Context, canvasID string, limit int) ([]domain.MoveRecord, error) {
	query := `
		SELECT canvas_id, node_id, dx, dy, x, y, committed_at
		FROM moves
		WHERE canvas_id = ?
		ORDER BY seq DESC
	`
	args := []any{canvasID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query moves: %w", err)
	}
	defer rows.Close()

	records := []domain.MoveRecord{}
	for rows.Next() {
		var (
			rec         domain.MoveRecord
			nodeID      string
			committedAt string
		)
		if err := rows.Scan(&rec.CanvasID, &nodeID, &rec.DX, &rec.DY, &rec.X, &rec.Y, &committedAt); err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}

		rec.NodeID = domain.NodeID(nodeID)
		rec.CommittedAt = parseTime(committedAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating moves: %w", err)
	}

	return records, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	return j.db.Close()
}

func isMemory(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// withPragmas enables WAL and a busy timeout for file databases
func withPragmas(dsn string) string {
	if isMemory(dsn) {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// parseTime accepts the RFC3339 text written by Record
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
