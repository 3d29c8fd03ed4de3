package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"canvasd/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestJournal creates an in-memory journal for testing
func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		j.Close()
	})
	return j
}

func record(canvasID string, id domain.NodeID, dx, dy float64) domain.MoveRecord {
	return domain.MoveRecord{
		CanvasID:    canvasID,
		NodeID:      id,
		DX:          dx,
		DY:          dy,
		X:           dx,
		Y:           dy,
		CommittedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordAndList(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, record("c1", "a", 12, 3)))
	require.NoError(t, j.Record(ctx, record("c1", "b", -4, 7.5)))

	moves, err := j.List(ctx, "c1", 0)
	require.NoError(t, err)
	require.Len(t, moves, 2)

	// newest first
	assert.Equal(t, domain.NodeID("b"), moves[0].NodeID)
	assert.Equal(t, -4.0, moves[0].DX)
	assert.Equal(t, 7.5, moves[0].DY)
	assert.Equal(t, domain.NodeID("a"), moves[1].NodeID)
	assert.True(t, moves[1].CommittedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
}

func TestListRespectsLimit(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(ctx, record("c1", "a", float64(i), 0)))
	}

	moves, err := j.List(ctx, "c1", 2)
	require.NoError(t, err)
	require.Len(t, moves, 2)
	assert.Equal(t, 4.0, moves[0].DX)
	assert.Equal(t, 3.0, moves[1].DX)
}

func TestListFiltersByCanvas(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, record("c1", "a", 1, 1)))
	require.NoError(t, j.Record(ctx, record("c2", "a", 2, 2)))

	moves, err := j.List(ctx, "c2", 0)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "c2", moves[0].CanvasID)

	moves, err = j.List(ctx, "missing", 0)
	require.NoError(t, err)
	assert.Empty(t, moves)
	assert.NotNil(t, moves)
}

func TestRecordStampsMissingTime(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	rec := record("c1", "a", 1, 1)
	rec.CommittedAt = time.Time{}
	require.NoError(t, j.Record(ctx, rec))

	moves, err := j.List(ctx, "c1", 1)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.False(t, moves[0].CommittedAt.IsZero())
}

func TestFileJournalSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moves.db")
	ctx := context.Background()

	j, err := New(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, record("c1", "a", 3, 4)))
	require.NoError(t, j.Close())

	j, err = New(path)
	require.NoError(t, err)
	defer j.Close()

	moves, err := j.List(ctx, "c1", 0)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, 3.0, moves[0].X)
}

func TestWithPragmas(t *testing.T) {
	assert.Equal(t, ":memory:", withPragmas(":memory:"))
	assert.Equal(t, "a.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", withPragmas("a.db"))
	assert.Equal(t, "file:a.db?cache=shared&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", withPragmas("file:a.db?cache=shared"))
}
