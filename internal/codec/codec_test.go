package codec

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"canvasd/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testSnapshot() *domain.Snapshot {
	state := domain.ApplyRelativeMove(domain.NewGraphState(), "a", 12, 3)
	state = domain.ApplyRelativeMove(state, "b", -5, 40)
	snap := domain.NewSnapshot("c1", 800, 600, "#1c2e60", state)
	snap.TakenAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return snap
}

func TestJSONExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(testSnapshot(), &buf))

	var got domain.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "c1", got.CanvasID)
	assert.Equal(t, 800, got.Width)
	require.Len(t, got.State.Nodes, 2)
	assert.Equal(t, domain.NodeEntry{ID: "a", X: 12, Y: 3}, got.State.Nodes[0])
}

func TestYAMLExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLCodec().Export(testSnapshot(), &buf))

	out := buf.String()
	assert.Contains(t, out, "canvas:\n  id: c1\n")
	assert.Contains(t, out, "2024-05-01T12:00:00Z")
	assert.NotContains(t, out, "edges:")

	var got yamlSnapshot
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Nodes, 2)
	assert.Equal(t, yamlNode{ID: "b", X: -5, Y: 40}, got.Nodes[1])
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"json", "yaml"}, r.Formats())

	e, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, "json", e.Format())

	e, err = r.Get("yaml")
	require.NoError(t, err)
	assert.Equal(t, "application/yaml", e.ContentType())

	_, err = r.Get("ansible")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
