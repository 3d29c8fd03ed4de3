package codec

import (
	"fmt"
	"io"
	"time"

	"canvasd/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec exports snapshots as YAML
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the MIME type of the output
func (c *YAMLCodec) ContentType() string {
	return "application/yaml"
}

// yamlSnapshot is the YAML document layout
type yamlSnapshot struct {
	Canvas yamlCanvas `yaml:"canvas"`
	Nodes  []yamlNode `yaml:"nodes"`
	Edges  []yamlEdge `yaml:"edges,omitempty"`
}

type yamlCanvas struct {
	ID         string `yaml:"id"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"`
	TakenAt    string `yaml:"taken_at"`
}

type yamlNode struct {
	ID string  `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

type yamlEdge struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Export writes the snapshot as YAML
func (c *YAMLCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	ys := yamlSnapshot{
		Canvas: yamlCanvas{
			ID:         snap.CanvasID,
			Width:      snap.Width,
			Height:     snap.Height,
			Background: snap.Background,
			TakenAt:    snap.TakenAt.UTC().Format(time.RFC3339),
		},
		Nodes: make([]yamlNode, 0, len(snap.State.Nodes)),
	}

	for _, n := range snap.State.Nodes {
		ys.Nodes = append(ys.Nodes, yamlNode{ID: n.ID.String(), X: n.X, Y: n.Y})
	}
	for _, e := range snap.State.Edges {
		ys.Edges = append(ys.Edges, yamlEdge{From: e.From.String(), To: e.To.String()})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(ys); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
