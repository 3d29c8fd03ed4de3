package codec

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"canvasd/internal/domain"
)

// ErrUnsupportedFormat is returned for formats without an exporter
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Exporter writes canvas snapshots in one format
type Exporter interface {
	Export(snap *domain.Snapshot, w io.Writer) error
	Format() string
	ContentType() string
}

// Registry looks exporters up by format
type Registry struct {
	exporters map[string]Exporter
}

// NewRegistry creates a registry holding the JSON and YAML exporters
func NewRegistry() *Registry {
	r := &Registry{exporters: make(map[string]Exporter)}
	r.Register(NewJSONCodec())
	r.Register(NewYAMLCodec())
	return r
}

// Register adds or replaces the exporter for e.Format()
func (r *Registry) Register(e Exporter) {
	r.exporters[e.Format()] = e
}

// Get returns the exporter for format. The empty format selects JSON.
func (r *Registry) Get(format string) (Exporter, error) {
	if format == "" {
		format = "json"
	}
	e, ok := r.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %v)", ErrUnsupportedFormat, format, r.Formats())
	}
	return e, nil
}

// Formats lists the registered formats in sorted order
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.exporters))
	for f := range r.exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
