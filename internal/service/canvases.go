package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"canvasd/internal/canvas"
	"canvasd/internal/codec"
	"canvasd/internal/config"
	"canvasd/internal/domain"
	"canvasd/internal/gesture"
	"canvasd/internal/grid"
	"canvasd/internal/metrics"
	"canvasd/internal/repository"

	"go.uber.org/zap"
)

const journalTimeout = 5 * time.Second

// Defaults are applied to canvases created without explicit values
type Defaults struct {
	Width      int
	Height     int
	Background string
	Vertical   []float64
	Horizontal []float64
}

// Settings configures a CanvasService
type Settings struct {
	Defaults     Defaults
	MaxCanvases  int // 0 = unlimited
	HistoryLimit int
	PublishMoves bool
}

// SettingsFromConfig extracts service settings from the application config
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Defaults:     DefaultsFromConfig(cfg),
		MaxCanvases:  cfg.Canvas.MaxCanvases,
		HistoryLimit: cfg.Journal.DefaultLimit,
		PublishMoves: cfg.Events.PublishMoves,
	}
}

// DefaultsFromConfig extracts the canvas defaults from the application config
func DefaultsFromConfig(cfg *config.Config) Defaults {
	return Defaults{
		Width:      cfg.Canvas.Width,
		Height:     cfg.Canvas.Height,
		Background: cfg.Canvas.Background,
		Vertical:   cfg.Grid.Vertical,
		Horizontal: cfg.Grid.Horizontal,
	}
}

// CreateCanvasRequest describes a new canvas. Zero fields take the defaults.
type CreateCanvasRequest struct {
	Width      int
	Height     int
	Background string
}

// CanvasSummary describes one open canvas
type CanvasSummary struct {
	ID          string    `json:"id"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Background  string    `json:"background"`
	Nodes       int       `json:"nodes"`
	ActiveDrags int       `json:"active_drags"`
	Version     uint64    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

type hostedCanvas struct {
	canvas    *canvas.Canvas
	createdAt time.Time
}

// CanvasService is the registry of open canvases
type CanvasService struct {
	mu       sync.RWMutex
	canvases map[string]*hostedCanvas
	order    []string
	settings Settings

	journal   repository.MoveJournal
	eventBus  *EventBus
	metrics   *metrics.Collector
	exporters *codec.Registry
	logger    *zap.Logger
}

// NewCanvasService creates a canvas registry. journal and collector may be nil.
func NewCanvasService(settings Settings, journal repository.MoveJournal, eventBus *EventBus, collector *metrics.Collector, logger *zap.Logger) *CanvasService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	return &CanvasService{
		canvases:  make(map[string]*hostedCanvas),
		settings:  settings,
		journal:   journal,
		eventBus:  eventBus,
		metrics:   collector,
		exporters: codec.NewRegistry(),
		logger:    logger,
	}
}

// SetDefaults replaces the defaults used for canvases created from now on.
// Open canvases keep their size and grid.
func (s *CanvasService) SetDefaults(d Defaults) {
	s.mu.Lock()
	s.settings.Defaults = d
	s.mu.Unlock()

	s.logger.Info("canvas defaults updated",
		zap.Int("width", d.Width),
		zap.Int("height", d.Height),
		zap.String("background", d.Background),
	)
	s.eventBus.Publish(Event{Type: EventConfigReloaded, Payload: d})
}

// Defaults returns the defaults used for new canvases
func (s *CanvasService) Defaults() Defaults {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Defaults
}

// CreateCanvas mounts a new canvas
func (s *CanvasService) CreateCanvas(req CreateCanvasRequest) (*CanvasSummary, error) {
	s.mu.Lock()
	if s.settings.MaxCanvases > 0 && len(s.canvases) >= s.settings.MaxCanvases {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %d open", domain.ErrCanvasLimit, len(s.canvases))
	}

	d := s.settings.Defaults
	width, height, background := req.Width, req.Height, req.Background
	if width == 0 {
		width = d.Width
	}
	if height == 0 {
		height = d.Height
	}
	if background == "" {
		background = d.Background
	}

	spec := grid.NewSpec(width, height, d.Vertical, d.Horizontal)
	if err := spec.Validate(); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("invalid grid: %w", err)
	}

	c := canvas.New(
		canvas.WithSize(width, height),
		canvas.WithBackground(background),
		canvas.WithGrid(spec.Vertical, spec.Horizontal),
		canvas.WithLogger(s.logger),
		canvas.WithObserver(s.observe),
	)
	hc := &hostedCanvas{canvas: c, createdAt: time.Now()}
	s.canvases[c.ID()] = hc
	s.order = append(s.order, c.ID())
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.Canvases.Inc()
	}
	s.logger.Info("canvas created",
		zap.String("canvas_id", c.ID()),
		zap.Int("width", width),
		zap.Int("height", height),
	)

	summary := summarize(hc)
	s.eventBus.Publish(Event{Type: EventCanvasCreated, Payload: summary})
	return summary, nil
}

// ListCanvases returns the open canvases in creation order
func (s *CanvasService) ListCanvases() []CanvasSummary {
	s.mu.RLock()
	hosted := make([]*hostedCanvas, 0, len(s.order))
	for _, id := range s.order {
		hosted = append(hosted, s.canvases[id])
	}
	s.mu.RUnlock()

	out := make([]CanvasSummary, 0, len(hosted))
	for _, hc := range hosted {
		out = append(out, *summarize(hc))
	}
	return out
}

// GetCanvas returns the summary of one canvas
func (s *CanvasService) GetCanvas(id string) (*CanvasSummary, error) {
	hc, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return summarize(hc), nil
}

// Canvas returns the canvas with the given ID
func (s *CanvasService) Canvas(id string) (*canvas.Canvas, error) {
	hc, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return hc.canvas, nil
}

// CloseCanvas abandons the canvas' drags and removes it from the registry
func (s *CanvasService) CloseCanvas(id string) error {
	s.mu.Lock()
	hc, ok := s.canvases[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrCanvasNotFound, id)
	}
	delete(s.canvases, id)
	for i, cid := range s.order {
		if cid == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if err := hc.canvas.Close(); err != nil {
		return fmt.Errorf("failed to close canvas %s: %w", id, err)
	}
	if s.metrics != nil {
		s.metrics.Canvases.Dec()
	}
	s.logger.Info("canvas closed", zap.String("canvas_id", id))
	return nil
}

// NewNode adds a node to a canvas and returns its view
func (s *CanvasService) NewNode(canvasID string) (canvas.View, error) {
	c, err := s.Canvas(canvasID)
	if err != nil {
		return canvas.View{}, err
	}
	node, err := c.NewNode()
	if err != nil {
		return canvas.View{}, err
	}
	return node.View()
}

// ListNodes returns the views of every node of a canvas in creation order
func (s *CanvasService) ListNodes(canvasID string) ([]canvas.View, error) {
	c, err := s.Canvas(canvasID)
	if err != nil {
		return nil, err
	}
	nodes := c.Nodes()
	views := make([]canvas.View, 0, len(nodes))
	for _, n := range nodes {
		v, err := n.View()
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// GetNode returns the current view of one node
func (s *CanvasService) GetNode(canvasID string, nodeID domain.NodeID) (canvas.View, error) {
	c, err := s.Canvas(canvasID)
	if err != nil {
		return canvas.View{}, err
	}
	node, err := c.Node(nodeID)
	if err != nil {
		return canvas.View{}, err
	}
	return node.View()
}

// BeginDrag delivers a pointer-down on a node at a screen point
func (s *CanvasService) BeginDrag(canvasID string, nodeID domain.NodeID, screen gesture.Point) (canvas.View, error) {
	c, err := s.Canvas(canvasID)
	if err != nil {
		return canvas.View{}, err
	}
	if err := c.PointerDown(nodeID, screen); err != nil {
		return canvas.View{}, err
	}
	return s.GetNode(canvasID, nodeID)
}

// Pointer delivers a document-level pointer event to a canvas and returns
// the number of drags still running afterwards
func (s *CanvasService) Pointer(canvasID string, kind string, p gesture.Point) (int, error) {
	k, err := gesture.ParseKind(kind)
	if err != nil {
		return 0, err
	}
	c, err := s.Canvas(canvasID)
	if err != nil {
		return 0, err
	}
	if err := c.Input(gesture.Event{Kind: k, Point: p}); err != nil {
		return 0, err
	}
	return c.ActiveDrags(), nil
}

// Grid computes the background grid lines of a canvas
func (s *CanvasService) Grid(canvasID string) (*grid.Grid, error) {
	c, err := s.Canvas(canvasID)
	if err != nil {
		return nil, err
	}
	return c.Grid().Lines()
}

// Export snapshots a canvas and returns it with the exporter for format
func (s *CanvasService) Export(canvasID, format string) (*domain.Snapshot, codec.Exporter, error) {
	exporter, err := s.exporters.Get(format)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.Canvas(canvasID)
	if err != nil {
		return nil, nil, err
	}
	return c.Snapshot(), exporter, nil
}

// Moves returns the journaled moves of a canvas, newest first. A limit of
// zero or less uses the configured history limit.
func (s *CanvasService) Moves(ctx context.Context, canvasID string, limit int) ([]domain.MoveRecord, error) {
	if _, err := s.lookup(canvasID); err != nil {
		return nil, err
	}
	if s.journal == nil {
		return []domain.MoveRecord{}, nil
	}
	if limit <= 0 {
		limit = s.settings.HistoryLimit
	}
	return s.journal.List(ctx, canvasID, limit)
}

// Close closes every open canvas
func (s *CanvasService) Close() {
	s.mu.RLock()
	ids := append([]string(nil), s.order...)
	s.mu.RUnlock()

	for _, id := range ids {
		if err := s.CloseCanvas(id); err != nil {
			s.logger.Warn("failed to close canvas", zap.String("canvas_id", id), zap.Error(err))
		}
	}
}

func (s *CanvasService) lookup(id string) (*hostedCanvas, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hc, ok := s.canvases[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCanvasNotFound, id)
	}
	return hc, nil
}

// observe runs for every change of every hosted canvas, outside the canvas lock
func (s *CanvasService) observe(ch canvas.Change) {
	if s.metrics != nil {
		s.metrics.ObserveChange(ch)
	}

	switch ch.Type {
	case canvas.ChangeDragCommitted, canvas.ChangeMoveApplied:
		s.record(ch)
	case canvas.ChangeDragMoved:
		if !s.settings.PublishMoves {
			return
		}
	}

	s.eventBus.Publish(Event{Type: EventType(ch.Type), Payload: ch})
}

func (s *CanvasService) record(ch canvas.Change) {
	s.logger.Debug("move committed",
		zap.String("canvas_id", ch.CanvasID),
		zap.String("node_id", ch.NodeID.String()),
		zap.Float64("x", ch.Position.X),
		zap.Float64("y", ch.Position.Y),
	)
	if s.journal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()

	err := s.journal.Record(ctx, domain.MoveRecord{
		CanvasID:    ch.CanvasID,
		NodeID:      ch.NodeID,
		DX:          ch.Offset.DX,
		DY:          ch.Offset.DY,
		X:           ch.Position.X,
		Y:           ch.Position.Y,
		CommittedAt: time.Now(),
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.JournalErrors.Inc()
		}
		s.logger.Warn("failed to journal move",
			zap.String("canvas_id", ch.CanvasID),
			zap.String("node_id", ch.NodeID.String()),
			zap.Error(err),
		)
	}
}

func summarize(hc *hostedCanvas) *CanvasSummary {
	c := hc.canvas
	return &CanvasSummary{
		ID:          c.ID(),
		Width:       c.Width(),
		Height:      c.Height(),
		Background:  c.Background(),
		Nodes:       len(c.Nodes()),
		ActiveDrags: c.ActiveDrags(),
		Version:     c.Version(),
		CreatedAt:   hc.createdAt,
	}
}
