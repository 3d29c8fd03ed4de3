// Package canvas hosts the graph context of one canvas and the node accessors
// bound to it.
//
// A Canvas owns its GraphState, its document-level pointer event source and
// the drag trackers of its nodes. All input and state transitions go through
// one lock, so each pointer event is handled to completion before the next.
// Canvases share nothing; tests and servers can create as many as they need.
package canvas

import (
	"fmt"
	"sync"

	"canvasd/internal/domain"
	"canvasd/internal/gesture"
	"canvasd/internal/grid"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Defaults applied by New
const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultBackground = "#1c2e60"
)

// Option configures a Canvas
type Option func(*Canvas)

// WithID sets the canvas identifier
func WithID(id string) Option {
	return func(c *Canvas) { c.id = id }
}

// WithSize sets the declared width and height in pixels
func WithSize(width, height int) Option {
	return func(c *Canvas) {
		c.width = width
		c.height = height
	}
}

// WithBackground sets the background color
func WithBackground(color string) Option {
	return func(c *Canvas) { c.background = color }
}

// WithGrid sets the spacing sequences of the background grid
func WithGrid(vertical, horizontal []float64) Option {
	return func(c *Canvas) {
		c.gridVertical = vertical
		c.gridHorizontal = horizontal
	}
}

// WithOrigin places the canvas's top-left corner at a screen point
func WithOrigin(p gesture.Point) Option {
	return func(c *Canvas) { c.origin = p }
}

// WithIDGenerator replaces the node ID generator
func WithIDGenerator(gen domain.IDGenerator) Option {
	return func(c *Canvas) { c.newID = gen }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Canvas) { c.logger = logger }
}

// WithObserver registers an observer at construction
func WithObserver(o Observer) Option {
	return func(c *Canvas) { c.observers = append(c.observers, o) }
}

// Canvas is the graph context of one canvas
type Canvas struct {
	id             string
	width          int
	height         int
	background     string
	origin         gesture.Point
	gridVertical   []float64
	gridHorizontal []float64
	newID          domain.IDGenerator
	logger         *zap.Logger

	frame *Frame
	doc   *gesture.Document

	mu        sync.Mutex
	state     domain.GraphState
	version   uint64
	nodes     map[domain.NodeID]*Node
	order     []domain.NodeID
	observers []Observer
	pending   []Change
	closed    bool
}

// New creates a mounted canvas with an empty state
func New(opts ...Option) *Canvas {
	c := &Canvas{
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: DefaultBackground,
		newID:      domain.NewNodeID,
		logger:     zap.NewNop(),
		state:      domain.NewGraphState(),
		nodes:      make(map[domain.NodeID]*Node),
		doc:        gesture.NewDocument(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	c.frame = &Frame{Origin: c.origin, Width: c.width, Height: c.height}
	c.logger = c.logger.With(zap.String("canvas_id", c.id))
	return c
}

// ID returns the canvas identifier
func (c *Canvas) ID() string { return c.id }

// Width returns the declared width
func (c *Canvas) Width() int { return c.width }

// Height returns the declared height
func (c *Canvas) Height() int { return c.height }

// Background returns the background color
func (c *Canvas) Background() string { return c.background }

// Frame returns the root coordinate frame. The pointer is stable for the
// canvas lifetime.
func (c *Canvas) Frame() *Frame { return c.frame }

// Document returns the document-level event source the trackers listen on
func (c *Canvas) Document() *gesture.Document { return c.doc }

// Grid returns the parameters handed to the background grid renderer
func (c *Canvas) Grid() grid.Spec {
	return grid.NewSpec(c.width, c.height, c.gridVertical, c.gridHorizontal)
}

// Observe registers an observer for subsequent changes
func (c *Canvas) Observe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// State returns a copy of the current state
func (c *Canvas) State() domain.GraphState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Version counts committed actions
func (c *Canvas) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Lookup returns the stored position of id, or the origin
func (c *Canvas) Lookup(id domain.NodeID) domain.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Lookup(id)
}

// Closed reports whether the canvas has been torn down
func (c *Canvas) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Snapshot copies the canvas for export
func (c *Canvas) Snapshot() *domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.NewSnapshot(c.id, c.width, c.height, c.background, c.state)
}

// Dispatch applies an action and returns the new state
func (c *Canvas) Dispatch(action domain.Action) (domain.GraphState, error) {
	var state domain.GraphState
	err := c.run(func() error {
		if c.closed {
			return domain.ErrCanvasClosed
		}
		c.applyLocked(action, ChangeMoveApplied)
		state = c.state.Clone()
		return nil
	})
	return state, err
}

// NewNode creates a node accessor with a fresh identifier. The node has no
// stored entry until its first move.
func (c *Canvas) NewNode() (*Node, error) {
	var node *Node
	err := c.run(func() error {
		if c.closed {
			return domain.ErrCanvasClosed
		}
		id := c.newID()
		if _, exists := c.nodes[id]; exists {
			return fmt.Errorf("node id %s already in use", id)
		}
		node = newNode(c, id)
		c.nodes[id] = node
		c.order = append(c.order, id)
		c.pending = append(c.pending, Change{
			Type:     ChangeNodeAdded,
			CanvasID: c.id,
			NodeID:   id,
			Position: c.state.Lookup(id),
			Version:  c.version,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("node added", zap.String("node_id", node.ID().String()))
	return node, nil
}

// Node returns the accessor for id
func (c *Canvas) Node(id domain.NodeID) (*Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	node, ok := c.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	return node, nil
}

// Nodes returns the accessors in creation order
func (c *Canvas) Nodes() []*Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Node, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.nodes[id])
	}
	return out
}

// ActiveDrags returns the number of nodes being dragged
func (c *Canvas) ActiveDrags() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, node := range c.nodes {
		if node.tracker.Dragging() {
			n++
		}
	}
	return n
}

// PointerDown starts dragging the node under the pointer. screen is the
// pointer position in screen coordinates.
func (c *Canvas) PointerDown(id domain.NodeID, screen gesture.Point) error {
	return c.run(func() error {
		if c.closed {
			return domain.ErrCanvasClosed
		}
		node, ok := c.nodes[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
		}
		return node.tracker.Begin(screen, c.doc)
	})
}

// Input delivers a document-level pointer event to every active drag
func (c *Canvas) Input(ev gesture.Event) error {
	if _, err := gesture.ParseKind(string(ev.Kind)); err != nil {
		return err
	}
	return c.run(func() error {
		if c.closed {
			return domain.ErrCanvasClosed
		}
		c.doc.Dispatch(ev)
		return nil
	})
}

// Close abandons running drags and tears the canvas down. Nodes of a closed
// canvas report ErrCanvasClosed.
func (c *Canvas) Close() error {
	err := c.run(func() error {
		if c.closed {
			return nil
		}
		for _, id := range c.order {
			c.nodes[id].tracker.Abandon()
		}
		c.closed = true
		c.pending = append(c.pending, Change{
			Type:     ChangeCanvasClosed,
			CanvasID: c.id,
			Version:  c.version,
		})
		return nil
	})
	c.logger.Debug("canvas closed")
	return err
}

// run executes fn under the canvas lock and then notifies observers of the
// changes fn queued.
func (c *Canvas) run(fn func() error) error {
	c.mu.Lock()
	err := fn()
	pending := c.pending
	c.pending = nil
	observers := append([]Observer(nil), c.observers...)
	c.mu.Unlock()

	for _, change := range pending {
		for _, o := range observers {
			o(change)
		}
	}
	return err
}

// applyLocked reduces action into the state and queues a change of type t
func (c *Canvas) applyLocked(action domain.Action, t ChangeType) {
	c.state = domain.Reduce(c.state, action)
	c.version++

	var move domain.MoveRelative
	switch a := action.(type) {
	case domain.MoveRelative:
		move = a
	case *domain.MoveRelative:
		move = *a
	default:
		return
	}

	c.logger.Debug("move applied",
		zap.String("change", string(t)),
		zap.String("node_id", move.ID.String()),
		zap.Float64("dx", move.DX),
		zap.Float64("dy", move.DY),
		zap.Uint64("version", c.version),
	)
	c.queueLocked(t, move.ID,
		domain.Offset{DX: move.DX, DY: move.DY}, c.state.Lookup(move.ID))
}

func (c *Canvas) queueLocked(t ChangeType, id domain.NodeID, offset domain.Offset, pos domain.Position) {
	c.pending = append(c.pending, Change{
		Type:     t,
		CanvasID: c.id,
		NodeID:   id,
		Offset:   offset,
		Position: pos,
		Version:  c.version,
	})
}
