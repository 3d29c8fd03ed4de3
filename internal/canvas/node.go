package canvas

import (
	"canvasd/internal/domain"
	"canvasd/internal/gesture"
)

// Node is the accessor of one node on a canvas. It binds the node's ID to
// the canvas state and to the node's drag tracker.
//
// A Node is only usable when created by Canvas.NewNode; the zero value
// reports ErrNoCanvas.
type Node struct {
	id      domain.NodeID
	canvas  *Canvas
	tracker *gesture.Tracker
}

// View is a read-only picture of a node at one instant
type View struct {
	ID       domain.NodeID   `json:"id"`
	Position domain.Position `json:"position"`
	Stored   domain.Position `json:"stored"`
	Offset   domain.Offset   `json:"offset"`
	Dragging bool            `json:"dragging"`
	Visible  bool            `json:"visible"`
}

func newNode(c *Canvas, id domain.NodeID) *Node {
	n := &Node{id: id, canvas: c}
	n.tracker = gesture.NewTracker(n.commit, gesture.Hooks{
		OnBegin: func(gesture.Point) {
			c.queueLocked(ChangeDragStarted, id, domain.Offset{}, c.state.Lookup(id))
		},
		OnUpdate: func(o domain.Offset) {
			c.queueLocked(ChangeDragMoved, id, o, c.state.Lookup(id).Translate(o))
		},
		OnAbandon: func(o domain.Offset) {
			c.queueLocked(ChangeDragAbandoned, id, o, c.state.Lookup(id))
		},
	})
	return n
}

// commit runs under the canvas lock, from the tracker's pointer-up handling
func (n *Node) commit(o domain.Offset) {
	n.canvas.applyLocked(domain.NewMoveRelative(n.id, o), ChangeDragCommitted)
}

// ID returns the node identifier
func (n *Node) ID() domain.NodeID {
	if n == nil {
		return ""
	}
	return n.id
}

// Position returns the effective render position: the stored position plus
// the live drag offset.
func (n *Node) Position() (domain.Position, error) {
	v, err := n.View()
	if err != nil {
		return domain.Position{}, err
	}
	return v.Position, nil
}

// Stored returns the committed position
func (n *Node) Stored() (domain.Position, error) {
	v, err := n.View()
	if err != nil {
		return domain.Position{}, err
	}
	return v.Stored, nil
}

// Offset returns the live drag offset
func (n *Node) Offset() (domain.Offset, error) {
	v, err := n.View()
	if err != nil {
		return domain.Offset{}, err
	}
	return v.Offset, nil
}

// Dragging reports whether the node is being dragged
func (n *Node) Dragging() bool {
	v, err := n.View()
	return err == nil && v.Dragging
}

// View reads stored position and live offset atomically with respect to
// commits, so a reader never sees the offset applied twice or dropped.
func (n *Node) View() (View, error) {
	c, err := n.attached()
	if err != nil {
		return View{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return View{}, domain.ErrCanvasClosed
	}

	stored := c.state.Lookup(n.id)
	offset := n.tracker.Offset()
	pos := stored.Translate(offset)
	return View{
		ID:       n.id,
		Position: pos,
		Stored:   stored,
		Offset:   offset,
		Dragging: n.tracker.Dragging(),
		Visible:  c.frame.Contains(pos),
	}, nil
}

// BeginDrag is the drag-initiation hook for the node's draggable region.
// screen is the pointer position in screen coordinates.
func (n *Node) BeginDrag(screen gesture.Point) error {
	c, err := n.attached()
	if err != nil {
		return err
	}
	return c.PointerDown(n.id, screen)
}

func (n *Node) attached() (*Canvas, error) {
	if n == nil || n.canvas == nil || n.tracker == nil {
		return nil, domain.ErrNoCanvas
	}
	return n.canvas, nil
}
