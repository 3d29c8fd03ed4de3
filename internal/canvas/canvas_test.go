package canvas

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"canvasd/internal/domain"
	"canvasd/internal/gesture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialIDs returns a generator producing n1, n2, ...
func sequentialIDs() domain.IDGenerator {
	var mu sync.Mutex
	next := 0
	return func() domain.NodeID {
		mu.Lock()
		defer mu.Unlock()
		next++
		return domain.NodeID(fmt.Sprintf("n%d", next))
	}
}

func newTestCanvas(t *testing.T, opts ...Option) *Canvas {
	t.Helper()
	c := New(append([]Option{WithID("test"), WithIDGenerator(sequentialIDs())}, opts...)...)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func mustNode(t *testing.T, c *Canvas) *Node {
	t.Helper()
	node, err := c.NewNode()
	require.NoError(t, err)
	return node
}

func move(c *Canvas, x, y float64) error {
	return c.Input(gesture.Event{Kind: gesture.KindMove, Point: gesture.Point{X: x, Y: y}})
}

func up(c *Canvas) error {
	return c.Input(gesture.Event{Kind: gesture.KindUp})
}

func TestNewDefaults(t *testing.T) {
	c := New()

	assert.NotEmpty(t, c.ID())
	assert.Equal(t, DefaultWidth, c.Width())
	assert.Equal(t, DefaultHeight, c.Height())
	assert.Equal(t, DefaultBackground, c.Background())
	assert.Empty(t, c.State().Nodes)
	assert.Same(t, c.Frame(), c.Frame())
}

func TestNodeIdentity(t *testing.T) {
	c := New()

	a := mustNode(t, c)
	b := mustNode(t, c)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, a.ID(), a.ID(), "identity is stable across reads")

	got, err := c.Node(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Equal(t, []*Node{a, b}, c.Nodes())
}

func TestNewNodeRejectsDuplicateID(t *testing.T) {
	c := newTestCanvas(t, WithIDGenerator(func() domain.NodeID { return "same" }))

	_, err := c.NewNode()
	require.NoError(t, err)
	_, err = c.NewNode()
	assert.Error(t, err)
}

func TestNewNodeHasNoStoredEntry(t *testing.T) {
	c := newTestCanvas(t)
	node := mustNode(t, c)

	pos, err := node.Position()
	require.NoError(t, err)
	assert.Equal(t, domain.Position{}, pos)
	assert.False(t, c.State().Has(node.ID()))
}

func TestDragCommitsOffsetFromStart(t *testing.T) {
	c := newTestCanvas(t)
	node := mustNode(t, c)

	require.NoError(t, node.BeginDrag(gesture.Point{X: 200, Y: 200}))
	require.NoError(t, move(c, 205, 205))
	require.NoError(t, move(c, 212, 203))
	require.NoError(t, move(c, 212, 203))
	require.NoError(t, up(c))

	assert.Equal(t, domain.NewPosition(12, 3), c.Lookup(node.ID()))
	assert.Equal(t, uint64(1), c.Version(), "exactly one commit")
	assert.False(t, node.Dragging())
}

func TestClickWithoutDragPinsAtOrigin(t *testing.T) {
	c := newTestCanvas(t)
	node := mustNode(t, c)

	require.NoError(t, node.BeginDrag(gesture.Point{X: 40, Y: 40}))
	require.NoError(t, up(c))

	state := c.State()
	require.True(t, state.Has(node.ID()))
	assert.Equal(t, domain.Position{}, state.Lookup(node.ID()))
	assert.Equal(t, uint64(1), c.Version())
}

func TestSecondDragAddsToStoredPosition(t *testing.T) {
	c := newTestCanvas(t)
	node := mustNode(t, c)

	require.NoError(t, node.BeginDrag(gesture.Point{}))
	require.NoError(t, move(c, 30, 40))
	require.NoError(t, up(c))

	require.NoError(t, node.BeginDrag(gesture.Point{X: 500, Y: 500}))
	require.NoError(t, move(c, 490, 510))
	require.NoError(t, up(c))

	pos, err := node.Position()
	require.NoError(t, err)
	assert.Equal(t, domain.NewPosition(20, 50), pos)
}

func TestEffectivePositionDuringDrag(t *testing.T) {
	c := newTestCanvas(t)
	node := mustNode(t, c)

	_, err := c.Dispatch(domain.MoveRelative{ID: node.ID(), DX: 100, DY: 50})
	require.NoError(t, err)
	start, err := node.Position()
	require.NoError(t, err)

	require.NoError(t, node.BeginDrag(gesture.Point{X: 10, Y: 10}))
	require.NoError(t, move(c, 17, 4))

	view, err := node.View()
	require.NoError(t, err)
	assert.True(t, view.Dragging)
	assert.Equal(t, start, view.Stored)
	assert.Equal(t, domain.Offset{DX: 7, DY: -6}, view.Offset)
	assert.Equal(t, domain.NewPosition(107, 44), view.Position)

	require.NoError(t, up(c))

	after, err := node.View()
	require.NoError(t, err)
	assert.Equal(t, view.Position, after.Position, "no jump at commit time")
	assert.Equal(t, after.Stored, after.Position)
	assert.Equal(t, domain.Offset{}, after.Offset)
}

func TestNoJumpObservedConcurrently(t *testing.T) {
	c := newTestCanvas(t)
	node := mustNode(t, c)

	require.NoError(t, node.BeginDrag(gesture.Point{}))
	require.NoError(t, move(c, 25, 25))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	bad := make(chan domain.Position, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			pos, err := node.Position()
			if err == nil && pos != domain.NewPosition(25, 25) {
				select {
				case bad <- pos:
				default:
				}
				return
			}
		}
	}()

	require.NoError(t, up(c))
	close(stop)
	wg.Wait()

	select {
	case pos := <-bad:
		t.Fatalf("observed intermediate position %+v", pos)
	default:
	}
}

func TestAbandonRestoresStoredPosition(t *testing.T) {
	for _, kind := range []gesture.Kind{gesture.KindCancel, gesture.KindBlur} {
		t.Run(string(kind), func(t *testing.T) {
			c := newTestCanvas(t)
			node := mustNode(t, c)

			require.NoError(t, node.BeginDrag(gesture.Point{}))
			require.NoError(t, move(c, 60, 60))
			require.NoError(t, c.Input(gesture.Event{Kind: kind}))

			pos, err := node.Position()
			require.NoError(t, err)
			assert.Equal(t, domain.Position{}, pos)
			assert.False(t, c.State().Has(node.ID()), "abandon must not commit")
			assert.Equal(t, 0, c.Document().Listeners())
			assert.Equal(t, 0, c.ActiveDrags())
		})
	}
}

func TestConcurrentDragsDoNotInterfere(t *testing.T) {
	c := newTestCanvas(t)
	a := mustNode(t, c)
	b := mustNode(t, c)

	_, err := c.Dispatch(domain.MoveRelative{ID: b.ID(), DX: 300, DY: 300})
	require.NoError(t, err)

	t.Run("committing one leaves the other stored position alone", func(t *testing.T) {
		require.NoError(t, a.BeginDrag(gesture.Point{}))
		require.NoError(t, move(c, 10, 10))
		require.NoError(t, up(c))

		assert.Equal(t, domain.NewPosition(10, 10), c.Lookup(a.ID()))
		assert.Equal(t, domain.NewPosition(300, 300), c.Lookup(b.ID()))
	})

	t.Run("simultaneous drags keep their own origins", func(t *testing.T) {
		require.NoError(t, a.BeginDrag(gesture.Point{X: 0, Y: 0}))
		require.NoError(t, b.BeginDrag(gesture.Point{X: 100, Y: 100}))
		assert.Equal(t, 2, c.ActiveDrags())

		require.NoError(t, move(c, 20, 20))
		offA, err := a.Offset()
		require.NoError(t, err)
		offB, err := b.Offset()
		require.NoError(t, err)
		assert.Equal(t, domain.Offset{DX: 20, DY: 20}, offA)
		assert.Equal(t, domain.Offset{DX: -80, DY: -80}, offB)

		require.NoError(t, up(c))
		assert.Equal(t, domain.NewPosition(30, 30), c.Lookup(a.ID()))
		assert.Equal(t, domain.NewPosition(220, 220), c.Lookup(b.ID()))
	})
}

func TestPointerDownWhileDragging(t *testing.T) {
	c := newTestCanvas(t)
	node := mustNode(t, c)

	require.NoError(t, node.BeginDrag(gesture.Point{}))
	err := node.BeginDrag(gesture.Point{X: 5, Y: 5})
	assert.True(t, errors.Is(err, domain.ErrGestureActive))
	assert.Equal(t, 1, c.Document().Listeners())
}

func TestPointerDownUnknownNode(t *testing.T) {
	c := newTestCanvas(t)

	err := c.PointerDown("missing", gesture.Point{})
	assert.True(t, errors.Is(err, domain.ErrNodeNotFound))

	_, err = c.Node("missing")
	assert.True(t, errors.Is(err, domain.ErrNodeNotFound))
}

func TestInputRejectsUnknownKind(t *testing.T) {
	c := newTestCanvas(t)

	err := c.Input(gesture.Event{Kind: "wheel"})
	assert.True(t, errors.Is(err, domain.ErrUnknownEventKind))
}

func TestMissingCommitTarget(t *testing.T) {
	t.Run("zero node", func(t *testing.T) {
		var node Node

		_, err := node.Position()
		assert.True(t, errors.Is(err, domain.ErrNoCanvas))
		assert.True(t, errors.Is(node.BeginDrag(gesture.Point{}), domain.ErrNoCanvas))
	})

	t.Run("nil node", func(t *testing.T) {
		var node *Node

		_, err := node.View()
		assert.True(t, errors.Is(err, domain.ErrNoCanvas))
		assert.Equal(t, domain.NodeID(""), node.ID())
	})

	t.Run("closed canvas", func(t *testing.T) {
		c := New()
		node := mustNode(t, c)
		require.NoError(t, c.Close())

		_, err := node.Position()
		assert.True(t, errors.Is(err, domain.ErrCanvasClosed))
		assert.True(t, errors.Is(node.BeginDrag(gesture.Point{}), domain.ErrCanvasClosed))
		_, err = c.NewNode()
		assert.True(t, errors.Is(err, domain.ErrCanvasClosed))
		_, err = c.Dispatch(domain.MoveRelative{ID: node.ID()})
		assert.True(t, errors.Is(err, domain.ErrCanvasClosed))
		assert.True(t, errors.Is(up(c), domain.ErrCanvasClosed))
	})
}

func TestCloseAbandonsActiveDrags(t *testing.T) {
	c := New()
	node := mustNode(t, c)

	var changes []Change
	c.Observe(func(ch Change) { changes = append(changes, ch) })

	require.NoError(t, node.BeginDrag(gesture.Point{}))
	require.NoError(t, move(c, 9, 9))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.True(t, c.Closed())
	assert.Equal(t, 0, c.Document().Listeners())
	assert.False(t, c.State().Has(node.ID()))

	var types []ChangeType
	for _, ch := range changes {
		types = append(types, ch.Type)
	}
	assert.Equal(t, []ChangeType{
		ChangeDragStarted, ChangeDragMoved, ChangeDragAbandoned, ChangeCanvasClosed,
	}, types)
}

func TestOrphanedEntriesSurvive(t *testing.T) {
	c := newTestCanvas(t)
	node := mustNode(t, c)

	require.NoError(t, node.BeginDrag(gesture.Point{}))
	require.NoError(t, move(c, 15, 15))
	require.NoError(t, up(c))

	// Nothing removes a position entry once the accessor is no longer used.
	id := node.ID()
	for i := 0; i < 3; i++ {
		other := mustNode(t, c)
		_, err := c.Dispatch(domain.MoveRelative{ID: other.ID(), DX: 1, DY: 1})
		require.NoError(t, err)
	}

	assert.Equal(t, domain.NewPosition(15, 15), c.Lookup(id))
	assert.Len(t, c.State().Nodes, 4)
}

func TestCanvasesAreIsolated(t *testing.T) {
	gen := func() domain.NodeID { return "shared" }
	a := New(WithIDGenerator(gen))
	b := New(WithIDGenerator(gen))

	na := mustNode(t, a)
	nb := mustNode(t, b)

	require.NoError(t, na.BeginDrag(gesture.Point{}))
	require.NoError(t, move(a, 50, 50))
	require.NoError(t, move(b, 99, 99))
	require.NoError(t, up(b))
	require.NoError(t, up(a))

	assert.Equal(t, domain.NewPosition(50, 50), a.Lookup("shared"))
	assert.False(t, b.State().Has("shared"))
	assert.False(t, nb.Dragging())
}

func TestStateSnapshotsAreCopies(t *testing.T) {
	c := newTestCanvas(t)
	node := mustNode(t, c)

	_, err := c.Dispatch(domain.MoveRelative{ID: node.ID(), DX: 1, DY: 1})
	require.NoError(t, err)

	before := c.State()
	before.Nodes[0].X = 1000

	_, err = c.Dispatch(domain.MoveRelative{ID: node.ID(), DX: 1, DY: 1})
	require.NoError(t, err)

	assert.Equal(t, domain.NewPosition(2, 2), c.Lookup(node.ID()))
	assert.Equal(t, 1000.0, before.Nodes[0].X)
}

func TestObserversReceiveChanges(t *testing.T) {
	var changes []Change
	c := newTestCanvas(t, WithObserver(func(ch Change) { changes = append(changes, ch) }))
	node := mustNode(t, c)

	require.NoError(t, node.BeginDrag(gesture.Point{X: 1, Y: 1}))
	require.NoError(t, move(c, 4, 5))
	require.NoError(t, up(c))

	require.Len(t, changes, 4)
	assert.Equal(t, ChangeNodeAdded, changes[0].Type)
	assert.Equal(t, ChangeDragStarted, changes[1].Type)
	assert.Equal(t, ChangeDragMoved, changes[2].Type)
	assert.Equal(t, domain.NewPosition(3, 4), changes[2].Position)
	assert.Equal(t, ChangeDragCommitted, changes[3].Type)
	assert.Equal(t, domain.Offset{DX: 3, DY: 4}, changes[3].Offset)
	assert.Equal(t, domain.NewPosition(3, 4), changes[3].Position)
	assert.Equal(t, uint64(1), changes[3].Version)
	for _, ch := range changes {
		assert.Equal(t, "test", ch.CanvasID)
		assert.Equal(t, node.ID(), ch.NodeID)
	}
}

func TestObserverMayReadCanvas(t *testing.T) {
	c := newTestCanvas(t)
	node := mustNode(t, c)

	var seen []domain.Position
	c.Observe(func(ch Change) {
		if ch.Type == ChangeDragCommitted {
			pos, err := node.Position()
			require.NoError(t, err)
			seen = append(seen, pos)
		}
	})

	require.NoError(t, node.BeginDrag(gesture.Point{}))
	require.NoError(t, move(c, 8, 8))
	require.NoError(t, up(c))

	assert.Equal(t, []domain.Position{domain.NewPosition(8, 8)}, seen)
}

func TestFrame(t *testing.T) {
	c := newTestCanvas(t, WithSize(200, 100), WithOrigin(gesture.Point{X: 50, Y: 20}))
	f := c.Frame()

	assert.Equal(t, domain.NewPosition(10, 5), f.Local(gesture.Point{X: 60, Y: 25}))
	assert.True(t, f.Contains(domain.NewPosition(200, 100)))
	assert.False(t, f.Contains(domain.NewPosition(201, 50)))
	assert.False(t, f.Contains(domain.NewPosition(-1, 50)))

	node := mustNode(t, c)
	require.NoError(t, node.BeginDrag(gesture.Point{X: 60, Y: 25}))
	require.NoError(t, move(c, 360, 25))
	view, err := node.View()
	require.NoError(t, err)
	assert.False(t, view.Visible, "nodes may be dragged outside the viewport")
	require.NoError(t, up(c))
	assert.Equal(t, domain.NewPosition(300, 0), c.Lookup(node.ID()))
}

func TestGridSpec(t *testing.T) {
	c := newTestCanvas(t, WithSize(300, 200), WithGrid([]float64{20}, nil))
	spec := c.Grid()

	assert.Equal(t, 300, spec.Width)
	assert.Equal(t, 200, spec.Height)
	assert.Equal(t, []float64{20}, spec.Vertical)
	assert.Equal(t, []float64{50, 10, 10, 10}, spec.Horizontal)
}

func TestSnapshot(t *testing.T) {
	c := newTestCanvas(t, WithSize(640, 480), WithBackground("#000000"))
	node := mustNode(t, c)
	_, err := c.Dispatch(domain.MoveRelative{ID: node.ID(), DX: 3, DY: 4})
	require.NoError(t, err)

	snap := c.Snapshot()

	assert.Equal(t, "test", snap.CanvasID)
	assert.Equal(t, 640, snap.Width)
	assert.Equal(t, 480, snap.Height)
	assert.Equal(t, "#000000", snap.Background)
	assert.Equal(t, domain.NewPosition(3, 4), snap.State.Lookup(node.ID()))
	assert.False(t, snap.TakenAt.IsZero())
}
