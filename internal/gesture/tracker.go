// Package gesture turns pointer input into committed node moves.
//
// A Tracker follows one node through Idle → Dragging → Idle. Offsets are
// always measured from the point captured when the drag began, so a lost or
// repeated move event never changes the committed result: only the last move
// before pointer-up counts.
package gesture

import (
	"canvasd/internal/domain"
)

// State of a Tracker
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// CommitFunc receives the final offset when a drag ends with pointer-up
type CommitFunc func(domain.Offset)

// Hooks observe tracker transitions. Any field may be nil.
type Hooks struct {
	OnBegin   func(origin Point)
	OnUpdate  func(offset domain.Offset)
	OnAbandon func(offset domain.Offset)
}

// Tracker is the drag state machine of one node. It is not safe for
// concurrent use; the owning canvas serializes access.
type Tracker struct {
	commit      CommitFunc
	hooks       Hooks
	state       State
	origin      Point
	offset      domain.Offset
	unsubscribe func()
}

// NewTracker creates an idle tracker that hands committed offsets to commit
func NewTracker(commit CommitFunc, hooks Hooks) *Tracker {
	return &Tracker{
		commit: commit,
		hooks:  hooks,
	}
}

// State returns the current state
func (t *Tracker) State() State {
	return t.state
}

// Dragging reports whether a gesture is in progress
func (t *Tracker) Dragging() bool {
	return t.state == Dragging
}

// Offset returns the live, uncommitted offset
func (t *Tracker) Offset() domain.Offset {
	return t.offset
}

// Origin returns the pointer position captured at drag start
func (t *Tracker) Origin() Point {
	return t.origin
}

// Begin starts a drag at origin and listens on src until the gesture ends.
// src may be nil when the caller feeds Update, End and Abandon directly.
func (t *Tracker) Begin(origin Point, src EventSource) error {
	if t.state == Dragging {
		return domain.ErrGestureActive
	}

	t.state = Dragging
	t.origin = origin
	t.offset = domain.Offset{}
	if src != nil {
		t.unsubscribe = src.Subscribe(t.handle)
	}

	if t.hooks.OnBegin != nil {
		t.hooks.OnBegin(origin)
	}
	return nil
}

// Update sets the live offset to current minus the drag origin.
// It reports false when no drag is active.
func (t *Tracker) Update(current Point) bool {
	if t.state != Dragging {
		return false
	}

	t.offset = domain.Offset{
		DX: current.X - t.origin.X,
		DY: current.Y - t.origin.Y,
	}

	if t.hooks.OnUpdate != nil {
		t.hooks.OnUpdate(t.offset)
	}
	return true
}

// End finishes the drag and commits the live offset, which is zero when the
// pointer never moved. The offset is reset only after the commit so that the
// stored position and the offset never disagree. It reports false when no
// drag is active.
func (t *Tracker) End() bool {
	if t.state != Dragging {
		return false
	}

	t.detach()
	if t.commit != nil {
		t.commit(t.offset)
	}
	t.offset = domain.Offset{}
	t.state = Idle
	return true
}

// Abandon stops the drag without committing. The node falls back to its
// stored position. It reports false when no drag is active.
func (t *Tracker) Abandon() bool {
	if t.state != Dragging {
		return false
	}

	t.detach()
	abandoned := t.offset
	t.offset = domain.Offset{}
	t.state = Idle

	if t.hooks.OnAbandon != nil {
		t.hooks.OnAbandon(abandoned)
	}
	return true
}

func (t *Tracker) detach() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}

func (t *Tracker) handle(ev Event) {
	switch ev.Kind {
	case KindMove:
		t.Update(ev.Point)
	case KindUp:
		// the release point is not a move; the last move decides the offset
		t.End()
	case KindCancel, KindBlur:
		t.Abandon()
	}
}
