package domain

// Action is a state transition accepted by Reduce.
//
// The set is closed: only types in this package implement it. Edge and
// attribute mutations are intentionally absent; adding one means adding a
// variant here and a case in Reduce.
type Action interface {
	isAction()
	// Kind names the action for logs and events
	Kind() string
}

// MoveRelative moves a node by a relative offset
type MoveRelative struct {
	ID NodeID
	DX float64
	DY float64
}

func (MoveRelative) isAction() {}

// Kind returns "move_relative"
func (MoveRelative) Kind() string { return "move_relative" }

// NewMoveRelative builds the move action for an offset
func NewMoveRelative(id NodeID, o Offset) MoveRelative {
	return MoveRelative{ID: id, DX: o.DX, DY: o.DY}
}

// Reduce applies action to state and returns the resulting state
func Reduce(state GraphState, action Action) GraphState {
	switch a := action.(type) {
	case MoveRelative:
		return ApplyRelativeMove(state, a.ID, a.DX, a.DY)
	case *MoveRelative:
		return ApplyRelativeMove(state, a.ID, a.DX, a.DY)
	}
	return state
}
