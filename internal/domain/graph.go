package domain

// NodeEntry is the stored position of one node
type NodeEntry struct {
	ID NodeID  `json:"id" yaml:"id"`
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
}

// EdgeEntry connects two nodes. Edges are carried in the state but no action
// mutates them yet.
type EdgeEntry struct {
	From NodeID `json:"from" yaml:"from"`
	To   NodeID `json:"to" yaml:"to"`
}

// GraphState is the authoritative position store of a canvas.
//
// A GraphState value is never mutated after it has been handed out: every
// transition returns a new value whose Nodes slice has its own backing array,
// so earlier snapshots stay valid. Nodes holds at most one entry per NodeID.
type GraphState struct {
	Nodes []NodeEntry `json:"nodes" yaml:"nodes"`
	Edges []EdgeEntry `json:"edges" yaml:"edges"`
}

// NewGraphState creates an empty state
func NewGraphState() GraphState {
	return GraphState{
		Nodes: make([]NodeEntry, 0),
		Edges: make([]EdgeEntry, 0),
	}
}

// Lookup returns the stored position for id, or the origin when no entry exists
func (s GraphState) Lookup(id NodeID) Position {
	if i := s.indexOf(id); i >= 0 {
		return Position{X: s.Nodes[i].X, Y: s.Nodes[i].Y}
	}
	return Position{}
}

// Has reports whether id has a stored entry
func (s GraphState) Has(id NodeID) bool {
	return s.indexOf(id) >= 0
}

// Clone returns a deep copy of the state
func (s GraphState) Clone() GraphState {
	out := GraphState{
		Nodes: make([]NodeEntry, len(s.Nodes)),
		Edges: make([]EdgeEntry, len(s.Edges)),
	}
	copy(out.Nodes, s.Nodes)
	copy(out.Edges, s.Edges)
	return out
}

func (s GraphState) indexOf(id NodeID) int {
	for i, n := range s.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// ApplyRelativeMove moves id by (dx, dy) and returns the new state.
//
// An existing entry becomes (x+dx, y+dy). A missing entry is appended as
// (dx, dy): the first move of a node places it at the delta itself. The input
// state is left untouched.
func ApplyRelativeMove(s GraphState, id NodeID, dx, dy float64) GraphState {
	i := s.indexOf(id)

	nodes := make([]NodeEntry, len(s.Nodes), len(s.Nodes)+1)
	copy(nodes, s.Nodes)

	if i < 0 {
		nodes = append(nodes, NodeEntry{ID: id, X: dx, Y: dy})
	} else {
		nodes[i].X += dx
		nodes[i].Y += dy
	}

	return GraphState{Nodes: nodes, Edges: s.Edges}
}
