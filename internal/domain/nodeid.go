package domain

import "github.com/google/uuid"

// NodeID identifies a node for its whole lifetime. IDs are never reused.
type NodeID string

// String returns the raw identifier
func (id NodeID) String() string {
	return string(id)
}

// IDGenerator produces fresh node identifiers
type IDGenerator func() NodeID

// NewNodeID returns a random, process-unique identifier
func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}
