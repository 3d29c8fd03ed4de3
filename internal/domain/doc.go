// Package domain defines the position state engine of a canvas.
//
// # Core Types
//
// Position and Offset are plain coordinate pairs in canvas pixel space.
//
// GraphState holds one NodeEntry per node and the canvas edges. It is treated
// as an immutable value: ApplyRelativeMove and Reduce return new states and
// never write through the slices of the state they were given.
//
// Action is the closed set of transitions. MoveRelative is the only variant;
// edges have no mutator and attribute updates do not exist.
//
// # Position semantics
//
// Lookup returns the origin for unknown nodes. The first relative move of a
// node creates its entry at the delta itself, later moves add the delta to the
// stored position. Entries are never removed, so the position of a node that
// is no longer displayed stays in the state.
//
// # Design Principles
//
// - Pure transitions without infrastructure concerns
// - Identity assigned explicitly at construction (NodeID)
// - Sentinel errors for integration mistakes
package domain
