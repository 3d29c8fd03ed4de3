package domain

import "errors"

var (
	// ErrNoCanvas is returned when a node is used without a canvas to commit to
	ErrNoCanvas = errors.New("node is not attached to a canvas")
	// ErrCanvasClosed is returned by nodes whose canvas has been torn down
	ErrCanvasClosed = errors.New("canvas is closed")
	// ErrCanvasNotFound is returned for unknown canvas IDs
	ErrCanvasNotFound = errors.New("canvas not found")
	// ErrCanvasLimit is returned when the configured number of canvases is open
	ErrCanvasLimit = errors.New("canvas limit reached")
	// ErrNodeNotFound is returned for unknown node IDs
	ErrNodeNotFound = errors.New("node not found")
	// ErrGestureActive is returned when a drag starts while one is running
	ErrGestureActive = errors.New("a drag gesture is already active")
	// ErrUnknownEventKind is returned for pointer events the protocol does not define
	ErrUnknownEventKind = errors.New("unknown pointer event kind")
)
