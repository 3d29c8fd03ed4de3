// Package service hosts the canvases of a canvasd process.
//
// CanvasService is the registry of open canvases. Each canvas is created
// with the current defaults and observed by the service, which turns canvas
// changes into metrics, journal records and events.
//
// # Event System
//
// Changes are published on the EventBus, which the SSE hub subscribes to.
// Publishing never blocks: slow subscribers miss events.
package service
