// Package handler implements the canvasd HTTP API.
//
// Routes are served by a chi router. Every canvas operation goes through
// service.CanvasService; the handlers decode and validate requests, call the
// service and map domain errors to status codes.
//
// # Response Format
//
// Success responses return JSON data with 200 or 201. Error responses return
// JSON with an {error, details} structure:
//
//   - 400 for malformed or invalid requests and unknown pointer kinds
//   - 404 for unknown canvases and nodes
//   - 409 when a drag is already running or the canvas limit is reached
//   - 410 for canvases that were closed while in use
//
// # Server-Sent Events
//
// GET /events streams canvas changes to live viewers.
package handler
