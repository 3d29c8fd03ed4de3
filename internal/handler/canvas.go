package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"canvasd/internal/domain"
	"canvasd/internal/gesture"
	"canvasd/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CanvasHandler serves the canvas API
type CanvasHandler struct {
	svc    *service.CanvasService
	logger *zap.Logger
}

// NewCanvasHandler creates a canvas handler
func NewCanvasHandler(svc *service.CanvasService, logger *zap.Logger) *CanvasHandler {
	return &CanvasHandler{svc: svc, logger: logger}
}

// CreateCanvas mounts a new canvas
func (h *CanvasHandler) CreateCanvas(w http.ResponseWriter, r *http.Request) {
	var req CreateCanvasRequest
	if err := decodeAndValidate(r, &req, true); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.svc.CreateCanvas(service.CreateCanvasRequest{
		Width:      req.Width,
		Height:     req.Height,
		Background: req.Background,
	})
	if err != nil {
		writeServiceError(w, h.logger, "create canvas", err)
		return
	}

	writeJSON(w, summary, http.StatusCreated)
}

// ListCanvases returns every open canvas
func (h *CanvasHandler) ListCanvases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.ListCanvases(), http.StatusOK)
}

// GetCanvas returns one canvas
func (h *CanvasHandler) GetCanvas(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetCanvas(chi.URLParam(r, "canvasID"))
	if err != nil {
		writeServiceError(w, h.logger, "get canvas", err)
		return
	}

	writeJSON(w, summary, http.StatusOK)
}

// DeleteCanvas closes a canvas
func (h *CanvasHandler) DeleteCanvas(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CloseCanvas(chi.URLParam(r, "canvasID")); err != nil {
		writeServiceError(w, h.logger, "close canvas", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateNode adds a node to a canvas
func (h *CanvasHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.NewNode(chi.URLParam(r, "canvasID"))
	if err != nil {
		writeServiceError(w, h.logger, "create node", err)
		return
	}

	writeJSON(w, view, http.StatusCreated)
}

// ListNodes returns the views of every node on a canvas
func (h *CanvasHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListNodes(chi.URLParam(r, "canvasID"))
	if err != nil {
		writeServiceError(w, h.logger, "list nodes", err)
		return
	}

	writeJSON(w, views, http.StatusOK)
}

// GetNode returns the effective and stored position of a node
func (h *CanvasHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetNode(chi.URLParam(r, "canvasID"), domain.NodeID(chi.URLParam(r, "nodeID")))
	if err != nil {
		writeServiceError(w, h.logger, "get node", err)
		return
	}

	writeJSON(w, view, http.StatusOK)
}

// BeginDrag delivers a pointer-down on a node
func (h *CanvasHandler) BeginDrag(w http.ResponseWriter, r *http.Request) {
	var req DragRequest
	if err := decodeAndValidate(r, &req, false); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.svc.BeginDrag(
		chi.URLParam(r, "canvasID"),
		domain.NodeID(chi.URLParam(r, "nodeID")),
		gesture.Point{X: *req.X, Y: *req.Y},
	)
	if err != nil {
		writeServiceError(w, h.logger, "begin drag", err)
		return
	}

	writeJSON(w, view, http.StatusOK)
}

// PointerResponse reports the drags still running after a pointer event
type PointerResponse struct {
	ActiveDrags int `json:"active_drags"`
}

// Pointer delivers a document-level pointer event
func (h *CanvasHandler) Pointer(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if err := decodeAndValidate(r, &req, false); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	active, err := h.svc.Pointer(chi.URLParam(r, "canvasID"), req.Kind, gesture.Point{X: req.X, Y: req.Y})
	if err != nil {
		writeServiceError(w, h.logger, "pointer", err)
		return
	}

	writeJSON(w, PointerResponse{ActiveDrags: active}, http.StatusOK)
}

// GetGrid returns the background grid lines of a canvas
func (h *CanvasHandler) GetGrid(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Grid(chi.URLParam(r, "canvasID"))
	if err != nil {
		writeServiceError(w, h.logger, "grid", err)
		return
	}

	writeJSON(w, g, http.StatusOK)
}

// Export writes a snapshot of the canvas in the requested format
func (h *CanvasHandler) Export(w http.ResponseWriter, r *http.Request) {
	canvasID := chi.URLParam(r, "canvasID")
	snap, exporter, err := h.svc.Export(canvasID, r.URL.Query().Get("format"))
	if err != nil {
		writeServiceError(w, h.logger, "export", err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(snap, &buf); err != nil {
		writeServiceError(w, h.logger, "export", err)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename=canvas-"+canvasID+"."+exporter.Format())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ListMoves returns the journaled moves of a canvas, newest first
func (h *CanvasHandler) ListMoves(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, "Invalid limit", "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	moves, err := h.svc.Moves(r.Context(), chi.URLParam(r, "canvasID"), limit)
	if err != nil {
		writeServiceError(w, h.logger, "list moves", err)
		return
	}

	writeJSON(w, moves, http.StatusOK)
}
