package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AtRiskMedia/pagebuilder/internal/application/services"
	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
	domain "github.com/AtRiskMedia/pagebuilder/internal/domain/services"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagebuilder/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// DragEndRequest is a finished drag gesture plus the canvas bounds at drop time
type DragEndRequest struct {
	domain.DragEndEvent
	CanvasRect domain.Rect `json:"canvasRect"`
}

// InsertRequest adds an element at canvas coordinates
type InsertRequest struct {
	Type   string  `json:"type" binding:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Select *bool   `json:"select"`
}

// TranslateRequest moves an element by a screen delta
type TranslateRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// ReorderRequest moves the source element to the target element's index
type ReorderRequest struct {
	SourceID string `json:"sourceId" binding:"required"`
	TargetID string `json:"targetId" binding:"required"`
}

// SelectRequest changes the selection; an empty id deselects
type SelectRequest struct {
	ElementID string `json:"elementId"`
}

// PreviewRequest toggles preview mode
type PreviewRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// WorkspaceHandlers contains all workspace editing handlers
type WorkspaceHandlers struct {
	workspaceService *services.WorkspaceService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewWorkspaceHandlers creates workspace handlers with injected dependencies
func NewWorkspaceHandlers(workspaceService *services.WorkspaceService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *WorkspaceHandlers {
	return &WorkspaceHandlers{
		workspaceService: workspaceService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

func workspaceID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetWorkspaceID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "workspace context not found"})
	}
	return id, ok
}

// Open creates a workspace and returns its id and access token
func (h *WorkspaceHandlers) Open(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("open_workspace_request", "")
	defer marker.Complete()

	sess, err := h.workspaceService.Open()
	if err != nil {
		marker.SetError(err)
		h.logger.LogError(logging.ChannelBuilder, "open_workspace", err, nil)
		respondError(c, err)
		return
	}

	h.logger.Builder().Info("Open workspace request completed", "workspaceId", sess.WorkspaceID, "duration", time.Since(start))
	c.JSON(http.StatusCreated, sess)
}

// Get returns the workspace state
func (h *WorkspaceHandlers) Get(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}
	st, err := h.workspaceService.State(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st})
}

// Close discards the workspace
func (h *WorkspaceHandlers) Close(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}
	if err := h.workspaceService.Close(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DragEnd applies a finished drag gesture
func (h *WorkspaceHandlers) DragEnd(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}

	var req DragEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if req.SourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sourceId is required"})
		return
	}

	st, outcome, err := h.workspaceService.DragEnd(id, req.DragEndEvent, req.CanvasRect)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome, "state": st})
}

// Insert adds an element without a drag gesture
func (h *WorkspaceHandlers) Insert(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}

	var req InsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	selectIt := req.Select == nil || *req.Select

	st, el, err := h.workspaceService.Insert(id, builder.ElementType(req.Type), req.X, req.Y, selectIt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"element": el, "state": st})
}

// Clear empties the canvas
func (h *WorkspaceHandlers) Clear(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}
	st, err := h.workspaceService.Clear(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st})
}

// DeleteElement removes one element; "selected" targets the current selection
func (h *WorkspaceHandlers) DeleteElement(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}

	var (
		st      builder.State
		removed bool
		err     error
	)
	if elementID := c.Param("elementId"); elementID == "selected" {
		st, removed, err = h.workspaceService.DeleteSelected(id)
	} else {
		st, removed, err = h.workspaceService.DeleteElement(id, elementID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed, "state": st})
}

// UpdateProperties applies a property batch. Values may be strings, numbers
// or null, which unsets the property.
func (h *WorkspaceHandlers) UpdateProperties(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	values := make(map[domain.Field]string, len(body))
	for name, raw := range body {
		v, err := propertyString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("property %s: %v", name, err)})
			return
		}
		values[domain.Field(name)] = v
	}

	st, err := h.workspaceService.UpdateProperties(id, c.Param("elementId"), values)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st})
}

func propertyString(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("unsupported value type %T", raw)
}

// Translate moves an element by a delta
func (h *WorkspaceHandlers) Translate(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	st, moved, err := h.workspaceService.Translate(id, c.Param("elementId"), req.DX, req.DY)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved, "state": st})
}

// Reorder moves one element to another element's index
func (h *WorkspaceHandlers) Reorder(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	st, moved, err := h.workspaceService.Reorder(id, req.SourceID, req.TargetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved, "state": st})
}

// Select changes the selection
func (h *WorkspaceHandlers) Select(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	st, err := h.workspaceService.Select(id, req.ElementID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st})
}

// Preview toggles preview mode
func (h *WorkspaceHandlers) Preview(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	st, err := h.workspaceService.SetPreview(id, *req.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st})
}

// Palette lists the insertable element types and their defaults
func (h *WorkspaceHandlers) Palette(c *gin.Context) {
	type entry struct {
		Type     builder.ElementType `json:"type"`
		Defaults builder.Defaults    `json:"defaults"`
	}
	var palette []entry
	for _, t := range builder.Palette() {
		palette = append(palette, entry{Type: t, Defaults: builder.DefaultsFor(t)})
	}
	c.JSON(http.StatusOK, gin.H{"palette": palette, "fields": domain.Fields()})
}
