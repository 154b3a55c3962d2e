package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/AtRiskMedia/pagebuilder/internal/application/services"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// ProjectKeyRequest names a stored project; an empty key uses the default
type ProjectKeyRequest struct {
	Key string `json:"key"`
}

// ProjectHandlers contains save, load and listing handlers
type ProjectHandlers struct {
	projectService *services.ProjectService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewProjectHandlers creates project handlers with injected dependencies
func NewProjectHandlers(projectService *services.ProjectService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ProjectHandlers {
	return &ProjectHandlers{
		projectService: projectService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// bindKey reads an optional key from the body, falling back to ?key=
func bindKey(c *gin.Context) (string, bool) {
	var req ProjectKeyRequest
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return c.Query("key"), true
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return "", false
	}
	if req.Key == "" {
		req.Key = c.Query("key")
	}
	return req.Key, true
}

// Save stores the workspace project
func (h *ProjectHandlers) Save(c *gin.Context) {
	start := time.Now()
	id, ok := workspaceID(c)
	if !ok {
		return
	}
	key, ok := bindKey(c)
	if !ok {
		return
	}

	key, count, err := h.projectService.Save(c.Request.Context(), id, key)
	if err != nil {
		h.logger.LogError(logging.ChannelDatabase, "save_project", err, map[string]any{"workspaceId": id, "key": key})
		respondError(c, err)
		return
	}

	h.logger.Builder().Info("Save project request completed", "workspaceId", id, "key", key, "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"key": key, "elementCount": count})
}

// Load replaces the workspace project with a stored one
func (h *ProjectHandlers) Load(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}
	key, ok := bindKey(c)
	if !ok {
		return
	}

	st, err := h.projectService.Load(c.Request.Context(), id, key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st})
}

// List returns every stored project
func (h *ProjectHandlers) List(c *gin.Context) {
	marker := h.perfTracker.StartOperation("list_projects_request", "")
	defer marker.Complete()

	projects, err := h.projectService.List(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "count": len(projects)})
}

// Delete removes a stored project
func (h *ProjectHandlers) Delete(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
