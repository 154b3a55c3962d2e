package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/pagebuilder/internal/application/services"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// LogLevelRequest changes one channel's level
type LogLevelRequest struct {
	Channel string `json:"channel" binding:"required"`
	Level   string `json:"level" binding:"required"`
}

// SystemHandlers exposes health, performance and logging controls
type SystemHandlers struct {
	workspaceService *services.WorkspaceService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewSystemHandlers creates system handlers with injected dependencies
func NewSystemHandlers(workspaceService *services.WorkspaceService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SystemHandlers {
	return &SystemHandlers{
		workspaceService: workspaceService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// Health reports liveness
func (h *SystemHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"workspaces": len(h.workspaceService.List()),
		"health":     h.perfTracker.Health(),
	})
}

// Performance returns tracker statistics
func (h *SystemHandlers) Performance(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"overall":    h.perfTracker.GetOverallStats(),
		"operations": h.perfTracker.Operations(),
		"workspaces": h.workspaceService.List(),
	})
}

// GetLogLevels returns the level of every channel
func (h *SystemHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": h.logger.GetChannelLevels()})
}

// SetLogLevel changes one channel's level at runtime
func (h *SystemHandlers) SetLogLevel(c *gin.Context) {
	var req LogLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := h.logger.SetChannelLevel(logging.Channel(req.Channel), logging.ParseLevel(req.Level)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"levels": h.logger.GetChannelLevels()})
}
