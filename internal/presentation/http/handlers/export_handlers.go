package handlers

import (
	"fmt"
	"net/http"

	"github.com/AtRiskMedia/pagebuilder/internal/application/services"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder/internal/presentation/templates"
	"github.com/gin-gonic/gin"
)

// ExportHandlers serves generated source code
type ExportHandlers struct {
	exportService *services.ExportService
	logger        *logging.ChanneledLogger
}

// NewExportHandlers creates export handlers with injected dependencies
func NewExportHandlers(exportService *services.ExportService, logger *logging.ChanneledLogger) *ExportHandlers {
	return &ExportHandlers{exportService: exportService, logger: logger}
}

// Export generates the workspace project. With download=1 the raw file is
// returned as an attachment, otherwise a JSON envelope.
func (h *ExportHandlers) Export(c *gin.Context) {
	id, ok := workspaceID(c)
	if !ok {
		return
	}

	format, err := templates.ParseFormat(c.DefaultQuery("format", string(templates.FormatMarkup)))
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.exportService.ExportWorkspace(id, format)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("download") == "1" || c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
		c.Data(http.StatusOK, res.ContentType, []byte(res.Source))
		return
	}
	c.JSON(http.StatusOK, res)
}
