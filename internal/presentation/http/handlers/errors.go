// Package handlers provides HTTP handlers for the page builder API
package handlers

import (
	"errors"
	"net/http"

	"github.com/AtRiskMedia/pagebuilder/internal/application/services"
	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
	domain "github.com/AtRiskMedia/pagebuilder/internal/domain/services"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/caching/workspaces"
	"github.com/AtRiskMedia/pagebuilder/internal/presentation/templates"
	"github.com/gin-gonic/gin"
)

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, workspaces.ErrWorkspaceNotFound), errors.Is(err, services.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, workspaces.ErrWorkspaceLimit):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrPreviewMode):
		return http.StatusConflict
	case errors.Is(err, builder.ErrMalformedProject):
		return http.StatusUnprocessableEntity
	case errors.Is(err, builder.ErrInvalidElementType),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrInvalidPropertyValue),
		errors.Is(err, templates.ErrUnknownFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
