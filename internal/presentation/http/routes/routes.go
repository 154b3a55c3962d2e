// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/AtRiskMedia/pagebuilder/internal/application/container"
	"github.com/AtRiskMedia/pagebuilder/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/pagebuilder/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}
	r.Use(middleware.CORSMiddleware(container.CORSAllowOrigins))

	workspaceHandlers := handlers.NewWorkspaceHandlers(container.WorkspaceService, container.Logger, container.PerfTracker)
	projectHandlers := handlers.NewProjectHandlers(container.ProjectService, container.Logger, container.PerfTracker)
	exportHandlers := handlers.NewExportHandlers(container.ExportService, container.Logger)
	systemHandlers := handlers.NewSystemHandlers(container.WorkspaceService, container.Logger, container.PerfTracker)

	api := r.Group("/api/v1")
	{
		api.GET("/health", systemHandlers.Health)
		api.GET("/palette", workspaceHandlers.Palette)

		system := api.Group("/system")
		{
			system.GET("/performance", systemHandlers.Performance)
			system.GET("/logs/levels", systemHandlers.GetLogLevels)
			system.POST("/logs/levels", systemHandlers.SetLogLevel)
		}

		api.GET("/projects", projectHandlers.List)
		api.DELETE("/projects/:key", projectHandlers.Delete)

		api.POST("/workspaces", workspaceHandlers.Open)

		ws := api.Group("/workspaces/:id")
		ws.Use(middleware.WorkspaceAuth(container.WorkspaceService))
		{
			ws.GET("", workspaceHandlers.Get)
			ws.DELETE("", workspaceHandlers.Close)

			ws.POST("/drag-end", workspaceHandlers.DragEnd)

			ws.POST("/elements", workspaceHandlers.Insert)
			ws.DELETE("/elements", workspaceHandlers.Clear)
			ws.DELETE("/elements/:elementId", workspaceHandlers.DeleteElement)
			ws.PATCH("/elements/:elementId", workspaceHandlers.UpdateProperties)
			ws.POST("/elements/:elementId/translate", workspaceHandlers.Translate)
			ws.POST("/reorder", workspaceHandlers.Reorder)

			ws.POST("/selection", workspaceHandlers.Select)
			ws.POST("/preview", workspaceHandlers.Preview)

			ws.POST("/save", projectHandlers.Save)
			ws.POST("/load", projectHandlers.Load)
			ws.GET("/export", exportHandlers.Export)
		}
	}

	return r
}
