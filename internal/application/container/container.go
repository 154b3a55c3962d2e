// Package container provides dependency injection for all singleton services
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/AtRiskMedia/pagebuilder/internal/application/services"
	domain "github.com/AtRiskMedia/pagebuilder/internal/domain/services"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/caching/workspaces"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/persistence/project"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/security"
	"github.com/AtRiskMedia/pagebuilder/pkg/config"
)

// Options selects the infrastructure the container is built from
type Options struct {
	DBDriver         string
	DBDSN            string
	Pool             database.PoolConfig
	ProjectKey       string
	MaxWorkspaces    int
	JWTSecret        string
	TokenTTL         time.Duration
	Cleanup          *cleanup.Config
	CORSAllowOrigins []string

	// ElementIDs overrides element id generation, used by tests
	ElementIDs domain.IDGenerator
}

// OptionsFromConfig reads options from the centralized config package
func OptionsFromConfig() Options {
	return Options{
		DBDriver: config.DBDriver,
		DBDSN:    config.DBDSN,
		Pool: database.PoolConfig{
			MaxOpenConns:    config.DBMaxOpenConns,
			MaxIdleConns:    config.DBMaxIdleConns,
			ConnMaxLifetime: config.DBConnMaxLifetime,
		},
		ProjectKey:       config.ProjectKey,
		MaxWorkspaces:    config.MaxWorkspaces,
		JWTSecret:        config.JWTSecret,
		TokenTTL:         config.WorkspaceTokenTTL,
		Cleanup:          cleanup.NewConfig(),
		CORSAllowOrigins: config.CORSAllowOrigins,
	}
}

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	WorkspaceService *services.WorkspaceService
	ProjectService   *services.ProjectService
	ExportService    *services.ExportService

	// Infrastructure Dependencies
	DB            *database.DB
	Workspaces    *workspaces.Store
	CleanupWorker *cleanup.Worker
	Logger        *logging.ChanneledLogger
	PerfTracker   *performance.Tracker

	CORSAllowOrigins []string
}

// NewContainer opens the project store and wires every service
func NewContainer(ctx context.Context, opts Options, logger *logging.ChanneledLogger) (*Container, error) {
	db, err := database.NewConnectionWithLogger(opts.DBDriver, opts.DBDSN, opts.Pool, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open project store: %w", err)
	}
	if err := database.NewTableCreator().CreateSchema(ctx, db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create project store schema: %w", err)
	}

	secret := opts.JWTSecret
	if secret == "" {
		secret, err = security.GenerateSecureKey(64)
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Startup().Warn("JWT_SECRET not set, generated an ephemeral secret; workspace tokens will not survive a restart")
	}

	cleanupConfig := opts.Cleanup
	if cleanupConfig == nil {
		cleanupConfig = cleanup.NewConfig()
	}

	perfConfig := performance.DefaultTrackerConfig()
	perfConfig.Logger = logger.Perf()
	perfTracker := performance.NewTracker(perfConfig)
	store := workspaces.NewStore(opts.MaxWorkspaces)
	projectRepo := project.NewProjectRepository(db.DB, logger)

	projectService := services.NewProjectService(projectRepo, store, opts.ProjectKey, logger, perfTracker)

	return &Container{
		WorkspaceService: services.NewWorkspaceService(store, opts.ElementIDs, secret, opts.TokenTTL, logger, perfTracker),
		ProjectService:   projectService,
		ExportService:    services.NewExportService(store, projectService, logger, perfTracker),

		DB:            db,
		Workspaces:    store,
		CleanupWorker: cleanup.NewWorker(store, cleanupConfig, logger),
		Logger:        logger,
		PerfTracker:   perfTracker,

		CORSAllowOrigins: opts.CORSAllowOrigins,
	}, nil
}

// Close releases the project store connection
func (c *Container) Close() error {
	return c.DB.Close()
}
