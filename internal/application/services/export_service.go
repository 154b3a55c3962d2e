package services

import (
	"context"

	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
	domain "github.com/AtRiskMedia/pagebuilder/internal/domain/services"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/caching/workspaces"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagebuilder/internal/presentation/templates"
)

// ExportResult is a generated source file
type ExportResult struct {
	Format      templates.Format `json:"format"`
	FileName    string           `json:"fileName"`
	ContentType string           `json:"contentType"`
	Source      string           `json:"source"`
}

// ExportService generates source code from workspaces and stored projects
type ExportService struct {
	workspaces  *workspaces.Store
	projects    *ProjectService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewExportService creates the export service
func NewExportService(ws *workspaces.Store, projects *ProjectService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ExportService {
	return &ExportService{
		workspaces:  ws,
		projects:    projects,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// ExportWorkspace enters the export view, which clears the selection, and
// generates the workspace project in the given format
func (s *ExportService) ExportWorkspace(workspaceID string, format templates.Format) (*ExportResult, error) {
	st, err := s.workspaces.Update(workspaceID, func(st builder.State) (builder.State, error) {
		return domain.ClearSelection(st), nil
	})
	if err != nil {
		return nil, err
	}
	return s.generate(workspaceID, format, st.Project)
}

// ExportProject generates a stored project without opening a workspace
func (s *ExportService) ExportProject(ctx context.Context, key string, format templates.Format) (*ExportResult, error) {
	project, err := s.projects.LoadProject(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.generate("", format, project)
}

func (s *ExportService) generate(workspaceID string, format templates.Format, project builder.Project) (*ExportResult, error) {
	marker := s.perfTracker.StartOperation("export:"+string(format), workspaceID)
	defer marker.Complete()

	source, err := templates.Generate(format, project)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	s.logger.Export().Info("Project exported",
		"workspaceId", workspaceID, "format", format, "elements", len(project), "bytes", len(source))
	return &ExportResult{
		Format:      format,
		FileName:    templates.FileName(format),
		ContentType: templates.ContentType(format),
		Source:      source,
	}, nil
}
