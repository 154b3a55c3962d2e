package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/pagebuilder/internal/domain/repositories"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/caching/workspaces"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/performance"
)

// ErrProjectNotFound is returned when loading a key with nothing stored
var ErrProjectNotFound = errors.New("project not found")

// ProjectService moves projects between workspaces and the project store
type ProjectService struct {
	store       repositories.ProjectStore
	workspaces  *workspaces.Store
	defaultKey  string
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewProjectService creates the project service
func NewProjectService(store repositories.ProjectStore, ws *workspaces.Store, defaultKey string, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ProjectService {
	return &ProjectService{
		store:       store,
		workspaces:  ws,
		defaultKey:  defaultKey,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

func (s *ProjectService) resolveKey(key string) string {
	if k := strings.TrimSpace(key); k != "" {
		return k
	}
	return s.defaultKey
}

// Save writes the workspace project under key, replacing what was stored
func (s *ProjectService) Save(ctx context.Context, workspaceID, key string) (string, int, error) {
	key = s.resolveKey(key)
	marker := s.perfTracker.StartOperation("project:save", workspaceID)
	defer marker.Complete()

	st, err := s.workspaces.Get(workspaceID)
	if err != nil {
		marker.SetError(err)
		return key, 0, err
	}

	payload, err := builder.MarshalProject(st.Project)
	if err != nil {
		marker.SetError(err)
		return key, 0, err
	}
	if err := s.store.Save(ctx, key, payload, len(st.Project)); err != nil {
		marker.SetError(err)
		return key, 0, err
	}

	s.logger.WithWorkspace(logging.ChannelBuilder, workspaceID).Info("Project saved", "key", key, "elements", len(st.Project))
	return key, len(st.Project), nil
}

// LoadProject reads and decodes a stored project without touching any
// workspace
func (s *ProjectService) LoadProject(ctx context.Context, key string) (builder.Project, error) {
	key = s.resolveKey(key)
	payload, found, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrProjectNotFound, key)
	}
	project, err := builder.UnmarshalProject(payload)
	if err != nil {
		s.logger.LogError(logging.ChannelBuilder, "load_project", err, map[string]any{"key": key})
		return nil, err
	}
	return project, nil
}

// Load replaces the workspace project with the stored one. The project is
// decoded and validated before the workspace is touched, so a missing or
// malformed payload leaves it unchanged. The selection is cleared.
func (s *ProjectService) Load(ctx context.Context, workspaceID, key string) (builder.State, error) {
	marker := s.perfTracker.StartOperation("project:load", workspaceID)
	defer marker.Complete()

	project, err := s.LoadProject(ctx, key)
	if err != nil {
		marker.SetError(err)
		return builder.State{}, err
	}

	st, err := s.workspaces.Update(workspaceID, func(st builder.State) (builder.State, error) {
		return builder.State{Project: project, Preview: st.Preview}, nil
	})
	if err != nil {
		marker.SetError(err)
		return st, err
	}

	s.logger.WithWorkspace(logging.ChannelBuilder, workspaceID).Info("Project loaded", "key", s.resolveKey(key), "elements", len(project))
	return st, nil
}

// List returns every stored project
func (s *ProjectService) List(ctx context.Context) ([]repositories.SavedProject, error) {
	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Delete removes a stored project
func (s *ProjectService) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, s.resolveKey(key))
}
