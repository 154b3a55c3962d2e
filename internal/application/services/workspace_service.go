// Package services provides application-level services that orchestrate
// business logic and coordinate between repositories and domain entities.
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
	domain "github.com/AtRiskMedia/pagebuilder/internal/domain/services"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/caching/workspaces"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/security"
)

// ErrPreviewMode is returned for edits attempted while preview is on
var ErrPreviewMode = errors.New("workspace is in preview mode")

// WorkspaceSession is returned when a workspace is opened
type WorkspaceSession struct {
	WorkspaceID string        `json:"workspaceId"`
	Token       string        `json:"token"`
	State       builder.State `json:"state"`
}

// WorkspaceService applies editing operations to live workspaces. Every call
// is one atomic step on the workspace state.
type WorkspaceService struct {
	store       *workspaces.Store
	newID       domain.IDGenerator
	jwtSecret   string
	tokenTTL    time.Duration
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewWorkspaceService creates the workspace service. A nil newID uses ULID
// based element ids.
func NewWorkspaceService(store *workspaces.Store, newID domain.IDGenerator, jwtSecret string, tokenTTL time.Duration, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *WorkspaceService {
	if newID == nil {
		newID = security.NewElementID
	}
	return &WorkspaceService{
		store:       store,
		newID:       newID,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Open creates an empty workspace and issues its access token
func (s *WorkspaceService) Open() (*WorkspaceSession, error) {
	id := security.NewWorkspaceID()
	st := builder.NewState()
	if err := s.store.Create(id, st); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	token, err := security.GenerateWorkspaceToken(id, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.store.Delete(id)
		return nil, err
	}

	s.logger.WithWorkspace(logging.ChannelBuilder, id).Info("Workspace opened", "open", s.store.Len())
	return &WorkspaceSession{WorkspaceID: id, Token: token, State: st}, nil
}

// Authorize checks a bearer token against the workspace id
func (s *WorkspaceService) Authorize(workspaceID, token string) error {
	return security.ValidateWorkspaceToken(token, workspaceID, s.jwtSecret)
}

// Close discards a workspace
func (s *WorkspaceService) Close(workspaceID string) error {
	if !s.store.Delete(workspaceID) {
		return workspaces.ErrWorkspaceNotFound
	}
	s.logger.WithWorkspace(logging.ChannelBuilder, workspaceID).Info("Workspace closed")
	return nil
}

// State returns the current workspace state
func (s *WorkspaceService) State(workspaceID string) (builder.State, error) {
	return s.store.Get(workspaceID)
}

// List summarises every open workspace
func (s *WorkspaceService) List() []workspaces.Info {
	return s.store.List()
}

// update runs one tracked step against the workspace
func (s *WorkspaceService) update(workspaceID, operation string, fn func(builder.State) (builder.State, error)) (builder.State, error) {
	marker := s.perfTracker.StartOperation("builder:"+operation, workspaceID)
	defer marker.Complete()

	st, err := s.store.Update(workspaceID, fn)
	if err != nil {
		marker.SetError(err)
		s.logger.WithWorkspace(logging.ChannelBuilder, workspaceID).Debug("Workspace step rejected", "operation", operation, "error", err.Error())
		return st, err
	}
	s.logger.WithWorkspace(logging.ChannelBuilder, workspaceID).Debug("Workspace step applied", "operation", operation, "elements", len(st.Project))
	return st, nil
}

func rejectInPreview(st builder.State) error {
	if st.Preview {
		return ErrPreviewMode
	}
	return nil
}

// DragEnd dispatches a finished drag gesture. Drags that match no rule,
// including every drag in preview, come back as discarded with the state
// unchanged.
func (s *WorkspaceService) DragEnd(workspaceID string, ev domain.DragEndEvent, canvas domain.Rect) (builder.State, domain.DropOutcome, error) {
	var outcome domain.DropOutcome
	st, err := s.update(workspaceID, "drag_end", func(st builder.State) (builder.State, error) {
		var next builder.State
		next, outcome = domain.ApplyDragEnd(st, ev, canvas, s.newID)
		return next, nil
	})
	if err != nil {
		return st, outcome, err
	}
	s.logger.WithWorkspace(logging.ChannelBuilder, workspaceID).Info("Drag applied",
		"kind", outcome.Kind, "sourceId", ev.SourceID, "targetId", ev.TargetID, "elementId", outcome.ElementID)
	return st, outcome, nil
}

// Insert adds an element at canvas coordinates and optionally selects it
func (s *WorkspaceService) Insert(workspaceID string, t builder.ElementType, x, y float64, selectIt bool) (builder.State, builder.Element, error) {
	var el builder.Element
	st, err := s.update(workspaceID, "insert", func(st builder.State) (builder.State, error) {
		if err := rejectInPreview(st); err != nil {
			return st, err
		}
		next, inserted, err := domain.Insert(st, t, x, y, s.newID)
		if err != nil {
			return st, err
		}
		el = inserted
		if selectIt {
			sel := inserted
			next.Selection = &sel
		}
		return next, nil
	})
	return st, el, err
}

// Reorder moves one element to another element's index
func (s *WorkspaceService) Reorder(workspaceID, sourceID, targetID string) (builder.State, bool, error) {
	var moved bool
	st, err := s.update(workspaceID, "reorder", func(st builder.State) (builder.State, error) {
		if err := rejectInPreview(st); err != nil {
			return st, err
		}
		var next builder.State
		next, moved = domain.Reorder(st, sourceID, targetID)
		return next, nil
	})
	return st, moved, err
}

// Translate moves an element by a delta
func (s *WorkspaceService) Translate(workspaceID, elementID string, dx, dy float64) (builder.State, bool, error) {
	var moved bool
	st, err := s.update(workspaceID, "translate", func(st builder.State) (builder.State, error) {
		if err := rejectInPreview(st); err != nil {
			return st, err
		}
		var next builder.State
		next, moved = domain.Translate(st, elementID, dx, dy)
		return next, nil
	})
	return st, moved, err
}

// DeleteElement removes one element
func (s *WorkspaceService) DeleteElement(workspaceID, elementID string) (builder.State, bool, error) {
	var removed bool
	st, err := s.update(workspaceID, "delete", func(st builder.State) (builder.State, error) {
		var next builder.State
		next, removed = domain.Delete(st, elementID)
		return next, nil
	})
	return st, removed, err
}

// DeleteSelected removes the selected element, if any
func (s *WorkspaceService) DeleteSelected(workspaceID string) (builder.State, bool, error) {
	var removed bool
	st, err := s.update(workspaceID, "delete_selected", func(st builder.State) (builder.State, error) {
		var next builder.State
		next, removed = domain.Delete(st, st.SelectedID())
		return next, nil
	})
	return st, removed, err
}

// Clear empties the canvas
func (s *WorkspaceService) Clear(workspaceID string) (builder.State, error) {
	return s.update(workspaceID, "clear", func(st builder.State) (builder.State, error) {
		return domain.Clear(st), nil
	})
}

// Select changes the selection. An empty id deselects.
func (s *WorkspaceService) Select(workspaceID, elementID string) (builder.State, error) {
	return s.update(workspaceID, "select", func(st builder.State) (builder.State, error) {
		next, ok := domain.Select(st, elementID)
		if !ok {
			return st, ErrPreviewMode
		}
		return next, nil
	})
}

// SetPreview toggles preview mode
func (s *WorkspaceService) SetPreview(workspaceID string, on bool) (builder.State, error) {
	return s.update(workspaceID, "preview", func(st builder.State) (builder.State, error) {
		return domain.SetPreview(st, on), nil
	})
}

// UpdateProperties applies a batch of property edits to one element
func (s *WorkspaceService) UpdateProperties(workspaceID, elementID string, values map[domain.Field]string) (builder.State, error) {
	return s.update(workspaceID, "update_properties", func(st builder.State) (builder.State, error) {
		if err := rejectInPreview(st); err != nil {
			return st, err
		}
		return domain.UpdateProperties(st, elementID, values)
	})
}
