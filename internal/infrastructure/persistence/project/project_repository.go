// Package project provides the SQL backed project store
package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/pagebuilder/internal/domain/repositories"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/persistence/database"
)

// timeLayout is fixed width and always UTC so that text order is time order
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ProjectRepository stores serialized projects in the projects table
type ProjectRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
	now    func() time.Time
}

var _ repositories.ProjectStore = (*ProjectRepository)(nil)

// NewProjectRepository creates a repository over an open database
func NewProjectRepository(db *sql.DB, logger *logging.ChanneledLogger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Save upserts the payload under key
func (r *ProjectRepository) Save(ctx context.Context, key string, payload []byte, elementCount int) error {
	query := `INSERT INTO projects (project_key, payload, element_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_key) DO UPDATE SET
			payload = excluded.payload,
			element_count = excluded.element_count,
			updated_at = excluded.updated_at`

	start := time.Now()
	r.logger.Database().Debug("Executing project upsert", "key", key, "elements", elementCount)

	now := r.now().UTC().Format(timeLayout)
	if _, err := r.db.ExecContext(ctx, query, key, string(payload), elementCount, now, now); err != nil {
		r.logger.Database().Error("Project upsert failed", "error", err.Error(), "key", key)
		return fmt.Errorf("failed to save project %q: %w", key, err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Project upsert completed", "key", key, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration, key)
	return nil
}

// Load returns the stored payload for key
func (r *ProjectRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT payload FROM projects WHERE project_key = ?`

	start := time.Now()
	var payload string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Database().Debug("Project not found", "key", key)
		return nil, false, nil
	}
	if err != nil {
		r.logger.Database().Error("Project load failed", "error", err.Error(), "key", key)
		return nil, false, fmt.Errorf("failed to load project %q: %w", key, err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), key)
	return []byte(payload), true, nil
}

// List returns every stored project, most recently updated first
func (r *ProjectRepository) List(ctx context.Context) ([]repositories.SavedProject, error) {
	query := `SELECT project_key, element_count, updated_at FROM projects ORDER BY updated_at DESC, project_key`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []repositories.SavedProject{}
	for rows.Next() {
		var p repositories.SavedProject
		var updated string
		if err := rows.Scan(&p.Key, &p.ElementCount, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		if t, err := time.ParseInLocation(timeLayout, updated, time.UTC); err == nil {
			p.UpdatedAt = t
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project rows: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), "")
	return projects, nil
}

// Delete removes the project stored under key. Missing keys are not an error.
func (r *ProjectRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM projects WHERE project_key = ?`
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		r.logger.Database().Error("Project delete failed", "error", err.Error(), "key", key)
		return fmt.Errorf("failed to delete project %q: %w", key, err)
	}
	r.logger.Database().Info("Project deleted", "key", key)
	return nil
}
