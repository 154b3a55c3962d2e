// Package repositories defines the persistence ports used by the application
// layer. Implementations live under internal/infrastructure/persistence.
package repositories

import (
	"context"
	"time"
)

// SavedProject describes one stored project without its payload
type SavedProject struct {
	Key          string    `json:"key"`
	ElementCount int       `json:"elementCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProjectStore persists serialized projects under string keys. Payloads are
// opaque to the store; decoding and validation belong to the caller.
type ProjectStore interface {
	// Save replaces whatever is stored under key
	Save(ctx context.Context, key string, payload []byte, elementCount int) error
	// Load returns found=false, never an error, when nothing is stored
	Load(ctx context.Context, key string) (payload []byte, found bool, err error)
	List(ctx context.Context) ([]SavedProject, error)
	Delete(ctx context.Context, key string) error
}
