// Package workspaces keeps the live editing state of every open workspace in
// memory. Each workspace is guarded by its own mutex so edits to one never
// wait on another.
package workspaces

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
)

var (
	// ErrWorkspaceNotFound is returned for an unknown or evicted workspace
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrWorkspaceLimit is returned when the store is full
	ErrWorkspaceLimit = errors.New("workspace limit reached")
	// ErrWorkspaceExists is returned when creating a duplicate id
	ErrWorkspaceExists = errors.New("workspace already exists")
)

type entry struct {
	mu         sync.Mutex
	state      builder.State
	createdAt  time.Time
	lastAccess time.Time
	removed    bool
}

// Info summarises a workspace without exposing its state
type Info struct {
	ID           string    `json:"id"`
	ElementCount int       `json:"elementCount"`
	Preview      bool      `json:"previewMode"`
	CreatedAt    time.Time `json:"createdAt"`
	LastAccess   time.Time `json:"lastAccess"`
}

// Store is a concurrency-safe registry of workspace states
type Store struct {
	mu         sync.RWMutex
	workspaces map[string]*entry
	max        int
	now        func() time.Time
}

// NewStore creates a store holding at most max workspaces; max <= 0 means
// unbounded
func NewStore(max int) *Store {
	return &Store{
		workspaces: make(map[string]*entry),
		max:        max,
		now:        time.Now,
	}
}

// Create registers a workspace with an initial state
func (s *Store) Create(id string, st builder.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.workspaces[id]; exists {
		return ErrWorkspaceExists
	}
	if s.max > 0 && len(s.workspaces) >= s.max {
		return ErrWorkspaceLimit
	}
	now := s.now()
	s.workspaces[id] = &entry{state: st.Clone(), createdAt: now, lastAccess: now}
	return nil
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.workspaces[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	return e, nil
}

// Get returns a copy of the workspace state
func (s *Store) Get(id string) (builder.State, error) {
	e, err := s.lookup(id)
	if err != nil {
		return builder.State{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return builder.State{}, ErrWorkspaceNotFound
	}
	e.lastAccess = s.now()
	return e.state.Clone(), nil
}

// Update applies fn to the workspace state under the workspace lock. The
// returned state replaces the stored one only when fn succeeds, so a failed
// step leaves the workspace untouched.
func (s *Store) Update(id string, fn func(builder.State) (builder.State, error)) (builder.State, error) {
	e, err := s.lookup(id)
	if err != nil {
		return builder.State{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return builder.State{}, ErrWorkspaceNotFound
	}

	e.lastAccess = s.now()
	next, err := fn(e.state.Clone())
	if err != nil {
		return e.state.Clone(), err
	}
	e.state = next
	return next.Clone(), nil
}

// Delete removes a workspace, reporting whether it existed
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	e, ok := s.workspaces[id]
	delete(s.workspaces, id)
	s.mu.Unlock()

	if ok {
		e.mu.Lock()
		e.removed = true
		e.mu.Unlock()
	}
	return ok
}

// EvictIdle removes workspaces not accessed within ttl and returns their ids
func (s *Store) EvictIdle(ttl time.Duration) []string {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	for id, e := range s.workspaces {
		// Skip workspaces that are mid-update.
		if !e.mu.TryLock() {
			continue
		}
		if e.lastAccess.Before(cutoff) {
			e.removed = true
			delete(s.workspaces, id)
			evicted = append(evicted, id)
		}
		e.mu.Unlock()
	}
	sort.Strings(evicted)
	return evicted
}

// Len returns the number of open workspaces
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}

// List returns a summary of every open workspace ordered by id
func (s *Store) List() []Info {
	s.mu.RLock()
	ids := make([]string, 0, len(s.workspaces))
	entries := make(map[string]*entry, len(s.workspaces))
	for id, e := range s.workspaces {
		ids = append(ids, id)
		entries[id] = e
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	infos := make([]Info, 0, len(ids))
	for _, id := range ids {
		e := entries[id]
		e.mu.Lock()
		if !e.removed {
			infos = append(infos, Info{
				ID:           id,
				ElementCount: len(e.state.Project),
				Preview:      e.state.Preview,
				CreatedAt:    e.createdAt,
				LastAccess:   e.lastAccess,
			})
		}
		e.mu.Unlock()
	}
	return infos
}
