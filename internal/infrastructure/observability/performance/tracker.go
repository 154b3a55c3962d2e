package performance

import (
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"
)

// Tracker aggregates completed markers per operation and keeps a bounded
// window of the most recent ones
type Tracker struct {
	mu      sync.RWMutex
	stats   map[string]*OperationStats
	recent  []Marker
	active  int
	started time.Time
	config  *TrackerConfig
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxRecent     int           `json:"maxRecent"`
	SlowThreshold time.Duration `json:"slowThreshold"`

	// Logger receives a warning for every slow operation, if set
	Logger *slog.Logger `json:"-"`
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxRecent:     200,
		SlowThreshold: 500 * time.Millisecond,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		stats:   make(map[string]*OperationStats),
		started: time.Now(),
		config:  config,
	}
}

// StartOperation creates a marker that reports back when completed
func (t *Tracker) StartOperation(operation, workspaceID string) *Marker {
	t.mu.Lock()
	t.active++
	t.mu.Unlock()

	return &Marker{
		Operation:   operation,
		WorkspaceID: workspaceID,
		StartTime:   time.Now(),
		Success:     true,
		tracker:     t,
	}
}

func (t *Tracker) record(m *Marker) {
	if m.Duration > t.config.SlowThreshold && t.config.Logger != nil {
		t.config.Logger.Warn("Slow operation",
			slog.String("operation", m.Operation),
			slog.String("workspaceId", m.WorkspaceID),
			slog.Duration("duration", m.Duration),
			slog.Bool("success", m.Success),
		)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.active--
	s, ok := t.stats[m.Operation]
	if !ok {
		s = &OperationStats{Operation: m.Operation}
		t.stats[m.Operation] = s
	}
	s.Count++
	s.Total += m.Duration
	if m.Duration > s.Max {
		s.Max = m.Duration
	}
	if !m.Success {
		s.Failures++
	}
	if m.Duration > t.config.SlowThreshold {
		s.Slow++
	}

	t.recent = append(t.recent, *m)
	if over := len(t.recent) - t.config.MaxRecent; over > 0 {
		t.recent = append([]Marker(nil), t.recent[over:]...)
	}
}

// Operations returns the aggregated stats ordered by operation name
func (t *Tracker) Operations() []OperationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]OperationStats, 0, len(t.stats))
	for _, s := range t.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// RecentMarkers returns the most recent completed markers for a workspace;
// an empty id returns all of them
func (t *Tracker) RecentMarkers(workspaceID string) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Marker
	for _, m := range t.recent {
		if workspaceID == "" || m.WorkspaceID == workspaceID {
			out = append(out, m)
		}
	}
	return out
}

// Health derives a status from the recent window
func (t *Tracker) Health() HealthStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.recent) == 0 {
		return HealthUnknown
	}
	var failed, slow int
	for _, m := range t.recent {
		if !m.Success {
			failed++
		} else if m.Duration > t.config.SlowThreshold {
			slow++
		}
	}
	total := float64(len(t.recent))
	switch {
	case float64(failed)/total > 0.1:
		return HealthUnhealthy
	case float64(failed)/total > 0.05 || float64(slow)/total > 0.2:
		return HealthDegraded
	}
	return HealthHealthy
}

// GetOverallStats returns overall tracker statistics
func (t *Tracker) GetOverallStats() map[string]any {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	t.mu.RLock()
	active := t.active
	recent := len(t.recent)
	ops := len(t.stats)
	t.mu.RUnlock()

	return map[string]any{
		"trackerUptime":    time.Since(t.started).String(),
		"activeOperations": active,
		"recentMarkers":    recent,
		"operationTypes":   ops,
		"health":           t.Health(),
		"memoryUsageMB":    memStats.Alloc / (1024 * 1024),
		"systemMemoryMB":   memStats.Sys / (1024 * 1024),
	}
}
