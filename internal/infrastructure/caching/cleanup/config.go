package cleanup

import (
	"time"

	"github.com/AtRiskMedia/pagebuilder/pkg/config"
)

// Config holds cleanup worker configuration, sourced from the central config package.
type Config struct {
	CleanupInterval  time.Duration
	WorkspaceIdleTTL time.Duration
}

// NewConfig creates a new cleanup configuration by reading values
// from the already-initialized variables in the centralized /pkg/config package.
func NewConfig() *Config {
	return &Config{
		CleanupInterval:  config.WorkspaceCleanupInterval,
		WorkspaceIdleTTL: config.WorkspaceIdleTTL,
	}
}
