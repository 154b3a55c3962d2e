package database

import (
	"time"

	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder/pkg/config"
)

// GetSlowQueryThreshold returns the configured slow query threshold
func GetSlowQueryThreshold() time.Duration {
	return config.SlowQueryThreshold
}

// CheckAndLogSlowQuery logs the query on the slow query channel when its
// duration exceeds the threshold
func CheckAndLogSlowQuery(logger *logging.ChanneledLogger, query string, duration time.Duration, key string) {
	if duration > GetSlowQueryThreshold() {
		logger.LogSlowQuery(query, duration, key)
	}
}
