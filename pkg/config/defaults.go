// Package config provides centralized default values for the page builder
// service. Every value can be overridden from the environment or a .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

// loadEnvFile reads .env without overriding variables already set
func loadEnvFile() {
	envLoaded.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
		if err := godotenv.Load(); err != nil {
			log.Printf("Failed to load .env file: %v", err)
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue && !strings.Contains(strings.ToUpper(key), "SECRET") {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	GinMode            string
	CORSAllowOrigins   []string

	// Project Store
	DBDriver           string
	DBDSN              string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
	SlowQueryThreshold time.Duration
	ProjectKey         string

	// Workspaces
	MaxWorkspaces            int
	WorkspaceIdleTTL         time.Duration
	WorkspaceCleanupInterval time.Duration
	WorkspaceTokenTTL        time.Duration
	JWTSecret                string

	// Logging
	LogLevel      string
	LogDirectory  string
	LogToFile     bool
	LogToConsole  bool
	LogJSONFormat bool
)

func init() {
	loadEnvFile()

	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	GinMode = getEnvString("GIN_MODE", "release")
	CORSAllowOrigins = getEnvList("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"})

	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBDSN = getEnvString("DB_DSN", "file:pagebuilder.db?_foreign_keys=on")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetime = time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)
	ProjectKey = getEnvString("PROJECT_KEY", "webbuilder_project")

	MaxWorkspaces = getEnvInt("MAX_WORKSPACES", 1000)
	WorkspaceIdleTTL = getEnvDuration("WORKSPACE_IDLE_TTL", 2*time.Hour)
	WorkspaceCleanupInterval = getEnvDuration("WORKSPACE_CLEANUP_INTERVAL", 5*time.Minute)
	WorkspaceTokenTTL = getEnvDuration("WORKSPACE_TOKEN_TTL", 24*time.Hour)
	JWTSecret = getEnvString("JWT_SECRET", "")

	LogLevel = getEnvString("LOG_LEVEL", "INFO")
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", true)
	LogToConsole = getEnvBool("LOG_TO_CONSOLE", true)
	LogJSONFormat = getEnvBool("LOG_JSON", true)
}
