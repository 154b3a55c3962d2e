// Package security provides id generation and workspace token utilities
package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ElementIDPrefix starts every generated element id
const ElementIDPrefix = "el-"

// GenerateULID generates a new ULID string.
func GenerateULID() string {
	return ulid.Make().String()
}

// NewElementID returns a fresh element id. ULIDs are monotonic within a
// process so two inserts in the same millisecond never collide.
func NewElementID() string {
	return ElementIDPrefix + GenerateULID()
}

// NewWorkspaceID returns a fresh workspace id
func NewWorkspaceID() string {
	return "ws-" + GenerateULID()
}

// GenerateSecureKey creates a cryptographically secure random key and returns it as a hex string.
// Used for the JWT secret when none is configured.
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
