// Package middleware provides gin middleware for the page builder API
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const workspaceIDKey = "workspaceId"

// Authorizer validates a workspace bearer token
type Authorizer interface {
	Authorize(workspaceID, token string) error
}

// WorkspaceAuth requires a bearer token issued for the :id workspace
func WorkspaceAuth(auth Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID := c.Param("id")
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		if err := auth.Authorize(workspaceID, token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid workspace token"})
			return
		}
		c.Set(workspaceIDKey, workspaceID)
		c.Next()
	}
}

// GetWorkspaceID returns the authorized workspace id
func GetWorkspaceID(c *gin.Context) (string, bool) {
	id, ok := c.Get(workspaceIDKey)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok && s != ""
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
