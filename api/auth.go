package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// Authentication is a gin middleware checking a bearer API key against the
// API_KEY environment variable.
func (server *Server) Authentication(c *gin.Context) {
	authorizationHeader := c.GetHeader("Authorization")

	if len(authorizationHeader) == 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "msg": "Authorization header is not provided"})
		return
	}

	fields := strings.Fields(authorizationHeader)
	if len(fields) < 2 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "msg": "Invalid authorization header format"})
		return
	}

	authorizationType := strings.ToLower(fields[0])
	if authorizationType != "bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "msg": "unsupported authorization type " + authorizationType})
		return
	}

	expected := os.Getenv("API_KEY")
	if expected == "" {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "msg": "API key is not configured"})
		return
	}
	if fields[1] != expected {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "msg": "Please input a valid API Key"})
		return
	}

	c.Next()
}
