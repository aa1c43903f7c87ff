package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/internal/auth"
)

const identityKey = "identity"

// RequireIdentity rejects anonymous requests and stashes the proxied
// identity in the gin context.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := auth.FromRequest(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// RequireAdmin gates the back-office routes on the profile role check.
func RequireAdmin(roles auth.RoleChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := auth.FromRequest(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
			return
		}
		isAdmin, err := roles.IsAdmin(c.Request.Context(), ident.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "role check failed"})
			return
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Accès refusé. Vous n'êtes pas administrateur."})
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

func identityFrom(c *gin.Context) auth.Identity {
	v, _ := c.Get(identityKey)
	ident, _ := v.(auth.Identity)
	return ident
}
