package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles vérifie que le rôle du token fait partie des rôles
// autorisés. À placer après AuthRequired.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get("role")
		roleStr, _ := role.(string)
		if !exists || !allowed[roleStr] {
			c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé pour ce rôle"})
			c.Abort()
			return
		}
		c.Next()
	}
}
