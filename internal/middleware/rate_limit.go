package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bazario_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3

	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
)

// authRateLimit applique une fenêtre fixe par IP dans Redis
func authRateLimit(prefix string, maxAttempts int, cooldown time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if database.Redis == nil {
			c.Next()
			return
		}

		ctx := context.Background()
		key := prefix + ":" + c.ClientIP()

		attempts, _ := database.Redis.Get(ctx, key).Int()
		if attempts >= maxAttempts {
			ttl := database.Redis.TTL(ctx, key).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives. Réessayez dans %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		pipe := database.Redis.Pipeline()
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, cooldown)
		pipe.Exec(ctx)

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", maxAttempts-attempts-1))
		c.Next()
	}
}

// LoginRateLimit limite les tentatives de connexion par IP
func LoginRateLimit() gin.HandlerFunc {
	return authRateLimit("login_attempts", LoginMaxAttempts, LoginCooldown)
}

// RegisterRateLimit limite les inscriptions par IP
func RegisterRateLimit() gin.HandlerFunc {
	return authRateLimit("register_attempts", RegisterMaxAttempts, RegisterCooldown)
}
