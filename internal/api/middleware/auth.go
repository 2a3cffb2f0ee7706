package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/Marga-Ghale/ora-projects/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey = "userID"
	claimsKey = "tokenClaims"
)

// AuthMiddleware validates JWT tokens and sets user context
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			log.Printf("❌ [Auth] Missing or malformed Authorization header - Path: %s", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			log.Printf("❌ [Auth] Invalid token - Path: %s, Error: %v", c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware sets user context when a valid token is present and never rejects.
func OptionalAuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		if claims, err := authService.ValidateToken(c.Request.Context(), tokenString); err == nil {
			c.Set(userIDKey, claims.Subject)
			c.Set(claimsKey, claims)
		}
		c.Next()
	}
}

// Extract token from "Bearer <token>"
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// GetIdentity returns the caller for this request; the zero Identity when unauthenticated.
func GetIdentity(c *gin.Context) service.Identity {
	return service.Identity{UserID: c.GetString(userIDKey)}
}

// GetClaims returns the validated access token claims, or nil.
func GetClaims(c *gin.Context) *jwt.RegisteredClaims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*jwt.RegisteredClaims); ok {
			return claims
		}
	}
	return nil
}

// RequireIdentity writes a 401 and returns false if the request is unauthenticated.
func RequireIdentity(c *gin.Context) (service.Identity, bool) {
	identity := GetIdentity(c)
	if !identity.IsAuthenticated() {
		log.Printf("❌ [Auth] User not authenticated - Path: %s", c.Request.URL.Path)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return service.Identity{}, false
	}
	return identity, true
}
