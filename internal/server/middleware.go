package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/storefront-dev/storefront/internal/auth"
	"github.com/storefront-dev/storefront/internal/models"
)

const (
	bearerPrefix = "Bearer "
)

var (
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrRevokedToken      = errors.New("token has been revoked")
	ErrUserNotFound      = errors.New("user not found")
)

// GetSessionData returns the session attached by SessionMiddleware
func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	return auth.SessionFromContext(c.Request.Context())
}

// extractBearerToken returns "" without error when no header is present
func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", nil
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// respondWithError aborts with a GraphQL shaped error body so GraphQL
// clients surface the message
func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Str("client_ip", c.ClientIP()).Msg(message)
	c.AbortWithStatusJSON(statusCode, gin.H{
		"errors": []gin.H{{"message": message}},
	})
}

// SessionMiddleware authenticates a bearer token when one is sent.
// Requests without an Authorization header continue anonymously.
func SessionMiddleware(issuer *auth.Issuer, db *gorm.DB, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			message := "Invalid authorization header format"
			if errors.Is(err, ErrEmptyToken) {
				message = "Empty token"
			}
			respondWithError(c, log, http.StatusUnauthorized, err, message)
			return
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := issuer.ValidateToken(token)
		if err != nil {
			respondWithError(c, log, http.StatusUnauthorized, errors.Join(ErrInvalidToken, err), "Invalid or expired token")
			return
		}

		tx := db.WithContext(c.Request.Context())

		var revoked int64
		if err := tx.Model(&models.RevokedToken{}).Where("token_id = ?", claims.ID).Count(&revoked).Error; err != nil {
			log.Error().Err(err).Msg("Failed to check token revocation")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"errors": []gin.H{{"message": "Internal server error"}},
			})
			return
		}
		if revoked > 0 {
			respondWithError(c, log, http.StatusUnauthorized, ErrRevokedToken, "Invalid or expired token")
			return
		}

		var user models.User
		if err := tx.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			respondWithError(c, log, http.StatusUnauthorized, ErrUserNotFound, "User not found")
			return
		}

		session := &auth.SessionData{
			UserID:    user.ID,
			Email:     user.Email,
			TokenID:   claims.ID,
			ExpiresAt: claims.ExpiresAt.Time,
		}
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))

		c.Next()
	}
}

// RateLimitMiddleware rejects clients exceeding their request budget
func RateLimitMiddleware(limiter *ipRateLimiter, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			respondWithError(c, log, http.StatusTooManyRequests, errors.New("rate limited"), "Too many requests")
			return
		}
		c.Next()
	}
}
