package auth

import (
	"context"
	"time"
)

// SessionData represents the authenticated session context for a request
type SessionData struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type sessionKey struct{}

// WithSession returns a context carrying the session
func WithSession(ctx context.Context, s *SessionData) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session of the request, if any
func SessionFromContext(ctx context.Context) (*SessionData, bool) {
	s, ok := ctx.Value(sessionKey{}).(*SessionData)
	return s, ok && s != nil
}
