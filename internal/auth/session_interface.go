package auth

import (
	"net/http"

	"github.com/proyectoiso/recetario/internal/config"
)

// SessionValidator defines the interface for session token validation
type SessionValidator interface {
	// ValidateToken validates a session token and returns its claims if valid
	ValidateToken(tokenString string) (*SessionClaims, error)

	// GetConfig returns the session settings
	GetConfig() *config.SessionSettings
}

// CookieWriter writes the session cookies of a response
type CookieWriter interface {
	// Issue signs a session for the account and sets the registered cookies
	Issue(w http.ResponseWriter, email, username string) error

	// Logout ends the session and marks the browser as a guest
	Logout(w http.ResponseWriter)

	// SetGuest marks the browser as a guest
	SetGuest(w http.ResponseWriter)
}
