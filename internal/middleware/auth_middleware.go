package middleware

import (
	"net/http"

	"github.com/proyectoiso/recetario/internal/auth"
)

// SessionAuth is a middleware that requires a registered session cookie
func SessionAuth(sessions auth.SessionValidator) func(http.Handler) http.Handler {
	provider := auth.NewCookieAuthProvider(sessions)
	return auth.RequireSession(provider)
}

// OptionalSessionAuth resolves the session when present and marks the browser
// as a guest when it carries no state cookie
func OptionalSessionAuth(sessions auth.SessionValidator, cookies auth.CookieWriter) func(http.Handler) http.Handler {
	provider := auth.NewCookieAuthProvider(sessions)
	return auth.OptionalSession(cookies, provider)
}
