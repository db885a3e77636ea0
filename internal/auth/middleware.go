// Package auth provides session authentication and authorization for the recetario API.
package auth

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/utils"
)

// ContextKey is a custom type for context keys to prevent collisions.
type ContextKey string

// Context keys for storing authenticated user information and request metadata.
const (
	// EmailContextKey is the context key for storing the authenticated user's email.
	EmailContextKey ContextKey = constants.EmailContextKey

	// UsernameContextKey is the context key for storing the authenticated username.
	UsernameContextKey ContextKey = constants.UsernameContextKey

	// RequestIDContextKey is the context key for storing the unique request ID.
	RequestIDContextKey ContextKey = constants.RequestIDContextKey
)

// AuthProvider defines methods for different authentication mechanisms.
type AuthProvider interface {
	// Authenticate checks the request and returns user information if valid.
	//
	// Parameters:
	//   - r: The HTTP request containing authentication credentials
	//
	// Returns:
	//   - email: The authenticated user's email
	//   - username: The authenticated user's display name
	//   - error: An error if authentication fails, nil if successful
	Authenticate(r *http.Request) (string, string, error)
}

// CookieAuthProvider authenticates requests by their signed sesion_token cookie.
// The email_usuario and estado_usuario cookies are never consulted.
type CookieAuthProvider struct {
	sessions SessionValidator
}

// NewCookieAuthProvider creates a new CookieAuthProvider with the specified validator.
func NewCookieAuthProvider(sessions SessionValidator) *CookieAuthProvider {
	return &CookieAuthProvider{
		sessions: sessions,
	}
}

// Authenticate implements the AuthProvider interface for cookie sessions.
func (p *CookieAuthProvider) Authenticate(r *http.Request) (string, string, error) {
	cookie, err := r.Cookie(constants.SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", "", ErrMissingSession
	}

	claims, err := p.sessions.ValidateToken(cookie.Value)
	if err != nil {
		return "", "", err
	}

	return claims.Email, claims.Username, nil
}

// withRequestID stores the request ID in the context.
// The id set by chi's RequestID middleware is reused when present.
func withRequestID(r *http.Request) (context.Context, string) {
	requestID := chimw.GetReqID(r.Context())
	if requestID == "" {
		requestID = r.Header.Get(constants.HeaderXRequestID)
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return context.WithValue(r.Context(), RequestIDContextKey, requestID), requestID
}

// authenticate tries each provider in order and returns the enriched context on success
func authenticate(ctx context.Context, r *http.Request, providers []AuthProvider) (context.Context, string, error) {
	var lastErr error = ErrMissingSession
	for _, provider := range providers {
		email, username, err := provider.Authenticate(r)
		if err == nil {
			ctx = context.WithValue(ctx, EmailContextKey, email)
			ctx = context.WithValue(ctx, UsernameContextKey, username)
			return ctx, email, nil
		}
		lastErr = err
	}
	return ctx, "", lastErr
}

// RequireSession is a middleware that requires a registered session.
// Requests without a valid session get 400 USUARIO_NO_AUTENTICADO.
//
// Parameters:
//   - providers: One or more authentication providers to try
//
// Returns:
//   - A middleware function that requires authentication
func RequireSession(providers ...AuthProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, requestID := withRequestID(r)

			ctx, email, err := authenticate(ctx, r, providers)
			if err != nil {
				log.Debug().
					Err(err).
					Str(constants.RequestIDContextKey, requestID).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Authentication failed")

				utils.RespondError(w, utils.NewNotAuthenticatedError())
				return
			}

			log.Debug().
				Str(constants.EmailContextKey, utils.MaskEmail(email)).
				Str(constants.RequestIDContextKey, requestID).
				Str("path", r.URL.Path).
				Msg("User authenticated")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession attempts authentication but continues even if it fails.
// When the browser carries no estado_usuario cookie the guest marker is set.
//
// Parameters:
//   - cookies: Writes the guest marker, may be nil
//   - providers: One or more authentication providers to try
//
// Returns:
//   - A middleware function that attempts but doesn't require authentication
func OptionalSession(cookies CookieWriter, providers ...AuthProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := withRequestID(r)

			ctx, _, _ = authenticate(ctx, r, providers)

			if cookies != nil {
				if _, err := r.Cookie(constants.StateCookie); err != nil {
					cookies.SetGuest(w)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetEmail extracts the authenticated email from the request context.
func GetEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(EmailContextKey).(string)
	return email, ok && email != ""
}

// GetUsername extracts the username from the request context.
func GetUsername(r *http.Request) (string, bool) {
	username, ok := r.Context().Value(UsernameContextKey).(string)
	return username, ok
}

// GetRequestID extracts the request ID from the request context.
func GetRequestID(r *http.Request) (string, bool) {
	requestID, ok := r.Context().Value(RequestIDContextKey).(string)
	return requestID, ok
}

// IsRegistered reports whether the request carries a validated session
func IsRegistered(r *http.Request) bool {
	_, ok := GetEmail(r)
	return ok
}

// CurrentEmail returns the authenticated email or an empty string for guests
func CurrentEmail(r *http.Request) string {
	email, _ := GetEmail(r)
	return email
}

// WithIdentity returns a copy of ctx carrying an authenticated identity.
// Handlers and tests use it to build requests that passed RequireSession.
func WithIdentity(ctx context.Context, email, username string) context.Context {
	ctx = context.WithValue(ctx, EmailContextKey, email)
	return context.WithValue(ctx, UsernameContextKey, username)
}
