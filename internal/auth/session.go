package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/proyectoiso/recetario/internal/config"
	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/utils"
)

// Session errors
var (
	ErrInvalidSigningMethod = errors.New("invalid signing method")
	ErrMissingSession       = errors.New("no session cookie")
)

// SessionClaims represents the claims in a session token
type SessionClaims struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// SessionService signs and validates session tokens and writes the session cookies.
// The estado_usuario and email_usuario cookies are display hints for the frontend;
// only the signed sesion_token identifies a user.
type SessionService struct {
	Config *config.SessionSettings
	now    func() time.Time
}

// NewSessionService creates a new SessionService instance
func NewSessionService(cfg *config.SessionSettings) *SessionService {
	return &SessionService{
		Config: cfg,
		now:    time.Now,
	}
}

// GetConfig returns the session settings, falling back to defaults when unset
func (s *SessionService) GetConfig() *config.SessionSettings {
	if s.Config == nil {
		return &config.SessionSettings{
			Secret: constants.DefaultSessionSecret,
			Expiry: constants.DefaultSessionExpiry,
			Issuer: constants.DefaultSessionIssuer,
		}
	}
	return s.Config
}

// GenerateToken creates a signed session token for an account.
// Returns the token and its unique id.
func (s *SessionService) GenerateToken(email, username string) (string, string, error) {
	cfg := s.GetConfig()
	jwtID := uuid.New().String()

	now := s.now()
	claims := SessionClaims{
		Email:     strings.TrimSpace(email),
		Username:  username,
		TokenType: constants.SessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   strings.TrimSpace(email),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiry)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jwtID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, jwtID, nil
}

// ValidateToken validates a session token and returns its claims if valid
func (s *SessionService) ValidateToken(tokenString string) (*SessionClaims, error) {
	cfg := s.GetConfig()

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, utils.NewInvalidTokenError()
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.TokenType != constants.SessionTokenType || claims.Email == "" {
		return nil, utils.NewInvalidTokenError()
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return nil, utils.NewInvalidTokenError()
	}

	return claims, nil
}

// Issue signs a session for the account and sets the registered cookies
func (s *SessionService) Issue(w http.ResponseWriter, email, username string) error {
	token, _, err := s.GenerateToken(email, username)
	if err != nil {
		return err
	}

	http.SetCookie(w, s.cookie(constants.SessionCookie, token, true))
	http.SetCookie(w, s.cookie(constants.StateCookie, constants.StateRegistered, false))
	http.SetCookie(w, s.cookie(constants.EmailCookie, strings.TrimSpace(email), false))
	return nil
}

// SetGuest marks the browser as a guest
func (s *SessionService) SetGuest(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie(constants.StateCookie, constants.StateGuest, false))
}

// Logout expires the session and email cookies and marks the browser as a guest
func (s *SessionService) Logout(w http.ResponseWriter) {
	s.expire(w, constants.SessionCookie)
	s.expire(w, constants.EmailCookie)
	s.SetGuest(w)
}

func (s *SessionService) expire(w http.ResponseWriter, name string) {
	c := s.cookie(name, "", name == constants.SessionCookie)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func (s *SessionService) cookie(name, value string, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   constants.CookieMaxAgeSeconds,
		HttpOnly: httpOnly,
		Secure:   s.GetConfig().SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
