package constants

// Context Key Names
const (
	EmailContextKey     = "email"
	UsernameContextKey  = "username"
	RequestIDContextKey = "request_id"
)

// Cookie Names
const (
	StateCookie   = "estado_usuario"
	EmailCookie   = "email_usuario"
	SessionCookie = "sesion_token"
)

// Session States stored in the state cookie.
const (
	StateGuest      = "invitado"
	StateRegistered = "registrado"
)

// Session Token
const (
	DefaultSessionIssuer = "recetario"
	DefaultSessionSecret = "changeme"
	SessionTokenType     = "session"
)

// Log Categories
const (
	LogCategoryAuth    = "auth"
	LogEventLogin      = "login"
	LogEventLogout     = "logout"
	LogEventRegister   = "register"
	LogEventPassword   = "password_change"
	LogRedactedValue   = "[REDACTED]"
	LogRequestIDHeader = "request_id"
)

// Rate Limiting
const (
	RateLimitCategoryAuth = "auth"
	RateLimitRetryAfter   = "60"
)
