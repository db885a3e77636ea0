package handlers

import (
	"net/http"

	"github.com/proyectoiso/recetario/internal/auth"
	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/utils"
)

// AuthHandler handles account and session routes
type AuthHandler struct {
	authService AuthServiceInterface
	cookies     auth.CookieWriter
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthServiceInterface, cookies auth.CookieWriter) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	if cookies == nil {
		panic("cookies cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
	}
}

// Register handles account creation
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	account, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, constants.MsgAccountCreated, utils.Payload{
		"usuario_creado": account.NombreUsuario,
	})
}

// Login checks the credentials and issues the session cookies
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	account, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if err := h.cookies.Issue(w, account.Email, account.NombreUsuario); err != nil {
		utils.RespondError(w, utils.NewInternalServerError(err))
		return
	}

	utils.OK(w, constants.MsgLoginOK, utils.Payload{
		"usuario": account.Email,
	})
}

// Logout clears the session cookies and marks the browser as a guest.
// It succeeds without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if email, ok := auth.GetEmail(r); ok {
		utils.LogAuth(constants.LogEventLogout, email, true, "")
	}

	h.cookies.Logout(w)
	utils.OK(w, constants.MsgLogoutOK, nil)
}

// SessionState reports whether the browser holds a registered session
func (h *AuthHandler) SessionState(w http.ResponseWriter, r *http.Request) {
	registered := auth.IsRegistered(r)
	username, _ := auth.GetUsername(r)

	state := constants.StateGuest
	if registered {
		state = constants.StateRegistered
	}

	utils.OK(w, constants.MsgSessionState, utils.Payload{
		"estado":         state,
		"es_registrado":  registered,
		"es_invitado":    !registered,
		"email_usuario":  auth.CurrentEmail(r),
		"nombre_usuario": username,
	})
}

// ChangePassword replaces the password of the session account
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	var req models.ChangePasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	if err := h.authService.ChangePassword(r.Context(), email, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgPasswordChanged, nil)
}
