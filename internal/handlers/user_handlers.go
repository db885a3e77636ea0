package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/auth"
	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/utils"
)

// UserHandler handles profile routes of the session account
type UserHandler struct {
	profileService ProfileServiceInterface
	cookies        auth.CookieWriter
}

// NewUserHandler creates a new UserHandler.
// cookies re-issues the session when the username changes.
func NewUserHandler(profileService ProfileServiceInterface, cookies auth.CookieWriter) *UserHandler {
	if profileService == nil {
		panic("profileService cannot be nil")
	}
	if cookies == nil {
		panic("cookies cannot be nil")
	}
	return &UserHandler{
		profileService: profileService,
		cookies:        cookies,
	}
}

// GetProfile returns the profile of the session account
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgProfileLoaded, utils.Payload{
		"perfil": profile,
	})
}

// UpdateUser renames the session account
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	var req models.UpdateUserRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	account, err := h.profileService.UpdateUser(r.Context(), email, &req)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	// The session token carries the username
	if err := h.cookies.Issue(w, account.Email, account.NombreUsuario); err != nil {
		utils.RespondError(w, utils.NewInternalServerError(err))
		return
	}

	utils.OK(w, constants.MsgUserUpdated, utils.Payload{
		"usuario": account,
	})
}

// UploadPhoto stores the multipart archivo field as the profile photo
func (h *UserHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodySize)
	if err := r.ParseMultipartForm(constants.MaxMultipartMemory); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			utils.RespondError(w, utils.NewRuleError(constants.CodeImageTooLarge, constants.MsgImageTooLarge))
			return
		}
		utils.RespondError(w, utils.NewBadRequestError(constants.MsgMissingFile))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn().Err(err).Msg("Failed to remove multipart temp files")
		}
	}()

	file, header, err := r.FormFile(constants.FormFieldFile)
	if err != nil {
		utils.RespondError(w, utils.NewBadRequestError(constants.MsgMissingFile))
		return
	}
	defer file.Close()

	photoURL, err := h.profileService.UploadPhoto(r.Context(), email, file, header)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgPhotoUploaded, utils.Payload{
		"fotoPerfil": photoURL,
	})
}

// DeletePhoto clears the profile photo of the session account
func (h *UserHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	if err := h.profileService.DeletePhoto(r.Context(), email); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgPhotoDeleted, nil)
}
