package handlers

import (
	"net/http"

	"github.com/proyectoiso/recetario/internal/auth"
	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/utils"
)

// MenuHandler handles the weekly menu routes
type MenuHandler struct {
	menuService MenuServiceInterface
}

// NewMenuHandler creates a new MenuHandler
func NewMenuHandler(menuService MenuServiceInterface) *MenuHandler {
	if menuService == nil {
		panic("menuService cannot be nil")
	}
	return &MenuHandler{
		menuService: menuService,
	}
}

// Get returns the saved menu of the session account, null when none is saved
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	menu, err := h.menuService.Get(r.Context(), email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgMenuLoaded, utils.Payload{
		"menuSemanal": menu,
	})
}

// Generate returns a random menu built from the caller's recipes. It is not saved.
func (h *MenuHandler) Generate(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	utils.OK(w, constants.MsgMenuGenerated, utils.Payload{
		"menuSemanal": h.menuService.Generate(r.Context(), email),
	})
}

// Save stores a menu built by the client
func (h *MenuHandler) Save(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	var req models.MenuRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}

	if err := h.menuService.Save(r.Context(), email, req.MenuSemanal); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgMenuSaved, nil)
}

// Delete removes the saved menu of the session account
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	if err := h.menuService.Delete(r.Context(), email); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgMenuDeleted, nil)
}
