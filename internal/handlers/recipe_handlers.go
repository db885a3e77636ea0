package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/proyectoiso/recetario/internal/auth"
	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/utils"
)

// RecipeHandler handles recipe routes. Every route requires a registered session.
type RecipeHandler struct {
	recipeService RecipeServiceInterface
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeService RecipeServiceInterface) *RecipeHandler {
	if recipeService == nil {
		panic("recipeService cannot be nil")
	}
	return &RecipeHandler{
		recipeService: recipeService,
	}
}

// Submit creates a recipe, or edits one when modoEdicion is set
func (h *RecipeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	var in models.RecipeInput
	if err := utils.DecodeAndValidate(r, &in); err != nil {
		utils.RespondError(w, err)
		return
	}

	recipe, edited, err := h.recipeService.Submit(r.Context(), email, &in)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	message := constants.MsgRecipeCreated
	if edited {
		message = constants.MsgRecipeUpdated
	}
	utils.OK(w, message, utils.Payload{
		"receta": recipe,
	})
}

// Delete removes a recipe of the session account, identified by name
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	var req models.RecipeRefRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}
	if req.NombreReceta == "" {
		utils.RespondError(w, utils.NewValidationError("nombreReceta", constants.MsgMissingRecipeName))
		return
	}

	if err := h.recipeService.Delete(r.Context(), email, req.NombreReceta); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgRecipeDeleted, nil)
}

// Publish makes a recipe of the session account visible to the community
func (h *RecipeHandler) Publish(w http.ResponseWriter, r *http.Request) {
	email, ref, ok := h.refRequest(w, r)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Publish(r.Context(), email, ref)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgRecipePublished, utils.Payload{
		"receta": recipe,
	})
}

// Save bookmarks a recipe for the session account
func (h *RecipeHandler) Save(w http.ResponseWriter, r *http.Request) {
	email, ref, ok := h.refRequest(w, r)
	if !ok {
		return
	}

	if err := h.recipeService.Save(r.Context(), email, ref); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgRecipeSaved, nil)
}

// Unsave removes a bookmark of the session account
func (h *RecipeHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	email, ref, ok := h.refRequest(w, r)
	if !ok {
		return
	}

	if err := h.recipeService.Unsave(r.Context(), email, ref); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgRecipeUnsaved, nil)
}

// ListMine returns the recipes owned by the session account
func (h *RecipeHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	recipes := h.recipeService.ListMine(r.Context(), email)
	utils.OK(w, constants.MsgRecipesLoaded, utils.Payload{
		"recetas": recipes,
		"total":   len(recipes),
		"usuario": email,
	})
}

// ListCommunity returns the published recipes of other accounts
func (h *RecipeHandler) ListCommunity(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	recipes := h.recipeService.ListCommunity(r.Context(), email)
	utils.OK(w, constants.MsgRecipesLoaded, utils.Payload{
		"recetas": recipes,
		"total":   len(recipes),
	})
}

// ListSaved returns the recipes bookmarked by the session account
func (h *RecipeHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	recipes := h.recipeService.ListSaved(r.Context(), email)
	utils.OK(w, constants.MsgRecipesLoaded, utils.Payload{
		"recetas": recipes,
		"total":   len(recipes),
	})
}

// ListUser returns the own and saved recipes of the session account in one call
func (h *RecipeHandler) ListUser(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	utils.OK(w, constants.MsgRecipesLoaded, utils.Payload{
		"recetasPropias":   h.recipeService.ListMine(r.Context(), email),
		"recetasGuardadas": h.recipeService.ListSaved(r.Context(), email),
	})
}

// Detail returns a recipe with the caller's relation to it
func (h *RecipeHandler) Detail(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	detail, err := h.recipeService.Detail(r.Context(), email, pathParam(r, constants.ParamID))
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgRecipeLoaded, utils.Payload{
		"receta":         detail.Recipe,
		"guardada":       detail.Guardada,
		"es_propietario": detail.EsPropietario,
	})
}

// IDForName resolves a recipe name to its id
func (h *RecipeHandler) IDForName(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	name := pathParam(r, constants.ParamName)
	if name == "" {
		utils.RespondError(w, utils.NewValidationError(constants.ParamName, constants.MsgMissingRecipeName))
		return
	}

	id, err := h.recipeService.IDForName(r.Context(), email, name)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgRecipeIDFound, utils.Payload{
		"receta_id": id,
	})
}

// ExportPDF sends a recipe as a PDF download
func (h *RecipeHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	content, filename, err := h.recipeService.ExportPDF(r.Context(), email, pathParam(r, constants.ParamID))
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.Attachment(w, constants.ContentTypePDF, filename, content)
}

// Comment adds a comment of the session account to a recipe
func (h *RecipeHandler) Comment(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	var req models.CommentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}
	if !req.HasRef() {
		utils.RespondError(w, utils.NewValidationError("recetaId", constants.MsgMissingRecipeRef))
		return
	}

	comment, err := h.recipeService.Comment(r.Context(), email, req.Ref(), req.Text())
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgCommentAdded, utils.Payload{
		"comentario": comment,
	})
}

// Rate stores the score of the session account for a recipe
func (h *RecipeHandler) Rate(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	var req models.RateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}
	if !req.HasRef() {
		utils.RespondError(w, utils.NewValidationError("recetaId", constants.MsgMissingRecipeRef))
		return
	}

	summary, err := h.recipeService.Rate(r.Context(), email, req.Ref(), req.Puntuacion)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgRatingSaved, utils.Payload{
		"promedio": summary.Promedio,
		"total":    summary.Total,
	})
}

// Rating returns the aggregate rating of a recipe and the caller's own score
func (h *RecipeHandler) Rating(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return
	}

	summary, mine, err := h.recipeService.Rating(r.Context(), email, pathParam(r, constants.ParamID))
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.OK(w, constants.MsgRatingLoaded, utils.Payload{
		"promedio":      summary.Promedio,
		"total":         summary.Total,
		"mi_valoracion": mine,
	})
}

// refRequest reads the session email and a recipe reference body.
// It writes the error response and returns false when either is missing.
func (h *RecipeHandler) refRequest(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	email, ok := auth.GetEmail(r)
	if !ok {
		utils.RespondError(w, utils.NewNotAuthenticatedError())
		return "", "", false
	}

	var req models.RecipeRefRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, err)
		return "", "", false
	}
	if !req.HasRef() {
		utils.RespondError(w, utils.NewValidationError("recetaId", constants.MsgMissingRecipeRef))
		return "", "", false
	}

	return email, req.Ref(), true
}

// pathParam returns a decoded URL parameter. Recipe names may contain spaces and accents.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	return raw
}
