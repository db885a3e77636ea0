package models

import (
	"strings"

	"github.com/proyectoiso/recetario/internal/utils"
)

// Recipe represents a recipe stored in recetas.json
type Recipe struct {
	ID               string     `json:"id,omitempty"`
	NombreReceta     string     `json:"nombreReceta"`
	Descripcion      FlexString `json:"descripcion"`
	Ingredientes     FlexString `json:"ingredientes"`
	Alergenos        FlexString `json:"alergenos"`
	PaisOrigen       FlexString `json:"paisOrigen"`
	PasosAseguir     FlexString `json:"pasosAseguir"`
	TurnoComida      FlexString `json:"turnoComida"`
	Duracion         FlexString `json:"duracion"`
	Dificultad       FlexString `json:"dificultad"`
	FotoReceta       string     `json:"fotoReceta"`
	Usuario          string     `json:"usuario"`
	Publicada        bool       `json:"publicada"`
	UsuariosGuardado []string   `json:"usuariosGuardado"`
	Comentarios      []Comment  `json:"comentarios"`
	Valoraciones     []Rating   `json:"valoraciones"`
	FechaCreacion    string     `json:"fechaCreacion,omitempty"`
}

// Comment is a single entry of a recipe's comentarios list
type Comment struct {
	Usuario string `json:"usuario"`
	Texto   string `json:"texto"`
	Fecha   string `json:"fecha"`
}

// Rating is a user's score of a recipe. A user has at most one rating per recipe.
type Rating struct {
	Usuario    string `json:"usuario"`
	Puntuacion int    `json:"puntuacion"`
}

// RatingSummary is the aggregate of a recipe's ratings
type RatingSummary struct {
	Promedio float64 `json:"promedio"`
	Total    int     `json:"total"`
}

// RecipeInput is the payload of POST /crear-receta.
// When ModoEdicion is set the recipe named NombreRecetaOriginal is replaced.
type RecipeInput struct {
	NombreReceta         string     `json:"nombreReceta" validate:"required,max=200"`
	Descripcion          FlexString `json:"descripcion"`
	Ingredientes         FlexString `json:"ingredientes"`
	Alergenos            FlexString `json:"alergenos"`
	PaisOrigen           FlexString `json:"paisOrigen"`
	PasosAseguir         FlexString `json:"pasosAseguir"`
	TurnoComida          FlexString `json:"turnoComida"`
	Duracion             FlexString `json:"duracion"`
	Dificultad           FlexString `json:"dificultad"`
	FotoReceta           string     `json:"fotoReceta"`
	ModoEdicion          FlexString `json:"modoEdicion"`
	NombreRecetaOriginal string     `json:"nombreRecetaOriginal"`
}

// IsEdit reports whether the payload edits an existing recipe
func (in *RecipeInput) IsEdit() bool {
	return in.ModoEdicion.Bool()
}

// RecipeRefRequest identifies a recipe by id or by name.
// Bookmark, publish, comment and rating bodies all embed it.
type RecipeRefRequest struct {
	RecetaID     string `json:"recetaId"`
	NombreReceta string `json:"nombreReceta"`
}

// HasRef reports whether any identifier was supplied
func (r *RecipeRefRequest) HasRef() bool {
	return strings.TrimSpace(r.RecetaID) != "" || r.NombreReceta != ""
}

// Ref returns the identifier to resolve, preferring the id over the name
func (r *RecipeRefRequest) Ref() string {
	if id := strings.TrimSpace(r.RecetaID); id != "" {
		return id
	}
	return r.NombreReceta
}

// CommentRequest is the body of POST /api/comentar-receta
type CommentRequest struct {
	RecipeRefRequest
	Texto      string `json:"texto"`
	Comentario string `json:"comentario"`
}

// Text returns the comment body from whichever field was used
func (c *CommentRequest) Text() string {
	if c.Texto != "" {
		return c.Texto
	}
	return c.Comentario
}

// RateRequest is the body of POST /api/valorar-receta
type RateRequest struct {
	RecipeRefRequest
	Puntuacion FlexString `json:"puntuacion"`
}

// NewRecipe builds a recipe from a creation payload
func NewRecipe(in *RecipeInput, id, owner, fecha string) *Recipe {
	r := &Recipe{
		ID:            id,
		Usuario:       owner,
		FechaCreacion: fecha,
	}
	r.ApplyInput(in)
	r.Normalize()
	return r
}

// ApplyInput replaces the editable content of the recipe with the payload.
// Identity, ownership, bookmarks, comments, ratings and publication state are kept.
func (r *Recipe) ApplyInput(in *RecipeInput) {
	r.NombreReceta = in.NombreReceta
	r.Descripcion = in.Descripcion
	r.Ingredientes = in.Ingredientes
	r.Alergenos = in.Alergenos
	r.PaisOrigen = in.PaisOrigen
	r.PasosAseguir = in.PasosAseguir
	r.TurnoComida = in.TurnoComida
	r.Duracion = in.Duracion
	r.Dificultad = in.Dificultad
	r.FotoReceta = in.FotoReceta
}

// Normalize replaces nil collections with empty ones
func (r *Recipe) Normalize() {
	if r.UsuariosGuardado == nil {
		r.UsuariosGuardado = []string{}
	}
	if r.Comentarios == nil {
		r.Comentarios = []Comment{}
	}
	if r.Valoraciones == nil {
		r.Valoraciones = []Rating{}
	}
}

// IsOwnedBy reports whether email owns the recipe
func (r *Recipe) IsOwnedBy(email string) bool {
	return email != "" && utils.SameEmail(r.Usuario, email)
}

// VisibleTo reports whether email may see the recipe: published, or their own draft
func (r *Recipe) VisibleTo(email string) bool {
	return r.Publicada || r.IsOwnedBy(email)
}

// IsSavedBy reports whether email bookmarked the recipe
func (r *Recipe) IsSavedBy(email string) bool {
	return utils.ContainsEmail(r.UsuariosGuardado, email)
}

// Save adds email to the bookmarks if it is not already there
func (r *Recipe) Save(email string) {
	if !r.IsSavedBy(email) {
		r.UsuariosGuardado = append(r.UsuariosGuardado, email)
	}
}

// Unsave removes every bookmark of email
func (r *Recipe) Unsave(email string) {
	r.UsuariosGuardado = utils.RemoveEmail(r.UsuariosGuardado, email)
}

// Rate records the score of email, replacing any previous score of the same user
func (r *Recipe) Rate(email string, score int) {
	for i := range r.Valoraciones {
		if utils.SameEmail(r.Valoraciones[i].Usuario, email) {
			r.Valoraciones[i].Puntuacion = score
			return
		}
	}
	r.Valoraciones = append(r.Valoraciones, Rating{Usuario: email, Puntuacion: score})
}

// RatingOf returns the score given by email, or 0 when the user has not rated
func (r *Recipe) RatingOf(email string) int {
	for _, v := range r.Valoraciones {
		if utils.SameEmail(v.Usuario, email) {
			return v.Puntuacion
		}
	}
	return 0
}

// Summary returns the rating mean rounded to one decimal and the number of ratings
func (r *Recipe) Summary() RatingSummary {
	if len(r.Valoraciones) == 0 {
		return RatingSummary{}
	}

	sum := 0
	for _, v := range r.Valoraciones {
		sum += v.Puntuacion
	}
	return RatingSummary{
		Promedio: utils.RoundTo(float64(sum)/float64(len(r.Valoraciones)), 1),
		Total:    len(r.Valoraciones),
	}
}
