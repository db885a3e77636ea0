package repository

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/database"
	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/utils"
)

// RecipeRepository defines methods for interacting with recipe data.
// A ref is a recipe id, a legacy "receta-{idx}" position, a base64 encoded
// name or the plain name, resolved in that order.
// Bookmarks, comments and ratings only reach recipes visible to the caller:
// published ones and the caller's own drafts.
type RecipeRepository interface {
	Create(ctx context.Context, in *models.RecipeInput, ownerEmail string) (*models.Recipe, error)
	Update(ctx context.Context, originalName, ownerEmail string, in *models.RecipeInput) (*models.Recipe, string, error)
	Delete(ctx context.Context, name, ownerEmail string) (*models.Recipe, error)
	Publish(ctx context.Context, ref, ownerEmail string) (*models.Recipe, error)
	ListByOwner(ctx context.Context, email string) []models.Recipe
	ListCommunity(ctx context.Context, excludeEmail string) []models.Recipe
	ListSavedBy(ctx context.Context, email string) []models.Recipe
	FindByID(ctx context.Context, ref string) (*models.Recipe, error)
	FindByName(ctx context.Context, name, viewerEmail string) (*models.Recipe, error)
	SaveForUser(ctx context.Context, ref, email string) error
	UnsaveForUser(ctx context.Context, ref, email string) error
	AddComment(ctx context.Context, ref, email, text string) (*models.Comment, error)
	Rate(ctx context.Context, ref, email string, score int) (models.RatingSummary, error)
	RatingFor(ctx context.Context, ref, email string) (models.RatingSummary, int, error)
	OwnerRating(ctx context.Context, email string) (float64, int)
	HealthCheck(ctx context.Context) error
}

// JSONRecipeRepository is a RecipeRepository backed by recetas.json
type JSONRecipeRepository struct {
	store database.Collection[models.Recipe]
	newID func() string
	now   func() time.Time
}

// NewRecipeRepository creates a new RecipeRepository
func NewRecipeRepository(store database.Collection[models.Recipe]) RecipeRepository {
	return &JSONRecipeRepository{
		store: store,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// update runs fn under the store lock after giving every record an id
func (r *JSONRecipeRepository) update(ctx context.Context, fn func(recipes []models.Recipe) ([]models.Recipe, error)) error {
	err := r.store.Update(ctx, func(recipes []models.Recipe) ([]models.Recipe, error) {
		for i := range recipes {
			if recipes[i].ID == "" {
				recipes[i].ID = r.newID()
			}
			recipes[i].Normalize()
		}
		return fn(recipes)
	})
	return storeError(err)
}

// load returns every recipe. Records without an id get their positional id.
func (r *JSONRecipeRepository) load(ctx context.Context) []models.Recipe {
	recipes := r.store.Load(ctx)
	for i := range recipes {
		if recipes[i].ID == "" {
			recipes[i].ID = constants.IndexIDPrefix + strconv.Itoa(i)
		}
		recipes[i].Normalize()
	}
	return recipes
}

// resolve returns the index of the recipe identified by ref, or -1
func resolve(recipes []models.Recipe, ref string) int {
	id := strings.TrimSpace(ref)
	if id == "" {
		return -1
	}

	for i := range recipes {
		if recipes[i].ID == id {
			return i
		}
	}

	if strings.HasPrefix(id, constants.IndexIDPrefix) {
		if idx, err := strconv.Atoi(strings.TrimPrefix(id, constants.IndexIDPrefix)); err == nil && idx >= 0 && idx < len(recipes) {
			return idx
		}
	}

	if name, ok := decodeName(id); ok {
		if i := findByName(recipes, name); i >= 0 {
			return i
		}
	}

	return findByName(recipes, ref)
}

// decodeName decodes a base64 recipe permalink in either alphabet
func decodeName(s string) (string, bool) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	}
	for _, enc := range encodings {
		if b, err := enc.DecodeString(s); err == nil && len(b) > 0 && utf8.Valid(b) {
			return string(b), true
		}
	}
	return "", false
}

func findByName(recipes []models.Recipe, name string) int {
	for i := range recipes {
		if recipes[i].NombreReceta == name {
			return i
		}
	}
	return -1
}

func findVisible(recipes []models.Recipe, name, email string) int {
	for i := range recipes {
		if recipes[i].NombreReceta == name && recipes[i].VisibleTo(email) {
			return i
		}
	}
	return -1
}

func findOwned(recipes []models.Recipe, name, ownerEmail string) int {
	for i := range recipes {
		if recipes[i].NombreReceta == name && recipes[i].IsOwnedBy(ownerEmail) {
			return i
		}
	}
	return -1
}

// Create stores a new recipe owned by ownerEmail
func (r *JSONRecipeRepository) Create(ctx context.Context, in *models.RecipeInput, ownerEmail string) (*models.Recipe, error) {
	recipe := models.NewRecipe(in, r.newID(), utils.NormalizeEmail(ownerEmail), r.now().Format(time.RFC3339))

	err := r.update(ctx, func(recipes []models.Recipe) ([]models.Recipe, error) {
		return append(recipes, *recipe), nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("receta_id", recipe.ID).
		Str("nombre_receta", recipe.NombreReceta).
		Str(constants.EmailContextKey, utils.MaskEmail(ownerEmail)).
		Msg("Recipe created")

	return recipe, nil
}

// Update replaces the content of the owner's recipe named originalName.
// The picture is kept when the payload carries none. The picture the record
// held before the update is returned alongside the updated recipe.
func (r *JSONRecipeRepository) Update(ctx context.Context, originalName, ownerEmail string, in *models.RecipeInput) (*models.Recipe, string, error) {
	var updated models.Recipe
	var previous string

	err := r.update(ctx, func(recipes []models.Recipe) ([]models.Recipe, error) {
		i := findOwned(recipes, originalName, ownerEmail)
		if i < 0 {
			return nil, utils.NewRecipeNotFoundError(originalName)
		}

		previous = recipes[i].FotoReceta
		recipes[i].ApplyInput(in)
		if recipes[i].FotoReceta == "" {
			recipes[i].FotoReceta = previous
		}

		updated = recipes[i]
		return recipes, nil
	})
	if err != nil {
		return nil, "", err
	}

	log.Info().
		Str("receta_id", updated.ID).
		Str("nombre_receta", updated.NombreReceta).
		Msg("Recipe updated")

	return &updated, previous, nil
}

// Delete removes the owner's recipe with the given name and returns the removed record
func (r *JSONRecipeRepository) Delete(ctx context.Context, name, ownerEmail string) (*models.Recipe, error) {
	var removed models.Recipe

	err := r.update(ctx, func(recipes []models.Recipe) ([]models.Recipe, error) {
		i := findOwned(recipes, name, ownerEmail)
		if i < 0 {
			if findByName(recipes, name) >= 0 {
				return nil, utils.NewForbiddenError("")
			}
			return nil, utils.NewRecipeNotFoundError(name)
		}
		removed = recipes[i]
		return append(recipes[:i], recipes[i+1:]...), nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("receta_id", removed.ID).
		Str("nombre_receta", name).
		Str(constants.EmailContextKey, utils.MaskEmail(ownerEmail)).
		Msg("Recipe deleted")

	return &removed, nil
}

// Publish makes the owner's recipe visible in the community feed
func (r *JSONRecipeRepository) Publish(ctx context.Context, ref, ownerEmail string) (*models.Recipe, error) {
	var published models.Recipe

	err := r.update(ctx, func(recipes []models.Recipe) ([]models.Recipe, error) {
		i := resolve(recipes, ref)
		if i < 0 {
			return nil, utils.NewRecipeNotFoundError(ref)
		}
		if !recipes[i].IsOwnedBy(ownerEmail) {
			return nil, utils.NewForbiddenError("")
		}

		recipes[i].Publicada = true
		published = recipes[i]
		return recipes, nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("receta_id", published.ID).Msg("Recipe published")

	return &published, nil
}

// filter returns the recipes matching keep, never nil
func (r *JSONRecipeRepository) filter(ctx context.Context, keep func(*models.Recipe) bool) []models.Recipe {
	result := []models.Recipe{}
	for _, recipe := range r.load(ctx) {
		if keep(&recipe) {
			result = append(result, recipe)
		}
	}
	return result
}

// ListByOwner returns the recipes created by email
func (r *JSONRecipeRepository) ListByOwner(ctx context.Context, email string) []models.Recipe {
	return r.filter(ctx, func(recipe *models.Recipe) bool {
		return recipe.IsOwnedBy(email)
	})
}

// ListCommunity returns the published recipes of everyone but excludeEmail
func (r *JSONRecipeRepository) ListCommunity(ctx context.Context, excludeEmail string) []models.Recipe {
	return r.filter(ctx, func(recipe *models.Recipe) bool {
		return recipe.Publicada && !utils.SameEmail(recipe.Usuario, excludeEmail)
	})
}

// ListSavedBy returns the recipes bookmarked by email
func (r *JSONRecipeRepository) ListSavedBy(ctx context.Context, email string) []models.Recipe {
	return r.filter(ctx, func(recipe *models.Recipe) bool {
		return recipe.IsSavedBy(email)
	})
}

// FindByID retrieves a recipe by ref
func (r *JSONRecipeRepository) FindByID(ctx context.Context, ref string) (*models.Recipe, error) {
	recipes := r.load(ctx)

	i := resolve(recipes, ref)
	if i < 0 {
		return nil, utils.NewRecipeNotFoundError(ref)
	}

	recipe := recipes[i]
	return &recipe, nil
}

// FindByName retrieves the recipe with exactly the given name as seen by viewerEmail.
// The viewer's own recipe wins over a published one of another user.
func (r *JSONRecipeRepository) FindByName(ctx context.Context, name, viewerEmail string) (*models.Recipe, error) {
	recipes := r.load(ctx)

	i := findOwned(recipes, name, viewerEmail)
	if i < 0 {
		i = findVisible(recipes, name, viewerEmail)
	}
	if i < 0 {
		return nil, utils.NewRecipeNotFoundError(name)
	}

	recipe := recipes[i]
	return &recipe, nil
}

// mutate resolves ref and applies fn to the matching recipe.
// Drafts of other users are reported as missing.
func (r *JSONRecipeRepository) mutate(ctx context.Context, ref, email string, fn func(recipe *models.Recipe) error) error {
	return r.update(ctx, func(recipes []models.Recipe) ([]models.Recipe, error) {
		i := resolve(recipes, ref)
		if i < 0 || !recipes[i].VisibleTo(email) {
			return nil, utils.NewRecipeNotFoundError(ref)
		}
		if err := fn(&recipes[i]); err != nil {
			return nil, err
		}
		return recipes, nil
	})
}

// SaveForUser bookmarks the recipe for email
func (r *JSONRecipeRepository) SaveForUser(ctx context.Context, ref, email string) error {
	return r.mutate(ctx, ref, email, func(recipe *models.Recipe) error {
		recipe.Save(utils.NormalizeEmail(email))
		return nil
	})
}

// UnsaveForUser removes the bookmark of email
func (r *JSONRecipeRepository) UnsaveForUser(ctx context.Context, ref, email string) error {
	return r.mutate(ctx, ref, email, func(recipe *models.Recipe) error {
		recipe.Unsave(email)
		return nil
	})
}

// AddComment appends a comment by email to the recipe
func (r *JSONRecipeRepository) AddComment(ctx context.Context, ref, email, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, utils.NewRuleError(constants.CodeEmptyComment, constants.MsgEmptyComment)
	}
	if utils.RuneLen(text) > constants.MaxCommentLength {
		return nil, utils.NewRuleError(constants.CodeCommentTooLong, constants.MsgCommentTooLong)
	}

	comment := models.Comment{
		Usuario: utils.NormalizeEmail(email),
		Texto:   text,
		Fecha:   r.now().Format(time.RFC3339),
	}

	err := r.mutate(ctx, ref, email, func(recipe *models.Recipe) error {
		recipe.Comentarios = append(recipe.Comentarios, comment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// Rate records the score of email and returns the new aggregate
func (r *JSONRecipeRepository) Rate(ctx context.Context, ref, email string, score int) (models.RatingSummary, error) {
	if score < constants.MinScore || score > constants.MaxScore {
		return models.RatingSummary{}, utils.NewRuleError(constants.CodeInvalidScore, constants.MsgInvalidScore)
	}

	var summary models.RatingSummary
	err := r.mutate(ctx, ref, email, func(recipe *models.Recipe) error {
		recipe.Rate(utils.NormalizeEmail(email), score)
		summary = recipe.Summary()
		return nil
	})
	if err != nil {
		return models.RatingSummary{}, err
	}

	return summary, nil
}

// RatingFor returns the aggregate rating of the recipe and the score given by email
func (r *JSONRecipeRepository) RatingFor(ctx context.Context, ref, email string) (models.RatingSummary, int, error) {
	recipe, err := r.FindByID(ctx, ref)
	if err != nil {
		return models.RatingSummary{}, 0, err
	}
	if !recipe.VisibleTo(email) {
		return models.RatingSummary{}, 0, utils.NewRecipeNotFoundError(ref)
	}
	return recipe.Summary(), recipe.RatingOf(email), nil
}

// OwnerRating returns the mean of every rating on the published recipes of email
// and the number of ratings it was computed from
func (r *JSONRecipeRepository) OwnerRating(ctx context.Context, email string) (float64, int) {
	sum, count := 0, 0
	for _, recipe := range r.load(ctx) {
		if !recipe.Publicada || !recipe.IsOwnedBy(email) {
			continue
		}
		for _, v := range recipe.Valoraciones {
			sum += v.Puntuacion
			count++
		}
	}

	if count == 0 {
		return 0, 0
	}
	return utils.RoundTo(float64(sum)/float64(count), 1), count
}

// HealthCheck verifies the recipes store is writable
func (r *JSONRecipeRepository) HealthCheck(ctx context.Context) error {
	return r.store.HealthCheck(ctx)
}
