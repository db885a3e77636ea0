package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/export"
	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/repository"
	"github.com/proyectoiso/recetario/internal/utils"
)

// RecipeDetail is a recipe seen by a specific user
type RecipeDetail struct {
	Recipe        *models.Recipe
	Guardada      bool
	EsPropietario bool
}

// RecipeService handles recipe authoring, the community feed and recipe interactions
type RecipeService struct {
	recipes       repository.RecipeRepository
	images        ImageIntake
	publicBaseURL string
}

// NewRecipeService creates a new RecipeService.
// publicBaseURL is used to build the permalink printed on exported recipes.
func NewRecipeService(recipes repository.RecipeRepository, images ImageIntake, publicBaseURL string) *RecipeService {
	return &RecipeService{
		recipes:       recipes,
		images:        images,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Submit creates a recipe, or replaces the one named NombreRecetaOriginal when
// the payload is in edit mode. The returned flag reports an edit.
func (s *RecipeService) Submit(ctx context.Context, email string, in *models.RecipeInput) (*models.Recipe, bool, error) {
	edit := in.IsEdit()
	if edit && strings.TrimSpace(in.NombreRecetaOriginal) == "" {
		return nil, true, utils.NewValidationError("nombreRecetaOriginal", constants.MsgMissingOriginalName)
	}

	photo, err := s.images.Process(ctx, in.FotoReceta, constants.PurposeRecipe, email)
	if err != nil {
		return nil, edit, err
	}
	// Only freshly stored uploads are attached. Any other path is dropped so
	// an edit keeps the current picture and a new recipe gets none.
	stored := photo != "" && photo != in.FotoReceta
	if !stored {
		photo = ""
	}
	in.FotoReceta = photo

	var recipe *models.Recipe
	var previous string
	if edit {
		recipe, previous, err = s.recipes.Update(ctx, in.NombreRecetaOriginal, email, in)
	} else {
		recipe, err = s.recipes.Create(ctx, in, email)
	}
	if err != nil {
		if stored {
			s.removeImage(ctx, photo)
		}
		return nil, edit, err
	}

	if stored && previous != "" && previous != recipe.FotoReceta {
		s.removeImage(ctx, previous)
	}
	return recipe, edit, nil
}

// Delete removes the caller's recipe with the given name
func (s *RecipeService) Delete(ctx context.Context, email, name string) error {
	removed, err := s.recipes.Delete(ctx, name, email)
	if err != nil {
		return err
	}

	s.removeImage(ctx, removed.FotoReceta)
	return nil
}

// Publish makes the caller's recipe visible in the community feed
func (s *RecipeService) Publish(ctx context.Context, email, ref string) (*models.Recipe, error) {
	return s.recipes.Publish(ctx, ref, email)
}

// ListMine returns the caller's own recipes
func (s *RecipeService) ListMine(ctx context.Context, email string) []models.Recipe {
	return s.recipes.ListByOwner(ctx, email)
}

// ListCommunity returns the published recipes of other users
func (s *RecipeService) ListCommunity(ctx context.Context, email string) []models.Recipe {
	return s.recipes.ListCommunity(ctx, email)
}

// ListSaved returns the recipes the caller bookmarked
func (s *RecipeService) ListSaved(ctx context.Context, email string) []models.Recipe {
	return s.recipes.ListSavedBy(ctx, email)
}

// Detail returns a recipe with the caller's relation to it.
// Unpublished recipes are only visible to their owner.
func (s *RecipeService) Detail(ctx context.Context, email, ref string) (*RecipeDetail, error) {
	recipe, err := s.visible(ctx, email, ref)
	if err != nil {
		return nil, err
	}

	return &RecipeDetail{
		Recipe:        recipe,
		Guardada:      recipe.IsSavedBy(email),
		EsPropietario: recipe.IsOwnedBy(email),
	}, nil
}

// IDForName returns the id of the recipe with the exact name as seen by the caller
func (s *RecipeService) IDForName(ctx context.Context, email, name string) (string, error) {
	recipe, err := s.recipes.FindByName(ctx, name, email)
	if err != nil {
		return "", err
	}
	return recipe.ID, nil
}

// Save bookmarks a recipe for the caller
func (s *RecipeService) Save(ctx context.Context, email, ref string) error {
	return s.recipes.SaveForUser(ctx, ref, email)
}

// Unsave removes the caller's bookmark
func (s *RecipeService) Unsave(ctx context.Context, email, ref string) error {
	return s.recipes.UnsaveForUser(ctx, ref, email)
}

// Comment appends a comment by the caller
func (s *RecipeService) Comment(ctx context.Context, email, ref, text string) (*models.Comment, error) {
	return s.recipes.AddComment(ctx, ref, email, text)
}

// Rate stores the caller's score. Scores arrive as numbers or numeric strings.
func (s *RecipeService) Rate(ctx context.Context, email, ref string, score models.FlexString) (models.RatingSummary, error) {
	value, ok := score.Int()
	if !ok {
		return models.RatingSummary{}, utils.NewRuleError(constants.CodeInvalidScore, constants.MsgInvalidScore)
	}
	return s.recipes.Rate(ctx, ref, email, value)
}

// Rating returns the recipe's rating summary and the caller's own score, 0 when unrated
func (s *RecipeService) Rating(ctx context.Context, email, ref string) (models.RatingSummary, int, error) {
	return s.recipes.RatingFor(ctx, ref, email)
}

// ExportPDF renders a recipe visible to the caller as a printable PDF
func (s *RecipeService) ExportPDF(ctx context.Context, email, ref string) ([]byte, string, error) {
	recipe, err := s.visible(ctx, email, ref)
	if err != nil {
		return nil, "", err
	}

	content, err := export.RenderRecipePDF(recipe, s.permalink(recipe))
	if err != nil {
		return nil, "", utils.NewInternalServerError(err)
	}

	log.Debug().
		Str("receta_id", recipe.ID).
		Int("bytes", len(content)).
		Msg("Recipe exported")

	return content, export.Filename(recipe), nil
}

func (s *RecipeService) visible(ctx context.Context, email, ref string) (*models.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !recipe.VisibleTo(email) {
		return nil, utils.NewRecipeNotFoundError(ref)
	}
	return recipe, nil
}

func (s *RecipeService) permalink(recipe *models.Recipe) string {
	return s.publicBaseURL + constants.APIBasePath + "/receta/" + url.PathEscape(recipe.ID)
}

func (s *RecipeService) removeImage(ctx context.Context, imageURL string) {
	if imageURL == "" {
		return
	}
	if err := s.images.Remove(ctx, imageURL); err != nil {
		log.Warn().Err(err).Str("url", imageURL).Msg("Failed to remove image")
	}
}
