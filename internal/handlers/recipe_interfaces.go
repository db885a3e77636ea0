package handlers

import (
	"context"

	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/service"
)

// RecipeServiceInterface defines the methods required from the recipe service.
// Every ref argument is either a recipe id or an exact recipe name.
type RecipeServiceInterface interface {
	// Submit creates a recipe, or edits the one named NombreRecetaOriginal when in edit mode.
	//
	// Returns:
	//   - The stored recipe
	//   - Whether the payload was an edit
	//   - An error if validation, image intake or storage fails
	Submit(ctx context.Context, email string, in *models.RecipeInput) (*models.Recipe, bool, error)

	Delete(ctx context.Context, email, name string) error
	Publish(ctx context.Context, email, ref string) (*models.Recipe, error)
	Detail(ctx context.Context, email, ref string) (*service.RecipeDetail, error)
	IDForName(ctx context.Context, email, name string) (string, error)
	Save(ctx context.Context, email, ref string) error
	Unsave(ctx context.Context, email, ref string) error

	ListMine(ctx context.Context, email string) []models.Recipe
	ListCommunity(ctx context.Context, email string) []models.Recipe
	ListSaved(ctx context.Context, email string) []models.Recipe

	Comment(ctx context.Context, email, ref, text string) (*models.Comment, error)
	Rate(ctx context.Context, email, ref string, score models.FlexString) (models.RatingSummary, error)

	// Rating returns the aggregate of a recipe and the caller's own score, 0 when unrated
	Rating(ctx context.Context, email, ref string) (models.RatingSummary, int, error)

	// ExportPDF renders a recipe as a PDF and returns it with its download filename
	ExportPDF(ctx context.Context, email, ref string) ([]byte, string, error)
}

// MenuServiceInterface defines the methods required from the weekly menu service.
type MenuServiceInterface interface {
	// Get returns the saved menu resolved to recipes, nil when none is saved
	Get(ctx context.Context, email string) (models.ResolvedMenu, error)

	// Generate builds a random menu from the caller's own and saved recipes without saving it
	Generate(ctx context.Context, email string) models.ResolvedMenu

	Save(ctx context.Context, email string, menu models.WeeklyMenu) error
	Delete(ctx context.Context, email string) error
}
