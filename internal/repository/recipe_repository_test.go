package repository_test

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/database"
	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/repository"
	"github.com/proyectoiso/recetario/internal/utils"
)

func setupRecipeRepositoryTest(t *testing.T) (repository.RecipeRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recetas.json")
	return repository.NewRecipeRepository(database.NewStore[models.Recipe](path)), path
}

func recipeInput(name string) *models.RecipeInput {
	return &models.RecipeInput{
		NombreReceta: name,
		Descripcion:  "Plato típico",
		Ingredientes: "Huevos, patatas",
		TurnoComida:  "comida",
		FotoReceta:   "/static/uploads/recetas/foto.png",
	}
}

func createRecipe(t *testing.T, repo repository.RecipeRepository, name, owner string) *models.Recipe {
	t.Helper()
	recipe, err := repo.Create(context.Background(), recipeInput(name), owner)
	require.NoError(t, err)
	return recipe
}

func createPublished(t *testing.T, repo repository.RecipeRepository, name, owner string) *models.Recipe {
	t.Helper()
	recipe := createRecipe(t, repo, name, owner)
	published, err := repo.Publish(context.Background(), recipe.ID, owner)
	require.NoError(t, err)
	return published
}

func TestRecipeRepository_Create(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)

	recipe := createRecipe(t, repo, "Tortilla", "ana@example.com")

	assert.NotEmpty(t, recipe.ID)
	assert.Equal(t, "ana@example.com", recipe.Usuario)
	assert.False(t, recipe.Publicada)
	assert.NotEmpty(t, recipe.FechaCreacion)
	assert.NotNil(t, recipe.UsuariosGuardado)
	assert.NotNil(t, recipe.Comentarios)
	assert.NotNil(t, recipe.Valoraciones)

	found, err := repo.FindByID(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tortilla", found.NombreReceta)
	assert.Equal(t, "Huevos, patatas", found.Ingredientes.String())
}

func TestRecipeRepository_Update(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	ctx := context.Background()
	original := createPublished(t, repo, "Tortilla", "ana@example.com")
	require.NoError(t, repo.SaveForUser(ctx, original.ID, "eva@example.com"))
	_, err := repo.AddComment(ctx, original.ID, "eva@example.com", "Muy rica")
	require.NoError(t, err)
	_, err = repo.Rate(ctx, original.ID, "eva@example.com", 4)
	require.NoError(t, err)

	in := recipeInput("Tortilla de patatas")
	in.FotoReceta = ""
	updated, previous, err := repo.Update(ctx, "Tortilla", "ANA@example.com", in)
	require.NoError(t, err)

	assert.Equal(t, "/static/uploads/recetas/foto.png", previous)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, "Tortilla de patatas", updated.NombreReceta)
	assert.Equal(t, original.FechaCreacion, updated.FechaCreacion)
	assert.Equal(t, "/static/uploads/recetas/foto.png", updated.FotoReceta)
	assert.True(t, updated.Publicada)
	assert.Equal(t, []string{"eva@example.com"}, updated.UsuariosGuardado)
	assert.Len(t, updated.Comentarios, 1)
	assert.Len(t, updated.Valoraciones, 1)
}

func TestRecipeRepository_Update_NotOwned(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	createRecipe(t, repo, "Tortilla", "ana@example.com")

	_, _, err := repo.Update(context.Background(), "Tortilla", "eva@example.com", recipeInput("Robada"))

	assert.True(t, utils.HasCode(err, constants.CodeRecipeNotFound))
}

func TestRecipeRepository_Delete(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	ctx := context.Background()
	own := createRecipe(t, repo, "Tortilla", "ana@example.com")
	createRecipe(t, repo, "Gazpacho", "ana@example.com")

	t.Run("someone else's recipe", func(t *testing.T) {
		_, err := repo.Delete(ctx, "Tortilla", "eva@example.com")
		assert.Equal(t, 403, utils.StatusCode(err))
		assert.True(t, utils.HasCode(err, constants.CodeForbidden))
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := repo.Delete(ctx, "Paella", "ana@example.com")
		assert.Equal(t, 404, utils.StatusCode(err))
	})

	t.Run("names are case sensitive", func(t *testing.T) {
		_, err := repo.Delete(ctx, "tortilla", "ana@example.com")
		assert.Equal(t, 404, utils.StatusCode(err))
	})

	t.Run("owner", func(t *testing.T) {
		removed, err := repo.Delete(ctx, "Tortilla", "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, own.ID, removed.ID)

		recipes := repo.ListByOwner(ctx, "ana@example.com")
		require.Len(t, recipes, 1)
		assert.Equal(t, "Gazpacho", recipes[0].NombreReceta)
	})
}

func TestRecipeRepository_Delete_SharedName(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	ctx := context.Background()

	in := recipeInput("Tarta")
	in.FotoReceta = "/static/uploads/recetas/bob.png"
	_, err := repo.Create(ctx, in, "bob@example.com")
	require.NoError(t, err)
	in = recipeInput("Tarta")
	in.FotoReceta = "/static/uploads/recetas/ana.png"
	ana, err := repo.Create(ctx, in, "ana@example.com")
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, "Tarta", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, removed.ID)
	assert.Equal(t, "/static/uploads/recetas/ana.png", removed.FotoReceta)

	left := repo.ListByOwner(ctx, "bob@example.com")
	require.Len(t, left, 1)
	assert.Equal(t, "/static/uploads/recetas/bob.png", left[0].FotoReceta)
}

func TestRecipeRepository_Publish(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	ctx := context.Background()
	recipe := createRecipe(t, repo, "Tortilla", "ana@example.com")

	_, err := repo.Publish(ctx, recipe.ID, "eva@example.com")
	assert.True(t, utils.HasCode(err, constants.CodeForbidden))

	_, err = repo.Publish(ctx, "no-existe", "ana@example.com")
	assert.True(t, utils.HasCode(err, constants.CodeRecipeNotFound))

	published, err := repo.Publish(ctx, recipe.ID, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, published.Publicada)
}

func TestRecipeRepository_Listings(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	ctx := context.Background()
	own := createRecipe(t, repo, "Tortilla", "ana@example.com")
	other := createRecipe(t, repo, "Gazpacho", "eva@example.com")
	createRecipe(t, repo, "Borrador", "eva@example.com")

	_, err := repo.Publish(ctx, own.ID, "ana@example.com")
	require.NoError(t, err)
	_, err = repo.Publish(ctx, other.ID, "eva@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.SaveForUser(ctx, other.ID, "ana@example.com"))

	mine := repo.ListByOwner(ctx, "ANA@example.com")
	require.Len(t, mine, 1)
	assert.Equal(t, "Tortilla", mine[0].NombreReceta)

	community := repo.ListCommunity(ctx, "ana@example.com")
	require.Len(t, community, 1)
	assert.Equal(t, "Gazpacho", community[0].NombreReceta)

	saved := repo.ListSavedBy(ctx, "ana@example.com")
	require.Len(t, saved, 1)
	assert.Equal(t, other.ID, saved[0].ID)

	assert.Len(t, repo.ListByOwner(ctx, "eva@example.com"), 2)
	assert.NotNil(t, repo.ListSavedBy(ctx, "nadie@example.com"))
}

func TestRecipeRepository_FindByID_LegacyReferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recetas.json")
	legacy := `[
  {"nombreReceta":"Tortilla","usuario":"ana@example.com","publicada":true},
  {"nombreReceta":"Crème brûlée","usuario":"eva@example.com"}
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))
	repo := repository.NewRecipeRepository(database.NewStore[models.Recipe](path))
	ctx := context.Background()

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"positional id", "receta-1", "Crème brûlée"},
		{"std base64", base64.StdEncoding.EncodeToString([]byte("Crème brûlée")), "Crème brûlée"},
		{"url base64", base64.URLEncoding.EncodeToString([]byte("Crème brûlée")), "Crème brûlée"},
		{"plain name", "Tortilla", "Tortilla"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipe, err := repo.FindByID(ctx, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, recipe.NombreReceta)
		})
	}

	listed := repo.ListCommunity(ctx, "")
	require.Len(t, listed, 1)
	assert.Equal(t, "receta-0", listed[0].ID)

	_, err := repo.FindByID(ctx, "receta-9")
	assert.True(t, utils.HasCode(err, constants.CodeRecipeNotFound))

	_, err = repo.FindByID(ctx, base64.StdEncoding.EncodeToString([]byte("tortilla")))
	assert.True(t, utils.HasCode(err, constants.CodeRecipeNotFound))
}

func TestRecipeRepository_AssignsIDsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recetas.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"nombreReceta":"Tortilla","usuario":"ana@example.com","publicada":true}]`), 0o644))
	repo := repository.NewRecipeRepository(database.NewStore[models.Recipe](path))
	ctx := context.Background()

	require.NoError(t, repo.SaveForUser(ctx, "receta-0", "eva@example.com"))

	recipes := repo.ListCommunity(ctx, "")
	require.Len(t, recipes, 1)
	assert.NotEqual(t, "receta-0", recipes[0].ID)
	assert.NotEmpty(t, recipes[0].ID)

	again, err := repo.FindByID(ctx, recipes[0].ID)
	require.NoError(t, err)
	assert.True(t, again.IsSavedBy("eva@example.com"))
}

func TestRecipeRepository_SaveAndUnsave(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	ctx := context.Background()
	recipe := createPublished(t, repo, "Tortilla", "ana@example.com")

	require.NoError(t, repo.SaveForUser(ctx, recipe.ID, "eva@example.com"))
	require.NoError(t, repo.SaveForUser(ctx, "Tortilla", "EVA@example.com"))

	found, err := repo.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"eva@example.com"}, found.UsuariosGuardado)

	require.NoError(t, repo.UnsaveForUser(ctx, recipe.ID, "Eva@Example.com"))
	require.NoError(t, repo.UnsaveForUser(ctx, recipe.ID, "eva@example.com"))

	found, err = repo.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, found.UsuariosGuardado)

	err = repo.SaveForUser(ctx, "no-existe", "eva@example.com")
	assert.True(t, utils.HasCode(err, constants.CodeRecipeNotFound))
}

func TestRecipeRepository_AddComment(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	ctx := context.Background()
	recipe := createPublished(t, repo, "Tortilla", "ana@example.com")

	exact := make([]rune, constants.MaxCommentLength)
	for i := range exact {
		exact[i] = 'ñ'
	}

	tests := []struct {
		name     string
		ref      string
		text     string
		wantCode string
	}{
		{"blank", recipe.ID, "   ", constants.CodeEmptyComment},
		{"too long", recipe.ID, string(exact) + "a", constants.CodeCommentTooLong},
		{"unknown recipe", "no-existe", "Hola", constants.CodeRecipeNotFound},
		{"exactly at the limit", recipe.ID, string(exact), ""},
		{"trimmed", recipe.ID, "  ¡Muy rica!  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comment, err := repo.AddComment(ctx, tt.ref, "eva@example.com", tt.text)
			if tt.wantCode != "" {
				assert.Nil(t, comment)
				assert.True(t, utils.HasCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "eva@example.com", comment.Usuario)
			assert.NotEmpty(t, comment.Fecha)
		})
	}

	found, err := repo.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, found.Comentarios, 2)
	assert.Equal(t, "¡Muy rica!", found.Comentarios[1].Texto)
}

func TestRecipeRepository_Rate(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	ctx := context.Background()
	recipe := createPublished(t, repo, "Tortilla", "ana@example.com")

	for _, score := range []int{0, 6, -1} {
		_, err := repo.Rate(ctx, recipe.ID, "eva@example.com", score)
		assert.True(t, utils.HasCode(err, constants.CodeInvalidScore), score)
	}

	summary, err := repo.Rate(ctx, recipe.ID, "eva@example.com", 5)
	require.NoError(t, err)
	assert.Equal(t, models.RatingSummary{Promedio: 5, Total: 1}, summary)

	summary, err = repo.Rate(ctx, recipe.ID, "luis@example.com", 4)
	require.NoError(t, err)
	assert.Equal(t, models.RatingSummary{Promedio: 4.5, Total: 2}, summary)

	summary, err = repo.Rate(ctx, recipe.ID, "EVA@example.com", 2)
	require.NoError(t, err)
	assert.Equal(t, models.RatingSummary{Promedio: 3, Total: 2}, summary)

	summary, mine, err := repo.RatingFor(ctx, recipe.ID, "eva@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, mine)

	_, mine, err = repo.RatingFor(ctx, recipe.ID, "nadie@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, mine)
}

func TestRecipeRepository_OwnerRating(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	ctx := context.Background()
	first := createRecipe(t, repo, "Tortilla", "ana@example.com")
	second := createRecipe(t, repo, "Gazpacho", "ana@example.com")
	draft := createRecipe(t, repo, "Borrador", "ana@example.com")

	for _, r := range []*models.Recipe{first, second} {
		_, err := repo.Publish(ctx, r.ID, "ana@example.com")
		require.NoError(t, err)
	}
	_, err := repo.Rate(ctx, first.ID, "eva@example.com", 5)
	require.NoError(t, err)
	_, err = repo.Rate(ctx, second.ID, "eva@example.com", 4)
	require.NoError(t, err)
	_, err = repo.Rate(ctx, second.ID, "luis@example.com", 4)
	require.NoError(t, err)
	_, err = repo.Rate(ctx, draft.ID, "ana@example.com", 1)
	require.NoError(t, err)

	mean, count := repo.OwnerRating(ctx, "ana@example.com")
	assert.Equal(t, 4.3, mean)
	assert.Equal(t, 3, count)

	mean, count = repo.OwnerRating(ctx, "eva@example.com")
	assert.Zero(t, mean)
	assert.Zero(t, count)
}

func TestRecipeRepository_ConcurrentBookmarks(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	ctx := context.Background()
	recipe := createPublished(t, repo, "Tortilla", "ana@example.com")

	emails := []string{"a@example.com", "b@example.com", "c@example.com", "d@example.com", "e@example.com", "f@example.com"}
	var wg sync.WaitGroup
	for _, email := range emails {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			assert.NoError(t, repo.SaveForUser(ctx, recipe.ID, email))
		}(email)
	}
	wg.Wait()

	found, err := repo.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, emails, found.UsuariosGuardado)
}

func TestRecipeRepository_FindByName(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	ctx := context.Background()
	published := createPublished(t, repo, "Tortilla", "eva@example.com")
	own := createRecipe(t, repo, "Tortilla", "ana@example.com")
	createRecipe(t, repo, "Secreta", "eva@example.com")

	found, err := repo.FindByName(ctx, "Tortilla", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, own.ID, found.ID)

	found, err = repo.FindByName(ctx, "Tortilla", "luis@example.com")
	require.NoError(t, err)
	assert.Equal(t, published.ID, found.ID)

	_, err = repo.FindByName(ctx, "Secreta", "luis@example.com")
	assert.True(t, utils.IsNotFoundError(err))

	_, err = repo.FindByName(ctx, "tortilla", "ana@example.com")
	assert.True(t, utils.IsNotFoundError(err))
}

func TestRecipeRepository_DraftsHiddenFromOthers(t *testing.T) {
	repo, _ := setupRecipeRepositoryTest(t)
	ctx := context.Background()
	draft := createRecipe(t, repo, "Secreta", "ana@example.com")

	assertHidden := func(t *testing.T, err error) {
		t.Helper()
		assert.True(t, utils.HasCode(err, constants.CodeRecipeNotFound), err)
	}

	assertHidden(t, repo.SaveForUser(ctx, draft.ID, "bob@example.com"))
	assertHidden(t, repo.UnsaveForUser(ctx, draft.ID, "bob@example.com"))
	_, err := repo.AddComment(ctx, draft.ID, "bob@example.com", "Hola")
	assertHidden(t, err)
	_, err = repo.Rate(ctx, draft.ID, "bob@example.com", 1)
	assertHidden(t, err)
	_, _, err = repo.RatingFor(ctx, draft.ID, "bob@example.com")
	assertHidden(t, err)

	found, err := repo.FindByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Empty(t, found.UsuariosGuardado)
	assert.Empty(t, found.Comentarios)
	assert.Empty(t, found.Valoraciones)

	_, err = repo.Rate(ctx, draft.ID, "ana@example.com", 3)
	assert.NoError(t, err)
	_, mine, err := repo.RatingFor(ctx, draft.ID, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, mine)
}
