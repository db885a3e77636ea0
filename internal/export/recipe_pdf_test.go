package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proyectoiso/recetario/internal/export"
	"github.com/proyectoiso/recetario/internal/models"
)

func sampleRecipe() *models.Recipe {
	return &models.Recipe{
		ID:           "a1b2",
		NombreReceta: "Crème brûlée de la abuela",
		Descripcion:  "Postre clásico",
		Ingredientes: "Leche, huevos, azúcar",
		PasosAseguir: "Mezclar.\nHornear.\nQuemar el azúcar.",
		PaisOrigen:   "Francia",
		Dificultad:   "media",
		Usuario:      "ana@example.com",
		Valoraciones: []models.Rating{{Usuario: "eva@example.com", Puntuacion: 5}},
	}
}

func TestRenderRecipePDF(t *testing.T) {
	out, err := export.RenderRecipePDF(sampleRecipe(), "http://127.0.0.1:8000/receta.html?id=a1b2")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 1000)
}

func TestRenderRecipePDFWithoutPermalink(t *testing.T) {
	recipe := sampleRecipe()
	recipe.Valoraciones = nil

	out, err := export.RenderRecipePDF(recipe, "")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "receta_crme_brle_de_la_abuela.pdf", export.Filename(sampleRecipe()))
	assert.Equal(t, "receta_usuario.pdf", export.Filename(&models.Recipe{}))
}
