// Package export renders recipes as printable documents.
package export

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/utils"
)

const (
	qrImageName = "permalink"
	qrSize      = 35.0
	qrPixels    = 256
	pageMargin  = 15.0
	lineHeight  = 6.0
)

// RenderRecipePDF renders an A4 recipe sheet with a QR code pointing at permalink
func RenderRecipePDF(recipe *models.Recipe, permalink string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle(recipe.NombreReceta, true)
	pdf.SetAuthor(recipe.Usuario, true)
	pdf.AddPage()

	// Core fonts are cp1252, so accented text goes through the translator
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if permalink != "" {
		qrPNG, err := qrcode.Encode(permalink, qrcode.Medium, qrPixels)
		if err != nil {
			return nil, fmt.Errorf("failed to generate QR code: %w", err)
		}

		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(qrImageName, imageOpts, bytes.NewReader(qrPNG))
		pageWidth, _ := pdf.GetPageSize()
		pdf.ImageOptions(qrImageName, pageWidth-pageMargin-qrSize, pageMargin, qrSize, qrSize, false, imageOpts, 0, permalink)
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(130, 9, tr(recipe.NombreReceta), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []struct{ label, value string }{
		{"País de origen", recipe.PaisOrigen.Trimmed()},
		{"Turno", recipe.TurnoComida.Trimmed()},
		{"Duración", recipe.Duracion.Trimmed()},
		{"Dificultad", recipe.Dificultad.Trimmed()},
	} {
		if line.value == "" {
			continue
		}
		pdf.CellFormat(130, 5, tr(line.label+": "+line.value), "", 1, "L", false, 0, "")
	}

	summary := recipe.Summary()
	if summary.Total > 0 {
		pdf.CellFormat(130, 5, tr(fmt.Sprintf("Valoración: %.1f/5 (%d)", summary.Promedio, summary.Total)), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(130, 5, tr("Autor: "+utils.MaskEmail(recipe.Usuario)), "", 1, "L", false, 0, "")

	if y := pageMargin + qrSize + 5; permalink != "" && pdf.GetY() < y {
		pdf.SetY(y)
	} else {
		pdf.Ln(5)
	}

	section := func(title, body string) {
		if body == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, tr(title), "B", 1, "L", false, 0, "")
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, lineHeight, tr(body), "", "L", false)
		pdf.Ln(4)
	}

	section("Descripción", recipe.Descripcion.Trimmed())
	section("Ingredientes", recipe.Ingredientes.Trimmed())
	section("Alérgenos", recipe.Alergenos.Trimmed())
	section("Pasos a seguir", recipe.PasosAseguir.Trimmed())

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns the download name of a recipe sheet
func Filename(recipe *models.Recipe) string {
	return "receta_" + utils.SanitizeFilePart(recipe.NombreReceta) + ".pdf"
}
