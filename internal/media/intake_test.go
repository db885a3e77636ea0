package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/utils"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func newTestIntake(t *testing.T) (*Intake, string) {
	t.Helper()
	dir := t.TempDir()
	intake := NewIntake(NewLocalStore(dir, "/static/uploads"))
	intake.now = func() time.Time { return time.Unix(1700000000, 0) }
	return intake, dir
}

func TestProcessPassesThroughNonDataURIs(t *testing.T) {
	intake, _ := newTestIntake(t)

	for _, value := range []string{"", "/static/uploads/recetas/foto.png", "https://example.com/a.jpg"} {
		got, err := intake.Process(context.Background(), value, constants.PurposeRecipe, "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, value, got)
	}
}

func TestProcessStoresPNG(t *testing.T) {
	intake, dir := newTestIntake(t)
	data := pngBytes(t, 640, 20)

	url, err := intake.Process(context.Background(), dataURI("image/png", data), constants.PurposeRecipe, "Ana.Perez@example.com")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^/static/uploads/recetas/1700000000_ana_perez_[0-9a-f]{8}\.png$`), url)

	name := filepath.Base(url)
	stored, err := os.ReadFile(filepath.Join(dir, constants.PurposeRecipe, name))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	thumb, err := os.Open(filepath.Join(dir, constants.PurposeRecipe, constants.ThumbnailPrefix+name))
	require.NoError(t, err)
	defer thumb.Close()
	cfg, err := png.DecodeConfig(thumb)
	require.NoError(t, err)
	assert.Equal(t, constants.ThumbnailWidth, cfg.Width)
}

func TestProcessStoresWebpWithoutDecoding(t *testing.T) {
	intake, dir := newTestIntake(t)

	url, err := intake.Process(context.Background(), dataURI("image/webp", []byte("RIFF0000WEBPVP8 ")), constants.PurposeProfile, "eva@example.com")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(url, ".webp"))
	entries, err := os.ReadDir(filepath.Join(dir, constants.PurposeProfile))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestProcessRejectsInvalidImages(t *testing.T) {
	intake, _ := newTestIntake(t)
	big := make([]byte, constants.MaxImageSize+1)

	tests := []struct {
		name  string
		value string
		code  string
	}{
		{"gif not allowed", dataURI("image/gif", []byte("GIF89a")), constants.CodeImageType},
		{"svg not allowed", dataURI("image/svg+xml", []byte("<svg/>")), constants.CodeImageType},
		{"no comma", "data:image/png;base64", constants.CodeImageInvalid},
		{"not base64 encoded", "data:image/png,rawbytes", constants.CodeImageInvalid},
		{"bad base64", "data:image/png;base64,@@@@", constants.CodeImageInvalid},
		{"empty payload", "data:image/png;base64,", constants.CodeImageEmpty},
		{"corrupt png", dataURI("image/png", []byte("not really a png")), constants.CodeImageInvalid},
		{"too large", dataURI("image/webp", big), constants.CodeImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := intake.Process(context.Background(), tt.value, constants.PurposeRecipe, "ana@example.com")
			assert.Empty(t, url)
			require.Error(t, err)
			assert.True(t, utils.HasCode(err, tt.code), err.Error())
		})
	}
}

func TestProcessAcceptsJPGAlias(t *testing.T) {
	intake, _ := newTestIntake(t)

	_, err := intake.Process(context.Background(), dataURI("image/jpg", pngBytes(t, 4, 4)), constants.PurposeRecipe, "ana@example.com")

	// imaging sniffs the encoded format, so the declared subtype only picks the extension
	assert.NoError(t, err)
}

func multipartFile(t *testing.T, contentType string, data []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="archivo"; filename="foto"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	header := form.File[constants.FormFieldFile][0]
	file, err := header.Open()
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

func TestProcessUpload(t *testing.T) {
	intake, _ := newTestIntake(t)

	t.Run("declared type", func(t *testing.T) {
		file, header := multipartFile(t, "image/png", pngBytes(t, 10, 10))
		url, err := intake.ProcessUpload(context.Background(), file, header, constants.PurposeProfile, "ana@example.com")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "/static/uploads/perfiles/"))
	})

	t.Run("sniffed type", func(t *testing.T) {
		file, header := multipartFile(t, "application/octet-stream", pngBytes(t, 10, 10))
		url, err := intake.ProcessUpload(context.Background(), file, header, constants.PurposeProfile, "ana@example.com")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(url, ".png"))
	})

	t.Run("text file", func(t *testing.T) {
		file, header := multipartFile(t, "text/plain", []byte("hola"))
		_, err := intake.ProcessUpload(context.Background(), file, header, constants.PurposeProfile, "ana@example.com")
		assert.True(t, utils.HasCode(err, constants.CodeImageType))
	})
}

func TestRemove(t *testing.T) {
	intake, dir := newTestIntake(t)
	ctx := context.Background()

	url, err := intake.Process(ctx, dataURI("image/png", pngBytes(t, 8, 8)), constants.PurposeProfile, "ana@example.com")
	require.NoError(t, err)

	require.NoError(t, intake.Remove(ctx, url))

	entries, err := os.ReadDir(filepath.Join(dir, constants.PurposeProfile))
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.NoError(t, intake.Remove(ctx, ""))
	assert.NoError(t, intake.Remove(ctx, url))
}

func TestLocalStoreIgnoresForeignPaths(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	outside := filepath.Join(filepath.Dir(root), "secreto.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	store := NewLocalStore(root, "/static/uploads")
	ctx := context.Background()

	for _, url := range []string{
		"/static/uploads/../secreto.txt",
		"/static/uploads/../../secreto.txt",
		"/static/otro/secreto.txt",
		"https://example.com/static/uploads/x.png",
		"/static/uploads/",
	} {
		assert.NoError(t, store.Delete(ctx, url), url)
	}

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
