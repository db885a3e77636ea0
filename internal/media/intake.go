package media

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/utils"
)

// Intake turns data URIs and multipart uploads into stored image URLs
type Intake struct {
	store ObjectStore
	now   func() time.Time
}

// NewIntake creates an Intake writing to store
func NewIntake(store ObjectStore) *Intake {
	return &Intake{
		store: store,
		now:   time.Now,
	}
}

// Process stores the image carried by a data:image/<type>;base64 URI and returns its URL.
// Any other value, such as an already stored URL or an empty string, is returned unchanged.
func (in *Intake) Process(ctx context.Context, value, purpose, ownerEmail string) (string, error) {
	if !strings.HasPrefix(value, constants.DataURIPrefix) {
		return value, nil
	}

	mimeType, data, err := decodeDataURI(value)
	if err != nil {
		return "", err
	}

	return in.persist(ctx, mimeType, data, purpose, ownerEmail)
}

// ProcessUpload stores an image received as a multipart file and returns its URL
func (in *Intake) ProcessUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader, purpose, ownerEmail string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, constants.MaxImageSize+1))
	if err != nil {
		return "", utils.NewRuleError(constants.CodeImageInvalid, constants.MsgImageInvalid)
	}

	mimeType := ""
	if header != nil {
		mimeType = header.Header.Get(constants.HeaderContentType)
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	mimeType = strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))

	if _, ok := constants.AllowedImageTypes[mimeType]; !ok {
		return "", utils.NewRuleError(constants.CodeImageType, constants.MsgImageType)
	}
	if err := checkSize(data); err != nil {
		return "", err
	}

	return in.persist(ctx, mimeType, data, purpose, ownerEmail)
}

// Remove deletes a stored image and its thumbnail. Empty and foreign URLs are ignored.
func (in *Intake) Remove(ctx context.Context, url string) error {
	if url == "" || strings.HasPrefix(url, constants.DataURIPrefix) {
		return nil
	}

	if err := in.store.Delete(ctx, url); err != nil {
		return err
	}

	dir, file := path.Split(url)
	if err := in.store.Delete(ctx, dir+constants.ThumbnailPrefix+file); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Failed to delete thumbnail")
	}
	return nil
}

// persist validates the decoded bytes and writes the image and its thumbnail
func (in *Intake) persist(ctx context.Context, mimeType string, data []byte, purpose, ownerEmail string) (string, error) {
	ext := constants.AllowedImageTypes[mimeType]

	thumb, err := thumbnail(ext, data)
	if err != nil {
		return "", err
	}

	filename, err := in.filename(ownerEmail, ext)
	if err != nil {
		return "", utils.NewInternalServerError(err)
	}

	url, err := in.store.Put(ctx, purpose, filename, mimeType, data)
	if err != nil {
		return "", utils.NewInternalServerError(err)
	}

	if thumb != nil {
		if _, err := in.store.Put(ctx, purpose, constants.ThumbnailPrefix+filename, mimeType, thumb); err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("Failed to store thumbnail")
		}
	}

	log.Debug().
		Str("purpose", purpose).
		Str("file", filename).
		Int("bytes", len(data)).
		Msg("Image stored")

	return url, nil
}

// filename builds <unix-ts>_<local-part>_<8 hex>.<ext>
func (in *Intake) filename(ownerEmail, ext string) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}

	return fmt.Sprintf("%d_%s_%s.%s",
		in.now().Unix(),
		utils.SanitizeFilePart(utils.LocalPart(ownerEmail)),
		hex.EncodeToString(suffix),
		ext), nil
}

// decodeDataURI splits a data URI into its MIME type and decoded payload
func decodeDataURI(value string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(value, constants.DataURIPrefix), ",")
	if !ok {
		return "", nil, utils.NewRuleError(constants.CodeImageInvalid, constants.MsgImageInvalid)
	}

	params := strings.Split(meta, ";")
	mimeType := strings.ToLower(strings.TrimSpace(params[0]))
	if _, allowed := constants.AllowedImageTypes[mimeType]; !allowed {
		return "", nil, utils.NewRuleError(constants.CodeImageType, constants.MsgImageType)
	}

	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}
	if !isBase64 {
		return "", nil, utils.NewRuleError(constants.CodeImageInvalid, constants.MsgImageInvalid)
	}

	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", nil, utils.NewRuleError(constants.CodeImageEmpty, constants.MsgImageEmpty)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > constants.MaxImageSize+3 {
		return "", nil, utils.NewRuleError(constants.CodeImageTooLarge, constants.MsgImageTooLarge)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, utils.NewRuleError(constants.CodeImageInvalid, constants.MsgImageInvalid)
		}
	}

	if err := checkSize(data); err != nil {
		return "", nil, err
	}
	return mimeType, data, nil
}

func checkSize(data []byte) error {
	if len(data) == 0 {
		return utils.NewRuleError(constants.CodeImageEmpty, constants.MsgImageEmpty)
	}
	if len(data) > constants.MaxImageSize {
		return utils.NewRuleError(constants.CodeImageTooLarge, constants.MsgImageTooLarge)
	}
	return nil
}

// thumbnail decodes jpeg and png images and returns a resized copy in the same format.
// Other formats are stored without a thumbnail.
func thumbnail(ext string, data []byte) ([]byte, error) {
	var format imaging.Format
	switch ext {
	case "jpg":
		format = imaging.JPEG
	case "png":
		format = imaging.PNG
	default:
		return nil, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, utils.NewRuleError(constants.CodeImageInvalid, constants.MsgImageInvalid)
	}

	var thumb image.Image = img
	if img.Bounds().Dx() > constants.ThumbnailWidth {
		thumb = imaging.Resize(img, constants.ThumbnailWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		return nil, utils.NewInternalServerError(err)
	}
	return buf.Bytes(), nil
}
