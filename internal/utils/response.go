// Package utils provides utility functions and helpers for the application.
// This file implements the response envelope shared by every endpoint.
//
// Every JSON response is a single flat object:
//   - mensaje: a human readable message
//   - exito: whether the request succeeded
//   - codigo_error: a machine readable code, present on failures only
//   - any endpoint specific keys, merged at the top level
package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/constants"
)

// Envelope keys
const (
	KeyMessage   = "mensaje"
	KeySuccess   = "exito"
	KeyErrorCode = "codigo_error"
)

// Payload holds the endpoint specific keys merged into the envelope
type Payload map[string]interface{}

// Success sends a successful envelope with the given status code.
// Keys in data never override mensaje or exito.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - message: The human readable message
//   - data: Additional keys to merge into the envelope, may be nil
func Success(w http.ResponseWriter, statusCode int, message string, data Payload) {
	body := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		body[k] = v
	}
	body[KeyMessage] = message
	body[KeySuccess] = true

	SendJSON(w, statusCode, body)
}

// OK is shorthand for Success with http.StatusOK
func OK(w http.ResponseWriter, message string, data Payload) {
	Success(w, http.StatusOK, message, data)
}

// Error sends a failed envelope.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - code: The machine readable error code, omitted when empty
//   - message: The human readable message
func Error(w http.ResponseWriter, statusCode int, code, message string) {
	body := map[string]interface{}{
		KeyMessage: message,
		KeySuccess: false,
	}
	if code != "" {
		body[KeyErrorCode] = code
	}

	SendJSON(w, statusCode, body)
}

// ErrorFromAppError sends a failed envelope built from an AppError.
// Server side failures are logged with their developer info, which is never sent to the client.
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	if err.StatusCode >= http.StatusInternalServerError {
		log.Error().
			Err(err.Err).
			Str("code", err.Code).
			Str("dev_info", err.DevInfo).
			Msg("Request failed")
	}

	Error(w, err.StatusCode, err.Code, err.Message)
}

// RespondError converts any error into the envelope.
// Errors that are not AppErrors become a generic INTERNAL_ERROR.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = ParseError(err)
	}
	ErrorFromAppError(w, appErr)
}

// SendJSON marshals data and writes it with the JSON content type
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		fallback := fmt.Sprintf(`{"%s":%q,"%s":false,"%s":%q}`,
			KeyMessage, constants.MsgInternalServerError, KeySuccess, KeyErrorCode, constants.CodeInternalError)
		if _, err := w.Write([]byte(fallback)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// Attachment sends binary content as a downloadable file
//
// Parameters:
//   - w: The HTTP response writer
//   - contentType: The media type of the content
//   - filename: The suggested download name
//   - content: The file bytes
func Attachment(w http.ResponseWriter, contentType, filename string, content []byte) {
	w.Header().Set(constants.HeaderContentType, contentType)
	w.Header().Set(constants.HeaderContentLength, fmt.Sprintf("%d", len(content)))
	w.Header().Set(constants.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s",
			filename,
			url.PathEscape(filename)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(content); err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("Failed to write attachment")
	}
}

// NotFound sends the envelope for unknown routes
func NotFound(w http.ResponseWriter, _ *http.Request) {
	Error(w, http.StatusNotFound, constants.CodeNotFound, constants.MsgNotFound)
}

// MethodNotAllowed sends the envelope for unsupported methods
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	Error(w, http.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, constants.MsgMethodNotAllowed)
}
