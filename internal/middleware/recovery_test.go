package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/middleware"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = original })
	return &buf
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name    string
		handler http.Handler
		panics  bool
	}{
		{
			name: "No panic occurs",
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("Success"))
			}),
		},
		{
			name: "Panic with error",
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(errors.New("test error"))
			}),
			panics: true,
		},
		{
			name: "Panic with string",
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("test panic")
			}),
			panics: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logBuf := captureLogs(t)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req = req.WithContext(context.WithValue(req.Context(), chimw.RequestIDKey, "test-request-id"))
			rr := httptest.NewRecorder()

			middleware.Recovery()(tt.handler).ServeHTTP(rr, req)

			if !tt.panics {
				assert.Equal(t, http.StatusOK, rr.Code)
				assert.Equal(t, "Success", rr.Body.String())
				assert.Empty(t, logBuf.String())
				return
			}

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			body := decodeEnvelope(t, rr)
			assert.Equal(t, false, body["exito"])
			assert.Equal(t, constants.CodeInternalError, body["codigo_error"])
			assert.Equal(t, constants.MsgInternalServerError, body["mensaje"])

			logs := logBuf.String()
			assert.Contains(t, logs, "Panic recovered in request handler")
			assert.Contains(t, logs, "test-request-id")
		})
	}
}

func TestRecoveryRepanicsOnAbort(t *testing.T) {
	handler := middleware.Recovery()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
