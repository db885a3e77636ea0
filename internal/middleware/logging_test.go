package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/proyectoiso/recetario/internal/middleware"
)

func TestRequestLogger(t *testing.T) {
	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	defer zerolog.SetGlobalLevel(previous)

	tests := []struct {
		name       string
		path       string
		status     int
		wantLogged bool
		wantLevel  string
	}{
		{name: "Successful request", path: "/api/mis-recetas", status: http.StatusOK, wantLogged: true, wantLevel: `"level":"info"`},
		{name: "Client error", path: "/crear-receta", status: http.StatusBadRequest, wantLogged: true, wantLevel: `"level":"warn"`},
		{name: "Server error", path: "/crear-receta", status: http.StatusInternalServerError, wantLogged: true, wantLevel: `"level":"error"`},
		{name: "Health check", path: "/health", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logBuf := captureLogs(t)
			handler := middleware.RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rr.Code)
			logs := logBuf.String()
			if !tt.wantLogged {
				assert.Empty(t, logs)
				return
			}
			assert.Contains(t, logs, "HTTP Request")
			assert.Contains(t, logs, tt.path)
			assert.Contains(t, logs, tt.wantLevel)
		})
	}
}

func TestRequestLoggerDefaultsToOK(t *testing.T) {
	logBuf := captureLogs(t)
	handler := middleware.RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/perfil", nil))

	assert.Contains(t, logBuf.String(), `"status":200`)
}
