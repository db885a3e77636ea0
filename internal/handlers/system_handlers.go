package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/utils"
)

// SystemHandler serves the health and version endpoints
type SystemHandler struct {
	stores      map[string]HealthChecker
	version     string
	environment string
}

// NewSystemHandler creates a new SystemHandler.
//
// Parameters:
//   - version: The application version reported by /version and /health
//   - environment: The deployment environment
//   - stores: The stores checked by /health, keyed by a name used in logs
func NewSystemHandler(version, environment string, stores map[string]HealthChecker) *SystemHandler {
	return &SystemHandler{
		stores:      stores,
		version:     version,
		environment: environment,
	}
}

// Health reports 200 when every store is readable and writable
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	for name, store := range h.stores {
		if err := store.HealthCheck(r.Context()); err != nil {
			log.Error().Err(err).Str("store", name).Msg("Health check failed")
			utils.Error(w, http.StatusServiceUnavailable, constants.CodeServiceUnavailable, constants.MsgServiceUnavailable)
			return
		}
	}

	utils.OK(w, constants.MsgHealthy, utils.Payload{
		"status":  "healthy",
		"version": h.version,
	})
}

// Version reports the application version and environment
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	utils.OK(w, constants.MsgVersion, utils.Payload{
		"version":     h.version,
		"environment": h.environment,
	})
}
