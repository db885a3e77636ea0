package middleware

import (
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/utils"
)

// Recovery is a middleware that recovers from panics and returns a 500 INTERNAL_ERROR envelope
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				utils.LogPanic(rec, debug.Stack(), chimw.GetReqID(r.Context()), r.Method, r.URL.Path)

				utils.Error(
					w,
					http.StatusInternalServerError,
					constants.CodeInternalError,
					constants.MsgInternalServerError,
				)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
