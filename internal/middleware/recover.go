package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"pet-care-management/internal/platform/httpx"
	"pet-care-management/internal/platform/logger"
)

// Recover convierte un panic en la respuesta envelope 500 y lo loguea con stack.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.FromContext(r.Context()).Error("panic recovered", map[string]any{
				"panic":  fmt.Sprint(rec),
				"method": r.Method,
				"path":   r.URL.Path,
				"stack":  string(debug.Stack()),
			})
			httpx.JSON(w, http.StatusInternalServerError, httpx.Envelope{
				Code: httpx.CodeInternal,
				Msg:  "internal server error",
			})
		}()

		next.ServeHTTP(w, r)
	})
}
