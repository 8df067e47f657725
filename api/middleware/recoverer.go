package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/clinic-checkout/api/responses"
	pkgerrors "github.com/angelmondragon/clinic-checkout/pkg/errors"
	"github.com/angelmondragon/clinic-checkout/pkg/logger"
)

// Recoverer turns a panic inside a quote handler into an INTERNAL_ERROR
// envelope. The panic value is logged but never returned to the caller.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
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
				err := fmt.Errorf("panic: %v", rec)
				ctx := logg.WithFields(r.Context(), map[string]any{
					"panic":  fmt.Sprint(rec),
					"method": r.Method,
					"path":   r.URL.Path,
				})
				logg.Error(ctx, "panic.recovered", err)
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "quote handler panicked"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
