package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/clinic-checkout/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"
	sessionIDHeader = "X-Checkout-Session-Id"
)

// RequestID stamps every request with a uuid request id. A caller supplied id
// is kept only when it parses as a uuid. The optional checkout session header
// is attached to the log context so quote calls can be correlated with the
// front desk session that issued them.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := uuid.NewString()
			if parsed, err := uuid.Parse(r.Header.Get(requestIDHeader)); err == nil {
				reqID = parsed.String()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := logg.WithRequestID(r.Context(), reqID)
			if sessionID, err := uuid.Parse(r.Header.Get(sessionIDHeader)); err == nil {
				ctx = logg.WithSessionID(ctx, sessionID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
