package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/DavidHJones36/roguetwo-api/internal/api/shared"
)

const timeoutMessage = "Request timed out"

// Timeout cancels the request context after d. If the handler returns
// after the deadline without writing a response, a JSON 504 is sent.
// Handlers must honor ctx.Done() for the deadline to cut work short.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(ctx)
			next.ServeHTTP(ww, r)

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
				shared.RespondWithError(ww, r, http.StatusGatewayTimeout, timeoutMessage)
			}
		})
	}
}
