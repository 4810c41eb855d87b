package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/DavidHJones36/roguetwo-api/internal/api/shared"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
	"github.com/DavidHJones36/roguetwo-api/internal/redact"
)

const panicMessage = "An unexpected error occurred"

// Recoverer turns a handler panic into a JSON 500 response and logs the
// panic with its stack. http.ErrAbortHandler is re-raised so net/http can
// abort the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			logger.FromContextOrDefault(r.Context(), slog.Default()).Error("panic recovered",
				slog.String("stack", redact.String(string(debug.Stack()))))
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, panicMessage,
				fmt.Errorf("panic: %v", rvr))
		}()

		next.ServeHTTP(w, r)
	})
}
