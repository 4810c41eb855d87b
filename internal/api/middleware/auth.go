package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/DavidHJones36/roguetwo-api/internal/api/shared"
	"github.com/DavidHJones36/roguetwo-api/internal/gate"
	"github.com/DavidHJones36/roguetwo-api/internal/identity"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
)

const bearerPrefix = "Bearer "

// Client-facing messages of the authentication middleware.
const (
	msgMissingToken    = "Missing bearer token"
	msgInvalidToken    = "Invalid token"
	msgPendingApproval = "Account pending approval"
	msgApprovalFailed  = "Failed to check account approval"
)

// AuthMiddleware authenticates bearer tokens and enforces the approval gate.
type AuthMiddleware struct {
	verifier identity.Verifier
	gate     *gate.Gate
	logger   *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(verifier identity.Verifier, g *gate.Gate, logger *slog.Logger) *AuthMiddleware {
	if verifier == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("verifier cannot be nil")
	}
	if g == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("gate cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		verifier: verifier,
		gate:     g,
		logger:   logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate verifies the bearer token, attaches the identity ID to the
// request context and asks the gate whether the identity may call the route.
//
// It must run after routing (inside a chi Group or With) so the matched route
// pattern is available; otherwise the raw URL path is used as the route.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		route := routePattern(r)
		if m.gate.Policy().BypassesAuthentication(gate.RouteKey(r.Method, route)) {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, msgMissingToken)
			return
		}

		ident, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, msgInvalidToken, err,
				shared.WithElevatedLogLevel())
			return
		}

		log := logger.FromContextOrDefault(r.Context(), m.logger).
			With(slog.String("identity_id", ident.ID.String()))
		ctx := logger.WithLogger(shared.WithUserID(r.Context(), ident.ID), log)
		r = r.WithContext(ctx)

		decision, err := m.gate.Check(ctx, r.Method, route, ident.ID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, msgApprovalFailed, err)
			return
		}
		if !decision.Allowed {
			shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, msgPendingApproval, decision.Err())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// routePattern returns the chi route pattern of r, or its path when the
// request has not been routed.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
