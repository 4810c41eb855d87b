package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DavidHJones36/roguetwo-api/internal/api/shared"
	"github.com/DavidHJones36/roguetwo-api/internal/gate"
)

// Route binds a handler to a method, a chi pattern and an access tier.
type Route struct {
	gate.Route
	Handler http.HandlerFunc
}

// Routes is the declarative route table of the gateway. The approval
// gate's policy is derived from it, so adding a route here is the only
// place its access tier is decided.
func Routes(auth *AuthHandler, profiles *ProfileHandler) []Route {
	return []Route{
		route(http.MethodGet, "/health", gate.TierPublic, Health),
		route(http.MethodPost, "/auth/signup", gate.TierPublic, auth.Signup),
		route(http.MethodPost, "/auth/signup-profile", gate.TierPublic, auth.SignupProfile),

		route(http.MethodGet, "/profiles/me", gate.TierAuthenticated, profiles.GetMe),
		route(http.MethodGet, "/profiles/me/private", gate.TierAuthenticated, profiles.GetMyPrivate),
		route(http.MethodGet, "/profiles/me/subscription", gate.TierAuthenticated, profiles.GetMySubscription),

		route(http.MethodPut, "/profiles/me", gate.TierApproved, profiles.UpdateMe),
		route(http.MethodGet, "/profiles/batch", gate.TierApproved, profiles.Batch),
		route(http.MethodGet, "/profiles/{id}", gate.TierApproved, profiles.GetByID),
	}
}

func route(method, pattern string, tier gate.Tier, h http.HandlerFunc) Route {
	return Route{
		Route:   gate.Route{Method: method, Pattern: pattern, Tier: tier},
		Handler: h,
	}
}

// Policy derives the approval gate policy from a route table.
func Policy(routes []Route) (gate.Policy, error) {
	table := make([]gate.Route, len(routes))
	for i, r := range routes {
		table[i] = r.Route
	}
	return gate.PolicyFromRoutes(table)
}

// Mount registers routes on r behind authenticate. The middleware runs
// after routing so it sees the matched pattern. Unmatched paths and
// methods get JSON errors and never reach authenticate.
func Mount(r chi.Router, routes []Route, authenticate func(http.Handler) http.Handler) {
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		for _, rt := range routes {
			r.Method(rt.Method, rt.Pattern, rt.Handler)
		}
	})
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
}

// MethodNotAllowed answers requests whose path exists under other methods.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}
