package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/DavidHJones36/roguetwo-api/internal/api"
	apiMiddleware "github.com/DavidHJones36/roguetwo-api/internal/api/middleware"
	"github.com/DavidHJones36/roguetwo-api/internal/gate"
)

const corsMaxAge = 300

// setupRouter creates and configures the application router with all routes and middleware.
// The approval policy is derived from the same route table the router mounts.
func (app *application) setupRouter() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  app.allowOrigin,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}))
	r.Use(apiMiddleware.Timeout(app.config.Server.RequestTimeout))

	routes := api.Routes(
		api.NewAuthHandler(app.signupService, app.logger),
		api.NewProfileHandler(app.profileService, app.logger),
	)
	policy, err := api.Policy(routes)
	if err != nil {
		return nil, err
	}

	approvalGate := gate.New(policy, app.approvals, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.verifier, approvalGate, app.logger)
	api.Mount(r, routes, authMiddleware.Authenticate)

	return r, nil
}

// allowOrigin reflects any origin unless an allow list is configured.
func (app *application) allowOrigin(_ *http.Request, origin string) bool {
	allowed := app.config.Server.CORSAllowedOrigins
	if len(allowed) == 0 {
		return true
	}
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
