package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/DavidHJones36/roguetwo-api/internal/api/shared"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
	"github.com/DavidHJones36/roguetwo-api/internal/service/signup"
)

const (
	msgInvalidRequestFormat = "Invalid request format"
	msgSignupFailed         = "Failed to create account"
)

// AuthHandler handles the public signup endpoints.
type AuthHandler struct {
	signup signup.Service
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(signupService signup.Service, logger *slog.Logger) *AuthHandler {
	if signupService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("signup service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		signup: signupService,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// Signup handles POST /auth/signup: it creates the identity and both
// profiles, or nothing.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.badBody(w, r, err)
		return
	}

	err := h.signup.Signup(r.Context(), signup.FullRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		AvatarURL: req.AvatarURL,
		Phone:     req.Phone,
	})
	if err != nil {
		HandleAPIError(w, r, err, msgSignupFailed)
		return
	}

	shared.RespondWithSuccess(w, r)
}

// SignupProfile handles POST /auth/signup-profile: it creates both profiles
// for the identity the supplied token belongs to.
func (h *AuthHandler) SignupProfile(w http.ResponseWriter, r *http.Request) {
	var req SignupProfileRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.badBody(w, r, err)
		return
	}

	err := h.signup.SignupWithToken(r.Context(), signup.ProfileRequest{
		Token:     req.Token,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		AvatarURL: req.AvatarURL,
		Phone:     req.Phone,
	})
	if err != nil {
		HandleAPIError(w, r, err, msgSignupFailed)
		return
	}

	shared.RespondWithSuccess(w, r)
}

func (h *AuthHandler) badBody(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("rejected request body",
		slog.Bool("empty", errors.Is(err, shared.ErrEmptyBody)),
		slog.String("error", err.Error()))
	shared.RespondWithError(w, r, http.StatusBadRequest, msgInvalidRequestFormat)
}
