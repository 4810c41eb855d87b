package api

import (
	"log/slog"
	"net/http"

	"github.com/DavidHJones36/roguetwo-api/internal/api/shared"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
	"github.com/DavidHJones36/roguetwo-api/internal/service"
)

const (
	msgProfileUpdateRequired = "first_name and last_name are required"
	msgProfileLoadFailed     = "Failed to load profile"
	msgProfileUpdateFailed   = "Failed to update profile"
	msgSubscriptionFailed    = "Failed to load subscription data"
)

// ProfileHandler serves the /profiles routes.
type ProfileHandler struct {
	profiles service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles service.ProfileService, logger *slog.Logger) *ProfileHandler {
	if profiles == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("profile service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger.With(slog.String("component", "profile_handler")),
	}
}

// GetMe handles GET /profiles/me
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.GetPublicProfile(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, msgProfileLoadFailed)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}

// UpdateMe handles PUT /profiles/me by creating or replacing the caller's
// public profile.
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgInvalidRequestFormat)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgProfileUpdateRequired)
		return
	}

	if err := h.profiles.UpdatePublicProfile(r.Context(), userID, req.FirstName, req.LastName, req.AvatarURL); err != nil {
		HandleAPIError(w, r, err, msgProfileUpdateFailed)
		return
	}

	shared.RespondWithSuccess(w, r)
}

// GetMyPrivate handles GET /profiles/me/private. It is reachable before
// approval so a pending host can see why the rest of the API refuses them.
func (h *ProfileHandler) GetMyPrivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.GetPrivateProfile(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, msgProfileLoadFailed)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, privateProfileToResponse(profile))
}

// GetMySubscription handles GET /profiles/me/subscription
func (h *ProfileHandler) GetMySubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sub, err := h.profiles.GetSubscription(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, msgSubscriptionFailed)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sub)
}

// Batch handles GET /profiles/batch?ids=a,b,c. Unknown IDs are omitted
// from the result.
func (h *ProfileHandler) Batch(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	profiles, err := h.profiles.ListPublicProfiles(r.Context(), ids)
	if err != nil {
		HandleAPIError(w, r, err, msgProfileLoadFailed)
		return
	}

	resp := make([]PublicProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, publicProfileToResponse(p, true))
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("batch profile lookup",
		slog.Int("requested", len(ids)),
		slog.Int("found", len(resp)))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetByID handles GET /profiles/{id}
func (h *ProfileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	profile, err := h.profiles.GetPublicProfile(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, msgProfileLoadFailed)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, publicProfileToResponse(profile, false))
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
