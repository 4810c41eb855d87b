package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidHJones36/roguetwo-api/internal/config"
	"github.com/DavidHJones36/roguetwo-api/internal/domain"
	"github.com/DavidHJones36/roguetwo-api/internal/mocks"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
	"github.com/DavidHJones36/roguetwo-api/internal/service"
	"github.com/DavidHJones36/roguetwo-api/internal/service/signup"
)

func newTestApplication(t *testing.T, origins []string) (*application, *mocks.MockVerifier, *mocks.MockPrivateProfileStore) {
	t.Helper()

	_, log := logger.NewTestLogger(t)
	verifier := mocks.NewMockVerifier()
	admin := mocks.NewMockIdentityAdmin()
	profiles := mocks.NewMockProfileStore()
	private := mocks.NewMockPrivateProfileStore()
	emitter := &mocks.MockEventEmitter{}

	signupService, err := signup.NewService(admin, verifier, profiles, private, log, signup.WithEventEmitter(emitter))
	require.NoError(t, err)

	app := &application{
		config: &config.Config{Server: config.ServerConfig{
			Port:               8080,
			LogLevel:           "debug",
			RequestTimeout:     5 * time.Second,
			CORSAllowedOrigins: origins,
		}},
		logger:         log,
		profileStore:   profiles,
		privateStore:   private,
		verifier:       verifier,
		admin:          admin,
		approvals:      private,
		eventEmitter:   emitter,
		signupService:  signupService,
		profileService: service.NewProfileService(profiles, private, log),
	}
	return app, verifier, private
}

func TestSetupRouterHealth(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApplication(t, nil)
	router, err := app.setupRouter()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))
}

func TestSetupRouterCORSPreflight(t *testing.T) {
	t.Parallel()

	app, verifier, _ := newTestApplication(t, nil)
	router, err := app.setupRouter()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/profiles/me", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Less(t, rr.Code, 300)
	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	assert.Zero(t, verifier.Calls(), "preflight never reaches the verifier")
}

func TestSetupRouterGatesRoutes(t *testing.T) {
	t.Parallel()

	app, verifier, private := newTestApplication(t, nil)
	router, err := app.setupRouter()
	require.NoError(t, err)

	hostID := uuid.New()
	verifier.WithToken("host", hostID)
	host, err := domain.NewPrivateProfile(hostID, domain.RoleHost, "")
	require.NoError(t, err)
	private.Put(host)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer host")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	rr := get("/profiles/me/private")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"approved":false`)

	rr = get("/profiles/" + uuid.NewString())
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"error":"Account pending approval"}`, rr.Body.String())
}

func TestAllowOrigin(t *testing.T) {
	t.Parallel()

	open, _, _ := newTestApplication(t, nil)
	assert.True(t, open.allowOrigin(nil, "https://anything.example"))

	wildcard, _, _ := newTestApplication(t, []string{"*"})
	assert.True(t, wildcard.allowOrigin(nil, "https://anything.example"))

	restricted, _, _ := newTestApplication(t, []string{"https://app.example.com"})
	assert.True(t, restricted.allowOrigin(nil, "https://app.example.com"))
	assert.False(t, restricted.allowOrigin(nil, "https://evil.example"))
}

func TestSetupRouterUnmatchedRequestsReturnJSON(t *testing.T) {
	t.Parallel()

	app, verifier, _ := newTestApplication(t, nil)
	router, err := app.setupRouter()
	require.NoError(t, err)

	tests := []struct {
		method, path string
		wantStatus   int
		wantBody     string
	}{
		{http.MethodGet, "/events", http.StatusNotFound, `{"error":"Not found"}`},
		{http.MethodDelete, "/profiles/me", http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer whatever")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))
		})
	}
	assert.Zero(t, verifier.Calls(), "unmatched requests never reach the verifier")
}
