package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
	"github.com/DavidHJones36/roguetwo-api/internal/gate"
	"github.com/DavidHJones36/roguetwo-api/internal/mocks"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
)

const (
	approvedToken = "token-approved"
	pendingToken  = "token-pending"
	orphanToken   = "token-orphan"
)

type authFixture struct {
	router   http.Handler
	verifier *mocks.MockVerifier
	private  *mocks.MockPrivateProfileStore
	approved uuid.UUID
	pending  uuid.UUID
	calls    int
	seenID   uuid.UUID
	seenOK   bool
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		verifier: mocks.NewMockVerifier(),
		private:  mocks.NewMockPrivateProfileStore(),
		approved: uuid.New(),
		pending:  uuid.New(),
	}
	f.verifier.
		WithToken(approvedToken, f.approved).
		WithToken(pendingToken, f.pending).
		WithToken(orphanToken, uuid.New())

	sitter, err := domain.NewPrivateProfile(f.approved, domain.RoleSitter, "")
	require.NoError(t, err)
	host, err := domain.NewPrivateProfile(f.pending, domain.RoleHost, "")
	require.NoError(t, err)
	f.private.Put(sitter)
	f.private.Put(host)

	policy, err := gate.NewPolicy(
		[]string{"GET /health", "POST /auth/signup"},
		[]string{"GET /profiles/me", "GET /profiles/me/private"},
	)
	require.NoError(t, err)

	_, log := logger.NewTestLogger(t)
	auth := NewAuthMiddleware(f.verifier, gate.New(policy, f.private, log), log)

	handler := func(w http.ResponseWriter, r *http.Request) {
		f.calls++
		f.seenID, f.seenOK = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/health", handler)
		r.Post("/auth/signup", handler)
		r.Get("/profiles/me", handler)
		r.Get("/profiles/me/private", handler)
		r.Get("/profiles/{id}", handler)
		r.Options("/profiles/{id}", handler)
	})
	f.router = r
	return f
}

func (f *authFixture) do(method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["error"]
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	target := "/profiles/" + uuid.NewString()

	tests := []struct {
		name          string
		method        string
		path          string
		authorization string
		wantStatus    int
		wantError     string
		wantCalls     int
		wantVerifies  int
		wantReads     int
	}{
		{
			name:       "public route without token",
			method:     http.MethodGet,
			path:       "/health",
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:          "public route ignores bad token",
			method:        http.MethodPost,
			path:          "/auth/signup",
			authorization: "Bearer nope",
			wantStatus:    http.StatusOK,
			wantCalls:     1,
		},
		{
			name:       "preflight passes through",
			method:     http.MethodOptions,
			path:       target,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "missing token",
			method:     http.MethodGet,
			path:       target,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Missing bearer token",
		},
		{
			name:          "non-bearer scheme",
			method:        http.MethodGet,
			path:          target,
			authorization: "Basic dXNlcjpwYXNz",
			wantStatus:    http.StatusUnauthorized,
			wantError:     "Missing bearer token",
		},
		{
			name:          "empty bearer token",
			method:        http.MethodGet,
			path:          target,
			authorization: "Bearer   ",
			wantStatus:    http.StatusUnauthorized,
			wantError:     "Missing bearer token",
		},
		{
			name:          "expired or unknown token",
			method:        http.MethodGet,
			path:          "/profiles/me",
			authorization: "Bearer expired",
			wantStatus:    http.StatusUnauthorized,
			wantError:     "Invalid token",
			wantVerifies:  1,
		},
		{
			name:          "pending host on gated route",
			method:        http.MethodGet,
			path:          target,
			authorization: "Bearer " + pendingToken,
			wantStatus:    http.StatusForbidden,
			wantError:     "Account pending approval",
			wantVerifies:  1,
			wantReads:     1,
		},
		{
			name:          "pending host on approval-bypass route",
			method:        http.MethodGet,
			path:          "/profiles/me/private",
			authorization: "Bearer " + pendingToken,
			wantStatus:    http.StatusOK,
			wantCalls:     1,
			wantVerifies:  1,
		},
		{
			name:          "identity without private profile",
			method:        http.MethodGet,
			path:          target,
			authorization: "Bearer " + orphanToken,
			wantStatus:    http.StatusForbidden,
			wantError:     "Account pending approval",
			wantVerifies:  1,
			wantReads:     1,
		},
		{
			name:          "approved user",
			method:        http.MethodGet,
			path:          target,
			authorization: "Bearer " + approvedToken,
			wantStatus:    http.StatusOK,
			wantCalls:     1,
			wantVerifies:  1,
			wantReads:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newAuthFixture(t)
			rr := f.do(tt.method, tt.path, tt.authorization)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorBody(t, rr))
			}
			assert.Equal(t, tt.wantCalls, f.calls, "handler calls")
			assert.Equal(t, tt.wantVerifies, f.verifier.Calls(), "verifier calls")
			assert.Equal(t, tt.wantReads, f.private.ApprovalReads(), "approval reads")
		})
	}
}

func TestAuthenticateAttachesTokenSubject(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	rr := f.do(http.MethodGet, "/profiles/"+uuid.NewString(), "Bearer "+approvedToken)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, f.calls)
	assert.True(t, f.seenOK)
	assert.Equal(t, f.approved, f.seenID)
}

func TestAuthenticateApprovalTakesEffectImmediately(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	path := "/profiles/" + uuid.NewString()

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, path, "Bearer "+pendingToken).Code)

	f.private.SetApproved(f.pending, true)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, path, "Bearer "+pendingToken).Code)
}

func TestAuthenticateApprovalStoreFailure(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.private.GetApprovalError = errors.New("connection reset by peer")

	rr := f.do(http.MethodGet, "/profiles/"+uuid.NewString(), "Bearer "+approvedToken)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to check account approval", errorBody(t, rr))
	assert.Zero(t, f.calls)
}

func TestAuthenticateWithoutRouting(t *testing.T) {
	t.Parallel()

	policy, err := gate.NewPolicy([]string{"GET /health"}, nil)
	require.NoError(t, err)
	verifier := mocks.NewMockVerifier()
	auth := NewAuthMiddleware(verifier, gate.New(policy, mocks.NewMockPrivateProfileStore(), nil), nil)

	called := false
	h := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.True(t, called, "raw path is used as the route when no pattern is available")
	assert.Zero(t, verifier.Calls())
}

func TestNewAuthMiddlewarePanics(t *testing.T) {
	t.Parallel()

	policy, err := gate.NewPolicy(nil, nil)
	require.NoError(t, err)
	g := gate.New(policy, mocks.NewMockPrivateProfileStore(), nil)

	assert.Panics(t, func() { NewAuthMiddleware(nil, g, nil) })
	assert.Panics(t, func() { NewAuthMiddleware(mocks.NewMockVerifier(), nil, nil) })
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "", ok: false},
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "Bearer  abc ", want: "abc", ok: true},
		{header: "bearer abc", ok: false},
		{header: "Bearer", ok: false},
		{header: "Token abc", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := bearerToken(req)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
