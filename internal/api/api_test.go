package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DavidHJones36/roguetwo-api/internal/api/middleware"
	"github.com/DavidHJones36/roguetwo-api/internal/domain"
	"github.com/DavidHJones36/roguetwo-api/internal/gate"
	"github.com/DavidHJones36/roguetwo-api/internal/mocks"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
	"github.com/DavidHJones36/roguetwo-api/internal/service"
	"github.com/DavidHJones36/roguetwo-api/internal/service/signup"
)

// testServer wires the real handlers, services, gate and middleware over
// in-memory dependencies.
type testServer struct {
	handler  http.Handler
	admin    *mocks.MockIdentityAdmin
	verifier *mocks.MockVerifier
	profiles *mocks.MockProfileStore
	private  *mocks.MockPrivateProfileStore
	emitter  *mocks.MockEventEmitter
	logs     *logger.TestLogBuffer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	buf, log := logger.NewTestLogger(t)
	s := &testServer{
		admin:    mocks.NewMockIdentityAdmin(),
		verifier: mocks.NewMockVerifier(),
		profiles: mocks.NewMockProfileStore(),
		private:  mocks.NewMockPrivateProfileStore(),
		emitter:  &mocks.MockEventEmitter{},
		logs:     buf,
	}

	signupService, err := signup.NewService(s.admin, s.verifier, s.profiles, s.private, log,
		signup.WithEventEmitter(s.emitter))
	require.NoError(t, err)

	routes := Routes(
		NewAuthHandler(signupService, log),
		NewProfileHandler(service.NewProfileService(s.profiles, s.private, log), log),
	)
	policy, err := Policy(routes)
	require.NoError(t, err)
	auth := middleware.NewAuthMiddleware(s.verifier, gate.New(policy, s.private, log), log)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(log))
	Mount(r, routes, auth.Authenticate)
	s.handler = r
	return s
}

// account creates both profiles for a new identity and returns its token.
func (s *testServer) account(t *testing.T, role domain.Role, approved bool) (string, uuid.UUID) {
	t.Helper()

	id := uuid.New()
	token := "token-" + id.String()
	s.verifier.WithToken(token, id)

	public, err := domain.NewPublicProfile(id, "Ada", "Lovelace", "")
	require.NoError(t, err)
	s.profiles.Put(public)

	private, err := domain.NewPrivateProfile(id, role, "")
	require.NoError(t, err)
	private.Approved = approved
	s.private.Put(private)

	return token, id
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rr, &body)
	return body["error"]
}
