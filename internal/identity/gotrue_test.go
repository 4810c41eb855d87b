package identity

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GoTrueClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewGoTrueClient(srv.URL+"/", "anon-key", "service-key", time.Second, nil)
	require.NoError(t, err)
	return client
}

func TestNewGoTrueClientValidation(t *testing.T) {
	_, err := NewGoTrueClient("", "anon", "service", 0, nil)
	assert.Error(t, err)

	_, err = NewGoTrueClient("http://localhost", "anon", "", 0, nil)
	assert.Error(t, err)
}

func TestGoTrueVerify(t *testing.T) {
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/auth/v1/user", r.URL.Path)
			assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
			assert.Equal(t, "anon-key", r.Header.Get("apikey"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":                 userID.String(),
				"email":              "host@example.com",
				"email_confirmed_at": time.Now().UTC(),
			})
		})

		identity, err := client.Verify(t.Context(), "good-token")
		require.NoError(t, err)
		assert.Equal(t, userID, identity.ID)
		assert.Equal(t, "host@example.com", identity.Email)
		assert.True(t, identity.Confirmed)
	})

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "provider rejects token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			},
		},
		{
			name: "provider returns no user",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{}`))
			},
		},
		{
			name: "provider returns garbage",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
		{
			name: "provider returns malformed id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"id":"not-a-uuid"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			identity, err := client.Verify(t.Context(), "some-token")
			assert.Nil(t, identity)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}

	t.Run("empty token makes no call", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		})

		_, err := client.Verify(t.Context(), "")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Zero(t, calls.Load())
	})

	t.Run("unreachable provider fails closed", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client, err := NewGoTrueClient(srv.URL, "anon", "service", time.Second, nil)
		require.NoError(t, err)

		_, err = client.Verify(t.Context(), "token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestGoTrueCreateUser(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/auth/v1/admin/users", r.URL.Path)
			assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
			assert.Equal(t, "service-key", r.Header.Get("apikey"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "new@example.com", body["email"])
			assert.Equal(t, "s3cret-pass", body["password"])
			assert.Equal(t, true, body["email_confirm"])

			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":                 userID.String(),
				"email":              "new@example.com",
				"email_confirmed_at": time.Now().UTC(),
			})
		})

		identity, err := client.CreateUser(t.Context(), "new@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, userID, identity.ID)
		assert.True(t, identity.Confirmed)
	})

	tests := []struct {
		name            string
		status          int
		body            string
		wantClientFault bool
		wantMessage     string
	}{
		{
			name:            "duplicate email",
			status:          http.StatusUnprocessableEntity,
			body:            `{"code":422,"msg":"A user with this email address has already been registered"}`,
			wantClientFault: true,
			wantMessage:     "A user with this email address has already been registered",
		},
		{
			name:            "weak password",
			status:          http.StatusBadRequest,
			body:            `{"error":"weak_password","error_description":"Password should be at least 6 characters"}`,
			wantClientFault: true,
			wantMessage:     "Password should be at least 6 characters",
		},
		{
			name:            "bad service key",
			status:          http.StatusUnauthorized,
			body:            `{"message":"Invalid API key"}`,
			wantClientFault: false,
			wantMessage:     "Invalid API key",
		},
		{
			name:            "provider down",
			status:          http.StatusBadGateway,
			body:            ``,
			wantClientFault: false,
			wantMessage:     "status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			identity, err := client.CreateUser(t.Context(), "a@example.com", "pw")
			assert.Nil(t, identity)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDependency)

			var depErr *domain.DependencyError
			require.True(t, errors.As(err, &depErr))
			assert.Equal(t, tt.wantClientFault, depErr.ClientFault)
			assert.Equal(t, tt.status, depErr.StatusCode)
			assert.Equal(t, tt.wantMessage, depErr.Message)
			assert.Equal(t, tt.wantClientFault, domain.IsClientFault(err))
		})
	}
}

func TestGoTrueDeleteUser(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/auth/v1/admin/users/"+userID.String(), r.URL.Path)
			assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
		})

		assert.NoError(t, client.DeleteUser(t.Context(), userID))
	})

	t.Run("already gone", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"msg":"User not found"}`))
		})

		err := client.DeleteUser(t.Context(), userID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, err, domain.ErrDependency)
		assert.False(t, domain.IsClientFault(err))
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		err := client.DeleteUser(t.Context(), userID)
		assert.ErrorIs(t, err, domain.ErrDependency)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})
}
