package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidHJones36/roguetwo-api/internal/api/shared"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantError  string
	}{
		{
			name: "deadline exceeded without response",
			handler: func(_ http.ResponseWriter, r *http.Request) {
				<-r.Context().Done()
			},
			wantStatus: http.StatusGatewayTimeout,
			wantError:  "Request timed out",
		},
		{
			name: "handler responded before returning",
			handler: func(w http.ResponseWriter, r *http.Request) {
				<-r.Context().Done()
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to load profile")
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to load profile",
		},
		{
			name: "fast handler",
			handler: func(w http.ResponseWriter, r *http.Request) {
				shared.RespondWithSuccess(w, r)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := Timeout(20 * time.Millisecond)(tt.handler)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/profiles/me", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			if tt.wantError == "" {
				return
			}
			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}
