package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
)

const (
	userPath      = "/auth/v1/user"
	adminUserPath = "/auth/v1/admin/users"

	// maxResponseBytes bounds how much of a provider response is read.
	maxResponseBytes = 1 << 20
)

// GoTrueClient calls a GoTrue-compatible identity provider over HTTP.
// It implements both Verifier and Admin.
type GoTrueClient struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	httpClient     *http.Client
	logger         *slog.Logger
}

// Ensure GoTrueClient implements the identity interfaces
var (
	_ Verifier = (*GoTrueClient)(nil)
	_ Admin    = (*GoTrueClient)(nil)
)

// GoTrueOption configures a GoTrueClient.
type GoTrueOption func(*GoTrueClient)

// WithHTTPClient replaces the HTTP client used for provider calls.
func WithHTTPClient(client *http.Client) GoTrueOption {
	return func(c *GoTrueClient) {
		c.httpClient = client
	}
}

// NewGoTrueClient creates a client for the provider at baseURL.
// The anon key authorizes token introspection; the service-role key
// authorizes the admin endpoints.
func NewGoTrueClient(
	baseURL, anonKey, serviceRoleKey string,
	timeout time.Duration,
	logger *slog.Logger,
	opts ...GoTrueOption,
) (*GoTrueClient, error) {
	if baseURL == "" {
		return nil, errors.New("identity provider URL cannot be empty")
	}
	if serviceRoleKey == "" {
		return nil, errors.New("identity provider service role key cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &GoTrueClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		anonKey:        anonKey,
		serviceRoleKey: serviceRoleKey,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logger.With(slog.String("component", "identity_gotrue")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// goTrueUser is the subset of the provider's user object the gateway reads.
type goTrueUser struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
}

func (u *goTrueUser) toIdentity() (*domain.Identity, error) {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return nil, fmt.Errorf("provider returned malformed user id %q: %w", u.ID, err)
	}
	return &domain.Identity{
		ID:        id,
		Email:     u.Email,
		Confirmed: u.EmailConfirmedAt != nil,
	}, nil
}

// goTrueError covers the error shapes GoTrue has used across versions.
type goTrueError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e goTrueError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Verify implements Verifier by asking the provider who the token belongs to.
func (c *GoTrueClient) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if token == "" {
		return nil, ErrInvalidToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+userPath, nil)
	if err != nil {
		return nil, invalidToken(fmt.Errorf("failed to create user request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("identity provider unreachable", slog.String("error", err.Error()))
		return nil, invalidToken(fmt.Errorf("failed to call identity provider: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, invalidToken(fmt.Errorf("failed to read user response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		log.Debug("identity provider rejected token", slog.Int("status", resp.StatusCode))
		return nil, invalidToken(fmt.Errorf("identity provider returned status %d", resp.StatusCode))
	}

	var user goTrueUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, invalidToken(fmt.Errorf("failed to decode user response: %w", err))
	}
	if user.ID == "" {
		return nil, invalidToken(errors.New("identity provider returned no user"))
	}

	identity, err := user.toIdentity()
	if err != nil {
		return nil, invalidToken(err)
	}
	return identity, nil
}

// CreateUser implements Admin by creating an already-confirmed user.
func (c *GoTrueClient) CreateUser(ctx context.Context, email, password string) (*domain.Identity, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	payload, err := json.Marshal(map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	})
	if err != nil {
		return nil, c.dependencyError("create_user", 0, "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+adminUserPath, bytes.NewReader(payload))
	if err != nil {
		return nil, c.dependencyError("create_user", 0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAdminHeaders(req)

	status, body, err := c.do(req)
	if err != nil {
		log.Error("identity provider unreachable",
			slog.String("operation", "create_user"),
			slog.String("error", err.Error()))
		return nil, c.dependencyError("create_user", 0, "", err)
	}
	if status < 200 || status >= 300 {
		depErr := c.dependencyError("create_user", status, providerMessage(body), nil)
		log.Warn("identity provider rejected user creation",
			slog.Int("status", status),
			slog.Bool("client_fault", depErr.ClientFault))
		return nil, depErr
	}

	var user goTrueUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, c.dependencyError("create_user", status, "", fmt.Errorf("failed to decode user: %w", err))
	}
	identity, err := user.toIdentity()
	if err != nil {
		return nil, c.dependencyError("create_user", status, "", err)
	}

	log.Info("identity created", slog.String("identity_id", identity.ID.String()))
	return identity, nil
}

// DeleteUser implements Admin. A user that no longer exists is reported as
// a dependency error wrapping domain.ErrNotFound.
func (c *GoTrueClient) DeleteUser(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+adminUserPath+"/"+id.String(), nil)
	if err != nil {
		return c.dependencyError("delete_user", 0, "", err)
	}
	c.setAdminHeaders(req)

	status, body, err := c.do(req)
	if err != nil {
		return c.dependencyError("delete_user", 0, "", err)
	}
	if status == http.StatusNotFound {
		return c.dependencyError("delete_user", status, providerMessage(body), domain.ErrNotFound)
	}
	if status < 200 || status >= 300 {
		return c.dependencyError("delete_user", status, providerMessage(body), nil)
	}

	log.Info("identity deleted", slog.String("identity_id", id.String()))
	return nil
}

func (c *GoTrueClient) setAdminHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceRoleKey)
	req.Header.Set("apikey", c.serviceRoleKey)
}

func (c *GoTrueClient) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// dependencyError builds the error returned by admin calls. 4xx responses
// other than 401 and 403 blame the caller's input; 401 and 403 mean the
// service-role key is wrong, which is the gateway's fault.
func (c *GoTrueClient) dependencyError(operation string, status int, message string, err error) *domain.DependencyError {
	clientFault := status >= 400 && status < 500 &&
		status != http.StatusUnauthorized &&
		status != http.StatusForbidden &&
		status != http.StatusNotFound
	if status != 0 && message == "" && err == nil {
		message = fmt.Sprintf("status %d", status)
	}
	return &domain.DependencyError{
		Service:     "identity",
		Operation:   operation,
		Message:     message,
		ClientFault: clientFault,
		StatusCode:  status,
		Err:         err,
	}
}

func providerMessage(body []byte) string {
	var e goTrueError
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.text()
}
