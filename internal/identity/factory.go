package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DavidHJones36/roguetwo-api/internal/config"
)

// New builds the provider client and the verifier selected by cfg.Mode.
// The GoTrue client is always returned because signup needs Admin.
func New(ctx context.Context, cfg config.IdentityConfig, logger *slog.Logger) (Verifier, *GoTrueClient, error) {
	client, err := NewGoTrueClient(cfg.URL, cfg.AnonKey, cfg.ServiceRoleKey, cfg.Timeout, logger)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Mode {
	case config.IdentityModeGoTrue, "":
		return client, client, nil
	case config.IdentityModeJWT:
		v, err := NewJWTVerifier(cfg.JWTSecret, "")
		if err != nil {
			return nil, nil, err
		}
		return v, client, nil
	case config.IdentityModeOIDC:
		v, err := NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			return nil, nil, err
		}
		return v, client, nil
	default:
		return nil, nil, fmt.Errorf("unknown identity mode %q", cfg.Mode)
	}
}
