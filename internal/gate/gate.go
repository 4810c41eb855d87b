package gate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
	"github.com/DavidHJones36/roguetwo-api/internal/store"
)

// Reason explains a Decision.
type Reason string

// Reasons a check can return.
const (
	ReasonAuthBypass      Reason = "auth_bypass"
	ReasonApprovalBypass  Reason = "approval_bypass"
	ReasonApproved        Reason = "approved"
	ReasonPendingApproval Reason = "pending_approval"
	ReasonUnauthenticated Reason = "unauthenticated"
)

// Decision is the outcome of a gate check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err returns the domain error for a denied decision, or nil.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == ReasonUnauthenticated:
		return domain.ErrUnauthenticated
	default:
		return domain.ErrPendingApproval
	}
}

// ApprovalReader reads the approved flag of a private profile.
// store.PrivateProfileStore satisfies it.
type ApprovalReader interface {
	GetApproval(ctx context.Context, id uuid.UUID) (bool, error)
}

// Gate evaluates a Policy, reading approval only for gated routes.
type Gate struct {
	policy    Policy
	approvals ApprovalReader
	logger    *slog.Logger
}

// New creates a Gate.
func New(policy Policy, approvals ApprovalReader, logger *slog.Logger) *Gate {
	if approvals == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("approvals cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		policy:    policy,
		approvals: approvals,
		logger:    logger.With(slog.String("component", "approval_gate")),
	}
}

// Policy returns the gate's policy.
func (g *Gate) Policy() Policy {
	return g.policy
}

// Check decides whether identityID may call route with method. The first
// matching rule wins: authentication bypass, approval bypass, then the
// approved flag. A missing private profile is treated as not approved.
// A storage failure is returned as an error and no decision is made.
func (g *Gate) Check(ctx context.Context, method, route string, identityID uuid.UUID) (Decision, error) {
	key := RouteKey(method, route)

	if g.policy.BypassesAuthentication(key) {
		return Decision{Allowed: true, Reason: ReasonAuthBypass}, nil
	}
	if identityID == uuid.Nil {
		return Decision{Reason: ReasonUnauthenticated}, nil
	}
	if g.policy.BypassesApproval(key) {
		return Decision{Allowed: true, Reason: ReasonApprovalBypass}, nil
	}

	log := logger.FromContextOrDefault(ctx, g.logger)

	approved, err := g.approvals.GetApproval(ctx, identityID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("no private profile, treating as pending",
				slog.String("identity_id", identityID.String()),
				slog.String("route", key))
			return Decision{Reason: ReasonPendingApproval}, nil
		}
		return Decision{}, fmt.Errorf("failed to read approval for %s: %w", identityID, err)
	}

	if !approved {
		log.Debug("account pending approval",
			slog.String("identity_id", identityID.String()),
			slog.String("route", key))
		return Decision{Reason: ReasonPendingApproval}, nil
	}
	return Decision{Allowed: true, Reason: ReasonApproved}, nil
}
