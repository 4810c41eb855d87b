package signup

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
	"github.com/DavidHJones36/roguetwo-api/internal/events"
	"github.com/DavidHJones36/roguetwo-api/internal/identity"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
	"github.com/DavidHJones36/roguetwo-api/internal/store"
)

// Step names, also used in logs and compensation events.
const (
	StepCreateIdentity       = "create_identity"
	StepCreatePublicProfile  = "create_public_profile"
	StepCreatePrivateProfile = "create_private_profile"
)

// Variants reported in events.
const (
	VariantFull    = "full"
	VariantProfile = "profile"
)

const (
	fullRequiredMessage    = "email, password, firstName, lastName, and role are required"
	profileRequiredMessage = "token, firstName, lastName, and role are required"
	invalidRoleMessage     = "role must be one of: host, sitter"
	invalidEmailMessage    = "email must be a valid email address"

	defaultCompensationTimeout = 10 * time.Second
)

// FullRequest creates the identity and both profiles.
type FullRequest struct {
	Email     string `validate:"required"`
	Password  string `validate:"required"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Role      string `validate:"required"`
	AvatarURL string
	Phone     string
}

// ProfileRequest creates both profiles for an identity the client already
// registered with the provider, proven by Token.
type ProfileRequest struct {
	Token     string `validate:"required"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Role      string `validate:"required"`
	AvatarURL string
	Phone     string
}

// Service creates accounts.
type Service interface {
	// Signup creates the identity, the public profile and the private
	// profile. On failure every record it created is deleted again.
	Signup(ctx context.Context, req FullRequest) error

	// SignupWithToken creates the two profiles for the identity the token
	// belongs to. The identity itself is never deleted; on failure the
	// public profile is removed so the call can be retried with the same
	// token.
	SignupWithToken(ctx context.Context, req ProfileRequest) error
}

// serviceImpl implements the Service interface
type serviceImpl struct {
	admin               identity.Admin
	verifier            identity.Verifier
	profiles            store.ProfileStore
	private             store.PrivateProfileStore
	emitter             events.EventEmitter
	validate            *validator.Validate
	compensationTimeout time.Duration
	logger              *slog.Logger
}

// Option configures the Service.
type Option func(*serviceImpl)

// WithEventEmitter sends account.created and signup.compensation_failed
// events to emitter.
func WithEventEmitter(emitter events.EventEmitter) Option {
	return func(s *serviceImpl) {
		s.emitter = emitter
	}
}

// WithCompensationTimeout bounds how long a rollback may take.
func WithCompensationTimeout(d time.Duration) Option {
	return func(s *serviceImpl) {
		s.compensationTimeout = d
	}
}

// NewService creates a signup Service.
func NewService(
	admin identity.Admin,
	verifier identity.Verifier,
	profiles store.ProfileStore,
	private store.PrivateProfileStore,
	logger *slog.Logger,
	opts ...Option,
) (Service, error) {
	if admin == nil {
		return nil, errors.New("identity admin cannot be nil")
	}
	if verifier == nil {
		return nil, errors.New("identity verifier cannot be nil")
	}
	if profiles == nil || private == nil {
		return nil, errors.New("profile stores cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		admin:               admin,
		verifier:            verifier,
		profiles:            profiles,
		private:             private,
		validate:            validator.New(),
		compensationTimeout: defaultCompensationTimeout,
		logger:              logger.With(slog.String("component", "signup_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Signup implements Service.
func (s *serviceImpl) Signup(ctx context.Context, req FullRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if err := s.validate.StructCtx(ctx, req); err != nil {
		return domain.NewValidationError("", fullRequiredMessage, nil)
	}
	if err := s.validate.VarCtx(ctx, req.Email, "email"); err != nil {
		return domain.NewValidationError("", invalidEmailMessage, nil)
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return domain.NewValidationError("", invalidRoleMessage, err)
	}

	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("variant", VariantFull))

	var (
		ident   *domain.Identity
		public  *domain.PublicProfile
		private *domain.PrivateProfile
	)

	saga := NewSaga(VariantFull+"_signup", s.compensationTimeout, log,
		Step{
			Name: StepCreateIdentity,
			Do: func(ctx context.Context) error {
				created, err := s.admin.CreateUser(ctx, req.Email, req.Password)
				if err != nil {
					return asDependencyError("identity", "create_user", err)
				}
				ident = created
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.admin.DeleteUser(ctx, ident.ID)
			},
		},
		s.publicProfileStep(&public, func() uuid.UUID { return ident.ID }, req.FirstName, req.LastName, req.AvatarURL),
		s.privateProfileStep(&private, func() uuid.UUID { return ident.ID }, role, req.Phone),
	)
	saga.OnCompensationFailure = s.reportCompensationFailure(VariantFull, func() uuid.UUID { return ident.ID })

	if err := saga.Run(ctx); err != nil {
		return err
	}

	log.Info("account created",
		slog.String("identity_id", ident.ID.String()),
		slog.String("role", string(role)))
	s.emit(ctx, events.TypeAccountCreated, events.AccountCreated{
		IdentityID: ident.ID,
		Role:       string(role),
		Approved:   private.Approved,
		Variant:    VariantFull,
	})
	return nil
}

// SignupWithToken implements Service.
func (s *serviceImpl) SignupWithToken(ctx context.Context, req ProfileRequest) error {
	req.Token = strings.TrimSpace(req.Token)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if err := s.validate.StructCtx(ctx, req); err != nil {
		return domain.NewValidationError("", profileRequiredMessage, nil)
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return domain.NewValidationError("", invalidRoleMessage, err)
	}

	ident, err := s.verifier.Verify(ctx, req.Token)
	if err != nil {
		return err
	}

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("variant", VariantProfile),
		slog.String("identity_id", ident.ID.String()))

	var (
		public  *domain.PublicProfile
		private *domain.PrivateProfile
	)
	identityID := func() uuid.UUID { return ident.ID }

	saga := NewSaga(VariantProfile+"_signup", s.compensationTimeout, log,
		s.publicProfileStep(&public, identityID, req.FirstName, req.LastName, req.AvatarURL),
		s.privateProfileStep(&private, identityID, role, req.Phone),
	)
	saga.OnCompensationFailure = s.reportCompensationFailure(VariantProfile, identityID)

	if err := saga.Run(ctx); err != nil {
		return err
	}

	log.Info("account profiles created", slog.String("role", string(role)))
	s.emit(ctx, events.TypeAccountCreated, events.AccountCreated{
		IdentityID: ident.ID,
		Role:       string(role),
		Approved:   private.Approved,
		Variant:    VariantProfile,
	})
	return nil
}

func (s *serviceImpl) publicProfileStep(
	out **domain.PublicProfile,
	id func() uuid.UUID,
	firstName, lastName, avatarURL string,
) Step {
	return Step{
		Name: StepCreatePublicProfile,
		Do: func(ctx context.Context) error {
			profile, err := domain.NewPublicProfile(id(), firstName, lastName, avatarURL)
			if err != nil {
				return err
			}
			if err := s.profiles.Create(ctx, profile); err != nil {
				return asDependencyError("storage", "create_profile", err)
			}
			*out = profile
			return nil
		},
		Compensate: func(ctx context.Context) error {
			return s.profiles.Delete(ctx, id())
		},
	}
}

// privateProfileStep is always the last step, so it needs no compensation.
func (s *serviceImpl) privateProfileStep(
	out **domain.PrivateProfile,
	id func() uuid.UUID,
	role domain.Role,
	phone string,
) Step {
	return Step{
		Name: StepCreatePrivateProfile,
		Do: func(ctx context.Context) error {
			profile, err := domain.NewPrivateProfile(id(), role, phone)
			if err != nil {
				return err
			}
			if err := s.private.Create(ctx, profile); err != nil {
				return asDependencyError("storage", "create_private_profile", err)
			}
			*out = profile
			return nil
		},
	}
}

func (s *serviceImpl) reportCompensationFailure(
	variant string,
	id func() uuid.UUID,
) func(context.Context, CompensationFailure) {
	return func(ctx context.Context, failure CompensationFailure) {
		s.emit(ctx, events.TypeCompensationFailed, events.CompensationFailed{
			IdentityID:   id(),
			Variant:      variant,
			FailedStep:   failure.FailedStep,
			Compensation: failure.Step,
			Error:        failure.Err.Error(),
		})
	}
}

// emit sends an event; failures are logged and never reach the caller.
func (s *serviceImpl) emit(ctx context.Context, eventType string, payload interface{}) {
	if s.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.New(eventType, payload)
	if err != nil {
		log.Error("failed to build event", slog.String("event_type", eventType), slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit event", slog.String("event_type", eventType), slog.String("error", err.Error()))
	}
}

// asDependencyError normalizes a collaborator failure. Errors that are
// already DependencyErrors pass through; a duplicate profile is the
// caller's fault (the account already exists); anything else is a server
// side failure.
func asDependencyError(service, operation string, err error) error {
	var depErr *domain.DependencyError
	if errors.As(err, &depErr) {
		return err
	}
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	if store.IsDuplicateError(err) {
		return &domain.DependencyError{
			Service:     service,
			Operation:   operation,
			Message:     "profile already exists",
			ClientFault: true,
			Err:         err,
		}
	}
	return &domain.DependencyError{
		Service:   service,
		Operation: operation,
		Err:       err,
	}
}
