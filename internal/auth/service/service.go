package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"wardstock/internal/auth/credentials"
	"wardstock/internal/auth/models"
	"wardstock/internal/platform/metrics"
	"wardstock/pkg/domain"
	dErrors "wardstock/pkg/domain-errors"
	"wardstock/pkg/platform/sentinel"
	"wardstock/pkg/requestcontext"
)

const DefaultTokenTTL = 5 * time.Minute

type UserStore interface {
	FindByID(ctx context.Context, id domain.UserID) (*models.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID, name, role string, expiresIn time.Duration) (string, error)
}

type TokenRevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Service authenticates staff and manages session token lifetime.
type Service struct {
	users    UserStore
	tokens   TokenIssuer
	trl      TokenRevocationList
	tokenTTL time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

func New(users UserStore, tokens TokenIssuer, trl TokenRevocationList, opts ...Option) *Service {
	s := &Service{
		users:    users,
		tokens:   tokens,
		trl:      trl,
		tokenTTL: DefaultTokenTTL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies the credentials and mints a session token carrying the
// user's id, role and display name.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		s.metrics.IncrementLoginAttempt("unknown_user")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "User not found")
	}

	user, err := s.users.FindByID(ctx, domain.UserID(userID))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementLoginAttempt("unknown_user")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "User not found")
		}
		s.metrics.IncrementLoginAttempt("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if req.Password == "" {
		s.metrics.IncrementLoginAttempt("bad_password")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Incorrect password")
	}
	scheme, err := credentials.Verify(req.Password, user.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrMismatch) {
			s.metrics.IncrementLoginAttempt("bad_password")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "Incorrect password")
		}
		s.metrics.IncrementLoginAttempt("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify credentials")
	}
	if scheme == credentials.SchemePlain {
		s.metrics.IncrementLegacyCredentialLogin()
		s.logger.WarnContext(ctx, "login verified against plain-text stored secret",
			"user_id", userID,
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	token, err := s.tokens.GenerateAccessToken(string(user.ID), user.Name, user.Role, s.tokenTTL)
	if err != nil {
		s.metrics.IncrementLoginAttempt("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.metrics.IncrementLoginAttempt("success")
	s.logger.InfoContext(ctx, "user logged in",
		"user_id", userID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return &models.LoginResult{
		Token: token,
		User: models.UserView{
			UserID: string(user.ID),
			Name:   user.Name,
			Role:   user.Role,
		},
	}, nil
}

// Logout revokes the token presented on the current request for the rest of
// its lifetime.
func (s *Service) Logout(ctx context.Context) error {
	token, ok := requestcontext.TokenFrom(ctx)
	if !ok || token.ID == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token")
	}

	remaining := token.ExpiresAt.Sub(requestcontext.Now(ctx))
	if remaining <= 0 {
		return nil
	}
	if err := s.trl.RevokeToken(ctx, token.ID, remaining); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	s.metrics.IncrementTokensRevoked()
	s.logger.InfoContext(ctx, "session token revoked",
		"user_id", requestcontext.ActorFrom(ctx).UserID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// IsTokenRevoked satisfies the auth middleware's revocation check.
func (s *Service) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return s.trl.IsRevoked(ctx, jti)
}
