package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"wardstock/internal/auth/models"
	"wardstock/internal/auth/store/revocation"
	userstore "wardstock/internal/auth/store/user"
	jwttoken "wardstock/internal/jwt_token"
	"wardstock/internal/platform/metrics"
	"wardstock/pkg/domain"
	dErrors "wardstock/pkg/domain-errors"
	"wardstock/pkg/requestcontext"
)

type failingUsers struct{}

func (failingUsers) FindByID(context.Context, domain.UserID) (*models.User, error) {
	return nil, errors.New("connection refused")
}

type ServiceSuite struct {
	suite.Suite
	users   *userstore.InMemoryUserStore
	jwt     *jwttoken.JWTService
	trl     *revocation.InMemoryTRL
	metrics *metrics.Metrics
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	ctx := context.Background()
	s.users = userstore.New()
	hashed, err := bcrypt.GenerateFromPassword([]byte("nurse123"), bcrypt.MinCost)
	s.Require().NoError(err)
	s.Require().NoError(s.users.Save(ctx, &models.User{ID: "N1", Name: "Nina", Role: "n", Password: string(hashed)}))
	s.Require().NoError(s.users.Save(ctx, &models.User{ID: "D1", Name: "Dana", Role: "director", Password: "director123"}))

	s.jwt = jwttoken.NewJWTService("test-key", "wardstock")
	s.trl = revocation.NewInMemoryTRL()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = New(s.users, s.jwt, s.trl,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
}

func (s *ServiceSuite) TestLogin() {
	ctx := context.Background()

	s.Run("bcrypt user receives token with identity claims", func() {
		res, err := s.service.Login(ctx, models.LoginRequest{UserID: "N1", Password: "nurse123"})
		s.Require().NoError(err)
		s.Equal(models.UserView{UserID: "N1", Name: "Nina", Role: "n"}, res.User)

		claims, err := s.jwt.ValidateToken(res.Token)
		s.Require().NoError(err)
		s.Equal("N1", claims.UserID)
		s.Equal("n", claims.Role)
		s.Equal("Nina", claims.Name)
		s.WithinDuration(time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, time.Minute)
	})

	s.Run("legacy plain-text user logs in and is counted", func() {
		before := testutil.ToFloat64(s.metrics.LegacyCredentialLogins)
		res, err := s.service.Login(ctx, models.LoginRequest{UserID: "D1", Password: "director123"})
		s.Require().NoError(err)
		s.Equal("director", res.User.Role)
		s.Equal(before+1, testutil.ToFloat64(s.metrics.LegacyCredentialLogins))
	})

	s.Run("unknown user is unauthorized", func() {
		_, err := s.service.Login(ctx, models.LoginRequest{UserID: "X9", Password: "pw"})
		s.Require().ErrorIs(err, dErrors.New(dErrors.CodeUnauthorized, "User not found"))
	})

	s.Run("wrong password is unauthorized", func() {
		_, err := s.service.Login(ctx, models.LoginRequest{UserID: "N1", Password: "nope"})
		s.Require().ErrorIs(err, dErrors.New(dErrors.CodeUnauthorized, "Incorrect password"))
	})

	s.Run("empty password never matches", func() {
		_, err := s.service.Login(ctx, models.LoginRequest{UserID: "D1"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("store failure is internal", func() {
		svc := New(failingUsers{}, s.jwt, s.trl)
		_, err := svc.Login(ctx, models.LoginRequest{UserID: "N1", Password: "nurse123"})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestLogout() {
	now := time.Now()
	ctx := requestcontext.WithTime(context.Background(), now)

	s.Run("revokes presented token until expiry", func() {
		ctx := requestcontext.WithToken(ctx, requestcontext.Token{ID: "jti-1", ExpiresAt: now.Add(time.Minute)})
		s.Require().NoError(s.service.Logout(ctx))

		revoked, err := s.service.IsTokenRevoked(ctx, "jti-1")
		s.Require().NoError(err)
		s.True(revoked)
	})

	s.Run("already expired token is a no-op", func() {
		ctx := requestcontext.WithToken(ctx, requestcontext.Token{ID: "jti-2", ExpiresAt: now.Add(-time.Second)})
		s.Require().NoError(s.service.Logout(ctx))

		revoked, err := s.service.IsTokenRevoked(ctx, "jti-2")
		s.Require().NoError(err)
		s.False(revoked)
	})

	s.Run("missing token is unauthorized", func() {
		err := s.service.Logout(ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
