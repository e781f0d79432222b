package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardstock/pkg/domain"
	"wardstock/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return s.claims, s.err
}

type stubRevocations struct {
	revoked bool
	err     error
}

func (s stubRevocations) IsTokenRevoked(context.Context, string) (bool, error) {
	return s.revoked, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runAuth(t *testing.T, v JWTValidator, rc TokenRevocationChecker, header string) (*httptest.ResponseRecorder, requestcontext.Actor) {
	t.Helper()
	var seen requestcontext.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.ActorFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	RequireAuth(v, rc, discardLogger())(next).ServeHTTP(rr, req)
	return rr, seen
}

func TestRequireAuth(t *testing.T) {
	valid := &JWTClaims{UserID: "N1", Name: "Nina", Role: "n", JTI: "jti-1"}

	t.Run("missing header", func(t *testing.T) {
		rr, _ := runAuth(t, stubValidator{claims: valid}, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"message":"Access token required"}`, rr.Body.String())
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rr, _ := runAuth(t, stubValidator{claims: valid}, nil, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rr, _ := runAuth(t, stubValidator{err: errors.New("bad signature")}, nil, "Bearer abc")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"message":"Invalid or expired token"}`, rr.Body.String())
	})

	t.Run("valid token sets actor", func(t *testing.T) {
		rr, actor := runAuth(t, stubValidator{claims: valid}, stubRevocations{}, "Bearer abc")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.UserID("N1"), actor.UserID)
		assert.Equal(t, "Nina", actor.Name)
		assert.Equal(t, domain.RoleNurse, actor.Role)
	})

	t.Run("unknown role is passed through for the policy to deny", func(t *testing.T) {
		claims := *valid
		claims.Role = "janitor"
		rr, actor := runAuth(t, stubValidator{claims: &claims}, nil, "Bearer abc")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, actor.Role.IsValid())
	})

	t.Run("revoked token", func(t *testing.T) {
		rr, _ := runAuth(t, stubValidator{claims: valid}, stubRevocations{revoked: true}, "Bearer abc")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("revocation lookup failure", func(t *testing.T) {
		rr, _ := runAuth(t, stubValidator{claims: valid}, stubRevocations{err: errors.New("redis down")}, "Bearer abc")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
