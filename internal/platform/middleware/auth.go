package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"wardstock/pkg/domain"
	"wardstock/pkg/platform/httputil"
	"wardstock/pkg/requestcontext"
)

// JWTValidator validates a bearer token and returns its claims.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// TokenRevocationChecker reports whether a token ID was revoked by logout.
type TokenRevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTClaims is the transport view of a verified session token.
type JWTClaims struct {
	UserID    string
	Name      string
	Role      string
	JTI       string
	ExpiresAt time.Time
}

const (
	msgMissingToken = "Access token required"
	msgInvalidToken = "Invalid or expired token"
)

// RequireAuth rejects requests without a valid, unrevoked bearer token and
// places the caller on the context as a requestcontext.Actor.
// revocationChecker may be nil.
func RequireAuth(validator JWTValidator, revocationChecker TokenRevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteMessage(w, http.StatusUnauthorized, msgMissingToken)
				return
			}

			claims, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteMessage(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			if claims.UserID == "" {
				logger.WarnContext(ctx, "unauthorized access - token without subject",
					"request_id", requestID,
				)
				httputil.WriteMessage(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}
			// An unrecognised role still authenticates; the policy denies it.
			role, err := domain.ParseRole(claims.Role)
			if err != nil {
				role = domain.Role(claims.Role)
			}

			if revocationChecker != nil {
				if claims.JTI == "" {
					logger.WarnContext(ctx, "unauthorized access - missing token jti",
						"request_id", requestID,
					)
					httputil.WriteMessage(w, http.StatusUnauthorized, msgInvalidToken)
					return
				}
				revoked, err := revocationChecker.IsTokenRevoked(ctx, claims.JTI)
				if err != nil {
					logger.ErrorContext(ctx, "failed to check token revocation",
						"error", err,
						"request_id", requestID,
					)
					httputil.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
					return
				}
				if revoked {
					logger.WarnContext(ctx, "unauthorized access - token revoked",
						"jti", claims.JTI,
						"request_id", requestID,
					)
					httputil.WriteMessage(w, http.StatusUnauthorized, msgInvalidToken)
					return
				}
			}

			ctx = requestcontext.WithActor(ctx, requestcontext.Actor{
				UserID: domain.UserID(claims.UserID),
				Name:   claims.Name,
				Role:   role,
			})
			ctx = requestcontext.WithToken(ctx, requestcontext.Token{
				ID:        claims.JTI,
				ExpiresAt: claims.ExpiresAt,
			})
			noteUser(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
