package testutil

import (
	"context"
	"net/http"
	"time"

	"wardstock/pkg/domain"
	"wardstock/pkg/requestcontext"
)

// Fixed clock used by tests that assert on generated log IDs.
var FixedNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// Nurse, Manager and Director are the actors used across service and handler tests.
var (
	Nurse    = requestcontext.Actor{UserID: "N1", Name: "Nina", Role: domain.RoleNurse}
	Manager  = requestcontext.Actor{UserID: "M1", Name: "Marco", Role: domain.RoleManager}
	Director = requestcontext.Actor{UserID: "D1", Name: "Dana", Role: domain.RoleDirector}
)

// ActorContext returns a context carrying actor and the fixed request time.
// This is what the auth and request-id middleware produce for a live request.
func ActorContext(actor requestcontext.Actor) context.Context {
	ctx := requestcontext.WithActor(context.Background(), actor)
	return requestcontext.WithTime(ctx, FixedNow)
}

// WithActor adds an authenticated actor to the request context.
func WithActor(req *http.Request, actor requestcontext.Actor) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), actor)
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
