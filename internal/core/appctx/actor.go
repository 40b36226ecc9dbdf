// Package appctx provides request-scoped values extraction.
package appctx

import (
	"context"
)

// Actor contains the authenticated operator attached to every stock
// movement and order record. The core treats the ID as an opaque string.
type Actor struct {
	ID    string
	Name  string
	Roles []string
}

type actorKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor returns Actor from context, or nil.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// ActorID returns the actor identifier from context or empty string.
func ActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.ID
	}
	return ""
}
