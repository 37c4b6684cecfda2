// Package session maps opaque client tokens to user ids with a fixed expiry.
package session

import (
	"context"
	"time"
)

// Store persists session id -> user id bindings. Get reports ok=false for
// unknown and expired ids alike.
type Store interface {
	Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (userID string, ok bool, err error)
	Delete(ctx context.Context, sessionID string) error
}
