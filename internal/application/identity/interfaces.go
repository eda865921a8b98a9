// Package identity implements partner registration, moderation,
// authentication and the token-backed email and password flows.
package identity

import (
	"context"
	"time"
)

// TokenStore keeps short-lived confirmation tokens. Keys expire on
// their own after their TTL.
type TokenStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Mailer sends the transactional messages of the identity flows.
type Mailer interface {
	SendPartnerCredentials(ctx context.Context, to, login, password string) error
	SendEmailChangeConfirmation(ctx context.Context, to, link string) error
	SendPasswordResetConfirmation(ctx context.Context, to, link string) error
}
