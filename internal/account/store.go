package account

import (
	"context"
	"time"
)

// CredentialStore describes persistence for registered accounts. Lookup keys
// are normalized emails; callers normalize before touching the store.
type CredentialStore interface {
	// Insert creates the account atomically, failing with ErrDuplicateEmail
	// when a record for the same email already exists. Two concurrent inserts
	// for one email must yield exactly one success.
	Insert(ctx context.Context, acct *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	MarkVerified(ctx context.Context, email string) error
}

// TokenEntry is a live verification or reset token with its expiry.
type TokenEntry struct {
	Token     string
	ExpiresAt time.Time
}

// TokenStore holds short-lived single-use tokens. Put overwrites any existing
// entry for the key, invalidating the prior token. There is no garbage
// collection beyond on-access expiry checks.
type TokenStore interface {
	Put(ctx context.Context, key, token string, ttl time.Duration) error
	Get(ctx context.Context, key string) (TokenEntry, error)
	Delete(ctx context.Context, key string) error
}
