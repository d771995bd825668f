package account

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"crewdesk.org/internal/ids"
	"crewdesk.org/internal/obs"
)

const (
	defaultVerificationTTL = 24 * time.Hour
	defaultResetTTL        = time.Hour

	// MinPasswordLength applies to signup and password reset alike.
	MinPasswordLength = 6
)

// Mailer is the external email-delivery collaborator. The lifecycle only
// guarantees a token was minted and handed off, not that a message arrived.
type Mailer interface {
	SendVerification(ctx context.Context, email, name, token string) error
	SendPasswordReset(ctx context.Context, email, name, token string) error
}

// Service drives the registration state machine
// (unregistered -> pending-verification -> verified) and the password-reset
// flow on top of a CredentialStore and a TokenStore.
type Service struct {
	creds  CredentialStore
	tokens TokenStore
	mailer Mailer

	verificationTTL time.Duration
	resetTTL        time.Duration
	bcryptCost      int
	now             func() time.Time

	// Per-email critical sections: concurrent lifecycle operations for the
	// same normalized email serialize here.
	locks sync.Map // string -> *sync.Mutex
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithVerificationTTL overrides the email-verification token lifetime.
func WithVerificationTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.verificationTTL = ttl
		}
	}
}

// WithResetTTL overrides the password-reset token lifetime.
func WithResetTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.resetTTL = ttl
		}
	}
}

// WithBcryptCost overrides the password hashing cost factor.
func WithBcryptCost(cost int) ServiceOption {
	return func(s *Service) {
		if cost > 0 {
			s.bcryptCost = cost
		}
	}
}

// WithClock overrides the time source (useful for expiry tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the account lifecycle service.
func NewService(creds CredentialStore, tokens TokenStore, mailer Mailer, opts ...ServiceOption) *Service {
	s := &Service{
		creds:           creds,
		tokens:          tokens,
		mailer:          mailer,
		verificationTTL: defaultVerificationTTL,
		resetTTL:        defaultResetTTL,
		bcryptCost:      DefaultBcryptCost,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AccountByID resolves an account for an authenticated session.
func (s *Service) AccountByID(ctx context.Context, id string) (*Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	return s.creds.FindByID(ctx, id)
}

// Signup registers a new account in pending-verification state with the
// lowest-privilege role, mints a verification token and hands it to the
// mailer. It never reveals on non-duplicate failure paths whether the email
// was previously known.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*Account, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	// ParseAddress accepts name-addr forms like "Jane <jane@x.com>"; requiring
	// the parsed address to round-trip keeps only a bare mailbox, so one
	// mailbox cannot register twice under decorated spellings.
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: email is malformed", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	unlock := s.lockEmail(email)
	defer unlock()

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	acct := &Account{
		ID:           ids.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         RoleOperator,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.creds.Insert(ctx, acct); err != nil {
		return nil, err
	}

	if err := s.mintAndDeliver(ctx, acct, verificationKey(email), s.verificationTTL, s.mailer.SendVerification); err != nil {
		// The account exists but cannot be verified until a resend succeeds.
		// Flag it loudly instead of failing the signup that already committed.
		obs.LogJSON(map[string]any{
			"ts":    s.now().UTC().Format(time.RFC3339Nano),
			"level": "error",
			"msg":   "verification token mint failed after signup",
			"email": email,
			"error": err.Error(),
		})
	}
	return acct.Clone(), nil
}

// VerifyEmail consumes a verification token and flips the account to
// verified. A consumed or expired token fails; it never silently succeeds.
func (s *Service) VerifyEmail(ctx context.Context, email, token string) error {
	email = NormalizeEmail(email)
	if email == "" || strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}

	unlock := s.lockEmail(email)
	defer unlock()

	if err := s.checkToken(ctx, verificationKey(email), token); err != nil {
		return err
	}
	if err := s.creds.MarkVerified(ctx, email); err != nil {
		if err == ErrNotFound {
			return ErrInvalidToken
		}
		return err
	}
	return s.tokens.Delete(ctx, verificationKey(email))
}

// ResendVerification mints a fresh verification token, overwriting and thereby
// invalidating any prior one.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	unlock := s.lockEmail(email)
	defer unlock()

	acct, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if acct.Verified {
		return ErrAlreadyVerified
	}
	return s.mintAndDeliver(ctx, acct, verificationKey(email), s.verificationTTL, s.mailer.SendVerification)
}

// RequestPasswordReset mints a reset token for an existing account and does
// nothing for an unknown one. Both paths report success to the caller; the
// response must not confirm account existence.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	unlock := s.lockEmail(email)
	defer unlock()

	acct, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return nil
		}
		return err
	}
	return s.mintAndDeliver(ctx, acct, resetKey(email), s.resetTTL, s.mailer.SendPasswordReset)
}

// ValidateResetToken checks a reset token without consuming it. Expired
// entries are dropped on access; account state is never touched.
func (s *Service) ValidateResetToken(ctx context.Context, email, token string) error {
	email = NormalizeEmail(email)
	if email == "" || strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}
	return s.checkToken(ctx, resetKey(email), token)
}

// ResetPassword re-validates the reset token, replaces the stored hash and
// consumes the token. The first concurrent consumer wins; the second observes
// ErrInvalidToken because the entry is gone.
func (s *Service) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	email = NormalizeEmail(email)
	if email == "" || strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}

	unlock := s.lockEmail(email)
	defer unlock()

	if err := s.checkToken(ctx, resetKey(email), token); err != nil {
		return err
	}
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.creds.UpdatePassword(ctx, email, hash); err != nil {
		if err == ErrNotFound {
			return ErrInvalidToken
		}
		return err
	}
	return s.tokens.Delete(ctx, resetKey(email))
}

// checkToken applies the shared matching/expiry rules for both namespaces.
// Every failure collapses to ErrInvalidToken.
func (s *Service) checkToken(ctx context.Context, key, token string) error {
	entry, err := s.tokens.Get(ctx, key)
	if err != nil {
		if err == ErrNotFound {
			return ErrInvalidToken
		}
		return err
	}
	if s.now().After(entry.ExpiresAt) {
		_ = s.tokens.Delete(ctx, key)
		return ErrInvalidToken
	}
	if !tokensEqual(entry.Token, token) {
		return ErrInvalidToken
	}
	return nil
}

func (s *Service) mintAndDeliver(ctx context.Context, acct *Account, key string, ttl time.Duration,
	send func(ctx context.Context, email, name, token string) error) error {
	token, err := NewToken()
	if err != nil {
		return err
	}
	if err := s.tokens.Put(ctx, key, token, ttl); err != nil {
		return err
	}
	if err := send(ctx, acct.Email, acct.Name, token); err != nil {
		// Delivery is best effort; the token stays valid for a resend.
		obs.LogJSON(map[string]any{
			"ts":    s.now().UTC().Format(time.RFC3339Nano),
			"level": "warn",
			"msg":   "token delivery hand-off failed",
			"email": acct.Email,
			"error": err.Error(),
		})
	}
	return nil
}

func (s *Service) lockEmail(email string) func() {
	v, _ := s.locks.LoadOrStore(email, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
