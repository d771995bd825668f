package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"crewdesk.org/internal/account"
)

const defaultIssuer = "crewdesk"

// DefaultTTL is the fixed session lifetime. Sessions are not revocable
// server-side; logout is a client-side discard.
const DefaultTTL = 24 * time.Hour

var (
	// ErrInvalidToken indicates a malformed or wrongly signed session token.
	ErrInvalidToken = errors.New("session: invalid token")
	// ErrExpired indicates a well-formed token past its expiry.
	ErrExpired = errors.New("session: token expired")
)

// Claims are the verified contents of a session token.
type Claims struct {
	Email string       `json:"email"`
	Role  account.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and validates session tokens and authenticates credentials
// against the credential store.
type Manager struct {
	creds  account.CredentialStore
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// ManagerOption configures Manager behavior.
type ManagerOption func(*Manager)

// WithTTL overrides the session lifetime.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithIssuer overrides the token issuer claim.
func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		if strings.TrimSpace(issuer) != "" {
			m.issuer = strings.TrimSpace(issuer)
		}
	}
}

// WithClock overrides the time source (useful for expiry tests).
func WithClock(fn func() time.Time) ManagerOption {
	return func(m *Manager) {
		if fn != nil {
			m.now = fn
		}
	}
}

// NewManager constructs a Manager. The signing secret is mandatory: session
// tokens must be tamper-evident.
func NewManager(creds account.CredentialStore, secret string, opts ...ManagerOption) (*Manager, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("session: signing secret is not configured")
	}
	m := &Manager{
		creds:  creds,
		secret: []byte(secret),
		issuer: defaultIssuer,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Login authenticates credentials and issues a session token. Verification
// status is checked before the password comparison, matching the reference
// behavior; unknown email and wrong password surface identically to callers.
func (m *Manager) Login(ctx context.Context, email, password string) (string, *account.Account, error) {
	email = account.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, account.ErrInvalidCredentials
	}
	acct, err := m.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return "", nil, account.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !acct.Verified {
		return "", nil, account.ErrNotVerified
	}
	if err := account.VerifyPassword(acct.PasswordHash, password); err != nil {
		return "", nil, account.ErrInvalidCredentials
	}
	token, _, err := m.Issue(acct)
	if err != nil {
		return "", nil, err
	}
	return token, acct, nil
}

// Issue signs a session token for the account using HS256.
func (m *Manager) Issue(acct *account.Account) (string, time.Time, error) {
	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		Email: acct.Email,
		Role:  acct.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   acct.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate verifies signature and timestamps and returns the embedded claims.
func (m *Manager) Validate(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if err := m.validateClaims(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *Manager) validateClaims(claims *Claims) error {
	if claims.Issuer != m.issuer {
		return ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return ErrInvalidToken
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return ErrInvalidToken
	}
	now := m.now().UTC()
	if now.After(claims.ExpiresAt.Time) {
		return ErrExpired
	}
	// Allow a small clock skew of 5 seconds when validating issued-at.
	if claims.IssuedAt.Time.After(now.Add(5 * time.Second)) {
		return ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return ErrInvalidToken
	}
	return nil
}
