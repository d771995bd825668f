package account

import (
	"strings"
	"time"
)

// Role is one of the fixed privilege tiers. The zero value is not valid.
type Role string

const (
	RoleOperator Role = "operator"
	RoleManager  Role = "manager"
	RoleDirector Role = "director"
)

// Valid reports whether the role belongs to the enumerated set.
func (r Role) Valid() bool {
	switch r {
	case RoleOperator, RoleManager, RoleDirector:
		return true
	}
	return false
}

// ParseRole normalizes and validates a role string, failing closed.
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.TrimSpace(strings.ToLower(raw)))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// Account is one registered credential record. PasswordHash never crosses the
// JSON boundary.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Department   string    `json:"department,omitempty"`
	Title        string    `json:"title,omitempty"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Clone returns a copy so store internals never alias caller memory.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// NormalizeEmail lower-cases and trims an email once, at the boundary.
// Every store lookup and token key uses the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
