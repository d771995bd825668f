package account

import (
	"context"
	"errors"
	"time"

	"crewdesk.org/internal/ids"
)

// DemoAccount describes one pre-seeded verified login, one per role tier.
type DemoAccount struct {
	Email      string
	Name       string
	Password   string
	Role       Role
	Department string
	Title      string
}

// DemoAccounts returns the fixed demo logins used by the frontend demo mode.
func DemoAccounts() []DemoAccount {
	return []DemoAccount{
		{Email: "operator@demo.com", Name: "Demo Operator", Password: "demo123", Role: RoleOperator, Department: "Operations", Title: "Operator"},
		{Email: "manager@demo.com", Name: "Demo Manager", Password: "demo123", Role: RoleManager, Department: "Operations", Title: "Team Manager"},
		{Email: "director@demo.com", Name: "Demo Director", Password: "demo123", Role: RoleDirector, Department: "Leadership", Title: "Director"},
	}
}

// Build turns a demo definition into a verified account record.
func (d DemoAccount) Build(bcryptCost int) (*Account, error) {
	hash, err := HashPassword(d.Password, bcryptCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Account{
		ID:           ids.New(),
		Email:        NormalizeEmail(d.Email),
		Name:         d.Name,
		PasswordHash: hash,
		Role:         d.Role,
		Department:   d.Department,
		Title:        d.Title,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SeedDemoAccounts inserts the demo logins into a credential store.
// Idempotent: emails that already exist are left untouched.
func SeedDemoAccounts(ctx context.Context, creds CredentialStore, bcryptCost int) error {
	for _, d := range DemoAccounts() {
		acct, err := d.Build(bcryptCost)
		if err != nil {
			return err
		}
		if err := creds.Insert(ctx, acct); err != nil && !errors.Is(err, ErrDuplicateEmail) {
			return err
		}
	}
	return nil
}
