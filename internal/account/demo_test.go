package account

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestSeedDemoAccounts(t *testing.T) {
	creds := NewMemCredentialStore()
	ctx := context.Background()

	if err := SeedDemoAccounts(ctx, creds, bcrypt.MinCost); err != nil {
		t.Fatalf("SeedDemoAccounts: %v", err)
	}

	want := map[string]Role{
		"operator@demo.com": RoleOperator,
		"manager@demo.com":  RoleManager,
		"director@demo.com": RoleDirector,
	}
	for email, role := range want {
		acct, err := creds.FindByEmail(ctx, email)
		if err != nil {
			t.Fatalf("FindByEmail(%s): %v", email, err)
		}
		if acct.Role != role {
			t.Errorf("%s role = %s, want %s", email, acct.Role, role)
		}
		if !acct.Verified {
			t.Errorf("%s should be seeded verified", email)
		}
		if err := VerifyPassword(acct.PasswordHash, "demo123"); err != nil {
			t.Errorf("%s password mismatch: %v", email, err)
		}
	}
}

func TestSeedDemoAccountsIsIdempotent(t *testing.T) {
	creds := NewMemCredentialStore()
	ctx := context.Background()

	if err := SeedDemoAccounts(ctx, creds, bcrypt.MinCost); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	first, err := creds.FindByEmail(ctx, "manager@demo.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}

	if err := SeedDemoAccounts(ctx, creds, bcrypt.MinCost); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	second, err := creds.FindByEmail(ctx, "manager@demo.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("re-seeding must not replace existing accounts")
	}
}
