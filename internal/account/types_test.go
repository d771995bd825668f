package account

import "testing"

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"jane@x.com", "jane@x.com"},
		{"  JANE@X.COM ", "jane@x.com"},
		{"Mixed.Case@Example.Org", "mixed.case@example.org"},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"operator", "manager", "director", " Director "} {
		role, ok := ParseRole(valid)
		if !ok {
			t.Errorf("ParseRole(%q) rejected", valid)
		}
		if !role.Valid() {
			t.Errorf("role %q should be valid", valid)
		}
	}
	for _, invalid := range []string{"", "admin", "superuser"} {
		if _, ok := ParseRole(invalid); ok {
			t.Errorf("ParseRole(%q): expected rejection", invalid)
		}
	}
}

func TestNewTokenIsRandomHex(t *testing.T) {
	a, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	b, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(a))
	}
	if a == b {
		t.Fatal("tokens must be unique")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword("", DefaultBcryptCost); err == nil {
		t.Fatal("expected error for empty password")
	}
}
