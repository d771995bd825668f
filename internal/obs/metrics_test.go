package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/auth/login", "/auth/login"},
		{"/auth/verify-email?email=a%40x.com&token=abc", "/auth/verify-email"},
		{"/healthz", "/healthz"},
	}
	for _, tc := range cases {
		if got := CanonicalPath(tc.in); got != tc.want {
			t.Errorf("CanonicalPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
