package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"crewdesk.org/internal/session"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// withSession validates the bearer token and attaches the claims to the
// request context. Invalid and expired tokens both answer 401.
func (a *API) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="crewdesk"`)
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}
		claims, err := a.sessions.Validate(token)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="crewdesk"`)
			switch {
			case errors.Is(err, session.ErrExpired):
				writeError(w, r, http.StatusUnauthorized, "token expired")
			default:
				writeError(w, r, http.StatusUnauthorized, "invalid token")
			}
			return
		}
		ctx := session.ContextWithClaims(r.Context(), claims)
		next(w, r.WithContext(ctx))
	}
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
