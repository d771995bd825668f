package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"crewdesk.org/internal/account"
	"crewdesk.org/internal/audit"
	"crewdesk.org/internal/obs"
	"crewdesk.org/internal/session"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailTokenRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	acct, err := a.accounts.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		obs.ObserveAccountOp("signup", "failure")
		handleAccountError(w, r, err)
		return
	}
	obs.ObserveAccountOp("signup", "success")
	_ = audit.LogEvent(r.Context(), "account.signup", map[string]any{
		"account_id": acct.ID,
		"email":      acct.Email,
	})
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":              true,
		"requiresVerification": true,
	})
}

func (a *API) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req emailTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.accounts.VerifyEmail(r.Context(), req.Email, req.Token); err != nil {
		obs.ObserveAccountOp("verify_email", "failure")
		handleAccountError(w, r, err)
		return
	}
	obs.ObserveAccountOp("verify_email", "success")
	_ = audit.LogEvent(r.Context(), "account.verified", map[string]any{
		"email": account.NormalizeEmail(req.Email),
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (a *API) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.accounts.ResendVerification(r.Context(), req.Email); err != nil {
		obs.ObserveAccountOp("resend_verification", "failure")
		// This endpoint deliberately reports 404 for unknown emails; the
		// caller already supplied the address during signup.
		if errors.Is(err, account.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "account not found")
			return
		}
		handleAccountError(w, r, err)
		return
	}
	obs.ObserveAccountOp("resend_verification", "success")
	_ = audit.LogEvent(r.Context(), "account.verification_resent", map[string]any{
		"email": account.NormalizeEmail(req.Email),
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}
	token, acct, err := a.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		obs.ObserveAccountOp("login", "failure")
		switch {
		case errors.Is(err, account.ErrNotVerified):
			writeError(w, r, http.StatusForbidden, "email not verified")
		case errors.Is(err, account.ErrInvalidCredentials):
			// Unknown email and wrong password answer identically so this
			// endpoint cannot be used to enumerate accounts.
			writeError(w, r, http.StatusUnauthorized, "invalid email or password")
		default:
			writeError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}
	obs.ObserveAccountOp("login", "success")
	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"account_id": acct.ID,
		"email":      acct.Email,
		"role":       acct.Role,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    acct,
	})
}

// Sessions are not revocable server-side; logout exists for client symmetry
// and for the audit trail.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	fields := map[string]any{}
	if raw, err := extractBearerToken(r.Header.Get(authHeader)); err == nil {
		if claims, err := a.sessions.Validate(raw); err == nil {
			fields["account_id"] = claims.Subject
			fields["email"] = claims.Email
		}
	}
	_ = audit.LogEvent(r.Context(), "auth.logout", fields)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (a *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.accounts.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, account.ErrValidation) {
			writeError(w, r, http.StatusBadRequest, "email is required")
			return
		}
		obs.ObserveAccountOp("forgot_password", "failure")
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	obs.ObserveAccountOp("forgot_password", "success")
	_ = audit.LogEvent(r.Context(), "account.password_reset_requested", map[string]any{
		"email": account.NormalizeEmail(req.Email),
	})
	// Identical response whether or not the account exists.
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (a *API) handleValidateResetToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req emailTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.accounts.ValidateResetToken(r.Context(), req.Email, req.Token); err != nil {
		handleAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.accounts.ResetPassword(r.Context(), req.Email, req.Token, req.NewPassword); err != nil {
		obs.ObserveAccountOp("reset_password", "failure")
		handleAccountError(w, r, err)
		return
	}
	obs.ObserveAccountOp("reset_password", "success")
	_ = audit.LogEvent(r.Context(), "account.password_reset", map[string]any{
		"email": account.NormalizeEmail(req.Email),
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	claims, ok := session.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing session")
		return
	}
	acct, err := a.accounts.AccountByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    acct,
	})
}

func (a *API) handleVerifySession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	claims, ok := session.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]any{
			"id":         claims.Subject,
			"email":      claims.Email,
			"role":       claims.Role,
			"issued_at":  claims.IssuedAt.Time,
			"expires_at": claims.ExpiresAt.Time,
		},
	})
}

// handleAccountError maps lifecycle errors onto the HTTP taxonomy. Endpoints
// with deliberate deviations (login, resend-verification) handle those cases
// before falling through to this mapping.
func handleAccountError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, account.ErrValidation):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrWeakPassword):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrInvalidToken):
		writeError(w, r, http.StatusBadRequest, "invalid or expired token")
	case errors.Is(err, account.ErrAlreadyVerified):
		writeError(w, r, http.StatusBadRequest, "email already verified")
	case errors.Is(err, account.ErrDuplicateEmail):
		writeError(w, r, http.StatusConflict, "email already registered")
	case errors.Is(err, account.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "account not found")
	case errors.Is(err, account.ErrNotVerified):
		writeError(w, r, http.StatusForbidden, "email not verified")
	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "invalid email or password")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"success": false,
		"error":   msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
