package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey struct{}

// FromContext returns the identity attached by Require.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// Credential extracts the bearer token from the Authorization header or,
// failing that, from the token cookie. The header wins when both are present.
func Credential(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		if parts := strings.SplitN(h, " ", 2); len(parts) == 2 && parts[1] != "" {
			return parts[1], nil
		}
	}
	if c, err := r.Cookie("token"); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrMissingCredential
}

// Require wraps next so it only runs for requests carrying a valid bearer
// token. No credential yields 401, a failed verification 403.
func (m *TokenManager) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := Credential(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "no token provided")
			return
		}

		id, err := m.Verify(token)
		if err != nil {
			writeError(w, http.StatusForbidden, "invalid token")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
