package middleware

import (
	"net/http"
	"strings"
)

// Keys holds the configured API keys. Empty sets disable the checks,
// which keeps local development friction-free.
type Keys struct {
	Read  []string
	Admin []string
}

func presentedKey(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

func contains(set []string, key string) bool {
	if key == "" {
		return false
	}
	for _, k := range set {
		if k == key {
			return true
		}
	}
	return false
}

// RequireRead allows requests presenting either a read or admin key.
func RequireRead(keys Keys) func(http.Handler) http.Handler {
	return require(func(key string) bool {
		return contains(keys.Read, key) || contains(keys.Admin, key)
	}, len(keys.Read)+len(keys.Admin) > 0, http.StatusUnauthorized, `{"error":"unauthorized"}`)
}

// RequireAdmin only permits requests presenting an admin key.
func RequireAdmin(keys Keys) func(http.Handler) http.Handler {
	return require(func(key string) bool {
		return contains(keys.Admin, key)
	}, len(keys.Admin) > 0, http.StatusForbidden, `{"error":"forbidden"}`)
}

func require(ok func(string) bool, enabled bool, status int, body string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ok(presentedKey(r)) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		})
	}
}
