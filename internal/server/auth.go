package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
)

// DefaultUser is the identity used when authentication is disabled
const DefaultUser = "default"

// Users maps usernames to passwords for basic auth
type Users map[string]string

// ParseUsers parses "alice:secret,bob:hunter2" into Users
func ParseUsers(spec string) (Users, error) {
	users := Users{}
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, password, ok := strings.Cut(entry, ":")
		if !ok || name == "" || password == "" {
			return nil, fmt.Errorf("invalid user entry %q: expected user:password", entry)
		}
		if _, dup := users[name]; dup {
			return nil, fmt.Errorf("duplicate user %q", name)
		}
		users[name] = password
	}
	return users, nil
}

type userKey struct{}

// UserFromContext returns the authenticated user stored by requireAuth
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(userKey{}).(string)
	return user
}

// authenticate checks basic auth credentials and returns the user they belong to
func (s *Server) authenticate(r *http.Request) (string, bool) {
	if len(s.users) == 0 {
		return DefaultUser, true // No auth required if not configured
	}

	name, password, ok := r.BasicAuth()
	if !ok {
		return "", false
	}
	expected, known := s.users[name]
	if !known {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(expected)) != 1 {
		return "", false
	}
	return name, true
}

// requireAuth middleware resolves the user identity for the request
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authenticate(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Expense Tracker"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	}
}
