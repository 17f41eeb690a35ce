package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	eventauth "github.com/eventra/eventauth"
)

// 401 bodies are part of the client contract; do not reword them.
const (
	msgTokenMissing  = "Token is missing"
	msgNotAuthorized = "User is not authorized"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the validated principal injected by a guard.
func AuthResultFromContext(ctx context.Context) (*eventauth.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*eventauth.AuthResult)
	return res, ok
}

// Guard wraps a handler with bearer-token validation. On success the next
// handler runs exactly once with the auth result in its context; on failure
// the pipeline halts with a 401.
func Guard(engine *eventauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				unauthorized(w, msgNotAuthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, msgTokenMissing)
				return
			}

			res, err := engine.Validate(r.Context(), token)
			if err != nil {
				unauthorized(w, msgNotAuthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole is Guard plus a role check on the validated principal.
func RequireRole(engine *eventauth.Engine, role eventauth.Role) func(http.Handler) http.Handler {
	guard := Guard(engine)
	return func(next http.Handler) http.Handler {
		return guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := AuthResultFromContext(r.Context())
			if !ok || res.Role != role {
				unauthorized(w, msgNotAuthorized)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// RequireOrganizer guards routes that only organizers may reach.
func RequireOrganizer(engine *eventauth.Engine) func(http.Handler) http.Handler {
	return RequireRole(engine, eventauth.RoleOrganizer)
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
