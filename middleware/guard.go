// Package middleware provides the HTTP gate in front of protected routes.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/stormweyr/authgate"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the authentication result that Guard
// attached to the request context, if any.
func AuthResultFromContext(ctx context.Context) (*authgate.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*authgate.AuthResult)
	return res, ok
}

// Guard wraps a handler so it only runs for requests carrying a valid
// bearer access token. A missing header, a malformed scheme, or a token the
// engine rejects all short-circuit with 401 and an identical body; the
// wrapped handler never observes the request.
func Guard(engine *authgate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := engine.Validate(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
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
