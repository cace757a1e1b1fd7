package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/formloop/formloop/auth"
	"github.com/formloop/formloop/httpx"
)

type ctxKey int

const userIDKey ctxKey = iota

// Owner verifies the bearer token and puts the authenticated account ID
// on the request context. Requests without a valid token are rejected
// with a 401 envelope.
func Owner(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		verified := jwtauth.Verifier(tokens.Auth())(ownerID(next))
		return verified
	}
}

func ownerID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			httpx.LogUnauthorized(w, r, "UNAUTHORIZED", "Authentication required")
			return
		}

		userID, _ := claims[auth.UserIDClaim].(string)
		if userID == "" {
			httpx.LogUnauthorized(w, r, "UNAUTHORIZED", "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID is the authenticated account ID put on the context by Owner.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
