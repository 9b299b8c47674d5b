package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const authIDKey ctxKey = "auth_id"

func AuthIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(authIDKey)
	id, ok := v.(string)
	return id, ok
}

// ContextWithAuthID is used by tests to simulate an authenticated request.
func ContextWithAuthID(ctx context.Context, authID string) context.Context {
	return context.WithValue(ctx, authIDKey, authID)
}

func RequireAuth(jwtSvc *JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")

			authID, err := jwtSvc.Verify(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authIDKey, authID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
