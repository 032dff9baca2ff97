package auth

import (
	"context"
	"net/http"
	"strings"

	"firewatch/internal/apperror"
	"firewatch/internal/httpapi"
)

type contextKey string

const userContextKey contextKey = "firewatch_user"

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey).(*User)
	return u, ok
}

// TokenFromRequest extracts the bearer credential, or "" when absent.
func TokenFromRequest(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// Middleware authenticates every request and stores the user on the
// context. Requests without a valid live session get 401.
func Middleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				httpapi.Error(w, nil, apperror.Unauthenticated("missing bearer token"))
				return
			}
			user, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				httpapi.Error(w, nil, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
