package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gccheapcars/rental-api/internal/model"
)

// errNoToken means the request carried no Bearer token at all.
var errNoToken = errors.New("auth: no bearer token presented")

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string,
// ANY package that knows the string can read or shadow your value. A
// package-private type means only this package can read or write identities
// in the context.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth is middleware that enforces authentication on protected routes.
//
// It reads the JWT from the "Authorization: Bearer <token>" header — the
// frontend keeps the token in localStorage and attaches it per request, so a
// header (not a cookie) is the transport. If the header is missing or the
// token invalid/expired, the chain stops with 401.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := extractIdentity(r, tokens)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "valid authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin enforces the admin role. It must run AFTER RequireAuth in the
// middleware chain — it reads the identity RequireAuth stored.
//
// 401 vs 403: a missing/broken token is 401 ("who are you?"); a valid token
// without the admin role is 403 ("I know who you are, and no").
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "valid authentication required")
			return
		}
		if identity.Role != model.RoleAdmin {
			writeAuthError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext retrieves the authenticated identity from the request
// context. Returns (nil, false) if the request is anonymous.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}

// extractIdentity reads and validates the Bearer token.
func extractIdentity(r *http.Request, tokens *TokenService) (*Identity, error) {
	header := r.Header.Get("Authorization")
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return nil, errNoToken
	}

	return tokens.Validate(tokenStr)
}

// writeAuthError emits the same JSON error shape handler/response.go uses.
// The middleware can't import the handler package (the handler imports us),
// so the two-field literal is duplicated here.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errType := "unauthorized"
	if status == http.StatusForbidden {
		errType = "forbidden"
	}
	w.Write([]byte(`{"error":"` + errType + `","message":"` + message + `"}`))
}
