package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"blogapi/internal/api/response"
	"blogapi/internal/security"
)

type contextKey string

const UserIDCtxKey contextKey = "userID"

// Authenticator rejects requests whose token jwtauth.Verifier could not
// find or validate. It must run after the Verifier.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			response.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth chains the token verifier and the authenticator.
func RequireAuth(tokens *security.TokenManager) func(http.Handler) http.Handler {
	verify := jwtauth.Verifier(tokens.JWTAuth())
	return func(next http.Handler) http.Handler {
		return verify(Authenticator(next))
	}
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}
