package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Caller is the resolved identity of an authenticated request. It is
// produced exactly once per request by Authenticate and passed into
// every engine operation; handlers never re-derive it.
type Caller struct {
	UserID uint
	Email  string
}

type contextKey string

const callerContextKey contextKey = "caller"

// Authenticate verifies the bearer JWT and stores the resolved Caller
// in the request context. Any resolution failure is uniformly
// unauthenticated; no operation is performed.
func Authenticate(jwtKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			tokenString = strings.TrimPrefix(tokenString, "Bearer ")

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return jwtKey, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			userID, ok := claims["user_id"].(float64)
			if !ok {
				http.Error(w, "Invalid user_id in token", http.StatusUnauthorized)
				return
			}
			email, _ := claims["email"].(string)

			caller := Caller{UserID: uint(userID), Email: email}
			ctx := context.WithValue(r.Context(), callerContextKey, caller)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext returns the resolved caller for the request
func CallerFromContext(r *http.Request) (Caller, error) {
	caller, ok := r.Context().Value(callerContextKey).(Caller)
	if !ok {
		return Caller{}, fmt.Errorf("caller not found in context")
	}
	return caller, nil
}

// WithCaller returns a context carrying the given caller. Used by tests.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}
