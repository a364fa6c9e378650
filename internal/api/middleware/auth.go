package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const userIDKey contextKey = "userID"

const tokenExpiry = 24 * time.Hour

// Claims are the JWT claims the surrounding platform mints for a signed-in
// user. The subject is the tenant id every storage query and write carries.
type Claims struct {
	jwt.RegisteredClaims
}

// Auth verifies the bearer token, if any, and threads the authenticated user
// id into the request context. It never rejects by itself: handlers decide
// whether an operation requires an identity, so open endpoints like /health
// keep working without a token.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := ValidateToken(token, secret)
			if err != nil {
				// Invalid token means no identity; the handler will
				// answer unauthenticated where one is required.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id from the context, or "" when the
// call carried no valid identity.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// ValidateToken parses and validates an HS256 token and returns its subject.
func ValidateToken(tokenString, secret string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("ValidateToken: parsing token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("ValidateToken: invalid token")
	}
	return claims.Subject, nil
}

// GenerateToken mints a signed token for userID. The production platform
// issues its own tokens; this is for local runs and tests.
func GenerateToken(userID, secret string) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "catatuang",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
