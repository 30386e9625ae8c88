package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"quickdrop/internal/dispatch-service/adapters/driver/myhttp/handle"

	"github.com/golang-jwt/jwt"
)

type AuthMiddleware struct {
	accessSecret string
}

func NewAuthMiddleware(accessSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		accessSecret: accessSecret,
	}
}

// Wrap verifies the bearer token and forwards the caller identity in
// X-UserId / X-Role headers. Token issuance lives in the platform's auth
// service; only verification happens here.
func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := am.parse(r)
		if err != nil {
			handle.JsonError(w, http.StatusUnauthorized, err)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("user_id not found in token"))
			return
		}
		role, _ := claims["role"].(string)

		r.Header.Set("X-UserId", userID)
		r.Header.Set("X-Role", role)

		next.ServeHTTP(w, r)
	})
}

// WrapRole additionally requires a specific role claim.
func (am *AuthMiddleware) WrapRole(role string, next http.Handler) http.Handler {
	return am.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Role") != role {
			handle.JsonError(w, http.StatusForbidden, fmt.Errorf("role %s required", role))
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (am *AuthMiddleware) parse(r *http.Request) (jwt.MapClaims, error) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return nil, fmt.Errorf("empty JWT-Token")
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(am.accessSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT-Token")
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid JWT-Token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}
