package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jfcardenas/recargas/internal/core/logger"
	"github.com/jfcardenas/recargas/internal/core/models"
	"github.com/jfcardenas/recargas/pkg/config"
)

type principalKey struct{}

const bearerPrefix = "Bearer "

// Authenticate guards a route with bearer-token verification. On success
// the decoded principal is stored in the request context; any missing,
// malformed, expired or badly signed token ends the request with 401.
func Authenticate(cfg config.JWTConfig, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				log.Warn("Missing or malformed authorization header",
					logger.StringField("path", r.URL.Path))
				respondUnauthorized(w)
				return
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(cfg.Secret), nil
			})
			if err != nil || !token.Valid {
				log.Warn("Token verification failed",
					logger.ErrorField("error", err),
					logger.StringField("path", r.URL.Path))
				respondUnauthorized(w)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				respondUnauthorized(w)
				return
			}

			userID, _ := claims["user_id"].(float64)
			username, _ := claims["username"].(string)
			principal := models.Principal{UserID: int64(userID), Username: username}

			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the identity stored by Authenticate.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(models.Principal)
	return principal, ok
}

func respondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"Unauthorized"}`))
}
