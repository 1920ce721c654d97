package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

// Claims is the token payload issued by the user service.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var (
	errNoToken       = errors.New("authorization token is not provided")
	errBadAuthHeader = errors.New("authorization header format is invalid, expected 'Bearer <token>'")
)

// JWTAuth rejects requests without a valid bearer token and stores the
// caller's claims in the request context.
func JWTAuth(jwtSecret string, log *logger.Logger) func(http.Handler) http.Handler {
	log = log.Named("JWTAuth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(r, jwtSecret)
			if err != nil {
				log.Warn("Authentication failed", zap.String("path", r.URL.Path), zap.Error(err))
				writeAuthError(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalJWTAuth lets anonymous requests through but still rejects a
// token that is present and invalid.
func OptionalJWTAuth(jwtSecret string, log *logger.Logger) func(http.Handler) http.Handler {
	log = log.Named("OptionalJWTAuth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(r, jwtSecret)
			switch {
			case errors.Is(err, errNoToken):
				next.ServeHTTP(w, r)
			case err != nil:
				log.Warn("Authentication failed", zap.String("path", r.URL.Path), zap.Error(err))
				writeAuthError(w, http.StatusUnauthorized, err.Error())
			default:
				next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
			}
		})
	}
}

// RequireRole allows only callers whose role is one of roles. It must run
// after JWTAuth.
func RequireRole(log *logger.Logger, roles ...domain.Role) func(http.Handler) http.Handler {
	log = log.Named("RequireRole")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromContext(r.Context())
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Warn("User does not have required role",
				zap.String("path", r.URL.Path),
				zap.String("user_id", actor.UserID),
				zap.String("user_role", string(actor.Role)))
			writeAuthError(w, http.StatusForbidden, fmt.Sprintf("user role '%s' not authorized for this action", actor.Role))
		})
	}
}

func authenticate(r *http.Request, jwtSecret string) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errNoToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errBadAuthHeader
	}
	return ParseToken(parts[1], jwtSecret)
}

// ParseToken validates an HMAC-signed token and returns its claims.
func ParseToken(tokenString, jwtSecret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token has expired")
		}
		return nil, fmt.Errorf("token is invalid: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.UserID == "" {
		return nil, errors.New("user id not found in token claims")
	}
	return claims, nil
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
