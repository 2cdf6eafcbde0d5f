package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ContextKey string

const UserContextKey ContextKey = "currentUser"

// Auth validates bearer tokens and places the claims in the request
// context. The signing secret is injected at construction.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Middleware authenticates via the Authorization header.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing auth token", http.StatusUnauthorized)
			return
		}
		a.authenticate(w, r, next, strings.TrimPrefix(authHeader, "Bearer "))
	})
}

// WebSocketMiddleware authenticates via the token query parameter,
// since browsers cannot set headers on websocket upgrade requests.
func (a *Auth) WebSocketMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Missing auth token", http.StatusUnauthorized)
			return
		}
		a.authenticate(w, r, next, token)
	})
}

func (a *Auth) authenticate(w http.ResponseWriter, r *http.Request, next http.Handler, tokenStr string) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
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
	ctx := context.WithValue(r.Context(), UserContextKey, claims)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// UserID extracts the authenticated user's id from the request
// context. The zero return with false means the request was not
// routed through Auth.
func UserID(ctx context.Context) (int64, bool) {
	claims, ok := ctx.Value(UserContextKey).(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	// JWT numbers decode as float64; be tolerant of string claims too.
	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil
	}
	return 0, false
}

// ResponseWrapper sets the JSON content type on every response.
func ResponseWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
