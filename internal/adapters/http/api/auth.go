package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/okian/linguist/internal/domain/model"
)

type authCtxKey int

const userKey authCtxKey = 1

// Claims is the bearer token payload.
type Claims struct {
	Email    string     `json:"email"`
	FullName string     `json:"name,omitempty"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator signs and verifies HS256 bearer tokens.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an authenticator for secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// SignToken issues a token for u valid for ttl.
func (a *Authenticator) SignToken(u model.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) parse(tok string) (model.User, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return model.User{}, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return model.User{}, errors.New("invalid token")
	}
	switch c.Role {
	case model.RoleAdmin, model.RoleProjectManager, model.RoleApplicant:
	default:
		return model.User{}, errors.New("unknown role")
	}
	if strings.TrimSpace(c.Email) == "" {
		return model.User{}, errors.New("missing email")
	}
	return model.User{Email: c.Email, FullName: c.FullName, Role: c.Role}, nil
}

// WithAuth attaches the caller to the request context when a valid bearer
// token is present.
func (a *Authenticator) WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			if u, err := a.parse(tok); err == nil {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without an authenticated caller.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			writeError(w, NewKind("api.auth", ErrUnauthorized))
			return
		}
		next(w, r)
	}
}

// UserFromContext returns the authenticated caller.
func UserFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey).(model.User)
	return u, ok
}

func currentUser(r *http.Request) model.User {
	u, _ := UserFromContext(r.Context())
	return u
}
