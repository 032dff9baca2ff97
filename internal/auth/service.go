package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"firewatch/internal/apperror"
)

type Service struct {
	users    UserStore
	sessions SessionStore
	secret   []byte
	ttl      time.Duration
}

func NewService(users UserStore, sessions SessionStore, secret string, ttl time.Duration) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

type Claims struct {
	UserID int64  `json:"uid"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// Login resolves the user by name, creating one on first login, and issues
// a fresh token. The stored role wins over the requested one: a returning
// user cannot change role by logging in again.
func (s *Service) Login(ctx context.Context, name string, role Role) (*User, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", apperror.InvalidInput("name is required")
	}
	if !role.Valid() {
		return nil, "", apperror.InvalidInput(`role must be "user" or "firefighter"`)
	}

	user, err := s.users.GetByName(ctx, name)
	if errors.Is(err, ErrUserNotFound) {
		user, err = s.users.Create(ctx, name, role)
		if err != nil {
			// Two first logins with the same name can race; the unique
			// name constraint fails one insert. Re-read the winner.
			if winner, retryErr := s.users.GetByName(ctx, name); retryErr == nil {
				user, err = winner, nil
			}
		}
	}
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) issueToken(ctx context.Context, user *User) (string, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", err
	}

	claims := Claims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   user.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Authenticate maps a bearer token to its user. The signature must verify
// and the session row must still exist and be unexpired; a logged-out token
// fails here even though the JWT itself is still within its lifetime.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, apperror.Unauthenticated("invalid or expired token")
	}
	if _, err := s.sessions.GetByID(ctx, claims.RegisteredClaims.ID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apperror.Unauthenticated("session revoked or expired")
		}
		return nil, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.Unauthenticated("unknown user")
		}
		return nil, err
	}
	return user, nil
}

// Logout revokes the token's session. Revoking an already-revoked session
// is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return apperror.Unauthenticated("invalid or expired token")
	}
	return s.sessions.Delete(ctx, claims.RegisteredClaims.ID)
}

// CurrentUser is the read-only identity lookup behind GET /api/auth/me.
func (s *Service) CurrentUser(ctx context.Context, token string) (*User, error) {
	return s.Authenticate(ctx, token)
}

func (s *Service) parseToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, errors.New("missing token")
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
