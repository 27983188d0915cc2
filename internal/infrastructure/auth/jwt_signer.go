package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userhub/accounts-api/internal/core/domain"
	"github.com/userhub/accounts-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// JWTSigner implements ports.TokenSigner with HS256 JWTs. Each token binds
// the user id, a snapshot of the role set and the origin address of the
// signing request. The iat claim makes two signings of the same user at
// different times distinct.
type JWTSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTSigner(secret string, ttl time.Duration) *JWTSigner {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTSigner{secret: []byte(secret), ttl: ttl}
}

func (s *JWTSigner) Sign(user *domain.User, origin string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"roles":    user.Roles.Strings(),
		"origin":   origin,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

var _ ports.TokenSigner = (*JWTSigner)(nil)
