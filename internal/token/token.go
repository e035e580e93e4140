// Package token issues and verifies the signed, time-limited identity
// tokens used by the API. The service is stateless: a token is a pure
// function of the account ID, the clock and the configured secrets.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, signed with
	// the wrong key, or carries the wrong type claim.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token's signature is valid but
	// its expiry has passed.
	ErrExpiredToken = errors.New("token expired")
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"

	accessTTL  = time.Hour
	refreshTTL = 7 * 24 * time.Hour

	issuer = "wayfarer-api"
)

type claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Service signs and verifies identity tokens. Access and refresh tokens
// use distinct secrets so one class cannot be replayed as the other.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

// NewService creates a token service with the given signing secrets.
func NewService(accessSecret, refreshSecret string) *Service {
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
}

// IssueAccessToken produces an access token for the account, expiring one
// hour from issuance.
func (s *Service) IssueAccessToken(userID uint) (string, error) {
	return s.issue(userID, typeAccess, s.accessSecret, accessTTL)
}

// IssueRefreshToken produces a refresh token for the account, expiring
// seven days from issuance.
func (s *Service) IssueRefreshToken(userID uint) (string, error) {
	return s.issue(userID, typeRefresh, s.refreshSecret, refreshTTL)
}

func (s *Service) issue(userID uint, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	c := claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

// VerifyAccessToken validates an access token and returns the embedded
// account ID.
func (s *Service) VerifyAccessToken(tokenString string) (uint, error) {
	return s.verify(tokenString, typeAccess, s.accessSecret)
}

// VerifyRefreshToken validates a refresh token and returns the embedded
// account ID.
func (s *Service) VerifyRefreshToken(tokenString string) (uint, error) {
	return s.verify(tokenString, typeRefresh, s.refreshSecret)
}

func (s *Service) verify(tokenString, wantType string, secret []byte) (uint, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, ErrInvalidToken
	}
	if !parsed.Valid || c.TokenType != wantType {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}
