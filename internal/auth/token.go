// Package auth resolves the caller identity from a bearer token. The subject of an
// HS256 JWT is the owner id the stores scope every mutation to.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 32

var (
	ErrMissingToken = errors.New("authentication token is missing")
	ErrInvalidToken = errors.New("invalid authentication token")
	ErrExpiredToken = errors.New("authentication token has expired")
)

// Verifier turns a bearer token into the owner id it was issued for.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Logger *slog.Logger
}

// TokenService issues and verifies HS256 tokens.
type TokenService struct {
	key       []byte
	issuer    string
	ttl       time.Duration
	clockSkew time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

var _ Verifier = (*TokenService)(nil)

// NewTokenService validates cfg and returns a TokenService.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenService{
		key:       []byte(cfg.Secret),
		issuer:    cfg.Issuer,
		ttl:       cfg.TTL,
		clockSkew: time.Minute,
		now:       time.Now,
		logger:    logger.With("component", "auth"),
	}, nil
}

// Issue signs a token whose subject is ownerID.
func (s *TokenService) Issue(ownerID string) (string, error) {
	if ownerID == "" {
		return "", errors.New("owner id is required")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   ownerID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and issuer and returns the token subject.
func (s *TokenService) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.DebugContext(ctx, "token expired", "error", err)
			return "", ErrExpiredToken
		}
		s.logger.DebugContext(ctx, "token rejected", "error", err)
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		s.logger.DebugContext(ctx, "token has no subject")
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
