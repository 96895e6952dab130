// Package jwtauth emite y valida access tokens HS256 firmados con el secreto
// del proceso. Implementa auth.AuthVerifier y auth.TokenIssuer.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pet-care-management/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	MinSecretLen = 32
	DefaultTTL   = 30 * time.Minute
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrSecretTooShort = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLen)
	ErrInvalidSubject = errors.New("subject must be a positive user id")
)

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration) (*Service, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrSecretTooShort
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *Service) TTL() time.Duration { return s.ttl }

func (s *Service) Issue(userID int64) (auth.Token, error) {
	return s.IssueWithTTL(userID, s.ttl)
}

// IssueWithTTL firma sub, iat, exp y un jti aleatorio.
func (s *Service) IssueWithTTL(userID int64, ttl time.Duration) (auth.Token, error) {
	if userID <= 0 {
		return auth.Token{}, ErrInvalidSubject
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := s.now()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return auth.Token{}, fmt.Errorf("sign token: %w", err)
	}
	return auth.Token{Value: signed, ExpiresAt: exp, TTL: ttl}, nil
}

// Validate devuelve el user id si la firma es válida y now < exp.
func (s *Service) Validate(token string) (int64, error) {
	c, err := s.parse(token)
	if err != nil {
		return 0, err
	}
	return c.UserID, nil
}

func (s *Service) Verify(_ context.Context, token string) (auth.Claims, error) {
	return s.parse(token)
}

func (s *Service) parse(token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	var rc jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &rc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(rc.Subject, 10, 64)
	if err != nil || id <= 0 {
		return auth.Claims{}, ErrInvalidToken
	}

	out := auth.Claims{UserID: id, TokenID: rc.ID}
	if rc.ExpiresAt != nil {
		out.ExpiresAt = rc.ExpiresAt.Time
	}
	return out, nil
}
