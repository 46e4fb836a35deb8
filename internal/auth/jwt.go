// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

// Package auth provides JWT bearer token authentication for the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shibam-max/microservices-ai-platform/internal/config"
)

// minSecretLength is the minimum accepted HS256 secret length.
const minSecretLength = 32

var (
	// ErrNoCredentials is returned when a request carries no bearer token.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrExpiredToken is returned for tokens past their expiry.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidToken is returned for malformed, tampered or
	// wrongly-signed tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the JWT claims carried by service tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager creates and validates HS256-signed tokens.
//
// Tokens are stateless; they cannot be revoked before expiry. The secret
// is held as []byte and must be at least 32 characters.
type JWTManager struct {
	secret  []byte
	timeout time.Duration
	now     func() time.Time
}

// NewJWTManager creates a token manager from the security configuration.
func NewJWTManager(cfg config.SecurityConfig) (*JWTManager, error) {
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}

	return &JWTManager{
		secret:  []byte(cfg.JWTSecret),
		timeout: cfg.SessionTimeout,
		now:     time.Now,
	}, nil
}

// SetClock replaces the manager's time source. Test helper.
func (m *JWTManager) SetClock(now func() time.Time) {
	m.now = now
}

// GenerateToken creates a signed token for a user, valid for the
// configured session timeout.
func (m *JWTManager) GenerateToken(userID, role string) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies a token's signature, algorithm and time claims
// and returns its claims. Only HMAC signing methods are accepted, which
// blocks algorithm confusion attacks.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
