// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, Token issuance,
// cookie signing) from the domain logic. It acts as an Infrastructure service
// injected into the Application layer.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSignature is returned when a signed cookie fails verification.
var ErrInvalidSignature = errors.New("sec: invalid cookie signature")

// sessionClaims is the payload of a signed session cookie.
//
// Only the opaque session id travels to the browser; the session record
// itself stays server-side.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// CookieSigner signs and verifies session identifiers using HS256.
type CookieSigner struct {
	secret []byte
	issuer string
}

// NewCookieSigner creates a new CookieSigner bound to the given secret.
func NewCookieSigner(secret, issuer string) *CookieSigner {
	return &CookieSigner{secret: []byte(secret), issuer: issuer}
}

// Sign wraps a session id into a compact signed token.
func (signer *CookieSigner) Sign(sessionID string) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       sessionID,
			Issuer:   signer.issuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signer.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session cookie: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and returns the embedded session id.
func (signer *CookieSigner) Verify(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signer.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(signer.issuer),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return "", ErrInvalidSignature
	}

	return claims.ID, nil
}
