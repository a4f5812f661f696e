// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns length random bytes from the OS CSPRNG, hex-encoded.
//
// The result is safe to embed in URLs and cookies. Its string length is
// twice the requested byte length.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("sec: token length must be positive, got %d", length)
	}

	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(buffer), nil
}

// HashToken returns the SHA-256 hex digest of a token.
//
// Only digests are persisted, so a leaked database row cannot be replayed
// as a cookie or an email link.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenGenerator issues fixed-length opaque tokens.
type TokenGenerator struct {
	length int
}

// NewTokenGenerator creates a generator producing tokens of length random bytes.
func NewTokenGenerator(length int) *TokenGenerator {
	return &TokenGenerator{length: length}
}

// Generate issues a fresh token.
func (generator *TokenGenerator) Generate() (string, error) {
	return GenerateSecureToken(generator.length)
}
