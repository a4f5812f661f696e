// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package mailaddr canonicalizes email addresses for storage and lookup.
//
// # Usage
//
// Emails are unique per account and compared case-insensitively, so every
// address is normalized before it reaches the credential store.
package mailaddr

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize converts an email address into its canonical form.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Composes to NFC so visually equal addresses share one encoding.
// 3. Applies Unicode case folding (stronger than lowercasing).
// 4. Re-composes to NFC, since folding may decompose characters.
func Normalize(email string) string {
	trimmed := strings.TrimSpace(email)

	pipeline := transform.Chain(norm.NFC, cases.Fold(), norm.NFC)
	normalized, _, err := transform.String(pipeline, trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}

	return normalized
}
