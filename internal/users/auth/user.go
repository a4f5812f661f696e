// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account authentication and the token lifecycle.

It covers login, logout, registration with email activation, the forgotten
and reset password flows, and persistent "remember-me" login. Every flow is
a small state machine over the credential store, the token issuer, the
session manager and the notification gateway.

# Architecture

  - Service: The Auth Flow Controller. Returns an [Outcome] per request.
  - Repository: Postgres-backed credential store with atomic token updates.
  - Handler: Thin HTML form layer translating outcomes into pages and redirects.

The only persisted flow state is the token stored on the user record. Only
SHA-256 digests of tokens are stored; raw tokens live in emails and cookies.
*/
package auth

import (
	"strings"
	"time"

	"github.com/taibuivan/yomira-auth/internal/users/notify"
	"github.com/taibuivan/yomira-auth/internal/users/session"
)

// # Domain Entities

// User represents a registered account.
//
// Token fields hold digests and are nil when no token of that purpose is
// active. A non-nil ActivationToken means the account is not yet activated.
type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"` // Explicitly omitted from JSON for security.
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	IsAdmin         bool       `json:"is_admin"`
	Terms           bool       `json:"terms"`
	ActivationToken *string    `json:"-"`
	ResetToken      *string    `json:"-"`
	RememberToken   *string    `json:"-"`
	LastActivity    *time.Time `json:"last_activity,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// FullName returns the display name stored in the session.
func (user *User) FullName() string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

// IsActivated reports whether the account has proven control of its email.
func (user *User) IsActivated() bool { return user.ActivationToken == nil }

// HasPendingReset reports whether a password reset link is outstanding.
func (user *User) HasPendingReset() bool { return user.ResetToken != nil }

// IsRemembered reports whether a persistent-login cookie is valid for the account.
func (user *User) IsRemembered() bool { return user.RememberToken != nil }

// Identity returns the fixed-shape record stored in the session.
func (user *User) Identity() session.Identity {
	return session.Identity{ID: user.ID, Name: user.FullName(), Email: user.Email}
}

// Recipient returns the addressee of account notifications.
func (user *User) Recipient() notify.Recipient {
	return notify.Recipient{Email: user.Email, FirstName: user.FirstName, LastName: user.LastName}
}

// # Token Kinds

// TokenKind identifies which single-purpose token a lookup targets.
type TokenKind string

const (
	TokenActivation TokenKind = "activation"
	TokenReset      TokenKind = "reset"
	TokenRemember   TokenKind = "remember"
)

// # Partial Updates

// changeOp is the operation a [Change] applies to a column.
type changeOp uint8

const (
	opKeep changeOp = iota
	opSet
	opClear
)

// Change is a tri-state column update: untouched (zero value), set, or clear.
type Change[T any] struct {
	op    changeOp
	value T
}

// Set returns a change that writes value.
func Set[T any](value T) Change[T] { return Change[T]{op: opSet, value: value} }

// Clear returns a change that writes NULL.
func Clear[T any]() Change[T] { return Change[T]{op: opClear} }

// Touched reports whether the change modifies the column.
func (change Change[T]) Touched() bool { return change.op != opKeep }

// Value returns the value to write, or nil for a clear.
func (change Change[T]) Value() any {
	if change.op == opClear {
		return nil
	}
	return change.value
}

// UserPatch lists the columns modified by a partial update.
//
// Clearing a NOT NULL column is rejected by the database.
type UserPatch struct {
	Email           Change[string]
	PasswordHash    Change[string]
	FirstName       Change[string]
	LastName        Change[string]
	IsAdmin         Change[bool]
	Terms           Change[bool]
	ActivationToken Change[string]
	ResetToken      Change[string]
	RememberToken   Change[string]
	LastActivity    Change[time.Time]
}
