// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
)

// # Alert Messages

const (
	MsgIncorrectLogin       = "Incorrect email or password."
	MsgAccountNotActivated  = "Your account is not activated yet. Check your inbox for the activation link."
	MsgResetEmailSent       = "If an account exists for this address, a password reset link is on its way."
	MsgPasswordChanged      = "Your password has been changed. You can now sign in."
	MsgRegistered           = "Your account has been created. Check your inbox to activate it."
	MsgActivated            = "Your account is active. You can now sign in."
	MsgInvalidActivation    = "Something went wrong. The link is invalid or has already been used."
	MsgEmailTaken           = "This email is already registered"
	MsgRegistrationDisabled = "Registration"
)

// # Domain Errors

var (
	// ErrUserNotFound is returned by the repository when no account matches.
	ErrUserNotFound = apperr.NotFound("User")

	// ErrEmailTaken is returned when an email unique constraint is violated.
	ErrEmailTaken = apperr.Conflict(MsgEmailTaken)

	// ErrInvalidCredentials covers an unknown email or a wrong password.
	ErrInvalidCredentials = apperr.Unauthorized(MsgIncorrectLogin)

	// ErrAccountNotActivated is reported before the password is checked.
	ErrAccountNotActivated = apperr.New("ACCOUNT_NOT_ACTIVATED", MsgAccountNotActivated, http.StatusForbidden)

	// ErrUnknownToken never distinguishes "already used" from "never existed".
	ErrUnknownToken = apperr.New("UNKNOWN_TOKEN", "Token is invalid or has already been used", http.StatusNotFound)

	// ErrRegistrationDisabled is returned when sign-up is administratively off.
	ErrRegistrationDisabled = apperr.FeatureDisabled(MsgRegistrationDisabled)

	// ErrPageNotFound is returned for an activation link without a token.
	ErrPageNotFound = apperr.NotFound("Page")
)
