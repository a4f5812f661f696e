// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Field Identifiers

// Form field names shared by the rule sets, handlers and templates.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldConfirmPassword = "confirm_password"
	FieldNewPassword     = "new_password"
	FieldTerms           = "terms"
	FieldToken           = "token"
)

// Submit button names. A form counts as submitted only when its button is present.
const (
	SubmitLogin         = "login"
	SubmitRegister      = "register"
	SubmitSend          = "send"
	SubmitResetPassword = "reset_password"
)

// # Validation Bounds

const (
	EmailMinLen    = 6
	EmailMaxLen    = 50
	PasswordMinLen = 8
	PasswordMaxLen = 255
	NameMinLen     = 3
	NameMaxLen     = 50
)

// # Views

// Page templates rendered by the flows.
const (
	ViewLogin          = "login"
	ViewRegister       = "register"
	ViewForgotPassword = "forgot_password"
	ViewResetPassword  = "reset_password"
)
