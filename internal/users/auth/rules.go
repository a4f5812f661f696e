// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/validate"
)

// # Rule Sets
//
// Each rule set is a pure function of its input. Store-backed rules (email
// uniqueness) are resolved by the caller and passed in as flags.

// loginRules validates the login form.
func loginRules(input LoginInput) error {
	validator := &validate.Validator{}
	emailRules(validator, input.Email)
	passwordRules(validator, FieldPassword, input.Password)
	return validator.Err()
}

// registerRules validates the registration form.
func registerRules(input RegisterInput, emailTaken bool) error {
	validator := &validate.Validator{}

	validator.Required(FieldFirstName, input.FirstName).
		MinLen(FieldFirstName, input.FirstName, NameMinLen).
		MaxLen(FieldFirstName, input.FirstName, NameMaxLen).
		Required(FieldLastName, input.LastName).
		MinLen(FieldLastName, input.LastName, NameMinLen).
		MaxLen(FieldLastName, input.LastName, NameMaxLen)

	emailRules(validator, input.Email)
	validator.Custom(FieldEmail, emailTaken, MsgEmailTaken)

	passwordRules(validator, FieldPassword, input.Password)

	validator.Required(FieldConfirmPassword, input.ConfirmPassword).
		Matches(FieldConfirmPassword, input.ConfirmPassword, FieldPassword, input.Password).
		Accepted(FieldTerms, input.Terms)

	return validator.Err()
}

// userEmailRules validates the forgot-password form.
func userEmailRules(input ForgotPasswordInput) error {
	validator := &validate.Validator{}
	emailRules(validator, input.Email)
	return validator.Err()
}

// resetPasswordRules validates the reset-password form.
func resetPasswordRules(input ResetPasswordInput) error {
	validator := &validate.Validator{}
	passwordRules(validator, FieldNewPassword, input.NewPassword)
	validator.Required(FieldConfirmPassword, input.ConfirmPassword).
		Matches(FieldConfirmPassword, input.ConfirmPassword, FieldNewPassword, input.NewPassword)
	return validator.Err()
}

// emailRules: required, 6 to 50 characters, bare address.
func emailRules(validator *validate.Validator, email string) {
	validator.Required(FieldEmail, email).
		MinLen(FieldEmail, email, EmailMinLen).
		MaxLen(FieldEmail, email, EmailMaxLen).
		Email(FieldEmail, email)
}

// passwordRules: required, 8 to 255 characters. No complexity policy.
func passwordRules(validator *validate.Validator, field, password string) {
	validator.Required(field, password).
		MinLen(field, password, PasswordMinLen).
		MaxLen(field, password, PasswordMaxLen)
}

// fieldErrors flattens a validation error into the first message per field.
func fieldErrors(err error) map[string]string {
	appError := apperr.As(err)
	if appError == nil {
		return nil
	}

	errors := make(map[string]string, len(appError.Details))
	for _, detail := range appError.Details {
		if _, seen := errors[detail.Field]; !seen {
			errors[detail.Field] = detail.Message
		}
	}
	return errors
}
