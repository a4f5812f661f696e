// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-auth/internal/platform/sec"
	"github.com/taibuivan/yomira-auth/internal/users/notify"
	"github.com/taibuivan/yomira-auth/internal/users/session"
	"github.com/taibuivan/yomira-auth/pkg/mailaddr"
	"github.com/taibuivan/yomira-auth/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer generates unguessable single-use tokens.
type TokenIssuer interface {
	// Generate returns a fresh random token, hex-encoded.
	Generate() (string, error)
}

// SessionManager is the per-request session consumed by the flows.
type SessionManager interface {
	Start(ctx context.Context, identity session.Identity) error
	Destroy(ctx context.Context) error
	UserID() (string, bool)
	RememberToken() string
	SetRememberCookie(token string, ttl time.Duration)
	ClearRememberCookie()
}

// Notifier sends account emails.
type Notifier interface {
	Notify(ctx context.Context, notification notify.Notification) error
}

// Options holds the administrative switches of the flows.
type Options struct {
	// RegistrationEnabled toggles the sign-up flow.
	RegistrationEnabled bool

	// RememberTTL is the lifetime of the persistent-login cookie.
	RememberTTL time.Duration
}

// Alert is a user-visible message shown after the flow completes.
type Alert struct {
	Level   string
	Message string
}

// Outcome is the result of a flow that did not fail hard.
//
// Exactly one of Redirect or View is set. Failure records a handled
// domain failure (invalid credentials, unknown token, validation) and
// never needs to be surfaced as an HTTP error.
type Outcome struct {
	Redirect string
	View     string
	Data     map[string]any
	Alert    *Alert
	Errors   map[string]string
	Failure  error
}

// Service implements the authentication flows.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// handling or session establishment must be reviewed carefully.
type Service struct {
	userRepository UserRepository
	tokenIssuer    TokenIssuer
	notifier       Notifier
	options        Options
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokens TokenIssuer, notifier Notifier, options Options) *Service {
	return &Service{
		userRepository: userRepo,
		tokenIssuer:    tokens,
		notifier:       notifier,
		options:        options,
	}
}

// # Flow Inputs

// LoginInput holds the submitted login form.
type LoginInput struct {
	Submitted bool
	Email     string
	Password  string
}

// RegisterInput holds the submitted registration form.
type RegisterInput struct {
	Submitted       bool
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Terms           bool
}

// ForgotPasswordInput holds the submitted forgot-password form.
type ForgotPasswordInput struct {
	Submitted bool
	Email     string
}

// ResetPasswordInput holds the reset link token and the submitted form.
type ResetPasswordInput struct {
	Token           string
	Submitted       bool
	NewPassword     string
	ConfirmPassword string
}

// # Login Flow

/*
Login authenticates a visitor by remember-me cookie or by credentials.

Description: A valid remember-me pair short-circuits the flow. Otherwise a
submitted form is validated, the account must be activated (checked before
the password), and the password must verify. Success rotates the remember
token, sets its cookie and starts the session.

Parameters:
  - ctx: context.Context
  - sess: SessionManager
  - input: LoginInput

Returns:
  - Outcome: Redirect home, redirect to login with an alert, or the login form
  - error: Store or session failures
*/
func (service *Service) Login(ctx context.Context, sess SessionManager, input LoginInput) (Outcome, error) {

	// 1. Remember-me short-circuit
	remembered, err := service.CheckRememberMe(ctx, sess)
	if err != nil {
		return Outcome{}, err
	}
	if remembered {
		return redirectTo(constants.PathHome), nil
	}

	// 2. Plain GET renders the form without touching state
	if !input.Submitted {
		return Outcome{View: ViewLogin}, nil
	}

	input.Email = mailaddr.Normalize(input.Email)
	if err := loginRules(input); err != nil {
		return formFailure(ViewLogin, err, map[string]any{"old": map[string]string{FieldEmail: input.Email}}), nil
	}

	// 3. Credential checks. Activation is reported before the password is verified.
	user, err := service.userRepository.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return loginFailure(ErrInvalidCredentials), nil
		}
		return Outcome{}, err
	}

	if !user.IsActivated() {
		return loginFailure(ErrAccountNotActivated), nil
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return loginFailure(ErrInvalidCredentials), nil
	}

	// 4. Persistent login, then the session itself
	token, err := service.tokenIssuer.Generate()
	if err != nil {
		return Outcome{}, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	patch := UserPatch{RememberToken: Set(sec.HashToken(token))}
	if err := service.userRepository.Update(ctx, user.ID, patch); err != nil {
		return Outcome{}, err
	}
	sess.SetRememberCookie(token, service.options.RememberTTL)

	if err := sess.Start(ctx, user.Identity()); err != nil {
		return Outcome{}, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "login_succeeded", slog.String("user_id", user.ID))
	return redirectTo(constants.PathHome), nil
}

/*
CheckRememberMe re-establishes a session from the persistent-login cookie.

Description: The cookie must match a stored remember digest. The digest is
rotated atomically on success, so the presented cookie value stops working.
A cookie matching no account is cleared.

Parameters:
  - ctx: context.Context
  - sess: SessionManager

Returns:
  - bool: true when the visitor was remembered and a session started
  - error: Store or session failures
*/
func (service *Service) CheckRememberMe(ctx context.Context, sess SessionManager) (bool, error) {
	presented := sess.RememberToken()
	if presented == "" {
		return false, nil
	}

	next, err := service.tokenIssuer.Generate()
	if err != nil {
		return false, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	user, err := service.userRepository.ReplaceRememberToken(ctx, sec.HashToken(presented), sec.HashToken(next))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			sess.ClearRememberCookie()
			return false, nil
		}
		return false, err
	}

	sess.SetRememberCookie(next, service.options.RememberTTL)
	if err := sess.Start(ctx, user.Identity()); err != nil {
		return false, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "login_remembered", slog.String("user_id", user.ID))
	return true, nil
}

// # Registration Flow

/*
Register validates and persists a new, not yet activated, account.

Description: The account receives a hashed password and an activation
token whose raw value is emailed. No session is started.

Parameters:
  - ctx: context.Context
  - input: RegisterInput

Returns:
  - Outcome: Redirect to login with a success alert, or the form with errors
  - error: ErrRegistrationDisabled, store or hashing failures
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (Outcome, error) {
	if !service.options.RegistrationEnabled {
		return Outcome{}, ErrRegistrationDisabled
	}

	if !input.Submitted {
		return Outcome{View: ViewRegister}, nil
	}

	input.Email = mailaddr.Normalize(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	old := map[string]any{"old": map[string]string{
		FieldFirstName: input.FirstName,
		FieldLastName:  input.LastName,
		FieldEmail:     input.Email,
	}}

	// 1. Uniqueness against the store, then the pure rule set
	emailTaken := false
	if input.Email != "" {
		_, err := service.userRepository.FindByEmail(ctx, input.Email)
		switch {
		case err == nil:
			emailTaken = true
		case !errors.Is(err, ErrUserNotFound):
			return Outcome{}, err
		}
	}

	if err := registerRules(input, emailTaken); err != nil {
		return formFailure(ViewRegister, err, old), nil
	}

	// 2. Credentials and the activation token
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return Outcome{}, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	token, err := service.tokenIssuer.Generate()
	if err != nil {
		return Outcome{}, fmt.Errorf("auth_service_token_failed: %w", err)
	}
	activationHash := sec.HashToken(token)

	user := &User{
		ID:              uuid.New(),
		Email:           input.Email,
		PasswordHash:    hashedPassword,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Terms:           input.Terms,
		ActivationToken: &activationHash,
	}

	// 3. Persist. A concurrent duplicate is reported like the uniqueness rule.
	if err := service.userRepository.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Outcome{
				View:    ViewRegister,
				Data:    old,
				Errors:  map[string]string{FieldEmail: MsgEmailTaken},
				Failure: ErrEmailTaken,
			}, nil
		}
		return Outcome{}, err
	}

	service.notify(ctx, notify.KindActivation, user, token)

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_registered", slog.String("user_id", user.ID))
	return redirectWithAlert(constants.PathLogin, session.FlashSuccess, MsgRegistered), nil
}

// # Password Reset Flow

/*
ForgotPassword issues a reset token for the submitted email.

Description: The token is stored with a single update-by-email. An
unknown address mutates nothing and sends nothing, but the visitor sees
the same success alert, so account existence is not revealed.

Parameters:
  - ctx: context.Context
  - input: ForgotPasswordInput

Returns:
  - Outcome: Redirect to login with a success alert, or the form with errors
  - error: Store failures
*/
func (service *Service) ForgotPassword(ctx context.Context, input ForgotPasswordInput) (Outcome, error) {
	if !input.Submitted {
		return Outcome{View: ViewForgotPassword}, nil
	}

	input.Email = mailaddr.Normalize(input.Email)
	if err := userEmailRules(input); err != nil {
		return formFailure(ViewForgotPassword, err, map[string]any{"old": map[string]string{FieldEmail: input.Email}}), nil
	}

	token, err := service.tokenIssuer.Generate()
	if err != nil {
		return Outcome{}, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	user, err := service.userRepository.SetResetToken(ctx, input.Email, sec.HashToken(token))
	switch {
	case err == nil:
		service.notify(ctx, notify.KindResetRequested, user, token)
		ctxutil.GetLogger(ctx).InfoContext(ctx, "password_reset_requested", slog.String("user_id", user.ID))
	case errors.Is(err, ErrUserNotFound):
		ctxutil.GetLogger(ctx).InfoContext(ctx, "password_reset_unknown_email")
	default:
		return Outcome{}, err
	}

	return redirectWithAlert(constants.PathLogin, session.FlashSuccess, MsgResetEmailSent), nil
}

/*
ResetPassword replaces the password of the account holding the reset token.

Description: An absent or unknown token silently redirects to login. The
password change, the token consumption and the remember-token revocation
happen in one atomic update, so a replayed link fails.

Parameters:
  - ctx: context.Context
  - input: ResetPasswordInput

Returns:
  - Outcome: Redirect to login, or the reset form pre-populated with the token
  - error: Store or hashing failures
*/
func (service *Service) ResetPassword(ctx context.Context, input ResetPasswordInput) (Outcome, error) {
	unknown := Outcome{Redirect: constants.PathLogin, Failure: ErrUnknownToken}
	if input.Token == "" {
		return unknown, nil
	}

	tokenHash := sec.HashToken(input.Token)
	if _, err := service.userRepository.FindByToken(ctx, TokenReset, tokenHash); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return unknown, nil
		}
		return Outcome{}, err
	}

	form := map[string]any{FieldToken: input.Token}
	if !input.Submitted {
		return Outcome{View: ViewResetPassword, Data: form}, nil
	}

	if err := resetPasswordRules(input); err != nil {
		return formFailure(ViewResetPassword, err, form), nil
	}

	hashedPassword, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return Outcome{}, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user, err := service.userRepository.ConsumeResetToken(ctx, tokenHash, hashedPassword)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return unknown, nil
		}
		return Outcome{}, err
	}

	service.notify(ctx, notify.KindPasswordChanged, user, "")

	ctxutil.GetLogger(ctx).InfoContext(ctx, "password_reset_completed", slog.String("user_id", user.ID))
	return redirectWithAlert(constants.PathLogin, session.FlashSuccess, MsgPasswordChanged), nil
}

// # Activation Flow

/*
Activate consumes an activation token from an emailed link.

Parameters:
  - ctx: context.Context
  - token: string (raw token from the query string)

Returns:
  - Outcome: Redirect to login with a success or generic error alert
  - error: ErrPageNotFound when the token is absent, or store failures
*/
func (service *Service) Activate(ctx context.Context, token string) (Outcome, error) {
	if token == "" {
		return Outcome{}, ErrPageNotFound
	}

	user, err := service.userRepository.ConsumeActivationToken(ctx, sec.HashToken(token))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			outcome := redirectWithAlert(constants.PathLogin, session.FlashError, MsgInvalidActivation)
			outcome.Failure = ErrUnknownToken
			return outcome, nil
		}
		return Outcome{}, err
	}

	service.notify(ctx, notify.KindConfirmation, user, "")

	ctxutil.GetLogger(ctx).InfoContext(ctx, "account_activated", slog.String("user_id", user.ID))
	return redirectWithAlert(constants.PathLogin, session.FlashSuccess, MsgActivated), nil
}

// # Logout Flow

/*
Logout ends the session and revokes persistent login.

Description: The session user id is captured before the session is
destroyed. Without a session, the account matching the remember cookie is
revoked instead.

Parameters:
  - ctx: context.Context
  - sess: SessionManager

Returns:
  - Outcome: Redirect to login
  - error: Store or session failures
*/
func (service *Service) Logout(ctx context.Context, sess SessionManager) (Outcome, error) {
	userID, loggedIn := sess.UserID()
	presented := sess.RememberToken()

	if err := sess.Destroy(ctx); err != nil {
		return Outcome{}, err
	}
	sess.ClearRememberCookie()

	if !loggedIn && presented != "" {
		user, err := service.userRepository.FindByToken(ctx, TokenRemember, sec.HashToken(presented))
		switch {
		case err == nil:
			userID, loggedIn = user.ID, true
		case !errors.Is(err, ErrUserNotFound):
			return Outcome{}, err
		}
	}

	if loggedIn {
		err := service.userRepository.Update(ctx, userID, UserPatch{RememberToken: Clear[string]()})
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return Outcome{}, err
		}
		ctxutil.GetLogger(ctx).InfoContext(ctx, "logout_succeeded", slog.String("user_id", userID))
	}

	return redirectTo(constants.PathLogin), nil
}

// # Helpers

// notify sends an account email. Failures are logged and never change the outcome.
func (service *Service) notify(ctx context.Context, kind notify.Kind, user *User, token string) {
	err := service.notifier.Notify(ctx, notify.Notification{Kind: kind, To: user.Recipient(), Token: token})
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "notification_failed",
			slog.String("kind", string(kind)),
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}
}

// redirectTo builds a bare redirect outcome.
func redirectTo(location string) Outcome {
	return Outcome{Redirect: location}
}

// redirectWithAlert builds a redirect outcome carrying a flash alert.
func redirectWithAlert(location, level, message string) Outcome {
	return Outcome{Redirect: location, Alert: &Alert{Level: level, Message: message}}
}

// loginFailure redirects back to the login page with the failure's alert.
func loginFailure(failure error) Outcome {
	message := MsgIncorrectLogin
	if errors.Is(failure, ErrAccountNotActivated) {
		message = MsgAccountNotActivated
	}
	outcome := redirectWithAlert(constants.PathLogin, session.FlashError, message)
	outcome.Failure = failure
	return outcome
}

// formFailure re-renders a form with its field errors.
func formFailure(view string, err error, data map[string]any) Outcome {
	return Outcome{View: view, Data: data, Errors: fieldErrors(err), Failure: err}
}
