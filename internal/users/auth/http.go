// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-auth/internal/platform/middleware"
	"github.com/taibuivan/yomira-auth/internal/platform/render"
	requestutil "github.com/taibuivan/yomira-auth/internal/platform/request"
	"github.com/taibuivan/yomira-auth/internal/platform/respond"
	"github.com/taibuivan/yomira-auth/internal/users/session"
)

// # Definitions & Constructors

// Renderer renders a named page template.
type Renderer interface {
	Render(name string, data render.Data) ([]byte, error)
}

// Handler implements the authentication pages.
//
// # Scope
//
// The handler only parses forms and translates an [Outcome] into a page or
// a redirect. Every decision lives in [Service].
type Handler struct {
	authService *Service
	pages       Renderer
}

// NewHandler constructs a new [Handler] with its service and page renderer.
func NewHandler(service *Service, pages Renderer) *Handler {
	return &Handler{authService: service, pages: pages}
}

// RegisterRoutes mounts the authentication endpoints on router.
//
// # Endpoints
//   - GET|POST /login, /register, /forgot-password, /reset-password
//   - GET /activation
//   - GET /logout
//
// All but logout redirect an authenticated visitor to the home page.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RedirectIfLoggedIn)

		r.Get(constants.PathLogin, handler.login)
		r.Post(constants.PathLogin, handler.login)
		r.Get(constants.PathRegister, handler.register)
		r.Post(constants.PathRegister, handler.register)
		r.Get(constants.PathForgotPassword, handler.forgotPassword)
		r.Post(constants.PathForgotPassword, handler.forgotPassword)
		r.Get(constants.PathResetPassword, handler.resetPassword)
		r.Post(constants.PathResetPassword, handler.resetPassword)
		r.Get(constants.PathActivation, handler.activate)
	})

	router.Get(constants.PathLogout, handler.logout)
}

// # Endpoints

/*
Login authenticates by remember-me cookie or by the submitted credentials.

GET|POST /login

Request:
  - Form: email, password, login (submit)

Response:
  - 303: Redirect to / on success, to /login with an alert on failure
  - 200: Login page
  - 422: Login page with field errors
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	sess, ok := handler.session(writer, request)
	if !ok {
		return
	}

	outcome, err := handler.authService.Login(request.Context(), sess, LoginInput{
		Submitted: requestutil.Submitted(request, SubmitLogin),
		Email:     requestutil.PostValue(request, FieldEmail),
		Password:  requestutil.PostValue(request, FieldPassword),
	})
	handler.finish(writer, request, sess, outcome, err)
}

/*
Register creates an account pending activation.

GET|POST /register

Request:
  - Form: first_name, last_name, email, password, confirm_password, terms, register (submit)

Response:
  - 303: Redirect to /login with a success alert
  - 200: Registration page
  - 422: Registration page with field errors
  - 404: FEATURE_DISABLED when registration is off
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	sess, ok := handler.session(writer, request)
	if !ok {
		return
	}

	outcome, err := handler.authService.Register(request.Context(), RegisterInput{
		Submitted:       requestutil.Submitted(request, SubmitRegister),
		FirstName:       requestutil.PostValue(request, FieldFirstName),
		LastName:        requestutil.PostValue(request, FieldLastName),
		Email:           requestutil.PostValue(request, FieldEmail),
		Password:        requestutil.PostValue(request, FieldPassword),
		ConfirmPassword: requestutil.PostValue(request, FieldConfirmPassword),
		Terms:           requestutil.Checked(request, FieldTerms),
	})
	handler.finish(writer, request, sess, outcome, err)
}

/*
ForgotPassword emails a reset link to the submitted address.

GET|POST /forgot-password

Request:
  - Form: email, send (submit)

Response:
  - 303: Redirect to /login with the same alert whether or not the account exists
  - 200: Forgot-password page
  - 422: Forgot-password page with field errors
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	sess, ok := handler.session(writer, request)
	if !ok {
		return
	}

	outcome, err := handler.authService.ForgotPassword(request.Context(), ForgotPasswordInput{
		Submitted: requestutil.Submitted(request, SubmitSend),
		Email:     requestutil.PostValue(request, FieldEmail),
	})
	handler.finish(writer, request, sess, outcome, err)
}

/*
ResetPassword sets a new password using an emailed reset token.

GET|POST /reset-password?token=...

Request:
  - Query or Form: token
  - Form: new_password, confirm_password, reset_password (submit)

Response:
  - 303: Redirect to /login (silently when the token is unknown)
  - 200: Reset page
  - 422: Reset page with field errors
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	sess, ok := handler.session(writer, request)
	if !ok {
		return
	}

	token := requestutil.Query(request, FieldToken)
	if token == "" {
		token = requestutil.PostValue(request, FieldToken)
	}

	outcome, err := handler.authService.ResetPassword(request.Context(), ResetPasswordInput{
		Token:           token,
		Submitted:       requestutil.Submitted(request, SubmitResetPassword),
		NewPassword:     requestutil.PostValue(request, FieldNewPassword),
		ConfirmPassword: requestutil.PostValue(request, FieldConfirmPassword),
	})
	handler.finish(writer, request, sess, outcome, err)
}

/*
Activate consumes the activation token of an emailed link.

GET /activation?token=...

Response:
  - 303: Redirect to /login with a success or error alert
  - 404: NOT_FOUND when the token is absent
*/
func (handler *Handler) activate(writer http.ResponseWriter, request *http.Request) {
	sess, ok := handler.session(writer, request)
	if !ok {
		return
	}

	outcome, err := handler.authService.Activate(request.Context(), requestutil.Query(request, FieldToken))
	handler.finish(writer, request, sess, outcome, err)
}

/*
Logout terminates the session and revokes persistent login.

GET /logout

Response:
  - 303: Redirect to /login
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	sess, ok := handler.session(writer, request)
	if !ok {
		return
	}

	outcome, err := handler.authService.Logout(request.Context(), sess)
	handler.finish(writer, request, sess, outcome, err)
}

// # Helpers

// session parses the form and returns the request's session handle.
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) (*session.Handle, bool) {
	sess := session.FromContext(request.Context())
	if sess == nil {
		respond.Error(writer, request, apperr.Internal(nil))
		return nil, false
	}

	if request.Method == http.MethodPost {
		if err := requestutil.ParseForm(writer, request); err != nil {
			respond.Error(writer, request, err)
			return nil, false
		}
	}

	return sess, true
}

// finish writes the outcome of a flow.
func (handler *Handler) finish(writer http.ResponseWriter, request *http.Request, sess *session.Handle, outcome Outcome, err error) {
	ctx := request.Context()

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if outcome.Failure != nil {
		code := "UNKNOWN"
		if appError := apperr.As(outcome.Failure); appError != nil {
			code = appError.Code
		}
		ctxutil.GetLogger(ctx).InfoContext(ctx, "auth_flow_failed", slog.String("code", code))
	}

	if outcome.Alert != nil {
		sess.AddFlash(outcome.Alert.Level, outcome.Alert.Message)
	}

	// 1. Redirect outcomes keep their alert in the session for the next page
	if outcome.Redirect != "" {
		if err := sess.Commit(ctx); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Redirect(writer, request, outcome.Redirect)
		return
	}

	// 2. View outcomes render immediately
	data := render.Data{}
	for key, value := range outcome.Data {
		data[key] = value
	}
	data["errors"] = outcome.Errors
	if outcome.Errors == nil {
		data["errors"] = map[string]string{}
	}
	data["flashes"] = sess.Flashes()
	if _, ok := data["old"]; !ok {
		old := sess.OldInput()
		if old == nil {
			old = map[string]string{}
		}
		data["old"] = old
	}

	body, err := handler.pages.Render(outcome.View, data)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	if err := sess.Commit(ctx); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status := http.StatusOK
	if len(outcome.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	respond.HTML(writer, status, body)
}
