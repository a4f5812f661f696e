// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-auth/internal/platform/respond"
	"github.com/taibuivan/yomira-auth/internal/users/session"
)

// SessionLoader defines the interface needed to resolve a request's session.
type SessionLoader interface {
	Load(ctx context.Context, writer http.ResponseWriter, request *http.Request) (*session.Handle, error)
}

// Session resolves the session handle and injects it into the request context.
//
// # Flow
//  1. Load the session from the signed cookie (anonymous if absent or invalid).
//  2. On store failure, abort with HTTP 500.
//  3. Enrich the request logger with user_id when authenticated.
//
// Must be registered AFTER [StructuredLogger] so failures are logged with the request id.
func Session(loader SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			// ── 1. Resolve ────────────────────────────────────────────────────
			handle, err := loader.Load(ctx, writer, request)
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			// ── 2. Context Injection ──────────────────────────────────────────
			ctx = session.WithHandle(ctx, handle)
			if userID, ok := handle.UserID(); ok {
				ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", userID)))
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireLogin redirects anonymous visitors to the login page.
//
// # Usage
//
// Must be registered in the router AFTER [Session].
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !isLoggedIn(request) {
			respond.Redirect(writer, request, constants.PathLogin)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RedirectIfLoggedIn sends authenticated users back to the home page.
//
// It guards the login, registration and password recovery pages.
func RedirectIfLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if isLoggedIn(request) {
			respond.Redirect(writer, request, constants.PathHome)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// isLoggedIn reports whether the request carries an authenticated session.
func isLoggedIn(request *http.Request) bool {
	handle := session.FromContext(request.Context())
	if handle == nil {
		return false
	}
	_, ok := handle.UserID()
	return ok
}
