// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire service.

It defines default timeouts and cross-cutting keys that are shared between
different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Security: Cookie names, token sizes and the JWT issuer.
  - Routing: Canonical paths used in redirects and email links.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "yomira-auth"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// NotificationTimeout bounds a single outgoing email delivery.
	NotificationTimeout = 10 * time.Second
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in signed session cookies.
	AuthIssuer = "yomira.app"

	// SessionCookieName is the name of the cookie carrying the signed session id.
	SessionCookieName = "yomira_session"

	// RememberCookieName is the name of the persistent-login cookie.
	RememberCookieName = "remember_token"

	// CookiePath scopes both auth cookies to the whole site.
	CookiePath = "/"

	// AuthTokenLength is the byte length of activation, reset and remember tokens.
	AuthTokenLength = 64

	// SessionIDLength is the byte length of a random session identifier.
	SessionIDLength = 32
)

// # Routing

const (
	PathHome           = "/"
	PathLogin          = "/login"
	PathLogout         = "/logout"
	PathRegister       = "/register"
	PathForgotPassword = "/forgot-password"
	PathResetPassword  = "/reset-password"
	PathActivation     = "/activation"
	PathHomeAlias      = "/home"
	PathTerms          = "/terms-and-conditions"
	PathHealth         = "/health"
	PathReady          = "/ready"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession = "auth:session:"
)
