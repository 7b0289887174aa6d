// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package middleware

import (
	"net/http"

	"github.com/arman/studybuddy/internal/platform/apperr"
	"github.com/arman/studybuddy/internal/platform/constants"
	"github.com/arman/studybuddy/internal/platform/ctxutil"
	"github.com/arman/studybuddy/internal/platform/respond"
	"github.com/arman/studybuddy/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify session tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the [sec.SessionSigner]
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.SessionClaims, error)
}

// Authenticate extracts and verifies the signed session token from the cookie.
//
// # Flow
//  1. Check for the session cookie.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, verify the signature via [TokenVerifier]. A token signed by
//     a previous process incarnation fails verification and is treated as
//     anonymous (all sessions die on restart).
//  4. Inject [*sec.SessionClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(constants.SessionCookieName)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(cookie.Value)
			if err != nil {
				// Stale or forged cookie. Drop it and continue anonymously so
				// the user lands back on the login form instead of an error page.
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithSession(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequirePage redirects anonymous requests to the login form.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. Intended for
// browser-facing page routes (/bot, /send).
func RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetSession(request.Context()) == nil {
			respond.Redirect(writer, request, "/")
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireJSON blocks anonymous requests with a structured 401 response.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. Intended for
// API-style routes (/clear) where a redirect would confuse the caller.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetSession(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthenticated())
			return
		}
		next.ServeHTTP(writer, request)
	})
}
