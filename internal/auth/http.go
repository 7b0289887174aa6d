// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package auth

import (
	"net/http"
	"time"

	"github.com/arman/studybuddy/internal/platform/apperr"
	"github.com/arman/studybuddy/internal/platform/constants"
	"github.com/arman/studybuddy/internal/platform/ctxutil"
	"github.com/arman/studybuddy/internal/platform/respond"
	"github.com/arman/studybuddy/internal/platform/validate"
	"github.com/arman/studybuddy/internal/web"
)

// TokenIssuer signs session tokens for freshly established identities.
type TokenIssuer interface {
	Sign(sessionID, username string, timeToLive time.Duration) (string, error)
}

// TranscriptJanitor destroys the per-session transcript when a session ends.
//
// Defined here (not in chat) so the auth handler depends on a capability,
// not on the chat package. The implementation serializes the destroy against
// any in-flight turn and releases the session's turn lock.
type TranscriptJanitor interface {
	DestroyTranscript(sessionID string)
}

// Handler implements the browser-facing authentication endpoints.
//
// # Scope
//
// Login form (GET/POST /), registration (POST /signup), and logout
// (GET /logout). All responses are rendered pages or redirects — this is a
// classic form-POST surface, not a JSON API.
type Handler struct {
	service     *Service
	issuer      TokenIssuer
	transcripts TranscriptJanitor
	renderer    *web.Renderer
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, issuer TokenIssuer, transcripts TranscriptJanitor, renderer *web.Renderer) *Handler {
	return &Handler{
		service:     service,
		issuer:      issuer,
		transcripts: transcripts,
		renderer:    renderer,
	}
}

// Home handles GET / — the login form, or a redirect to the conversation
// view when a session is already established.
func (handler *Handler) Home(writer http.ResponseWriter, request *http.Request) {
	if ctxutil.GetSession(request.Context()) != nil {
		respond.Redirect(writer, request, "/bot")
		return
	}

	handler.renderer.Signin(writer, http.StatusOK, web.SigninView{})
}

// Login handles POST / with form fields `username` and `password`.
//
// On success it sets the session cookie and redirects to /bot; on failure it
// re-renders the form with a generic error (no enumeration).
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	username := request.PostFormValue("username")
	password := request.PostFormValue("password")

	validator := &validate.Validator{}
	validator.Required("username", username).
		Required("password", password)

	if err := validator.Err(); err != nil {
		handler.renderFailure(writer, err)
		return
	}

	identity, err := handler.service.Login(request.Context(), username, password)
	if err != nil {
		handler.renderFailure(writer, err)
		return
	}

	handler.establishSession(writer, request, identity)
}

// Signup handles POST /signup with form fields `new_username` and `new_password`.
//
// A successful registration establishes the session immediately — no separate
// login step is required.
func (handler *Handler) Signup(writer http.ResponseWriter, request *http.Request) {
	username := request.PostFormValue("new_username")
	password := request.PostFormValue("new_password")

	// Both fields collapse into one message here, matching the form's single
	// error slot, so the field-prefixed validator output is not used.
	if username == "" || password == "" {
		handler.renderFailure(writer, apperr.ValidationError("Username and password are required."))
		return
	}

	identity, err := handler.service.Register(request.Context(), username, password)
	if err != nil {
		handler.renderFailure(writer, err)
		return
	}

	handler.establishSession(writer, request, identity)
}

// Logout handles GET /logout.
//
// It destroys the per-session transcript, expires the cookie, and redirects
// to the login form. Idempotent: an anonymous request just redirects.
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	if session := ctxutil.GetSession(request.Context()); session != nil {
		handler.transcripts.DestroyTranscript(session.SessionID)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.Redirect(writer, request, "/")
}

// establishSession signs the identity into a cookie and redirects to /bot.
func (handler *Handler) establishSession(writer http.ResponseWriter, request *http.Request, identity *SessionIdentity) {
	token, err := handler.issuer.Sign(identity.SessionID, identity.Username, constants.SessionTTL)
	if err != nil {
		handler.renderFailure(writer, apperr.Internal(err))
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(constants.SessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.Redirect(writer, request, "/bot")
}

// renderFailure re-renders the sign-in form with a client-safe error message.
func (handler *Handler) renderFailure(writer http.ResponseWriter, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	handler.renderer.Signin(writer, appError.HTTPStatus, web.SigninView{Error: appError.Message})
}
