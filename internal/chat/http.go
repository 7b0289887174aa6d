// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package chat

import (
	"net/http"

	"github.com/arman/studybuddy/internal/platform/ctxutil"
	"github.com/arman/studybuddy/internal/platform/respond"
	"github.com/arman/studybuddy/internal/web"
)

// Handler implements the conversation endpoints.
//
// # Scope
//
// GET /bot renders the transcript, POST /send runs one user turn, and
// POST /clear resets the conversation. /bot and /send are page routes
// (anonymous → redirect); /clear is a JSON route (anonymous → 401). The
// guards live in the router, so these methods may assume a session exists.
type Handler struct {
	store    Store
	service  *Service
	renderer *web.Renderer
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(store Store, service *Service, renderer *web.Renderer) *Handler {
	return &Handler{
		store:    store,
		service:  service,
		renderer: renderer,
	}
}

// Bot handles GET /bot: returns the session's transcript, initializing it
// with the system message on first access after login.
func (handler *Handler) Bot(writer http.ResponseWriter, request *http.Request) {
	session := ctxutil.GetSession(request.Context())

	transcript := handler.store.GetOrInit(session.SessionID)
	handler.renderer.Bot(writer, botView(session.Username, transcript))
}

// botView maps a transcript to its view model, hiding the system turn —
// it is context for the model, not conversation.
func botView(username string, transcript Transcript) web.BotView {
	view := web.BotView{Username: username}
	for _, message := range transcript {
		if message.Role == RoleSystem {
			continue
		}
		view.Messages = append(view.Messages, web.ChatLine{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}
	return view
}

// Send handles POST /send with form field `message`.
//
// The turn always redirects back to /bot: a blank message is a no-op, and a
// failed completion surfaces inside the transcript, not as an error page.
func (handler *Handler) Send(writer http.ResponseWriter, request *http.Request) {
	session := ctxutil.GetSession(request.Context())
	message := request.PostFormValue("message")

	handler.service.HandleUserTurn(request.Context(), session.SessionID, message)

	respond.Redirect(writer, request, "/bot")
}

// Clear handles POST /clear: removes the transcript entirely so the next
// /bot reconstructs a fresh system message.
//
// The removal goes through the orchestrator so it serializes against any
// in-flight turn on the same session.
func (handler *Handler) Clear(writer http.ResponseWriter, request *http.Request) {
	session := ctxutil.GetSession(request.Context())

	handler.service.DestroyTranscript(session.SessionID)

	respond.Status(writer, "cleared")
}
