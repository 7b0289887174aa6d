// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

// Package web renders the two HTML views of the app (sign-in and conversation).
//
// # Scope
//
// Rendering is a boundary collaborator of the conversation core: templates are
// embedded at build time, parsed once, and fed plain view-model structs. No
// business logic lives here, and the package knows nothing about the domain
// types — handlers map transcripts into view models.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// SigninView is the view model for the login/registration page.
type SigninView struct {
	// Error, when non-empty, is shown above the form.
	Error string
}

// ChatLine is one rendered conversation turn.
type ChatLine struct {
	Role    string
	Content string
}

// BotView is the view model for the conversation page.
type BotView struct {
	Username string
	Messages []ChatLine
}

// Renderer holds the parsed template set.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: failed to parse templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

// Signin renders the login/registration form.
func (renderer *Renderer) Signin(writer http.ResponseWriter, statusCode int, view SigninView) {
	renderer.render(writer, statusCode, "signin.html", view)
}

// Bot renders the conversation transcript.
func (renderer *Renderer) Bot(writer http.ResponseWriter, view BotView) {
	renderer.render(writer, http.StatusOK, "bot.html", view)
}

func (renderer *Renderer) render(writer http.ResponseWriter, statusCode int, name string, view any) {
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = renderer.templates.ExecuteTemplate(writer, name, view)
}
