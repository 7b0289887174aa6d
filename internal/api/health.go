// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package api

import (
	"net/http"

	"github.com/arman/studybuddy/internal/platform/constants"
	"github.com/arman/studybuddy/internal/platform/respond"
)

// NewHealthHandler creates the /health liveness probe.
//
// There is no readiness variant: the only external dependency is the remote
// completion endpoint, and probing it would spend tokens on every check.
// Completion outages surface inline in the conversation instead.
func NewHealthHandler() http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		respond.JSON(writer, http.StatusOK, map[string]string{
			"status":  "ok",
			"app":     constants.AppName,
			"version": constants.AppVersion,
		})
	}
}
