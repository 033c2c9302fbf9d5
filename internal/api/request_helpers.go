package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/api/middleware"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
)

// getPathUUID extracts a UUID from the URL path parameters.
// It reports false if the parameter is missing or not a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, bool) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// requireUserID extracts the authenticated user's ID and writes a 401 when it
// is missing.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		logger.FromContext(r.Context()).Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthenticated.")
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndPathUUID is a composite helper that extracts both the user ID from context
// and a UUID from the path parameters. It writes an error response if either extraction fails.
// A malformed ID cannot name an existing resource, so it is answered with
// notFoundMessage and a 404.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	notFoundMessage string,
) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	pathID, ok := getPathUUID(r, paramName)
	if !ok {
		logger.FromContext(r.Context()).Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		shared.RespondWithError(w, r, http.StatusNotFound, notFoundMessage)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, pathID, true
}

// decodeTaskFields reads a JSON object body into typed task fields. Keys that
// are not updatable are dropped. It writes the error response and returns
// false when the body cannot be used.
func decodeTaskFields(w http.ResponseWriter, r *http.Request) (domain.TaskFields, bool) {
	var raw map[string]json.RawMessage
	if err := shared.DecodeJSON(r, &raw); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return domain.TaskFields{}, false
	}

	fields, dropped, err := domain.DecodeTaskFields(raw)
	if len(dropped) > 0 {
		logger.FromContext(r.Context()).Debug("discarded task fields outside the allow-list",
			slog.Any("fields", dropped))
	}
	if err != nil {
		HandleAPIError(w, r, err, "")
		return domain.TaskFields{}, false
	}
	return fields, true
}
