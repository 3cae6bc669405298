package handlers

import (
	"advisorchat-backend/internal/auth"
	"advisorchat-backend/internal/services"
	"advisorchat-backend/internal/store"
	"advisorchat-backend/pkg/httputil"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// resolveAdvisorID picks the acting advisor. A token claim set by the auth middleware
// wins over anything in the request; otherwise the request value is used.
func resolveAdvisorID(r *http.Request, fromRequest string) (string, bool) {
	if id, ok := auth.GetAdvisorIDFromContext(r.Context()); ok {
		return id, true
	}
	id := strings.TrimSpace(fromRequest)
	return id, id != ""
}

// queryAdvisorID is resolveAdvisorID for requests carrying ?advisor_id=.
func queryAdvisorID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := resolveAdvisorID(r, r.URL.Query().Get("advisor_id"))
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "advisor_id is required")
	}
	return id, ok
}

// int64Param parses a numeric chi URL parameter.
func int64Param(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func intQuery(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

// respondServiceError maps service and store errors onto HTTP statuses.
// Unexpected errors are logged and reported without detail.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
