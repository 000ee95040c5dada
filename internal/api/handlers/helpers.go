package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Request bodies larger than this are rejected while decoding.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"req_id": obs.RequestID(r.Context()),
		}).WithError(err).Warn("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// Decode exactly one JSON object from the request body into v.
// On failure the error response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		// Typed values such as modes and coordinates fail inside the decoder.
		if isValidation(err) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return false
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, param+" must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}

func isValidation(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrInvalidCoordinate) ||
		errors.Is(err, domain.ErrInvalidTransportMode) ||
		errors.Is(err, domain.ErrDayOutOfRange)
}

// Map a service error onto a status code. Unexpected errors are logged and
// reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidation(err),
		errors.Is(err, domain.ErrSelfLoopRoute),
		errors.Is(err, domain.ErrNoAnchorLocation):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrPlanNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateAnchor),
		errors.Is(err, domain.ErrDuplicateRoute),
		errors.Is(err, domain.ErrNoCurrentPlan):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"req_id": obs.RequestID(r.Context()),
		}).WithError(err).Error("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
