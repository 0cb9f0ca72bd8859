package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/assessment"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/validation"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondErr maps domain errors onto statuses; anything unrecognised is logged as a 500
func respondErr(w http.ResponseWriter, log *logger.Logger, err error, message string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Fields: verr.Fields})
	case errors.Is(err, assessment.ErrRequestInProgress):
		respondError(w, http.StatusConflict, "An identical request is already in progress")
	case errors.Is(err, contracts.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	default:
		log.WithError(err).Error(message)
		respondError(w, http.StatusInternalServerError, message)
	}
}

// decodeJSON reads a single JSON object from the request body
func decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
