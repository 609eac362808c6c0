package handlers

import (
	"encoding/json"
	"net/http"

	"postboard/internal/apperr"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeAppError maps the error taxonomy onto the wire. Absence maps to
// 400 rather than 404, matching the original wire contract, and anything
// unclassified collapses to a generic 500 with no internal detail.
func writeAppError(w http.ResponseWriter, err error) {
	writeError(w, apperr.Message(err), statusForKind(apperr.KindOf(err)))
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.ValidationFailed:
		return http.StatusBadRequest
	case apperr.UnsupportedAttachment:
		return http.StatusUnsupportedMediaType
	case apperr.NotFound:
		return http.StatusBadRequest
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
