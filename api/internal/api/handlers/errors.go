package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"todoapp/api/internal/core/domain"
)

// Use a single instance of Validate, it caches struct info
var validate = validator.New()

type errorResponse struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// HandleError maps domain and validation errors to a JSON response.
// Unknown errors become a generic 500; their detail is logged, never returned.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors

	switch {
	case errors.As(err, &verrs):
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed on '%s'", strings.ToLower(fe.Field()), fe.Tag()))
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Validation failed", Fields: fields})

	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Not found"})

	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unknown session, exchange keys first"})

	case errors.Is(err, domain.ErrMalformedInput),
		errors.Is(err, domain.ErrAuthenticationFailure),
		errors.Is(err, domain.ErrInvalidEncoding):
		// One body for every decryption failure so the response reveals nothing
		// about which check rejected the envelope.
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid encrypted payload"})

	default:
		slog.Error("Request failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
