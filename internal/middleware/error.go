package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the structured error body every endpoint returns on
// failure. Detail is a human-readable message surfaced verbatim to the
// user; Fields carries per-field validation failures when present.
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Fields []ValidationError `json:"fields,omitempty"`
}

// respondWithError sends a structured error response.
func respondWithError(w http.ResponseWriter, statusCode int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Detail: detail})
}

// RespondWithError sends a structured error response.
func RespondWithError(w http.ResponseWriter, statusCode int, detail string) {
	respondWithError(w, statusCode, detail)
}

// RespondWithValidationErrors sends a 400 carrying field-level errors.
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{
		Detail: "validation failed",
		Fields: errors,
	})
}

// ErrorHandlingMiddleware catches panics and converts them to 500s.
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					respondWithError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response.
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
