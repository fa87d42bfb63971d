package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"product-catalog/internal/jsonapi"

	"go.uber.org/zap"
)

// ErrorResponse is a JSON:API errors document
type ErrorResponse struct {
	Errors []ErrorObject `json:"errors"`
}

// ErrorObject describes a single problem
type ErrorObject struct {
	Status string                 `json:"status"`
	Title  string                 `json:"title"`
	Detail string                 `json:"detail,omitempty"`
	Source *ErrorSource           `json:"source,omitempty"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
}

// ErrorSource points at the part of the request that caused the error
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// RespondWithError sends an errors document with a single error object
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithErrorDetails(w, statusCode, message, nil)
}

// RespondWithErrorDetails sends an errors document whose error carries additional meta details
func RespondWithErrorDetails(w http.ResponseWriter, statusCode int, message string, details map[string]interface{}) {
	meta := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range details {
		meta[k] = v
	}

	respondWithErrors(w, statusCode, []ErrorObject{
		{
			Status: strconv.Itoa(statusCode),
			Title:  http.StatusText(statusCode),
			Detail: message,
			Meta:   meta,
		},
	})
}

// RespondWithValidationErrors sends one 422 error object per invalid attribute
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	objects := make([]ErrorObject, 0, len(errors))
	for _, e := range errors {
		objects = append(objects, ErrorObject{
			Status: strconv.Itoa(http.StatusUnprocessableEntity),
			Title:  "Invalid Attribute",
			Detail: e.Message,
			Source: &ErrorSource{Pointer: e.Pointer()},
		})
	}

	respondWithErrors(w, http.StatusUnprocessableEntity, objects)
}

func respondWithErrors(w http.ResponseWriter, statusCode int, objects []ErrorObject) {
	w.Header().Set("Content-Type", jsonapi.MediaType)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Errors: objects})
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON:API document
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", jsonapi.MediaType)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
