package middleware

import (
	"mime"
	"net/http"
	"strings"

	"product-catalog/internal/jsonapi"
)

// RequireJSONAPIContentType rejects request bodies that are not JSON:API
// (or plain JSON) with 415 Unsupported Media Type
func RequireJSONAPIContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			RespondWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be "+jsonapi.MediaType)
			return
		}

		switch {
		case mediaType == jsonapi.MediaType && len(params) == 0:
		case mediaType == "application/json":
		default:
			RespondWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be "+jsonapi.MediaType)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NegotiateJSONAPI responds 406 Not Acceptable when the Accept header
// excludes every representation this service can produce
func NegotiateJSONAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept")
		if accept != "" && !acceptsJSONAPI(accept) {
			RespondWithError(w, http.StatusNotAcceptable, "response can only be served as "+jsonapi.MediaType)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func acceptsJSONAPI(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}

		switch mediaType {
		case jsonapi.MediaType, "application/json", "application/*", "*/*":
			return true
		}
	}
	return false
}
