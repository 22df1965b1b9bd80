package services

import (
	"encoding/json"
	"net/http"

	"github.com/SampleBase/samplebase-services/api/middleware"
	"github.com/SampleBase/samplebase-services/internal/authn"
	"github.com/SampleBase/samplebase-services/models"
	"github.com/google/uuid"
)

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most current data
	w.Header().Set("Cache-Control", "max-age=0")

	// Conditionally set the Location header if provided
	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// WriteFieldError sends a validation failure for a single field.
func WriteFieldError(w http.ResponseWriter, statusCode int, field, message string) {
	WriteResponse(w, statusCode, models.FieldError(field, message))
}

// WriteError sends a general error message.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteResponse(w, statusCode, models.ErrorResponse{Error: message})
}

// callerID extracts the authenticated user's ID from the request context.
func callerID(r *http.Request) (uuid.UUID, bool) {
	claims, ok := r.Context().Value(middleware.ClaimsKey).(authn.Claims)
	if !ok {
		return uuid.Nil, false
	}
	return claims.Sub, true
}
