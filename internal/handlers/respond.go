// Package handlers contains the HTTP layer: request decoding, auth
// context extraction, service calls and JSON responses.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tacticalsync/tacticalsync/internal/middleware"
	"github.com/tacticalsync/tacticalsync/internal/models"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, models.ErrorResponse{Error: message})
}

// respondWithServiceError maps domain errors onto HTTP status codes.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrEmptyName),
		errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrTokenExpired),
		errors.Is(err, models.ErrInviteExpired),
		errors.Is(err, models.ErrInviteRevoked):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalidCredential):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrNotMember), errors.Is(err, models.ErrNotAdmin):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrEmailTaken), errors.Is(err, models.ErrAlreadyMember):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// currentUser pulls the authenticated user id set by the auth
// middleware; a false return means the route was misregistered.
func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token")
		return 0, false
	}
	return userID, true
}

// pathID parses a numeric path variable.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
