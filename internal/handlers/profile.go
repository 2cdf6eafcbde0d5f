package handlers

import (
	"net/http"

	profile "github.com/tacticalsync/tacticalsync/internal/service/profile"
)

type ProfileHandler struct {
	Service *profile.Service
}

// NewProfileHandler creates a new instance of ProfileHandler
func NewProfileHandler(service *profile.Service) *ProfileHandler {
	return &ProfileHandler{Service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := h.Service.Get(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.Service.Update(r.Context(), userID, req.FirstName, req.LastName)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
