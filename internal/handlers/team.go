package handlers

import (
	"net/http"

	team "github.com/tacticalsync/tacticalsync/internal/service/team"
)

type TeamHandler struct {
	Service *team.Service
}

// NewTeamHandler creates a new instance of TeamHandler
func NewTeamHandler(service *team.Service) *TeamHandler {
	return &TeamHandler{Service: service}
}

type teamRequest struct {
	Name            string `json:"name"`
	AbbreviatedName string `json:"abbreviated_name"`
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req teamRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.Service.Create(r.Context(), userID, req.Name, req.AbbreviatedName)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, t)
}

func (h *TeamHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	teams, err := h.Service.ListMine(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, teams)
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	t, err := h.Service.Get(r.Context(), userID, teamID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, t)
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	var req teamRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.Service.Update(r.Context(), userID, teamID, req.Name, req.AbbreviatedName)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, t)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), userID, teamID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Team deleted"})
}

func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	members, err := h.Service.Members(r.Context(), userID, teamID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, members)
}

func (h *TeamHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Service.UpdateMemberRole(r.Context(), userID, teamID, memberID, req.Role); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Role updated"})
}

func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	if err := h.Service.RemoveMember(r.Context(), userID, teamID, memberID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}

func (h *TeamHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.Service.JoinByCode(r.Context(), userID, req.Code)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, t)
}

func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	inv, err := h.Service.Invite(r.Context(), userID, teamID, req.Email)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, inv)
}

func (h *TeamHandler) Invitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	invs, err := h.Service.Invitations(r.Context(), userID, teamID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, invs)
}

func (h *TeamHandler) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	invitationID, ok := pathID(w, r, "invitationID")
	if !ok {
		return
	}
	if err := h.Service.Revoke(r.Context(), userID, invitationID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Invitation revoked"})
}

func (h *TeamHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Token string `json:"token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.Service.Accept(r.Context(), userID, req.Token)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, t)
}
