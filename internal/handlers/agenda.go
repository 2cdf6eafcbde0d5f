package handlers

import (
	"net/http"

	agenda "github.com/tacticalsync/tacticalsync/internal/service/agenda"
)

type AgendaHandler struct {
	Service *agenda.Service
}

// NewAgendaHandler creates a new instance of AgendaHandler
func NewAgendaHandler(service *agenda.Service) *AgendaHandler {
	return &AgendaHandler{Service: service}
}

type agendaItemRequest struct {
	Title       string `json:"title"`
	TimeMinutes *int   `json:"time_minutes,omitempty"`
	AssignedTo  *int64 `json:"assigned_to,omitempty"`
}

func (h *AgendaHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	var req agendaItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := h.Service.Create(r.Context(), userID, seriesID, req.Title, req.TimeMinutes, req.AssignedTo)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, item)
}

func (h *AgendaHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	items, err := h.Service.List(r.Context(), userID, seriesID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *AgendaHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	var req agendaItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := h.Service.Update(r.Context(), userID, itemID, req.Title, req.TimeMinutes, req.AssignedTo)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, item)
}

func (h *AgendaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), userID, itemID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Agenda item deleted"})
}

func (h *AgendaHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	var req struct {
		OrderedIDs []int64 `json:"ordered_ids"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Service.Reorder(r.Context(), userID, seriesID, req.OrderedIDs); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Agenda reordered"})
}

// ApplyTemplate replaces the series agenda with a template's items.
func (h *AgendaHandler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	var req struct {
		TemplateID int64 `json:"template_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	items, err := h.Service.ApplyTemplate(r.Context(), userID, seriesID, req.TemplateID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}
