package handlers

import (
	"net/http"

	template "github.com/tacticalsync/tacticalsync/internal/service/template"
)

type TemplateHandler struct {
	Service *template.Service
}

// NewTemplateHandler creates a new instance of TemplateHandler
func NewTemplateHandler(service *template.Service) *TemplateHandler {
	return &TemplateHandler{Service: service}
}

type templateRequest struct {
	Name  string               `json:"name"`
	Items []template.ItemInput `json:"items"`
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req templateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.Service.Create(r.Context(), userID, req.Name, req.Items)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, t)
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.Service.List(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	templateID, ok := pathID(w, r, "templateID")
	if !ok {
		return
	}
	t, err := h.Service.Get(r.Context(), userID, templateID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	templateID, ok := pathID(w, r, "templateID")
	if !ok {
		return
	}
	var req templateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.Service.Update(r.Context(), userID, templateID, req.Name, req.Items)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	templateID, ok := pathID(w, r, "templateID")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), userID, templateID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Template deleted"})
}
