package handlers

import (
	"net/http"

	items "github.com/tacticalsync/tacticalsync/internal/service/items"
)

type ItemsHandler struct {
	Service *items.Service
}

// NewItemsHandler creates a new instance of ItemsHandler
func NewItemsHandler(service *items.Service) *ItemsHandler {
	return &ItemsHandler{Service: service}
}

type statusRequest struct {
	Status string `json:"status"`
}

type reorderRequest struct {
	OrderedIDs []int64 `json:"ordered_ids"`
}

// Priorities belong to a single meeting instance.

func (h *ItemsHandler) CreatePriority(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	instanceID, ok := pathID(w, r, "instanceID")
	if !ok {
		return
	}
	var in items.PriorityInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := h.Service.CreatePriority(r.Context(), userID, instanceID, in)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, p)
}

func (h *ItemsHandler) ListPriorities(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	instanceID, ok := pathID(w, r, "instanceID")
	if !ok {
		return
	}
	list, err := h.Service.ListPriorities(r.Context(), userID, instanceID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (h *ItemsHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	priorityID, ok := pathID(w, r, "priorityID")
	if !ok {
		return
	}
	var req struct {
		items.PriorityInput
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.Service.UpdatePriority(r.Context(), userID, priorityID, req.PriorityInput, req.Status)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *ItemsHandler) DeletePriority(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	priorityID, ok := pathID(w, r, "priorityID")
	if !ok {
		return
	}
	if err := h.Service.DeletePriority(r.Context(), userID, priorityID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Priority deleted"})
}

func (h *ItemsHandler) ReorderPriorities(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	instanceID, ok := pathID(w, r, "instanceID")
	if !ok {
		return
	}
	var req reorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Service.ReorderPriorities(r.Context(), userID, instanceID, req.OrderedIDs); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Priorities reordered"})
}

// Topics also live on one instance and never carry over.

func (h *ItemsHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	instanceID, ok := pathID(w, r, "instanceID")
	if !ok {
		return
	}
	var in items.TopicInput
	if !decodeBody(w, r, &in) {
		return
	}
	t, err := h.Service.CreateTopic(r.Context(), userID, instanceID, in)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, t)
}

func (h *ItemsHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	instanceID, ok := pathID(w, r, "instanceID")
	if !ok {
		return
	}
	list, err := h.Service.ListTopics(r.Context(), userID, instanceID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (h *ItemsHandler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	topicID, ok := pathID(w, r, "topicID")
	if !ok {
		return
	}
	var req struct {
		items.TopicInput
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.Service.UpdateTopic(r.Context(), userID, topicID, req.TopicInput, req.Status)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, t)
}

func (h *ItemsHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	topicID, ok := pathID(w, r, "topicID")
	if !ok {
		return
	}
	if err := h.Service.DeleteTopic(r.Context(), userID, topicID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Topic deleted"})
}

func (h *ItemsHandler) ReorderTopics(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	instanceID, ok := pathID(w, r, "instanceID")
	if !ok {
		return
	}
	var req reorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Service.ReorderTopics(r.Context(), userID, instanceID, req.OrderedIDs); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Topics reordered"})
}

// Action items attach to the series and show on every instance whose
// activity window they fall into.

func (h *ItemsHandler) CreateActionItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	var in items.ActionItemInput
	if !decodeBody(w, r, &in) {
		return
	}
	a, err := h.Service.CreateActionItem(r.Context(), userID, seriesID, in)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, a)
}

func (h *ItemsHandler) ListActionItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	list, err := h.Service.ListActionItems(r.Context(), userID, seriesID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (h *ItemsHandler) UpdateActionItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	var in items.ActionItemInput
	if !decodeBody(w, r, &in) {
		return
	}
	a, err := h.Service.UpdateActionItem(r.Context(), userID, itemID, in)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, a)
}

func (h *ItemsHandler) SetActionItemStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.Service.SetActionItemStatus(r.Context(), userID, itemID, req.Status)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, a)
}

func (h *ItemsHandler) DeleteActionItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	if err := h.Service.DeleteActionItem(r.Context(), userID, itemID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Action item deleted"})
}

func (h *ItemsHandler) ReorderActionItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	var req reorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Service.ReorderActionItems(r.Context(), userID, seriesID, req.OrderedIDs); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Action items reordered"})
}
