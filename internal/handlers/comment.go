package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	comment "github.com/tacticalsync/tacticalsync/internal/service/comment"
)

type CommentHandler struct {
	Service *comment.Service
}

// NewCommentHandler creates a new instance of CommentHandler
func NewCommentHandler(service *comment.Service) *CommentHandler {
	return &CommentHandler{Service: service}
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	itemType := mux.Vars(r)["itemType"]
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := h.Service.Create(r.Context(), userID, itemType, itemID, req.Content)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, c)
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	itemType := mux.Vars(r)["itemType"]
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	list, err := h.Service.List(r.Context(), userID, itemType, itemID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentID")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), userID, commentID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}
