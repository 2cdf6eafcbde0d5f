package handlers

import (
	"net/http"

	meeting "github.com/tacticalsync/tacticalsync/internal/service/meeting"
)

type MeetingHandler struct {
	Service *meeting.Service
}

// NewMeetingHandler creates a new instance of MeetingHandler
func NewMeetingHandler(service *meeting.Service) *MeetingHandler {
	return &MeetingHandler{Service: service}
}

type seriesRequest struct {
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
}

func (h *MeetingHandler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	var req seriesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	series, err := h.Service.CreateSeries(r.Context(), userID, teamID, req.Name, req.Frequency)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, series)
}

func (h *MeetingHandler) ListSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}
	list, err := h.Service.ListSeries(r.Context(), userID, teamID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (h *MeetingHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	series, err := h.Service.GetSeries(r.Context(), userID, seriesID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, series)
}

func (h *MeetingHandler) UpdateSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	var req seriesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	series, err := h.Service.UpdateSeries(r.Context(), userID, seriesID, req.Name, req.Frequency)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, series)
}

func (h *MeetingHandler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	if err := h.Service.DeleteSeries(r.Context(), userID, seriesID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Series deleted"})
}

func (h *MeetingHandler) ListInstances(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	list, err := h.Service.ListInstances(r.Context(), userID, seriesID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

// CurrentInstance resolves the series' current period, creating the
// instance on first access.
func (h *MeetingHandler) CurrentInstance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	view, err := h.Service.Current(r.Context(), userID, seriesID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// CreateNextInstance materializes the period after the series' latest
// instance.
func (h *MeetingHandler) CreateNextInstance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	seriesID, ok := pathID(w, r, "seriesID")
	if !ok {
		return
	}
	view, err := h.Service.CreateNext(r.Context(), userID, seriesID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, view)
}

func (h *MeetingHandler) GetInstance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	instanceID, ok := pathID(w, r, "instanceID")
	if !ok {
		return
	}
	view, err := h.Service.GetInstance(r.Context(), userID, instanceID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}
