package handlers

import (
	"net/http"

	auth "github.com/tacticalsync/tacticalsync/internal/service/auth"
)

type AuthHandler struct {
	Service *auth.Service
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{Service: service}
}

// Signup handles the user registration request.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, token, err := h.Service.Signup(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{"user": user, "token": token})
}

// Login handles the user authentication request.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	user, token, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"user": user, "token": token})
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := h.Service.Me(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// VerifyEmail consumes an email-verification token.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Service.VerifyEmail(r.Context(), req.Token); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Email verified"})
}

// RequestPasswordReset issues a reset token. The response is the same
// whether or not the email exists.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "If the account exists, a reset link has been sent"})
}

// CompletePasswordReset sets a new password from a reset token.
func (h *AuthHandler) CompletePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Service.CompletePasswordReset(r.Context(), req.Token, req.Password); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
