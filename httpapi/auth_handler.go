// Package httpapi exposes the HTTP auth endpoints consumed before a client
// opens its websocket session.
package httpapi

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"chat-server/errors"
	"chat-server/services"
)

type AuthHandler struct {
	log  *slog.Logger
	auth services.IAuthService
}

func NewAuthHandler(log *slog.Logger, auth services.IAuthService) *AuthHandler {
	return &AuthHandler{log: log, auth: auth}
}

// RegisterRoutes mounts the auth endpoints on the router.
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/auth/signup", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
}

type signupRequest struct {
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string            `json:"message"`
	User    services.Identity `json:"user"`
	Token   string            `json:"token,omitempty"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	identity, token, err := h.auth.Signup(req.Username, req.Firstname, req.Lastname, req.Password)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusCreated, authResponse{Message: "Signup successful", User: identity, Token: token})
	case stderrors.Is(err, errors.ErrUserAlreadyExists):
		respondWithError(w, http.StatusConflict, "Username already exists.")
	case stderrors.Is(err, errors.ErrValidation):
		respondWithError(w, http.StatusBadRequest, "All fields are required.")
	default:
		h.log.Error("signup failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Server error")
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	identity, token, err := h.auth.Login(req.Username, req.Password)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, authResponse{Message: "Login successful", User: identity, Token: token})
	case stderrors.Is(err, errors.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid username or password.")
	default:
		h.log.Error("login failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Server error")
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"message": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
