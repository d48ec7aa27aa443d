package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diwarasiga/moviehub/internal/auth"
	"github.com/diwarasiga/moviehub/internal/user/models"
	"github.com/diwarasiga/moviehub/internal/user/service"
)

type Handler struct {
	svc     *service.Service
	tokens  *auth.TokenManager
	maxBody int64
}

func New(svc *service.Service, tokens *auth.TokenManager, maxBody int64) *Handler {
	return &Handler{svc: svc, tokens: tokens, maxBody: maxBody}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/signup", h.Signup)
	mux.HandleFunc("/api/login", h.Login)
	mux.HandleFunc("/api/logout", h.Logout)
	mux.HandleFunc("/api/user", h.tokens.Require(h.CurrentUser))
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SignupRequest
	if !h.decode(w, r, &req) {
		return
	}

	identity, token, err := h.svc.Signup(r.Context(), req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidArgument):
			writeErrorJSON(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrConflict):
			writeErrorJSON(w, http.StatusBadRequest, "user already exists")
		default:
			writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Token: token, User: identity})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	identity, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidArgument):
			writeErrorJSON(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrInvalidCredentials):
			writeErrorJSON(w, http.StatusUnauthorized, "invalid credentials")
		default:
			writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Token: token, User: identity})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	// Tokens are stateless; logout is an acknowledgment for the client to
	// drop its copy.
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeErrorJSON(w, http.StatusUnauthorized, "no token provided")
		return
	}
	writeJSON(w, http.StatusOK, map[string]auth.Identity{"user": identity})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
