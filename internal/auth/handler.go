package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service   *Service
	jwtSecret string
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(service *Service, jwtSecret string, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		jwtSecret: jwtSecret,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/login", h.Login)
	router.Post("/auth/logout", h.Logout)
	router.Get("/auth-session", h.Session)
}

// Login exchanges email+password for a session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Error("login failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	token, err := GenerateAccessToken(h.jwtSecret, user.ID, user.Email)
	if err != nil {
		h.logger.Error("failed to generate token", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.logger.Info("user logged in", "email", req.Email)

	SetAuthCookie(w, token)
	respondJSON(w, http.StatusOK, SessionResponse{ID: user.ID, Email: user.Email})
}

// Logout clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ClearAuthCookie(w)
	h.logger.Info("user logged out")
	w.WriteHeader(http.StatusNoContent)
}

// Session reports who the caller is. 401 without a valid cookie, 404 when
// the credential record behind the session no longer exists.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("token")
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	claims, err := ValidateAccessToken(h.jwtSecret, cookie.Value)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	user, err := h.service.GetUser(r.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			respondJSON(w, http.StatusNotFound, map[string]string{"error": "Unauthorized"})
			return
		}
		h.logger.Error("session lookup failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, SessionResponse{ID: user.ID, Email: user.Email})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
