package student

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"student-directory/internal/metrics"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHandler(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// RegisterRoutes mounts the student endpoints. List is public; create and
// delete sit behind the supplied auth middleware. There is deliberately no
// update route.
func (h *Handler) RegisterRoutes(router chi.Router, requireAuth func(http.Handler) http.Handler) {
	router.Get("/student-info", h.ListStudents)
	router.With(requireAuth).Post("/student-info", h.CreateStudent)
	router.With(requireAuth).Delete("/student-info", h.DeleteStudent)
}

func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all students")

	students, err := h.service.ListStudents(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch students", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to fetch students"})
		return
	}

	h.metrics.RecordListViewed(r.Context())

	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"count":    len(students),
		"students": students,
	})
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request"})
		return
	}

	if msg, ok := validateCreateRequest(req); !ok {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": msg})
		return
	}

	h.logger.InfoContext(r.Context(), "creating student", "roll_no", *req.RollNo, "class", req.Class)
	created, err := h.service.CreateStudent(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to save student")
		return
	}

	h.metrics.RecordStudentAdded(r.Context())

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Saved successfully!",
		"id":      created.ID,
	})
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	var req DeleteStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request"})
		return
	}

	if req.RollNo == nil || *req.RollNo <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Not a valid Roll number"})
		return
	}
	if req.Class == "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Not a valid Class Name"})
		return
	}

	h.logger.InfoContext(r.Context(), "deleting student", "roll_no", *req.RollNo, "class", req.Class)
	if err := h.service.DeleteStudent(r.Context(), *req.RollNo, req.Class); err != nil {
		h.handleServiceError(w, err, "Failed to delete student")
		return
	}

	h.metrics.RecordStudentDeleted(r.Context())

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// validateCreateRequest checks fields in the order the wire contract fixes
// and returns the per-field error message for the first failure.
func validateCreateRequest(req CreateStudentRequest) (string, bool) {
	if req.RollNo == nil || *req.RollNo <= 0 {
		return "Not a valid Roll number", false
	}
	if req.Name == "" {
		return "Not a valid Name", false
	}
	if req.Class == "" {
		return "Not a valid Class Name", false
	}
	return "", true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrDuplicateStudent):
		h.logger.Info("duplicate student")
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "This student already exists"})
	case errors.Is(err, ErrStudentNotFound):
		h.logger.Info("student not found")
		respondJSON(w, http.StatusNotFound, map[string]any{"error": "User not found"})
	case errors.Is(err, ErrInvalidImage):
		h.logger.Info("invalid image payload")
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Not a valid Image"})
	case errors.Is(err, ErrInvalidInput):
		h.logger.Info("invalid input")
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request"})
	default:
		h.logger.Error("internal error", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": fallback})
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
