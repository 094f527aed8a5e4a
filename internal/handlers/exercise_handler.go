package handlers

import (
	"net/http"

	"github.com/Dias221467/fitsocial/internal/services"
)

// ExerciseHandler serves the exercise template catalog.
type ExerciseHandler struct {
	Service *services.ExerciseService
}

func NewExerciseHandler(service *services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{Service: service}
}

// ListExercisesHandler returns templates, optionally filtered with ?category=.
func (h *ExerciseHandler) ListExercisesHandler(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

// HealthHandler is the liveness probe.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
