package handlers

import (
	"net/http"

	"github.com/Dias221467/fitsocial/internal/services"
	"github.com/gorilla/mux"
)

// WorkoutHandler handles HTTP requests related to workouts.
type WorkoutHandler struct {
	Service *services.WorkoutService
}

// NewWorkoutHandler creates a new instance of WorkoutHandler.
func NewWorkoutHandler(service *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{Service: service}
}

// CreateWorkoutHandler logs a workout for the caller.
func (h *WorkoutHandler) CreateWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	var in services.CreateWorkoutInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	workout, err := h.Service.CreateWorkout(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

// GetWorkoutsHandler lists the caller's workouts.
func (h *WorkoutHandler) GetWorkoutsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	workouts, err := h.Service.ListWorkouts(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

// GetWorkoutHandler returns one of the caller's workouts.
func (h *WorkoutHandler) GetWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	workout, err := h.Service.GetWorkout(r.Context(), user.ID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

// DeleteWorkoutHandler removes one of the caller's workouts.
func (h *WorkoutHandler) DeleteWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteWorkout(r.Context(), user.ID, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Workout successfully deleted"})
}
