package handlers

import (
	"net/http"

	"diet-backend/internal/services"
	"diet-backend/pkg/utils"
)

type TaskHandler struct {
	Service *services.TaskService
}

func NewTaskHandler(s *services.TaskService) *TaskHandler {
	return &TaskHandler{Service: s}
}

func (h *TaskHandler) PantryQueue(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	charts, err := h.Service.PantryQueue(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, charts)
}

func (h *TaskHandler) DeliveryQueue(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	charts, err := h.Service.DeliveryQueue(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, charts)
}

// PantryCompleted handles GET /api/tasks/pantry/completed?date=
func (h *TaskHandler) PantryCompleted(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	charts, err := h.Service.PantryCompleted(r.Context(), actor, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, charts)
}

// DeliveryCompleted handles GET /api/tasks/delivery/completed?date=
func (h *TaskHandler) DeliveryCompleted(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	charts, err := h.Service.DeliveryCompleted(r.Context(), actor, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, charts)
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	stats, err := h.Service.Stats(r.Context(), actor, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}
