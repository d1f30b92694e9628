package handlers

import (
	"net/http"

	"diet-backend/internal/models"
	"diet-backend/internal/services"
	"diet-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type DietChartHandler struct {
	Service  *services.DietChartService
	Workflow *services.MealWorkflowService
}

func NewDietChartHandler(s *services.DietChartService, wf *services.MealWorkflowService) *DietChartHandler {
	return &DietChartHandler{Service: s, Workflow: wf}
}

// ListCharts handles GET /api/diet-charts?date=
func (h *DietChartHandler) ListCharts(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	charts, err := h.Service.ListCharts(r.Context(), actor, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, charts)
}

// ActiveCharts handles GET /api/diet-charts/active
func (h *DietChartHandler) ActiveCharts(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	charts, err := h.Service.ActiveCharts(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, charts)
}

func (h *DietChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	chart, err := h.Service.GetChart(r.Context(), mux.Vars(r)["id"], actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, chart)
}

func (h *DietChartHandler) CreateChart(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	var req models.CreateDietChartRequest
	if !decode(w, r, &req) {
		return
	}
	chart, err := h.Service.CreateChart(r.Context(), &req, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, chart)
}

func (h *DietChartHandler) UpdateChart(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	var req models.UpdateDietChartRequest
	if !decode(w, r, &req) {
		return
	}
	chart, err := h.Service.UpdateChart(r.Context(), mux.Vars(r)["id"], &req, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, chart)
}

func (h *DietChartHandler) DeleteChart(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteChart(r.Context(), mux.Vars(r)["id"], actor); err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Diet chart deleted"})
}

// UpdateMealStatus handles PATCH /api/diet-charts/{id}/meals/{mealId}
func (h *DietChartHandler) UpdateMealStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	var req models.UpdateMealStatusRequest
	if !decode(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	meal, err := h.Workflow.UpdateMealStatus(r.Context(), vars["id"], vars["mealId"], req.Status, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, meal)
}
