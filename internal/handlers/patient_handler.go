package handlers

import (
	"net/http"

	"diet-backend/internal/models"
	"diet-backend/internal/services"
	"diet-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PatientHandler struct {
	Service *services.PatientService
}

func NewPatientHandler(s *services.PatientService) *PatientHandler {
	return &PatientHandler{Service: s}
}

func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req models.PatientRequest
	if !decode(w, r, &req) {
		return
	}
	patient, err := h.Service.CreatePatient(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, patient)
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := h.Service.GetPatient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, patient)
}

func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// ListActivePatients handles GET /api/patients/active
func (h *PatientHandler) ListActivePatients(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *PatientHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	patients, err := h.Service.ListPatients(r.Context(), activeOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, patients)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	var req models.PatientRequest
	if !decode(w, r, &req) {
		return
	}
	patient, err := h.Service.UpdatePatient(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, patient)
}

func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePatient(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Patient deleted"})
}
