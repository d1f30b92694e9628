package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"diet-backend/internal/services"
	"diet-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// DailyPDF handles GET /api/reports/daily?date=
func (h *ReportHandler) DailyPDF(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	day, pdfData, err := h.Service.DailyPDF(ctx, actor, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("meals_%s.pdf", day)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(pdfData)
}

// ArchiveDaily handles POST /api/reports/daily/archive?date=
func (h *ReportHandler) ArchiveDaily(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	key, err := h.Service.ArchiveDaily(ctx, actor, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"key": key})
}
