package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"diet-backend/internal/models"
	"diet-backend/internal/repositories"
	"diet-backend/internal/tasks"
	"diet-backend/internal/timeutil"
	"diet-backend/internal/workflow"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReportArchiver stores a generated report and returns where it went.
type ReportArchiver interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type ReportService struct {
	Charts  repositories.DietChartStore
	Users   repositories.UserStore
	Clock   *timeutil.Clock
	Archive ReportArchiver
}

func NewReportService(charts repositories.DietChartStore, users repositories.UserStore, clock *timeutil.Clock, archive ReportArchiver) *ReportService {
	return &ReportService{
		Charts:  charts,
		Users:   users,
		Clock:   clock,
		Archive: archive,
	}
}

// DailyReport is the data behind the daily meal report PDF.
type DailyReport struct {
	Date   string
	Charts []models.DietChart
	Stats  tasks.Stats
	Names  map[string]string // user id -> display name
}

// Daily collects every chart for the service date (empty for today).
func (s *ReportService) Daily(ctx context.Context, actor workflow.Actor, date string) (*DailyReport, error) {
	if !actor.Can(workflow.CapReports) {
		return nil, ErrForbidden
	}
	day, err := s.Clock.ParseDate(date)
	if err != nil {
		return nil, workflow.Validation("%v", err)
	}
	charts, err := s.Charts.ListByDate(ctx, day.String())
	if err != nil {
		return nil, err
	}
	users, err := s.Users.List(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return &DailyReport{
		Date:   day.String(),
		Charts: charts,
		Stats:  tasks.Summarize(charts),
		Names:  names,
	}, nil
}

func (r *DailyReport) name(id *string) string {
	if id == nil {
		return "-"
	}
	if n, ok := r.Names[*id]; ok && n != "" {
		return n
	}
	return *id
}

// GenerateDailyPDF renders the report: one row per meal with its status and
// the staff who prepared and delivered it.
func (s *ReportService) GenerateDailyPDF(r *DailyReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, "Hospital Food Service - Daily Meal Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Service date: %s    Generated: %s",
		r.Date, s.Clock.Format(s.Clock.Now(), timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Summary
	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Arial", "B", 11)
	summary := []struct {
		label string
		n     int
	}{
		{"Charts", r.Stats.Charts},
		{"Meals", r.Stats.Total},
		{"Pending", r.Stats.Pending},
		{"Preparing", r.Stats.Preparing},
		{"Ready", r.Stats.Ready},
		{"Delivered", r.Stats.Delivered},
	}
	for i, item := range summary {
		ln := 0
		if i == len(summary)-1 {
			ln = 1
		}
		pdf.CellFormat(277.0/float64(len(summary)), 8, fmt.Sprintf("%s: %d", item.label, item.n), "1", ln, "C", true, 0, "")
	}
	pdf.Ln(4)

	// Table
	widths := []float64{45, 22, 24, 90, 24, 36, 36}
	headers := []string{"Patient", "Room/Bed", "Meal", "Ingredients", "Status", "Pantry", "Delivery"}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, h, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 9)
	if len(r.Charts) == 0 {
		pdf.CellFormat(277, 8, "No diet charts for this date", "1", 1, "C", false, 0, "")
	}
	for _, c := range r.Charts {
		patient, location := c.PatientID, "-"
		if c.Patient != nil {
			patient = c.Patient.Name
			location = fmt.Sprintf("%s/%s", c.Patient.RoomNumber, c.Patient.BedNumber)
		}
		for _, m := range c.Meals {
			ingredients := strings.Join(m.Ingredients, ", ")
			if len(ingredients) > 60 {
				ingredients = ingredients[:57] + "..."
			}
			row := []string{patient, location, string(m.Type), ingredients, string(m.PreparationStatus),
				r.name(m.AssignedPantry), r.name(m.AssignedDelivery)}
			for i, v := range row {
				ln, align := 0, "L"
				if i == len(row)-1 {
					ln = 1
				}
				if i == 1 || i == 2 || i == 4 {
					align = "C"
				}
				pdf.CellFormat(widths[i], 6, v, "1", ln, align, false, 0, "")
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DailyPDF builds the report for date and renders it.
func (s *ReportService) DailyPDF(ctx context.Context, actor workflow.Actor, date string) (string, []byte, error) {
	r, err := s.Daily(ctx, actor, date)
	if err != nil {
		return "", nil, err
	}
	data, err := s.GenerateDailyPDF(r)
	if err != nil {
		return "", nil, fmt.Errorf("render daily report: %w", err)
	}
	return r.Date, data, nil
}

// ArchiveDaily renders the report for date and uploads it, returning the
// object key.
func (s *ReportService) ArchiveDaily(ctx context.Context, actor workflow.Actor, date string) (string, error) {
	if !actor.Can(workflow.CapReports) {
		return "", ErrForbidden
	}
	if s.Archive == nil {
		return "", workflow.Validation("report archive is not configured")
	}
	day, data, err := s.DailyPDF(ctx, actor, date)
	if err != nil {
		return "", err
	}
	return s.Archive.Upload(ctx, "meals_"+day+".pdf", "application/pdf", data)
}
