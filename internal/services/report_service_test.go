package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"diet-backend/internal/models"
	"diet-backend/internal/workflow"
)

type fakeArchive struct {
	name string
	data []byte
}

func (a *fakeArchive) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	a.name, a.data = name, data
	return "reports/" + name, nil
}

func TestDailyReport(t *testing.T) {
	f := newFixture(t)
	c := f.chart(t, f.patient(t, "Asha").ID)
	if _, err := f.meals.UpdateMealStatus(f.ctx, c.ID, c.Meals[0].ID, models.StatusPreparing, pantryA); err != nil {
		t.Fatal(err)
	}
	archive := &fakeArchive{}
	svc := NewReportService(f.store.DietCharts(), f.store.Users(), f.clock, archive)

	r, err := svc.Daily(f.ctx, manager, "")
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if r.Date != "2024-05-10" || len(r.Charts) != 1 || r.Stats.Preparing != 1 {
		t.Fatalf("report = %+v", r)
	}
	if got := r.name(c.Meals[0].AssignedPantry); got != "-" {
		t.Fatalf("unassigned name = %q", got)
	}

	day, pdf, err := svc.DailyPDF(f.ctx, manager, "2024-05-10")
	if err != nil {
		t.Fatalf("DailyPDF: %v", err)
	}
	if day != "2024-05-10" || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("pdf for %s starts with %q", day, pdf[:8])
	}

	key, err := svc.ArchiveDaily(f.ctx, manager, "")
	if err != nil {
		t.Fatalf("ArchiveDaily: %v", err)
	}
	if key != "reports/meals_2024-05-10.pdf" || !bytes.HasPrefix(archive.data, []byte("%PDF")) {
		t.Fatalf("archived %q", key)
	}
}

func TestDailyReportAccess(t *testing.T) {
	f := newFixture(t)
	svc := NewReportService(f.store.DietCharts(), f.store.Users(), f.clock, nil)

	if _, err := svc.Daily(f.ctx, pantryA, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("pantry report: err = %v", err)
	}
	if _, err := svc.ArchiveDaily(f.ctx, manager, ""); !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("archive without bucket: err = %v", err)
	}
	_, pdf, err := svc.DailyPDF(f.ctx, manager, "")
	if err != nil || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("empty day pdf: %v", err)
	}
}
