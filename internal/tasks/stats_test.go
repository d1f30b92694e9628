package tasks

import (
	"testing"

	"diet-backend/internal/models"
)

func TestSummarizeCountsSumToTotal(t *testing.T) {
	s := Summarize(sampleCharts())

	if s.Total != 9 || s.Charts != 3 {
		t.Fatalf("total = %d charts = %d, want 9 and 3", s.Total, s.Charts)
	}
	sum := 0
	for _, st := range models.MealStatuses {
		sum += s.Count(st)
	}
	if sum != s.Total {
		t.Fatalf("status counts sum to %d, total is %d", sum, s.Total)
	}
	if s.Pending != 1 || s.Preparing != 3 || s.Ready != 2 || s.Delivered != 3 {
		t.Fatalf("unexpected counts %+v", s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil); s != (Stats{}) {
		t.Fatalf("Summarize(nil) = %+v", s)
	}
}

func TestCountCompleted(t *testing.T) {
	c := CountCompleted(sampleCharts(), "alice", today, clock)
	if c.Prepared != 1 || c.Delivered != 2 || c.Date != "2024-05-10" {
		t.Fatalf("CountCompleted = %+v", c)
	}

	c = CountCompleted(sampleCharts(), "", today, clock)
	if c.Prepared != 0 {
		t.Fatalf("prepared without a user = %d", c.Prepared)
	}
}
