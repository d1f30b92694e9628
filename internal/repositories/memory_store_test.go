package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"diet-backend/internal/models"
	"diet-backend/internal/workflow"
)

func seedChart(t *testing.T, s *MemoryStore) *models.DietChart {
	t.Helper()
	ctx := context.Background()
	p := &models.Patient{ID: "p1", Name: "Asha", IsActive: true}
	if err := s.Patients().Create(ctx, p); err != nil {
		t.Fatalf("create patient: %v", err)
	}
	chart := &models.DietChart{ID: "c1", PatientID: "p1", Date: "2024-05-10"}
	for i, typ := range models.MealTypes {
		chart.Meals = append(chart.Meals, workflow.NewMeal(string(rune('a'+i)), models.MealInput{Type: typ}, time.Time{}))
	}
	if err := s.DietCharts().Create(ctx, chart); err != nil {
		t.Fatalf("create chart: %v", err)
	}
	return chart
}

func TestCompareAndSwapMealSingleWinner(t *testing.T) {
	s := NewMemoryStore()
	seedChart(t, s)
	charts := s.DietCharts()

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, conflicts := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			who := string(rune('A' + i))
			next := models.Meal{ID: "a", PreparationStatus: models.StatusPreparing, AssignedPantry: &who}
			err := charts.CompareAndSwapMeal(context.Background(), "c1", models.StatusPending, next)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, workflow.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 || conflicts != workers-1 {
		t.Fatalf("wins=%d conflicts=%d, want 1 and %d", wins, conflicts, workers-1)
	}
}

func TestUpdateContentKeepsWorkflowFields(t *testing.T) {
	s := NewMemoryStore()
	seedChart(t, s)
	ctx := context.Background()
	charts := s.DietCharts()

	who := "pantry-1"
	claimed := models.Meal{ID: "a", PreparationStatus: models.StatusPreparing, AssignedPantry: &who}
	if err := charts.CompareAndSwapMeal(ctx, "c1", models.StatusPending, claimed); err != nil {
		t.Fatalf("claim: %v", err)
	}

	edit := &models.DietChart{ID: "c1", Date: "2024-05-11", Meals: []models.Meal{
		{Type: models.MealBreakfast, Ingredients: []string{"idli"}, PreparationStatus: models.StatusPending},
	}}
	if err := charts.UpdateContent(ctx, edit); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}

	got, err := charts.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b := got.Meals[0]
	if b.PreparationStatus != models.StatusPreparing || b.AssignedPantry == nil || *b.AssignedPantry != who {
		t.Fatalf("workflow fields changed by content edit: %+v", b)
	}
	if len(b.Ingredients) != 1 || b.Ingredients[0] != "idli" || got.Date != "2024-05-11" {
		t.Fatalf("content not updated: %+v", got)
	}
	if got.Patient == nil || got.Patient.Name != "Asha" {
		t.Fatalf("patient reference not resolved")
	}
}

func TestGetReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	seedChart(t, s)
	ctx := context.Background()

	got, _ := s.DietCharts().Get(ctx, "c1")
	got.Meals[0].PreparationStatus = models.StatusDelivered

	again, _ := s.DietCharts().Get(ctx, "c1")
	if again.Meals[0].PreparationStatus != models.StatusPending {
		t.Fatalf("caller mutation leaked into the store")
	}
}

func TestDeletePatientCascadesCharts(t *testing.T) {
	s := NewMemoryStore()
	seedChart(t, s)
	ctx := context.Background()

	if err := s.Patients().Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.DietCharts().Get(ctx, "c1"); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("chart survived patient deletion: %v", err)
	}
}

func TestCreateChartRequiresPatient(t *testing.T) {
	s := NewMemoryStore()
	err := s.DietCharts().Create(context.Background(), &models.DietChart{ID: "c", PatientID: "ghost"})
	if !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Patients().Create(ctx, &models.Patient{ID: "p", IsActive: true})
	for _, id := range []string{"z", "a", "m"} {
		if err := s.DietCharts().Create(ctx, &models.DietChart{ID: id, PatientID: "p", Date: "2024-01-01"}); err != nil {
			t.Fatal(err)
		}
	}
	list, _ := s.DietCharts().List(ctx)
	if len(list) != 3 || list[0].ID != "z" || list[1].ID != "a" || list[2].ID != "m" {
		t.Fatalf("order = %v", list)
	}
}

func TestUserEmailUnique(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.Users().Create(ctx, &models.User{ID: "1", Email: "a@x.org"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Users().Create(ctx, &models.User{ID: "2", Email: "A@x.org"}); !errors.Is(err, workflow.ErrValidation) {
		t.Fatalf("duplicate email err = %v", err)
	}
}
