package repositories

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"diet-backend/internal/database"
	"diet-backend/internal/models"
	"diet-backend/internal/workflow"
	"diet-backend/migrations"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresPool connects to DATABASE_URL and migrates it. Tests are skipped
// when it is unset.
func postgresPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := database.NewMigratorWithFS(pool, migrations.FS, ".").RunMigrations(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func TestPostgresCompareAndSwapMeal(t *testing.T) {
	pool := postgresPool(t)
	ctx := context.Background()
	patients := NewPatientRepository(pool)
	charts := NewDietChartRepository(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := &models.Patient{ID: uuid.New().String(), Name: "Asha", Age: 70, RoomNumber: "12", BedNumber: "B", IsActive: true}
	if err := patients.Create(ctx, p); err != nil {
		t.Fatalf("create patient: %v", err)
	}
	t.Cleanup(func() { patients.Delete(context.Background(), p.ID) })

	chart := &models.DietChart{ID: uuid.New().String(), PatientID: p.ID, Date: "2024-05-10"}
	for _, typ := range models.MealTypes {
		chart.Meals = append(chart.Meals, workflow.NewMeal(uuid.New().String(), models.MealInput{Type: typ}, now))
	}
	if err := charts.Create(ctx, chart); err != nil {
		t.Fatalf("create chart: %v", err)
	}
	target := chart.Meals[0]

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var winners []string
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(who string) {
			defer wg.Done()
			next, err := workflow.Apply(target, models.StatusPreparing, workflow.Actor{ID: who, Role: models.RolePantry}, now)
			if err != nil {
				t.Errorf("apply: %v", err)
				return
			}
			err = charts.CompareAndSwapMeal(context.Background(), chart.ID, models.StatusPending, next)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, who)
			case errors.Is(err, workflow.ErrConflict):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(uuid.New().String())
	}
	wg.Wait()
	if len(winners) != 1 {
		t.Fatalf("winners = %v, want exactly one", winners)
	}

	stored, err := charts.Get(ctx, chart.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var claimed models.Meal
	for _, m := range stored.Meals {
		if m.ID == target.ID {
			claimed = m
		}
	}
	if claimed.PreparationStatus != models.StatusPreparing || claimed.AssignedPantry == nil || *claimed.AssignedPantry != winners[0] {
		t.Fatalf("stored meal = %+v, want preparing by %s", claimed, winners[0])
	}

	ready, err := workflow.Apply(claimed, models.StatusReady, workflow.Actor{ID: winners[0], Role: models.RolePantry}, now)
	if err != nil {
		t.Fatal(err)
	}
	if err := charts.CompareAndSwapMeal(ctx, chart.ID, models.StatusPending, ready); !errors.Is(err, workflow.ErrConflict) {
		t.Fatalf("stale expected status: err = %v", err)
	}
	if err := charts.CompareAndSwapMeal(ctx, chart.ID, models.StatusPreparing, ready); err != nil {
		t.Fatalf("mark ready: %v", err)
	}
}
