package services

import (
	"context"
	"log"

	"diet-backend/internal/cache"
	"diet-backend/internal/metrics"
	"diet-backend/internal/models"
	"diet-backend/internal/repositories"
	"diet-backend/internal/timeutil"
	"diet-backend/internal/workflow"
)

// MealWorkflowService applies status transitions to meals. Each update is one
// read followed by one compare-and-swap keyed on the status that was read.
type MealWorkflowService struct {
	Charts repositories.DietChartStore
	Clock  *timeutil.Clock
}

func NewMealWorkflowService(charts repositories.DietChartStore, clock *timeutil.Clock) *MealWorkflowService {
	return &MealWorkflowService{
		Charts: charts,
		Clock:  clock,
	}
}

// UpdateMealStatus moves meal mealID of chart chartID to status on behalf of
// actor and returns the updated meal.
func (s *MealWorkflowService) UpdateMealStatus(ctx context.Context, chartID, mealID string, status models.MealStatus, actor workflow.Actor) (*models.Meal, error) {
	if !status.Valid() {
		return nil, workflow.Validation("unknown status %q", status)
	}

	chart, err := s.Charts.Get(ctx, chartID)
	if err != nil {
		return nil, err
	}
	i := chart.FindMeal(mealID)
	if i < 0 {
		return nil, workflow.NotFound("meal %s not found in diet chart %s", mealID, chartID)
	}
	current := chart.Meals[i]

	next, err := workflow.Apply(current, status, actor, s.Clock.Now())
	if err == nil {
		err = s.Charts.CompareAndSwapMeal(ctx, chartID, current.PreparationStatus, next)
	}
	if err != nil {
		s.record(current.PreparationStatus, status, err)
		return nil, err
	}

	s.record(current.PreparationStatus, status, nil)
	cache.InvalidateTaskStats(ctx)
	log.Printf("[Workflow] %s meal %s (chart %s): %s -> %s by %s %s",
		current.Type, mealID, chartID, current.PreparationStatus, status, actor.Role, actor.ID)
	return &next, nil
}

func (s *MealWorkflowService) record(from, to models.MealStatus, err error) {
	result := "ok"
	if err != nil {
		result = string(workflow.KindOf(err))
		if result == "" {
			result = "error"
		}
	}
	toLabel := string(to)
	if !to.Valid() {
		toLabel = "unknown"
	}
	metrics.MealTransitionsTotal.WithLabelValues(string(from), toLabel, result).Inc()
}
