package services

import (
	"context"
	"encoding/json"

	"diet-backend/internal/cache"
	"diet-backend/internal/metrics"
	"diet-backend/internal/models"
	"diet-backend/internal/repositories"
	"diet-backend/internal/tasks"
	"diet-backend/internal/timeutil"
	"diet-backend/internal/workflow"
)

// TaskService serves the role-scoped work queues, history and stats. All
// results are recomputed from stored charts; only stats are cached.
type TaskService struct {
	Charts repositories.DietChartStore
	Clock  *timeutil.Clock
}

func NewTaskService(charts repositories.DietChartStore, clock *timeutil.Clock) *TaskService {
	return &TaskService{
		Charts: charts,
		Clock:  clock,
	}
}

// TaskStats is the dashboard header payload.
type TaskStats struct {
	tasks.Stats
	Completed tasks.Completed `json:"completed"`
}

func (s *TaskService) run(ctx context.Context, actor workflow.Actor, view tasks.View) ([]models.DietChart, error) {
	if !actor.Can(view.Capability) {
		return nil, ErrForbidden
	}
	charts, err := s.Charts.List(ctx)
	if err != nil {
		return nil, err
	}
	return view.Apply(charts), nil
}

// PantryQueue returns meals waiting on the pantry for actor.
func (s *TaskService) PantryQueue(ctx context.Context, actor workflow.Actor) ([]models.DietChart, error) {
	return s.run(ctx, actor, tasks.PantryQueue(actor.ID))
}

// DeliveryQueue returns the shared pool of ready meals.
func (s *TaskService) DeliveryQueue(ctx context.Context, actor workflow.Actor) ([]models.DietChart, error) {
	return s.run(ctx, actor, tasks.DeliveryQueue())
}

// PantryCompleted returns meals actor marked ready on date (YYYY-MM-DD,
// empty for today). Managers see every pantry worker's completions.
func (s *TaskService) PantryCompleted(ctx context.Context, actor workflow.Actor, date string) ([]models.DietChart, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	worker := actor.ID
	if actor.Role == models.RoleManager {
		worker = ""
	}
	return s.run(ctx, actor, tasks.PantryHistory(worker, day, s.Clock))
}

// DeliveryCompleted returns meals delivered on date (empty for today).
func (s *TaskService) DeliveryCompleted(ctx context.Context, actor workflow.Actor, date string) ([]models.DietChart, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, actor, tasks.DeliveryHistory(day, s.Clock))
}

// Stats returns status counts over all charts plus the completed counts for
// date.
func (s *TaskService) Stats(ctx context.Context, actor workflow.Actor, date string) (*TaskStats, error) {
	if !actor.Can(workflow.CapViewStats) {
		return nil, ErrForbidden
	}
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	if data, ok := cache.GetCachedTaskStats(ctx, actor.ID, day.String()); ok {
		var cached TaskStats
		if json.Unmarshal(data, &cached) == nil {
			metrics.TaskStatsCacheTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		}
	}
	metrics.TaskStatsCacheTotal.WithLabelValues("miss").Inc()

	charts, err := s.Charts.List(ctx)
	if err != nil {
		return nil, err
	}
	userID := ""
	if actor.Role == models.RolePantry {
		userID = actor.ID
	}
	out := &TaskStats{
		Stats:     tasks.Summarize(charts),
		Completed: tasks.CountCompleted(charts, userID, day, s.Clock),
	}

	if data, err := json.Marshal(out); err == nil {
		cache.CacheTaskStats(ctx, actor.ID, day.String(), data)
	}
	return out, nil
}

func (s *TaskService) parseDate(date string) (timeutil.Date, error) {
	day, err := s.Clock.ParseDate(date)
	if err != nil {
		return timeutil.Date{}, workflow.Validation("%v", err)
	}
	return day, nil
}
