package services

import (
	"context"
	"log"

	"diet-backend/internal/cache"
	"diet-backend/internal/models"
	"diet-backend/internal/repositories"
	"diet-backend/internal/tasks"
	"diet-backend/internal/timeutil"
	"diet-backend/internal/workflow"

	"github.com/google/uuid"
)

// DietChartService handles manager-authored chart content and the
// role-scoped chart reads. Meal status changes go through
// MealWorkflowService.
type DietChartService struct {
	Charts   repositories.DietChartStore
	Patients repositories.PatientStore
	Clock    *timeutil.Clock
}

func NewDietChartService(charts repositories.DietChartStore, patients repositories.PatientStore, clock *timeutil.Clock) *DietChartService {
	return &DietChartService{
		Charts:   charts,
		Patients: patients,
		Clock:    clock,
	}
}

// mealInputs validates inputs and indexes them by type. Duplicate or
// unknown types are rejected.
func mealInputs(inputs []models.MealInput) (map[models.MealType]models.MealInput, error) {
	byType := make(map[models.MealType]models.MealInput, len(inputs))
	for _, in := range inputs {
		if !in.Type.Valid() {
			return nil, workflow.Validation("unknown meal type %q", in.Type)
		}
		if _, dup := byType[in.Type]; dup {
			return nil, workflow.Validation("meal type %s given more than once", in.Type)
		}
		byType[in.Type] = in
	}
	return byType, nil
}

// CreateChart creates a chart with one pending meal per slot. Slots missing
// from the request are created empty.
func (s *DietChartService) CreateChart(ctx context.Context, req *models.CreateDietChartRequest, actor workflow.Actor) (*models.DietChart, error) {
	if !actor.Can(workflow.CapManageCharts) {
		return nil, ErrForbidden
	}
	if req.PatientID == "" {
		return nil, workflow.Validation("patient is required")
	}
	day, err := s.Clock.ParseDate(req.Date)
	if err != nil {
		return nil, workflow.Validation("%v", err)
	}
	if req.Calories != nil && *req.Calories < 0 {
		return nil, workflow.Validation("calories must not be negative")
	}
	byType, err := mealInputs(req.Meals)
	if err != nil {
		return nil, err
	}
	patient, err := s.Patients.Get(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	chart := &models.DietChart{
		ID:                  uuid.NewString(),
		PatientID:           patient.ID,
		Date:                day.String(),
		DietaryRestrictions: strs(req.DietaryRestrictions),
		Calories:            req.Calories,
	}
	if actor.ID != "" {
		createdBy := actor.ID
		chart.CreatedBy = &createdBy
	}
	for _, t := range models.MealTypes {
		in := byType[t]
		in.Type = t
		chart.Meals = append(chart.Meals, workflow.NewMeal(uuid.NewString(), in, now))
	}

	if err := s.Charts.Create(ctx, chart); err != nil {
		return nil, err
	}
	chart.Patient = patient
	cache.InvalidateTaskStats(ctx)
	log.Printf("[DietChart] Created chart %s for patient %s on %s", chart.ID, patient.ID, chart.Date)
	return chart, nil
}

// UpdateChart edits chart content. Meal statuses and assignments are left
// as they are.
func (s *DietChartService) UpdateChart(ctx context.Context, id string, req *models.UpdateDietChartRequest, actor workflow.Actor) (*models.DietChart, error) {
	if !actor.Can(workflow.CapManageCharts) {
		return nil, ErrForbidden
	}
	byType, err := mealInputs(req.Meals)
	if err != nil {
		return nil, err
	}

	chart, err := s.Charts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Date != nil {
		day, err := s.Clock.ParseDate(*req.Date)
		if err != nil {
			return nil, workflow.Validation("%v", err)
		}
		chart.Date = day.String()
	}
	if req.DietaryRestrictions != nil {
		chart.DietaryRestrictions = req.DietaryRestrictions
	}
	if req.Calories != nil {
		if *req.Calories < 0 {
			return nil, workflow.Validation("calories must not be negative")
		}
		chart.Calories = req.Calories
	}
	for i := range chart.Meals {
		if in, ok := byType[chart.Meals[i].Type]; ok {
			chart.Meals[i].Ingredients = strs(in.Ingredients)
			chart.Meals[i].SpecialInstructions = in.SpecialInstructions
		}
	}

	if err := s.Charts.UpdateContent(ctx, chart); err != nil {
		return nil, err
	}
	cache.InvalidateTaskStats(ctx)
	return s.Charts.Get(ctx, id)
}

func (s *DietChartService) DeleteChart(ctx context.Context, id string, actor workflow.Actor) error {
	if !actor.Can(workflow.CapManageCharts) {
		return ErrForbidden
	}
	if err := s.Charts.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateTaskStats(ctx)
	log.Printf("[DietChart] Deleted chart %s", id)
	return nil
}

// ListCharts returns the actor's chart view: every chart for managers, the
// pending-work queue otherwise. A non-empty date keeps charts for that
// service date only.
func (s *DietChartService) ListCharts(ctx context.Context, actor workflow.Actor, date string) ([]models.DietChart, error) {
	view, ok := tasks.QueueFor(actor)
	if !ok {
		return nil, ErrForbidden
	}

	var charts []models.DietChart
	if date != "" {
		day, err := s.Clock.ParseDate(date)
		if err != nil {
			return nil, workflow.Validation("%v", err)
		}
		charts, err = s.Charts.ListByDate(ctx, day.String())
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		charts, err = s.Charts.List(ctx)
		if err != nil {
			return nil, err
		}
	}
	return view.Apply(charts), nil
}

// ActiveCharts is ListCharts for today's service date.
func (s *DietChartService) ActiveCharts(ctx context.Context, actor workflow.Actor) ([]models.DietChart, error) {
	return s.ListCharts(ctx, actor, s.Clock.Today().String())
}

// GetChart returns one chart with its meals narrowed to the actor's view.
// Staff get NotFound for a chart with nothing in their view, matching its
// absence from their list.
func (s *DietChartService) GetChart(ctx context.Context, id string, actor workflow.Actor) (*models.DietChart, error) {
	view, ok := tasks.QueueFor(actor)
	if !ok {
		return nil, ErrForbidden
	}
	chart, err := s.Charts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	meals := make([]models.Meal, 0, len(chart.Meals))
	for i := range chart.Meals {
		if view.Match(&chart.Meals[i]) {
			meals = append(meals, chart.Meals[i])
		}
	}
	if len(meals) == 0 && !actor.Can(workflow.CapViewAllCharts) {
		return nil, workflow.NotFound("diet chart %s not found", id)
	}
	chart.Meals = meals
	return chart, nil
}
