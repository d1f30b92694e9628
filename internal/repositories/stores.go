package repositories

import (
	"context"
	"errors"

	"diet-backend/internal/models"
	"diet-backend/internal/workflow"

	"github.com/jackc/pgx/v5"
)

// DietChartStore persists diet charts and their meals. Implementations must
// make CompareAndSwapMeal atomic relative to every other writer of the meal.
type DietChartStore interface {
	Create(ctx context.Context, chart *models.DietChart) error
	Get(ctx context.Context, id string) (*models.DietChart, error)
	// List returns charts in creation order with meals in slot order.
	List(ctx context.Context) ([]models.DietChart, error)
	ListByDate(ctx context.Context, date string) ([]models.DietChart, error)
	// UpdateContent writes date, restrictions, calories and each meal's
	// ingredients/instructions. Workflow fields are never written.
	UpdateContent(ctx context.Context, chart *models.DietChart) error
	Delete(ctx context.Context, id string) error
	// CompareAndSwapMeal replaces the workflow fields of meal if its stored
	// status is still expected. A lost race returns a workflow Conflict.
	CompareAndSwapMeal(ctx context.Context, chartID string, expected models.MealStatus, meal models.Meal) error
}

type PatientStore interface {
	Create(ctx context.Context, p *models.Patient) error
	Get(ctx context.Context, id string) (*models.Patient, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Patient, error)
	Update(ctx context.Context, p *models.Patient) error
	Delete(ctx context.Context, id string) error
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role models.Role) ([]*models.User, error)
}

// notFound maps pgx.ErrNoRows to a workflow NotFound error.
func notFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return workflow.NotFound("%s %s not found", what, id)
	}
	return err
}
