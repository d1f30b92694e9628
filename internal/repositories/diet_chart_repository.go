package repositories

import (
	"context"
	"fmt"

	"diet-backend/internal/models"
	"diet-backend/internal/workflow"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DietChartRepository struct {
	DB *pgxpool.Pool
}

func NewDietChartRepository(db *pgxpool.Pool) *DietChartRepository {
	return &DietChartRepository{DB: db}
}

const chartSelect = `
	SELECT dc.id, dc.patient_id, to_char(dc.service_date, 'YYYY-MM-DD'), dc.dietary_restrictions,
	       dc.calories, dc.created_by, dc.created_at, dc.updated_at,
	       p.id, p.name, p.age, p.gender, p.room_number, p.bed_number, p.floor_number,
	       p.diseases, p.allergies, p.contact_number,
	       p.emergency_contact_name, p.emergency_contact_relationship, p.emergency_contact_phone,
	       p.is_active, p.created_at, p.updated_at
	FROM diet_charts dc
	JOIN patients p ON p.id = dc.patient_id`

const mealColumns = `id, diet_chart_id, meal_type, ingredients, special_instructions,
	preparation_status, assigned_pantry, assigned_delivery, delivery_time, updated_at`

// Create inserts the chart and its meals in one transaction.
func (r *DietChartRepository) Create(ctx context.Context, chart *models.DietChart) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO diet_charts (id, patient_id, service_date, dietary_restrictions, calories, created_by)
		 VALUES ($1, $2, $3::date, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		chart.ID, chart.PatientID, chart.Date, nonNil(chart.DietaryRestrictions), chart.Calories, chart.CreatedBy,
	).Scan(&chart.CreatedAt, &chart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert diet chart: %w", err)
	}

	for i, m := range chart.Meals {
		_, err := tx.Exec(ctx,
			`INSERT INTO meals (id, diet_chart_id, position, meal_type, ingredients, special_instructions,
				preparation_status, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			m.ID, chart.ID, i, m.Type, nonNil(m.Ingredients), m.SpecialInstructions,
			m.PreparationStatus, m.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert meal %s: %w", m.Type, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *DietChartRepository) Get(ctx context.Context, id string) (*models.DietChart, error) {
	charts, err := r.query(ctx, chartSelect+` WHERE dc.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(charts) == 0 {
		return nil, workflow.NotFound("diet chart %s not found", id)
	}
	return &charts[0], nil
}

func (r *DietChartRepository) List(ctx context.Context) ([]models.DietChart, error) {
	return r.query(ctx, chartSelect+` ORDER BY dc.seq`)
}

func (r *DietChartRepository) ListByDate(ctx context.Context, date string) ([]models.DietChart, error) {
	return r.query(ctx, chartSelect+` WHERE dc.service_date = $1::date ORDER BY dc.seq`, date)
}

func (r *DietChartRepository) query(ctx context.Context, sql string, args ...any) ([]models.DietChart, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query diet charts: %w", err)
	}
	defer rows.Close()

	charts := []models.DietChart{}
	index := map[string]int{}
	var ids []string
	for rows.Next() {
		var c models.DietChart
		var p models.Patient
		err := rows.Scan(&c.ID, &c.PatientID, &c.Date, &c.DietaryRestrictions,
			&c.Calories, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
			&p.ID, &p.Name, &p.Age, &p.Gender, &p.RoomNumber, &p.BedNumber, &p.FloorNumber,
			&p.Diseases, &p.Allergies, &p.ContactNumber,
			&p.EmergencyContact.Name, &p.EmergencyContact.Relationship, &p.EmergencyContact.Phone,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		c.Patient = &p
		c.Meals = []models.Meal{}
		index[c.ID] = len(charts)
		ids = append(ids, c.ID)
		charts = append(charts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return charts, nil
	}

	mealRows, err := r.DB.Query(ctx,
		`SELECT `+mealColumns+` FROM meals WHERE diet_chart_id = ANY($1) ORDER BY diet_chart_id, position`, ids)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	defer mealRows.Close()

	for mealRows.Next() {
		var m models.Meal
		var chartID string
		err := mealRows.Scan(&m.ID, &chartID, &m.Type, &m.Ingredients, &m.SpecialInstructions,
			&m.PreparationStatus, &m.AssignedPantry, &m.AssignedDelivery, &m.DeliveryTime, &m.UpdatedAt)
		if err != nil {
			return nil, err
		}
		i := index[chartID]
		charts[i].Meals = append(charts[i].Meals, m)
	}
	return charts, mealRows.Err()
}

// UpdateContent rewrites chart metadata and meal content in one transaction.
// Meals are matched by type so workflow columns are untouched.
func (r *DietChartRepository) UpdateContent(ctx context.Context, chart *models.DietChart) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`UPDATE diet_charts SET service_date=$2::date, dietary_restrictions=$3, calories=$4, updated_at=NOW()
		 WHERE id=$1
		 RETURNING updated_at`,
		chart.ID, chart.Date, nonNil(chart.DietaryRestrictions), chart.Calories,
	).Scan(&chart.UpdatedAt)
	if err != nil {
		return notFound(err, "diet chart", chart.ID)
	}

	for _, m := range chart.Meals {
		_, err := tx.Exec(ctx,
			`UPDATE meals SET ingredients=$3, special_instructions=$4
			 WHERE diet_chart_id=$1 AND meal_type=$2`,
			chart.ID, m.Type, nonNil(m.Ingredients), m.SpecialInstructions)
		if err != nil {
			return fmt.Errorf("update meal %s: %w", m.Type, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *DietChartRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM diet_charts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return workflow.NotFound("diet chart %s not found", id)
	}
	return nil
}

// CompareAndSwapMeal is a single conditional UPDATE keyed on the expected
// status, so of two racing claims exactly one matches a row.
func (r *DietChartRepository) CompareAndSwapMeal(ctx context.Context, chartID string, expected models.MealStatus, meal models.Meal) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE meals
		 SET preparation_status=$4, assigned_pantry=$5, assigned_delivery=$6, delivery_time=$7, updated_at=$8
		 WHERE id=$1 AND diet_chart_id=$2 AND preparation_status=$3`,
		meal.ID, chartID, expected,
		meal.PreparationStatus, meal.AssignedPantry, meal.AssignedDelivery, meal.DeliveryTime, meal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update meal %s: %w", meal.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return workflow.Conflict("meal %s is no longer %s; refresh and retry", meal.ID, expected)
	}
	return nil
}

var _ DietChartStore = (*DietChartRepository)(nil)
