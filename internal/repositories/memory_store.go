package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"diet-backend/internal/models"
	"diet-backend/internal/workflow"
)

// MemoryStore keeps users, patients and diet charts in process memory behind
// one mutex. It backs the "memory" storage driver and the tests.
type MemoryStore struct {
	mu       sync.RWMutex
	users    []*models.User
	patients []*models.Patient
	charts   []*models.DietChart
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) DietCharts() DietChartStore { return memDietCharts{s} }
func (s *MemoryStore) Patients() PatientStore     { return memPatients{s} }
func (s *MemoryStore) Users() UserStore           { return memUsers{s} }

// Users

type memUsers struct{ s *MemoryStore }

func (m memUsers) Create(ctx context.Context, u *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return workflow.Validation("user with email %s already exists", u.Email)
		}
	}
	now := m.s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	m.s.users = append(m.s.users, &cp)
	return nil
}

func (m memUsers) Get(ctx context.Context, id string) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, u := range m.s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, workflow.NotFound("user %s not found", id)
}

func (m memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, u := range m.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, workflow.NotFound("user %s not found", email)
}

func (m memUsers) List(ctx context.Context, role models.Role) ([]*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := []*models.User{}
	for _, u := range m.s.users {
		if role == "" || u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Patients

type memPatients struct{ s *MemoryStore }

func clonePatient(p *models.Patient) *models.Patient {
	cp := *p
	cp.Diseases = append([]string{}, p.Diseases...)
	cp.Allergies = append([]string{}, p.Allergies...)
	return &cp
}

func (m memPatients) Create(ctx context.Context, p *models.Patient) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := m.s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	m.s.patients = append(m.s.patients, clonePatient(p))
	return nil
}

func (m memPatients) Get(ctx context.Context, id string) (*models.Patient, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if p := m.s.patientLocked(id); p != nil {
		return clonePatient(p), nil
	}
	return nil, workflow.NotFound("patient %s not found", id)
}

func (m memPatients) List(ctx context.Context, activeOnly bool) ([]*models.Patient, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := []*models.Patient{}
	for _, p := range m.s.patients {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, clonePatient(p))
	}
	return out, nil
}

func (m memPatients) Update(ctx context.Context, p *models.Patient) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i, existing := range m.s.patients {
		if existing.ID == p.ID {
			p.CreatedAt = existing.CreatedAt
			p.UpdatedAt = m.s.now()
			m.s.patients[i] = clonePatient(p)
			return nil
		}
	}
	return workflow.NotFound("patient %s not found", p.ID)
}

// Delete removes the patient and cascades to their diet charts.
func (m memPatients) Delete(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i, p := range m.s.patients {
		if p.ID != id {
			continue
		}
		m.s.patients = append(m.s.patients[:i], m.s.patients[i+1:]...)
		kept := m.s.charts[:0]
		for _, c := range m.s.charts {
			if c.PatientID != id {
				kept = append(kept, c)
			}
		}
		m.s.charts = kept
		return nil
	}
	return workflow.NotFound("patient %s not found", id)
}

func (s *MemoryStore) patientLocked(id string) *models.Patient {
	for _, p := range s.patients {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Diet charts

type memDietCharts struct{ s *MemoryStore }

// resolved returns a copy of c with its patient reference filled in.
func (s *MemoryStore) resolved(c *models.DietChart) models.DietChart {
	out := c.Clone()
	if p := s.patientLocked(c.PatientID); p != nil {
		out.Patient = clonePatient(p)
	}
	return out
}

func (s *MemoryStore) chartLocked(id string) (int, *models.DietChart) {
	for i, c := range s.charts {
		if c.ID == id {
			return i, c
		}
	}
	return -1, nil
}

func (m memDietCharts) Create(ctx context.Context, chart *models.DietChart) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.patientLocked(chart.PatientID) == nil {
		return workflow.NotFound("patient %s not found", chart.PatientID)
	}
	now := m.s.now()
	chart.CreatedAt, chart.UpdatedAt = now, now
	stored := chart.Clone()
	stored.Patient = nil
	m.s.charts = append(m.s.charts, &stored)
	return nil
}

func (m memDietCharts) Get(ctx context.Context, id string) (*models.DietChart, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	_, c := m.s.chartLocked(id)
	if c == nil {
		return nil, workflow.NotFound("diet chart %s not found", id)
	}
	out := m.s.resolved(c)
	return &out, nil
}

func (m memDietCharts) List(ctx context.Context) ([]models.DietChart, error) {
	return m.list(func(*models.DietChart) bool { return true }), nil
}

func (m memDietCharts) ListByDate(ctx context.Context, date string) ([]models.DietChart, error) {
	return m.list(func(c *models.DietChart) bool { return c.Date == date }), nil
}

func (m memDietCharts) list(keep func(*models.DietChart) bool) []models.DietChart {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := []models.DietChart{}
	for _, c := range m.s.charts {
		if keep(c) {
			out = append(out, m.s.resolved(c))
		}
	}
	return out
}

func (m memDietCharts) UpdateContent(ctx context.Context, chart *models.DietChart) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, c := m.s.chartLocked(chart.ID)
	if c == nil {
		return workflow.NotFound("diet chart %s not found", chart.ID)
	}
	c.Date = chart.Date
	c.DietaryRestrictions = append([]string{}, chart.DietaryRestrictions...)
	if chart.Calories != nil {
		v := *chart.Calories
		c.Calories = &v
	} else {
		c.Calories = nil
	}
	for _, in := range chart.Meals {
		for i := range c.Meals {
			if c.Meals[i].Type == in.Type {
				c.Meals[i].Ingredients = append([]string{}, in.Ingredients...)
				c.Meals[i].SpecialInstructions = in.SpecialInstructions
			}
		}
	}
	c.UpdatedAt = m.s.now()
	chart.UpdatedAt = c.UpdatedAt
	return nil
}

func (m memDietCharts) Delete(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	i, c := m.s.chartLocked(id)
	if c == nil {
		return workflow.NotFound("diet chart %s not found", id)
	}
	m.s.charts = append(m.s.charts[:i], m.s.charts[i+1:]...)
	return nil
}

func (m memDietCharts) CompareAndSwapMeal(ctx context.Context, chartID string, expected models.MealStatus, meal models.Meal) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, c := m.s.chartLocked(chartID)
	if c == nil {
		return workflow.Conflict("diet chart %s no longer exists", chartID)
	}
	i := c.FindMeal(meal.ID)
	if i < 0 || c.Meals[i].PreparationStatus != expected {
		return workflow.Conflict("meal %s is no longer %s; refresh and retry", meal.ID, expected)
	}
	current := &c.Meals[i]
	next := meal.Clone()
	current.PreparationStatus = next.PreparationStatus
	current.AssignedPantry = next.AssignedPantry
	current.AssignedDelivery = next.AssignedDelivery
	current.DeliveryTime = next.DeliveryTime
	current.UpdatedAt = next.UpdatedAt
	return nil
}
