package models

import "time"

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// MealTypes is the fixed slot order of every diet chart.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner}

func (t MealType) Valid() bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

// MealStatus is the preparation/delivery state of a meal.
type MealStatus string

const (
	StatusPending   MealStatus = "pending"
	StatusPreparing MealStatus = "preparing"
	StatusReady     MealStatus = "ready"
	StatusDelivered MealStatus = "delivered"
)

// MealStatuses lists statuses in workflow order.
var MealStatuses = []MealStatus{StatusPending, StatusPreparing, StatusReady, StatusDelivered}

func (s MealStatus) Valid() bool {
	return s.Rank() >= 0
}

// Rank is the position of s in the workflow, or -1 for unknown values.
func (s MealStatus) Rank() int {
	for i, st := range MealStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

type Meal struct {
	ID                  string     `json:"_id"`
	Type                MealType   `json:"type"`
	Ingredients         []string   `json:"ingredients"`
	SpecialInstructions string     `json:"specialInstructions,omitempty"`
	PreparationStatus   MealStatus `json:"preparationStatus"`
	AssignedPantry      *string    `json:"assignedPantry,omitempty"`
	AssignedDelivery    *string    `json:"assignedDelivery,omitempty"`
	DeliveryTime        *time.Time `json:"deliveryTime,omitempty"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy so callers can change the copy without touching
// shared state.
func (m Meal) Clone() Meal {
	out := m
	if m.Ingredients != nil {
		out.Ingredients = append([]string(nil), m.Ingredients...)
	}
	if m.AssignedPantry != nil {
		v := *m.AssignedPantry
		out.AssignedPantry = &v
	}
	if m.AssignedDelivery != nil {
		v := *m.AssignedDelivery
		out.AssignedDelivery = &v
	}
	if m.DeliveryTime != nil {
		v := *m.DeliveryTime
		out.DeliveryTime = &v
	}
	return out
}

type DietChart struct {
	ID                  string    `json:"_id"`
	PatientID           string    `json:"patientId"`
	Patient             *Patient  `json:"patient,omitempty"`
	Date                string    `json:"date"` // YYYY-MM-DD service date
	Meals               []Meal    `json:"meals"`
	DietaryRestrictions []string  `json:"dietaryRestrictions"`
	Calories            *int      `json:"calories,omitempty"`
	CreatedBy           *string   `json:"createdBy,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the chart. The referenced patient is shared.
func (c DietChart) Clone() DietChart {
	out := c
	out.Meals = make([]Meal, len(c.Meals))
	for i, m := range c.Meals {
		out.Meals[i] = m.Clone()
	}
	if c.DietaryRestrictions != nil {
		out.DietaryRestrictions = append([]string(nil), c.DietaryRestrictions...)
	}
	if c.Calories != nil {
		v := *c.Calories
		out.Calories = &v
	}
	return out
}

// FindMeal returns the index of the meal with the given id, or -1.
func (c *DietChart) FindMeal(mealID string) int {
	for i := range c.Meals {
		if c.Meals[i].ID == mealID {
			return i
		}
	}
	return -1
}

// MealInput is the manager-authored content of one meal slot.
type MealInput struct {
	Type                MealType `json:"type"`
	Ingredients         []string `json:"ingredients"`
	SpecialInstructions string   `json:"specialInstructions"`
}

type CreateDietChartRequest struct {
	PatientID           string      `json:"patient"`
	Date                string      `json:"date"`
	Meals               []MealInput `json:"meals"`
	DietaryRestrictions []string    `json:"dietaryRestrictions"`
	Calories            *int        `json:"calories"`
}

// UpdateDietChartRequest edits chart content. Workflow fields are not
// editable here.
type UpdateDietChartRequest struct {
	Date                *string     `json:"date"`
	Meals               []MealInput `json:"meals"`
	DietaryRestrictions []string    `json:"dietaryRestrictions"`
	Calories            *int        `json:"calories"`
}

type UpdateMealStatusRequest struct {
	Status MealStatus `json:"status"`
}
