// Package tasks derives each role's work queues, completed-task history and
// dashboard statistics from diet charts. Everything here is a pure function
// of its inputs.
package tasks

import (
	"diet-backend/internal/models"
	"diet-backend/internal/timeutil"
	"diet-backend/internal/workflow"
)

// MealPredicate decides whether one meal is visible in a view.
type MealPredicate func(m *models.Meal) bool

// View is a named role-scoped projection of the chart collection.
type View struct {
	Name       string
	Capability workflow.Capability
	Match      MealPredicate
}

// Apply runs the view over charts. See Filter.
func (v View) Apply(charts []models.DietChart) []models.DietChart {
	return Filter(charts, v.Match)
}

// Filter keeps charts having at least one matching meal and, inside each kept
// chart, only the matching meals. Chart and meal order are preserved and the
// input is not modified.
func Filter(charts []models.DietChart, match MealPredicate) []models.DietChart {
	out := make([]models.DietChart, 0)
	for i := range charts {
		var meals []models.Meal
		for j := range charts[i].Meals {
			if match(&charts[i].Meals[j]) {
				meals = append(meals, charts[i].Meals[j].Clone())
			}
		}
		if len(meals) == 0 {
			continue
		}
		chart := charts[i].Clone()
		chart.Meals = meals
		out = append(out, chart)
	}
	return out
}

func assignedTo(id *string, userID string) bool {
	return id != nil && *id == userID
}

// PantryQueue: unclaimed pending meals plus meals this worker is preparing.
func PantryQueue(userID string) View {
	return View{
		Name:       "pantry_pending",
		Capability: workflow.CapViewPantryQueue,
		Match: func(m *models.Meal) bool {
			switch m.PreparationStatus {
			case models.StatusPending:
				return true
			case models.StatusPreparing:
				return assignedTo(m.AssignedPantry, userID)
			}
			return false
		},
	}
}

// PantryHistory: meals this worker marked ready on day. An empty userID
// matches every pantry worker.
func PantryHistory(userID string, day timeutil.Date, clock *timeutil.Clock) View {
	return View{
		Name:       "pantry_completed",
		Capability: workflow.CapViewPantryHistory,
		Match: func(m *models.Meal) bool {
			return m.PreparationStatus == models.StatusReady &&
				m.AssignedPantry != nil &&
				(userID == "" || *m.AssignedPantry == userID) &&
				clock.SameDay(m.UpdatedAt, day)
		},
	}
}

// DeliveryQueue: every ready meal. The pool is shared by all delivery staff.
func DeliveryQueue() View {
	return View{
		Name:       "delivery_pending",
		Capability: workflow.CapViewDeliveryQueue,
		Match: func(m *models.Meal) bool {
			return m.PreparationStatus == models.StatusReady
		},
	}
}

// DeliveryHistory: meals delivered on day.
func DeliveryHistory(day timeutil.Date, clock *timeutil.Clock) View {
	return View{
		Name:       "delivery_completed",
		Capability: workflow.CapViewDeliveryHistory,
		Match: func(m *models.Meal) bool {
			return m.PreparationStatus == models.StatusDelivered &&
				m.DeliveryTime != nil &&
				clock.SameDay(*m.DeliveryTime, day)
		},
	}
}

// All is the manager view.
func All() View {
	return View{
		Name:       "all",
		Capability: workflow.CapViewAllCharts,
		Match:      func(*models.Meal) bool { return true },
	}
}

// QueueFor returns the default chart view for actor: the full collection for
// managers and the pending-work queue for pantry and delivery staff.
func QueueFor(actor workflow.Actor) (View, bool) {
	for _, v := range []View{All(), PantryQueue(actor.ID), DeliveryQueue()} {
		if actor.Can(v.Capability) {
			return v, true
		}
	}
	return View{}, false
}

// OnDate keeps charts whose service date is day.
func OnDate(charts []models.DietChart, day timeutil.Date) []models.DietChart {
	out := make([]models.DietChart, 0)
	want := day.String()
	for i := range charts {
		if charts[i].Date == want {
			out = append(out, charts[i])
		}
	}
	return out
}
