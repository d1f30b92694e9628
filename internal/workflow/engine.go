package workflow

import (
	"time"

	"diet-backend/internal/models"
)

type edge struct {
	from, to models.MealStatus
}

// rule is one accepted transition: the capability the actor must hold, an
// optional claim condition on the current meal, and the effect.
type rule struct {
	capability Capability
	claimed    func(m *models.Meal, actor Actor) bool
	apply      func(m *models.Meal, actor Actor, now time.Time)
}

var rules = map[edge]rule{
	{models.StatusPending, models.StatusPreparing}: {
		capability: CapStartPreparation,
		apply: func(m *models.Meal, actor Actor, now time.Time) {
			id := actor.ID
			m.AssignedPantry = &id
		},
	},
	{models.StatusPreparing, models.StatusReady}: {
		capability: CapMarkReady,
		claimed: func(m *models.Meal, actor Actor) bool {
			return m.AssignedPantry != nil && *m.AssignedPantry == actor.ID
		},
	},
	// Delivery claims are not exclusive: any delivery worker may deliver any
	// ready meal.
	{models.StatusReady, models.StatusDelivered}: {
		capability: CapDeliver,
		apply: func(m *models.Meal, actor Actor, now time.Time) {
			id := actor.ID
			t := now
			m.AssignedDelivery = &id
			m.DeliveryTime = &t
		},
	},
}

// Apply validates moving meal to the requested status on behalf of actor and
// returns the resulting meal. The input is never modified; on error the
// returned meal is the zero value.
func Apply(meal models.Meal, requested models.MealStatus, actor Actor, now time.Time) (models.Meal, error) {
	if !requested.Valid() {
		return models.Meal{}, Validation("unknown status %q", requested)
	}
	if actor.ID == "" {
		return models.Meal{}, Validation("acting user is required")
	}

	r, ok := rules[edge{meal.PreparationStatus, requested}]
	if !ok {
		return models.Meal{}, InvalidTransition("cannot move %s meal from %s to %s",
			meal.Type, meal.PreparationStatus, requested)
	}
	if !Authorize(actor.Role, r.capability) {
		return models.Meal{}, InvalidTransition("role %q may not move a meal from %s to %s",
			actor.Role, meal.PreparationStatus, requested)
	}
	if r.claimed != nil && !r.claimed(&meal, actor) {
		return models.Meal{}, InvalidTransition("meal %s is being prepared by another pantry worker", meal.ID)
	}

	next := meal.Clone()
	next.PreparationStatus = requested
	next.UpdatedAt = now
	if r.apply != nil {
		r.apply(&next, actor, now)
	}
	return next, nil
}

// NextStatus returns the status following s, or false at the terminal state.
func NextStatus(s models.MealStatus) (models.MealStatus, bool) {
	rank := s.Rank()
	if rank < 0 || rank+1 >= len(models.MealStatuses) {
		return "", false
	}
	return models.MealStatuses[rank+1], true
}

// NewMeal returns a freshly created meal slot: pending with no assignments.
func NewMeal(id string, input models.MealInput, now time.Time) models.Meal {
	ingredients := input.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return models.Meal{
		ID:                  id,
		Type:                input.Type,
		Ingredients:         append([]string(nil), ingredients...),
		SpecialInstructions: input.SpecialInstructions,
		PreparationStatus:   models.StatusPending,
		UpdatedAt:           now,
	}
}

// CheckInvariants verifies the assignment fields agree with the status.
func CheckInvariants(m models.Meal) error {
	rank := m.PreparationStatus.Rank()
	if rank < 0 {
		return Validation("meal %s has unknown status %q", m.ID, m.PreparationStatus)
	}
	wantPantry := rank >= models.StatusPreparing.Rank()
	if (m.AssignedPantry != nil) != wantPantry {
		return Validation("meal %s in %s: assignedPantry present=%t", m.ID, m.PreparationStatus, m.AssignedPantry != nil)
	}
	wantDelivery := m.PreparationStatus == models.StatusDelivered
	if (m.AssignedDelivery != nil) != wantDelivery {
		return Validation("meal %s in %s: assignedDelivery present=%t", m.ID, m.PreparationStatus, m.AssignedDelivery != nil)
	}
	if (m.DeliveryTime != nil) != wantDelivery {
		return Validation("meal %s in %s: deliveryTime present=%t", m.ID, m.PreparationStatus, m.DeliveryTime != nil)
	}
	return nil
}
