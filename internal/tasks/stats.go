package tasks

import (
	"diet-backend/internal/models"
	"diet-backend/internal/timeutil"
)

// Stats is the dashboard header summary.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Preparing int `json:"preparing"`
	Ready     int `json:"ready"`
	Delivered int `json:"delivered"`
	Charts    int `json:"charts"`
}

// Count returns the number of meals in status s.
func (s Stats) Count(status models.MealStatus) int {
	switch status {
	case models.StatusPending:
		return s.Pending
	case models.StatusPreparing:
		return s.Preparing
	case models.StatusReady:
		return s.Ready
	case models.StatusDelivered:
		return s.Delivered
	}
	return 0
}

// Summarize counts meals by status across charts.
func Summarize(charts []models.DietChart) Stats {
	var s Stats
	s.Charts = len(charts)
	for i := range charts {
		for j := range charts[i].Meals {
			s.Total++
			switch charts[i].Meals[j].PreparationStatus {
			case models.StatusPending:
				s.Pending++
			case models.StatusPreparing:
				s.Preparing++
			case models.StatusReady:
				s.Ready++
			case models.StatusDelivered:
				s.Delivered++
			}
		}
	}
	return s
}

// CountMeals counts meals matched by view.
func CountMeals(charts []models.DietChart, v View) int {
	n := 0
	for i := range charts {
		for j := range charts[i].Meals {
			if v.Match(&charts[i].Meals[j]) {
				n++
			}
		}
	}
	return n
}

// Completed is the per-role completed-task count for one service date.
type Completed struct {
	Date      string `json:"date"`
	Prepared  int    `json:"prepared"`  // readied by the requesting pantry worker
	Delivered int    `json:"delivered"` // delivered by anyone
}

// CountCompleted returns completed counts for day. Prepared is scoped to
// userID; it is zero when userID is empty.
func CountCompleted(charts []models.DietChart, userID string, day timeutil.Date, clock *timeutil.Clock) Completed {
	c := Completed{Date: day.String()}
	if userID != "" {
		c.Prepared = CountMeals(charts, PantryHistory(userID, day, clock))
	}
	c.Delivered = CountMeals(charts, DeliveryHistory(day, clock))
	return c
}
