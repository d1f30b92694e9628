package tasks

import (
	"testing"
	"time"

	"diet-backend/internal/models"
	"diet-backend/internal/timeutil"
	"diet-backend/internal/workflow"
)

var (
	utc   = time.UTC
	day0  = time.Date(2024, 5, 10, 9, 0, 0, 0, utc)
	clock = timeutil.NewFixedClock(utc, day0)
	today = clock.Today()
)

func strp(s string) *string { return &s }

func meal(id string, typ models.MealType, status models.MealStatus, pantry, courier string, at time.Time) models.Meal {
	m := models.Meal{ID: id, Type: typ, PreparationStatus: status, UpdatedAt: at, Ingredients: []string{}}
	if pantry != "" {
		m.AssignedPantry = strp(pantry)
	}
	if courier != "" {
		m.AssignedDelivery = strp(courier)
		t := at
		m.DeliveryTime = &t
	}
	return m
}

func chart(id string, meals ...models.Meal) models.DietChart {
	return models.DietChart{ID: id, PatientID: "patient-" + id, Date: "2024-05-10", Meals: meals}
}

func sampleCharts() []models.DietChart {
	return []models.DietChart{
		chart("c1",
			meal("c1-b", models.MealBreakfast, models.StatusPending, "", "", day0),
			meal("c1-l", models.MealLunch, models.StatusPreparing, "alice", "", day0),
			meal("c1-d", models.MealDinner, models.StatusPreparing, "bob", "", day0),
		),
		chart("c2",
			meal("c2-b", models.MealBreakfast, models.StatusReady, "alice", "", day0),
			meal("c2-l", models.MealLunch, models.StatusDelivered, "bob", "dave", day0),
			meal("c2-d", models.MealDinner, models.StatusDelivered, "alice", "erin", day0.Add(-24*time.Hour)),
		),
		chart("c3",
			meal("c3-b", models.MealBreakfast, models.StatusPreparing, "bob", "", day0),
			meal("c3-l", models.MealLunch, models.StatusReady, "bob", "", day0.Add(-24*time.Hour)),
			meal("c3-d", models.MealDinner, models.StatusDelivered, "alice", "dave", day0),
		),
	}
}

func mealIDs(charts []models.DietChart) []string {
	var ids []string
	for _, c := range charts {
		for _, m := range c.Meals {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func chartIDs(charts []models.DietChart) []string {
	var ids []string
	for _, c := range charts {
		ids = append(ids, c.ID)
	}
	return ids
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPantryQueue(t *testing.T) {
	got := PantryQueue("alice").Apply(sampleCharts())

	if want := []string{"c1"}; !equal(chartIDs(got), want) {
		t.Fatalf("charts = %v, want %v", chartIDs(got), want)
	}
	if want := []string{"c1-b", "c1-l"}; !equal(mealIDs(got), want) {
		t.Fatalf("meals = %v, want %v", mealIDs(got), want)
	}
}

func TestPantryQueueNeverShowsOthersClaims(t *testing.T) {
	for _, worker := range []string{"alice", "bob", "carol"} {
		for _, c := range PantryQueue(worker).Apply(sampleCharts()) {
			for _, m := range c.Meals {
				if m.PreparationStatus == models.StatusPreparing && *m.AssignedPantry != worker {
					t.Errorf("%s sees meal %s claimed by %s", worker, m.ID, *m.AssignedPantry)
				}
			}
		}
	}
}

func TestPantryHistoryIsScopedToWorkerAndDay(t *testing.T) {
	got := PantryHistory("bob", today, clock).Apply(sampleCharts())
	if len(got) != 0 {
		t.Fatalf("bob readied c3-l yesterday; got %v", mealIDs(got))
	}

	got = PantryHistory("bob", today.AddDays(-1), clock).Apply(sampleCharts())
	if want := []string{"c3-l"}; !equal(mealIDs(got), want) {
		t.Fatalf("meals = %v, want %v", mealIDs(got), want)
	}

	got = PantryHistory("alice", today, clock).Apply(sampleCharts())
	if want := []string{"c2-b"}; !equal(mealIDs(got), want) {
		t.Fatalf("meals = %v, want %v", mealIDs(got), want)
	}

	got = PantryHistory("", today.AddDays(-1), clock).Apply(sampleCharts())
	if want := []string{"c3-l"}; !equal(mealIDs(got), want) {
		t.Fatalf("any-worker meals = %v, want %v", mealIDs(got), want)
	}
}

func TestDeliveryQueueIsSharedPool(t *testing.T) {
	got := DeliveryQueue().Apply(sampleCharts())
	if want := []string{"c2-b", "c3-l"}; !equal(mealIDs(got), want) {
		t.Fatalf("meals = %v, want %v", mealIDs(got), want)
	}
}

func TestDeliveryHistoryExcludesPreviousDay(t *testing.T) {
	got := DeliveryHistory(today, clock).Apply(sampleCharts())
	if want := []string{"c2-l", "c3-d"}; !equal(mealIDs(got), want) {
		t.Fatalf("meals = %v, want %v", mealIDs(got), want)
	}
	for _, c := range got {
		for _, m := range c.Meals {
			if !clock.SameDay(*m.DeliveryTime, today) {
				t.Errorf("meal %s delivered on %s", m.ID, clock.DateOf(*m.DeliveryTime))
			}
		}
	}

	got = DeliveryHistory(today.AddDays(-1), clock).Apply(sampleCharts())
	if want := []string{"c2-d"}; !equal(mealIDs(got), want) {
		t.Fatalf("yesterday meals = %v, want %v", mealIDs(got), want)
	}
}

func TestDeliveryHistoryUsesServiceTimeZone(t *testing.T) {
	// 23:30 at UTC-5 is 04:30 UTC the next day.
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := timeutil.NewFixedClock(loc, time.Date(2024, 5, 10, 12, 0, 0, 0, loc))
	late := time.Date(2024, 5, 10, 23, 30, 0, 0, loc)

	charts := []models.DietChart{chart("c", meal("m", models.MealDinner, models.StatusDelivered, "p", "d", late))}

	if got := DeliveryHistory(local.Today(), local).Apply(charts); len(got) != 1 {
		t.Fatalf("late delivery missing from its local day")
	}
	if got := DeliveryHistory(local.Today().AddDays(1), local).Apply(charts); len(got) != 0 {
		t.Fatalf("late delivery leaked into the next local day")
	}
}

func TestManagerViewIsUnrestricted(t *testing.T) {
	charts := sampleCharts()
	got := All().Apply(charts)
	if !equal(mealIDs(got), mealIDs(charts)) {
		t.Fatalf("manager view dropped meals: %v", mealIDs(got))
	}
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	charts := sampleCharts()
	_ = PantryQueue("alice").Apply(charts)
	if len(charts[0].Meals) != 3 {
		t.Fatalf("input chart lost meals")
	}
	got := DeliveryQueue().Apply(charts)
	got[0].Meals[0].Ingredients = append(got[0].Meals[0].Ingredients, "extra")
	if len(charts[1].Meals[0].Ingredients) != 0 {
		t.Fatalf("filtered meal shares ingredients with input")
	}
}

func TestFilterReturnsEmptySliceNotNil(t *testing.T) {
	got := DeliveryQueue().Apply(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("got %#v, want empty slice", got)
	}
}

func TestQueueFor(t *testing.T) {
	tests := []struct {
		role models.Role
		want string
	}{
		{models.RoleManager, "all"},
		{models.RolePantry, "pantry_pending"},
		{models.RoleDelivery, "delivery_pending"},
	}
	for _, tt := range tests {
		v, ok := QueueFor(workflow.Actor{ID: "u", Role: tt.role})
		if !ok || v.Name != tt.want {
			t.Errorf("QueueFor(%s) = %q, %t; want %q", tt.role, v.Name, ok, tt.want)
		}
	}
	if _, ok := QueueFor(workflow.Actor{ID: "u", Role: "visitor"}); ok {
		t.Errorf("unknown role got a view")
	}
}

func TestOnDate(t *testing.T) {
	charts := sampleCharts()
	charts[1].Date = "2024-05-09"
	got := OnDate(charts, today)
	if want := []string{"c1", "c3"}; !equal(chartIDs(got), want) {
		t.Fatalf("charts = %v, want %v", chartIDs(got), want)
	}
}
