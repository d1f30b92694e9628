package main

import (
	"context"
	"fmt"
	"log"

	"diet-backend/internal/auth"
	"diet-backend/internal/config"
	"diet-backend/internal/db"
	"diet-backend/internal/models"
	"diet-backend/internal/repositories"
	"diet-backend/internal/services"
	"diet-backend/internal/timeutil"
	"diet-backend/internal/workflow"
)

// demoPassword is shared by every seeded account.
const demoPassword = "password123"

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all users, patients and diet charts")
	fmt.Println("  - Create one manager, two pantry and one delivery account")
	fmt.Println("  - Create two demo patients with charts for today")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("Resetting database...")

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v\n", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"meals", "diet_charts", "patients", "users"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			log.Fatalf("Failed to truncate %s: %v\n", table, err)
		}
		fmt.Printf("  - Cleared %s\n", table)
	}
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit transaction: %v\n", err)
	}

	clock := timeutil.NewClock(cfg.Service.Timezone)
	users := services.NewUserService(repositories.NewUserRepository(pool), auth.NewJWTManager(cfg.JWT))
	patients := services.NewPatientService(repositories.NewPatientRepository(pool))
	charts := services.NewDietChartService(repositories.NewDietChartRepository(pool), repositories.NewPatientRepository(pool), clock)

	accounts := []models.RegisterRequest{
		{Name: "Food Manager", Email: "manager@hospital.local", Role: models.RoleManager},
		{Name: "Pantry One", Email: "pantry1@hospital.local", Role: models.RolePantry},
		{Name: "Pantry Two", Email: "pantry2@hospital.local", Role: models.RolePantry},
		{Name: "Delivery One", Email: "delivery1@hospital.local", Role: models.RoleDelivery},
	}
	var manager workflow.Actor
	for i := range accounts {
		accounts[i].Password = demoPassword
		resp, err := users.Register(ctx, &accounts[i])
		if err != nil {
			log.Fatalf("Failed to create %s: %v\n", accounts[i].Email, err)
		}
		if resp.User.Role == models.RoleManager {
			manager = workflow.Actor{ID: resp.User.ID, Role: resp.User.Role}
		}
	}
	fmt.Println("  - Created staff accounts")

	demo := []models.PatientRequest{
		{Name: "Ravi Kumar", Age: 64, Gender: "male", RoomNumber: "204", BedNumber: "A", FloorNumber: 2,
			Diseases: []string{"diabetes"}, Allergies: []string{}},
		{Name: "Meena Shah", Age: 51, Gender: "female", RoomNumber: "310", BedNumber: "B", FloorNumber: 3,
			Diseases: []string{"hypertension"}, Allergies: []string{"peanuts"}},
	}
	for i := range demo {
		p, err := patients.CreatePatient(ctx, &demo[i])
		if err != nil {
			log.Fatalf("Failed to create patient: %v\n", err)
		}
		_, err = charts.CreateChart(ctx, &models.CreateDietChartRequest{
			PatientID: p.ID,
			Meals: []models.MealInput{
				{Type: models.MealBreakfast, Ingredients: []string{"oats", "skimmed milk"}},
				{Type: models.MealLunch, Ingredients: []string{"brown rice", "dal", "salad"}},
				{Type: models.MealDinner, Ingredients: []string{"chapati", "vegetable curry"}, SpecialInstructions: "low salt"},
			},
			DietaryRestrictions: demo[i].Diseases,
		}, manager)
		if err != nil {
			log.Fatalf("Failed to create diet chart: %v\n", err)
		}
	}
	fmt.Println("  - Created demo patients and charts")

	fmt.Println()
	fmt.Println("Database reset successful!")
	fmt.Println()
	fmt.Println("Accounts (password: " + demoPassword + "):")
	for _, a := range accounts {
		fmt.Printf("  %-9s %s\n", a.Role, a.Email)
	}
}
