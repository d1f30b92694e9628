package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"diet-backend/internal/handlers"
	"diet-backend/internal/middleware"
	"diet-backend/internal/workflow"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Patient   *handlers.PatientHandler
	DietChart *handlers.DietChartHandler
	Task      *handlers.TaskHandler
	User      *handlers.UserHandler
	Report    *handlers.ReportHandler
	Health    *handlers.HealthHandler
}

func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)
	capability := func(c workflow.Capability, f http.HandlerFunc) http.Handler {
		return middleware.RequireCapability(c)(f)
	}

	// Public API routes - Authentication
	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.HandleFunc("/register", h.Auth.Register).Methods("POST")
	authAPI.HandleFunc("/login", h.Auth.Login).Methods("POST")
	authAPI.Handle("/me", authMiddleware.Authenticate(http.HandlerFunc(h.Auth.Me))).Methods("GET")

	// Patients - any staff reads, managers write
	patientsAPI := r.PathPrefix("/api/patients").Subrouter()
	patientsAPI.Use(authMiddleware.Authenticate)
	patientsAPI.Handle("", capability(workflow.CapViewPatients, h.Patient.ListPatients)).Methods("GET")
	patientsAPI.Handle("/active", capability(workflow.CapViewPatients, h.Patient.ListActivePatients)).Methods("GET")
	patientsAPI.Handle("/{id}", capability(workflow.CapViewPatients, h.Patient.GetPatient)).Methods("GET")
	patientsAPI.Handle("", capability(workflow.CapManagePatients, h.Patient.CreatePatient)).Methods("POST")
	patientsAPI.Handle("/{id}", capability(workflow.CapManagePatients, h.Patient.UpdatePatient)).Methods("PATCH", "PUT")
	patientsAPI.Handle("/{id}", capability(workflow.CapManagePatients, h.Patient.DeletePatient)).Methods("DELETE")

	// Diet charts - reads are role-scoped in the service
	chartsAPI := r.PathPrefix("/api/diet-charts").Subrouter()
	chartsAPI.Use(authMiddleware.Authenticate)
	chartsAPI.HandleFunc("", h.DietChart.ListCharts).Methods("GET")
	chartsAPI.HandleFunc("/active", h.DietChart.ActiveCharts).Methods("GET")
	chartsAPI.HandleFunc("/{id}", h.DietChart.GetChart).Methods("GET")
	chartsAPI.Handle("", capability(workflow.CapManageCharts, h.DietChart.CreateChart)).Methods("POST")
	chartsAPI.Handle("/{id}", capability(workflow.CapManageCharts, h.DietChart.UpdateChart)).Methods("PATCH", "PUT")
	chartsAPI.Handle("/{id}", capability(workflow.CapManageCharts, h.DietChart.DeleteChart)).Methods("DELETE")
	chartsAPI.HandleFunc("/{id}/meals/{mealId}", h.DietChart.UpdateMealStatus).Methods("PATCH")

	// Task queues and history
	tasksAPI := r.PathPrefix("/api/tasks").Subrouter()
	tasksAPI.Use(authMiddleware.Authenticate)
	tasksAPI.Handle("/pantry", capability(workflow.CapViewPantryQueue, h.Task.PantryQueue)).Methods("GET")
	tasksAPI.Handle("/pantry/completed", capability(workflow.CapViewPantryHistory, h.Task.PantryCompleted)).Methods("GET")
	tasksAPI.Handle("/delivery", capability(workflow.CapViewDeliveryQueue, h.Task.DeliveryQueue)).Methods("GET")
	tasksAPI.Handle("/delivery/completed", capability(workflow.CapViewDeliveryHistory, h.Task.DeliveryCompleted)).Methods("GET")
	tasksAPI.Handle("/stats", capability(workflow.CapViewStats, h.Task.Stats)).Methods("GET")

	// Staff directory - manager only
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.Use(middleware.RequireCapability(workflow.CapViewStaff))
	usersAPI.HandleFunc("", h.User.ListUsers).Methods("GET")
	usersAPI.HandleFunc("/{id}", h.User.GetUser).Methods("GET")

	// Reports - manager only
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.Use(middleware.RequireCapability(workflow.CapReports))
	reportsAPI.HandleFunc("/daily", h.Report.DailyPDF).Methods("GET")
	reportsAPI.HandleFunc("/daily/archive", h.Report.ArchiveDaily).Methods("POST")

	// Health checks (no auth)
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods("GET")

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	return r
}
