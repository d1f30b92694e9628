package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"diet-backend/internal/auth"
	"diet-backend/internal/cache"
	"diet-backend/internal/config"
	"diet-backend/internal/database"
	"diet-backend/internal/db"
	"diet-backend/internal/handlers"
	"diet-backend/internal/health"
	h "diet-backend/internal/http"
	"diet-backend/internal/middleware"
	"diet-backend/internal/repositories"
	"diet-backend/internal/services"
	"diet-backend/internal/storage"
	"diet-backend/internal/timeutil"
	"diet-backend/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

// stores groups the persistence backends selected by storage.driver.
type stores struct {
	charts   repositories.DietChartStore
	patients repositories.PatientStore
	users    repositories.UserStore
	pool     *pgxpool.Pool
}

func openStores(ctx context.Context, cfg *config.Config, migrateOnly bool) (*stores, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Println("[Storage] Using in-memory store; data is lost on restart")
		mem := repositories.NewMemoryStore()
		return &stores{charts: mem.DietCharts(), patients: mem.Patients(), users: mem.Users()}, nil

	case "postgres", "":
		pool, err := db.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		migrator := database.NewMigratorWithFS(pool, migrations.FS, ".")
		if err := migrator.RunMigrations(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		if migrateOnly {
			return &stores{pool: pool}, nil
		}
		return &stores{
			charts:   repositories.NewDietChartRepository(pool),
			patients: repositories.NewPatientRepository(pool),
			users:    repositories.NewUserRepository(pool),
			pool:     pool,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	migrateOnly := flag.Bool("migrate", false, "Run database migrations and exit")
	flag.Parse()

	cfg := config.Load()
	if *port > 0 {
		cfg.Server.Port = *port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, *migrateOnly)
	if err != nil {
		log.Fatalf("[Storage] %v", err)
	}
	if st.pool != nil {
		defer st.pool.Close()
	}
	if *migrateOnly {
		log.Println("[Migrations] Done")
		return
	}

	// Redis is optional: without it stats and logins are computed directly
	var redisPing func(context.Context) error
	if cfg.Redis.Host != "" {
		if err := cache.Init(cache.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}); err != nil {
			log.Printf("[Redis] Not available, caching disabled: %v", err)
		} else {
			log.Printf("[Redis] Connected to %s:%d", cfg.Redis.Host, cfg.Redis.Port)
			redisPing = cache.Ping
			defer cache.Close()
		}
	}

	clock := timeutil.NewClock(cfg.Service.Timezone)
	jwtManager := auth.NewJWTManager(cfg.JWT)

	var archive services.ReportArchiver
	reportArchive, err := storage.NewReportArchive(ctx, cfg.Reports)
	if err != nil {
		log.Printf("[Reports] Archive disabled: %v", err)
	} else if reportArchive != nil {
		archive = reportArchive
	}

	var dbPinger health.Pinger
	if st.pool != nil {
		dbPinger = st.pool
	}
	healthChecker := health.NewHealthChecker(dbPinger, redisPing)

	// Services
	userService := services.NewUserService(st.users, jwtManager)
	patientService := services.NewPatientService(st.patients)
	dietChartService := services.NewDietChartService(st.charts, st.patients, clock)
	mealWorkflowService := services.NewMealWorkflowService(st.charts, clock)
	taskService := services.NewTaskService(st.charts, clock)
	reportService := services.NewReportService(st.charts, st.users, clock, archive)

	router := h.NewRouter(h.Handlers{
		Auth:      handlers.NewAuthHandler(userService),
		Patient:   handlers.NewPatientHandler(patientService),
		DietChart: handlers.NewDietChartHandler(dietChartService, mealWorkflowService),
		Task:      handlers.NewTaskHandler(taskService),
		User:      handlers.NewUserHandler(userService),
		Report:    handlers.NewReportHandler(reportService),
		Health:    handlers.NewHealthHandler(healthChecker),
	}, middleware.NewAuthMiddleware(jwtManager, st.users))

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.APILogging(corsMiddleware(router)))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server running on %s (storage=%s, timezone=%s)",
			srv.Addr, cfg.Storage.Driver, clock.Location())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
