package health

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db    Pinger
	redis func(ctx context.Context) error
}

type HealthStatus struct {
	Status   string          `json:"status"`
	Database ComponentHealth `json:"database"`
	Redis    ComponentHealth `json:"redis"`
	Host     *HostStats      `json:"host,omitempty"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	DiskPercent   float64 `json:"disk_percent"`
}

// NewHealthChecker builds a checker. db is nil for the in-memory driver and
// redis is nil when no cache is configured; both then report "disabled".
func NewHealthChecker(db Pinger, redis func(ctx context.Context) error) *HealthChecker {
	return &HealthChecker{db: db, redis: redis}
}

// CheckBasic pings the database and Redis. Only the database decides overall
// health; the cache is optional.
func (h *HealthChecker) CheckBasic() HealthStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var dbPing func(context.Context) error
	if h.db != nil {
		dbPing = h.db.Ping
	}
	dbHealth := check(ctx, dbPing)

	status := "healthy"
	if dbHealth.Status == "unhealthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Redis:    check(ctx, h.redis),
	}
}

// CheckDetailed adds host CPU, memory and disk usage.
func (h *HealthChecker) CheckDetailed() HealthStatus {
	status := h.CheckBasic()
	host := &HostStats{}
	if cpuPercents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(cpuPercents) > 0 {
		host.CPUPercent = cpuPercents[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil {
		host.MemoryPercent = memStats.UsedPercent
		host.MemoryUsedMB = memStats.Used / 1024 / 1024
	}
	if diskStats, err := disk.Usage("/"); err == nil {
		host.DiskPercent = diskStats.UsedPercent
	}
	status.Host = host
	return status
}

func check(ctx context.Context, ping func(context.Context) error) ComponentHealth {
	if ping == nil {
		return ComponentHealth{Status: "disabled"}
	}

	start := time.Now()
	err := ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
