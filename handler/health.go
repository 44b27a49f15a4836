package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"syscall"
	"time"

	"github.com/btwlouis/laravel-paypal/infra/config"
	"github.com/btwlouis/laravel-paypal/infra/opensearch"
	"github.com/btwlouis/laravel-paypal/infra/response"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	storage     *config.SQLiteStorage
	auditLogger *opensearch.Logger
	accounts    *config.AccountConfig
	startTime   time.Time
}

// HealthStatus represents overall system health
type HealthStatus struct {
	Status      string                    `json:"status"`
	Version     string                    `json:"version"`
	Timestamp   time.Time                 `json:"timestamp"`
	Uptime      string                    `json:"uptime"`
	Environment string                    `json:"environment"`
	Storage     *StorageHealth            `json:"storage"`
	System      *SystemHealth             `json:"system"`
	Services    map[string]*ServiceHealth `json:"services"`
}

// StorageHealth represents credential store health status
type StorageHealth struct {
	Status        string        `json:"status"`
	Connected     bool          `json:"connected"`
	ResponseTime  time.Duration `json:"response_time_ms"`
	TotalAccounts int           `json:"total_accounts"`
	SizeBytes     int64         `json:"size_bytes,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// SystemHealth represents system resource health
type SystemHealth struct {
	Memory     *MemoryHealth `json:"memory"`
	Disk       *DiskHealth   `json:"disk"`
	GoRoutines int           `json:"goroutines"`
	CGoCalls   int64         `json:"cgo_calls"`
}

// MemoryHealth represents memory usage
type MemoryHealth struct {
	Alloc        string  `json:"alloc"`
	TotalAlloc   string  `json:"total_alloc"`
	Sys          string  `json:"sys"`
	GCRuns       uint32  `json:"gc_runs"`
	UsagePercent float64 `json:"usage_percent"`
}

// DiskHealth represents disk usage
type DiskHealth struct {
	Available    string  `json:"available"`
	Used         string  `json:"used"`
	Total        string  `json:"total"`
	UsagePercent float64 `json:"usage_percent"`
	Status       string  `json:"status"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status      string `json:"status"`
	Healthy     bool   `json:"healthy"`
	LastCheck   string `json:"last_check"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage *config.SQLiteStorage, auditLogger *opensearch.Logger, accounts *config.AccountConfig) *HealthHandler {
	return &HealthHandler{
		storage:     storage,
		auditLogger: auditLogger,
		accounts:    accounts,
		startTime:   time.Now(),
	}
}

// CheckHealth performs comprehensive health checks
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	health := &HealthStatus{
		Version:     "1.0.0",
		Timestamp:   time.Now().UTC(),
		Uptime:      time.Since(h.startTime).String(),
		Environment: getEnvironment(),
		Storage:     h.checkStorageHealth(ctx),
		System:      h.checkSystemHealth(),
		Services:    h.checkServicesHealth(),
	}

	// Determine overall status
	health.Status = h.determineOverallStatus(health)

	// Set appropriate HTTP status code
	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	_ = response.WriteJSON(w, statusCode, response.Response{
		Success: health.Status != "unhealthy",
		Message: fmt.Sprintf("Service is %s", health.Status),
		Data:    health,
	})
}

// checkStorageHealth checks SQLite credential store health
func (h *HealthHandler) checkStorageHealth(ctx context.Context) *StorageHealth {
	storageHealth := &StorageHealth{
		Status:    "unknown",
		Connected: false,
	}

	if h.storage == nil {
		storageHealth.Status = "not_configured"
		storageHealth.Error = "Credential store not configured"
		return storageHealth
	}

	start := time.Now()

	// Test connection with ping
	if err := h.storage.Ping(ctx); err != nil {
		storageHealth.Status = "unhealthy"
		storageHealth.Error = err.Error()
		storageHealth.ResponseTime = time.Since(start)
		return storageHealth
	}

	storageHealth.Connected = true
	storageHealth.ResponseTime = time.Since(start)

	// Get store stats
	if stats, err := h.storage.GetStats(); err == nil {
		if total, ok := stats["total_accounts"].(int); ok {
			storageHealth.TotalAccounts = total
		}
		if size, ok := stats["db_size_bytes"].(int64); ok {
			storageHealth.SizeBytes = size
		}
	}

	if storageHealth.ResponseTime > time.Second {
		storageHealth.Status = "degraded"
	} else {
		storageHealth.Status = "healthy"
	}

	return storageHealth
}

// checkSystemHealth checks system resource health
func (h *HealthHandler) checkSystemHealth() *SystemHealth {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// Get disk usage
	diskHealth := h.getDiskUsage()

	return &SystemHealth{
		Memory: &MemoryHealth{
			Alloc:        formatBytes(memStats.Alloc),
			TotalAlloc:   formatBytes(memStats.TotalAlloc),
			Sys:          formatBytes(memStats.Sys),
			GCRuns:       memStats.NumGC,
			UsagePercent: calculateMemoryUsagePercent(memStats),
		},
		Disk:       diskHealth,
		GoRoutines: runtime.NumGoroutine(),
		CGoCalls:   runtime.NumCgoCall(),
	}
}

// checkServicesHealth checks individual service health
func (h *HealthHandler) checkServicesHealth() map[string]*ServiceHealth {
	services := make(map[string]*ServiceHealth)
	now := time.Now().UTC().Format(time.RFC3339)

	// Check OpenSearch audit logger
	services["audit_logger"] = &ServiceHealth{
		LastCheck: now,
	}

	if h.auditLogger != nil {
		services["audit_logger"].Status = "healthy"
		services["audit_logger"].Healthy = true
		services["audit_logger"].Description = "Audit logging to OpenSearch"
	} else {
		services["audit_logger"].Status = "not_configured"
		services["audit_logger"].Healthy = false
		services["audit_logger"].Description = "OpenSearch audit logging not configured"
	}

	// Check account configuration manager
	services["account_config"] = &ServiceHealth{
		LastCheck: now,
	}

	if h.accounts != nil {
		services["account_config"].Status = "healthy"
		services["account_config"].Healthy = true
		services["account_config"].Description = "Account credential configuration service"
	} else {
		services["account_config"].Status = "unhealthy"
		services["account_config"].Healthy = false
		services["account_config"].Error = "Account config service not initialized"
	}

	// Report registered credential sources
	services["credential_sources"] = &ServiceHealth{
		LastCheck:   now,
		Status:      "healthy",
		Healthy:     true,
		Description: fmt.Sprintf("Registered sources: %v", config.GetSourceNames()),
	}

	return services
}

// determineOverallStatus determines overall system status
func (h *HealthHandler) determineOverallStatus(health *HealthStatus) string {
	// The credential store is the one hard dependency
	if health.Storage != nil && health.Storage.Status == "unhealthy" {
		return "unhealthy"
	}

	if service, exists := health.Services["account_config"]; exists && !service.Healthy {
		return "unhealthy"
	}

	// Check system resources
	if health.System != nil {
		if health.System.Memory.UsagePercent > 90 {
			return "degraded"
		}
		if health.System.Disk != nil && health.System.Disk.UsagePercent > 90 {
			return "degraded"
		}
	}

	// Check store performance
	if health.Storage != nil && health.Storage.Status == "degraded" {
		return "degraded"
	}

	return "healthy"
}

// Helper functions

func getEnvironment() string {
	if env := config.GetEnv("ENVIRONMENT", ""); env != "" {
		return env
	}
	if env := config.GetEnv("ENV", ""); env != "" {
		return env
	}
	return "development"
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func calculateMemoryUsagePercent(memStats runtime.MemStats) float64 {
	// Simplified: allocation share of OS-reserved memory
	return (float64(memStats.Alloc) / float64(memStats.Sys)) * 100
}

func (h *HealthHandler) getDiskUsage() *DiskHealth {
	var stat syscall.Statfs_t
	wd := "/"

	disk := &DiskHealth{
		Status: "unknown",
	}

	if err := syscall.Statfs(wd, &stat); err != nil {
		disk.Status = "error"
		return disk
	}

	// Available space
	available := stat.Bavail * uint64(stat.Bsize)
	// Total space
	total := stat.Blocks * uint64(stat.Bsize)
	// Used space
	used := total - (stat.Bfree * uint64(stat.Bsize))

	disk.Available = formatBytes(available)
	disk.Total = formatBytes(total)
	disk.Used = formatBytes(used)
	disk.UsagePercent = (float64(used) / float64(total)) * 100

	if disk.UsagePercent > 90 {
		disk.Status = "critical"
	} else if disk.UsagePercent > 80 {
		disk.Status = "warning"
	} else {
		disk.Status = "healthy"
	}

	return disk
}
