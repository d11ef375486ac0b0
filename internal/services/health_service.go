package services

import (
	"context"
	"math"
	"time"

	"github.com/redis/rueidis"
	"gorm.io/gorm"

	dto "todo-api.com/todo-api/internal/data_models"
	apperrors "todo-api.com/todo-api/internal/errors"
	repository "todo-api.com/todo-api/internal/repositories"
)

const defaultCleanupAgeDays = 30

type HealthService struct {
	db         *gorm.DB
	cache      rueidis.Client
	repo       *repository.TaskRepository
	production bool
	startedAt  time.Time
}

func NewHealthService(db *gorm.DB, cache rueidis.Client, repo *repository.TaskRepository, production bool) *HealthService {
	return &HealthService{
		db:         db,
		cache:      cache,
		repo:       repo,
		production: production,
		startedAt:  time.Now().UTC(),
	}
}

func (s *HealthService) Basic() map[string]interface{} {
	return map[string]interface{}{
		"status":        "ok",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"uptimeSeconds": int64(time.Since(s.startedAt).Seconds()),
	}
}

// Detailed reports database and cache connectivity plus task statistics.
// A failing dependency degrades the status instead of failing the
// request; whatever data is available is still returned.
func (s *HealthService) Detailed(ctx context.Context) map[string]interface{} {
	status := "ok"

	database := s.Database(ctx)
	if database["status"] != "up" {
		status = "degraded"
	}

	cache := s.pingCache(ctx)
	if cache["status"] == "down" {
		status = "degraded"
	}

	report := map[string]interface{}{
		"status":        status,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"uptimeSeconds": int64(time.Since(s.startedAt).Seconds()),
		"database":      database,
		"cache":         cache,
	}

	if stats, err := s.Stats(ctx); err == nil {
		report["stats"] = stats
	} else {
		report["status"] = "degraded"
	}

	return report
}

// Database reports store connectivity, ping latency and connection pool
// usage.
func (s *HealthService) Database(ctx context.Context) map[string]interface{} {
	sqlDB, err := s.db.DB()
	if err != nil {
		return map[string]interface{}{"status": "down", "error": "connection handle unavailable"}
	}

	start := time.Now()
	if err := sqlDB.PingContext(ctx); err != nil {
		return map[string]interface{}{"status": "down", "error": "ping failed"}
	}
	latency := time.Since(start)

	poolStats := sqlDB.Stats()
	return map[string]interface{}{
		"status":    "up",
		"latencyMs": latency.Milliseconds(),
		"pool": map[string]interface{}{
			"open":    poolStats.OpenConnections,
			"inUse":   poolStats.InUse,
			"idle":    poolStats.Idle,
			"maxOpen": poolStats.MaxOpenConnections,
		},
	}
}

func (s *HealthService) pingCache(ctx context.Context) map[string]interface{} {
	if s.cache == nil {
		return map[string]interface{}{"status": "not_configured"}
	}

	start := time.Now()
	if err := s.cache.Do(ctx, s.cache.B().Ping().Build()).Error(); err != nil {
		return map[string]interface{}{"status": "down", "error": "ping failed"}
	}
	return map[string]interface{}{
		"status":    "up",
		"latencyMs": time.Since(start).Milliseconds(),
	}
}

func (s *HealthService) Stats(ctx context.Context) (*dto.TaskStats, error) {
	counts, err := s.repo.Counts(ctx, time.Now().UTC())
	if err != nil {
		return nil, apperrors.Normalize(err)
	}

	rate := 0
	if counts.Total > 0 {
		rate = int(math.Round(float64(counts.Completed) / float64(counts.Total) * 100))
	}

	return &dto.TaskStats{
		Total:            counts.Total,
		Completed:        counts.Completed,
		Pending:          counts.Total - counts.Completed,
		Overdue:          counts.Overdue,
		CompletionRate:   rate,
		ByPriority:       counts.ByPriority,
		CreatedLast7Days: counts.CreatedLast7Days,
	}, nil
}

// Cleanup purges soft-deleted tasks older than the given age. Refused
// outright in production deployments.
func (s *HealthService) Cleanup(ctx context.Context, olderThanDays int) (*dto.CleanupResult, error) {
	if s.production {
		return nil, apperrors.ErrMaintenanceForbidden
	}
	if olderThanDays <= 0 {
		olderThanDays = defaultCleanupAgeDays
	}

	removed, cutoff, err := s.repo.Cleanup(ctx, olderThanDays)
	if err != nil {
		return nil, apperrors.Normalize(err)
	}

	return &dto.CleanupResult{
		RemovedCount:  removed,
		OlderThanDays: olderThanDays,
		Cutoff:        cutoff.Format(time.RFC3339),
	}, nil
}
