package services

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/models/dto"
)

// AnalysisService builds the read-only overview of the process and the catalogue
type AnalysisService struct {
	stores    Stores
	startedAt time.Time
}

// NewAnalysisService creates the service; uptime counts from now
func NewAnalysisService(stores Stores) *AnalysisService {
	return &AnalysisService{
		stores:    stores,
		startedAt: time.Now(),
	}
}

// Overview collects runtime stats, entity totals and per-course counts
func (s *AnalysisService) Overview(ctx context.Context) (*dto.AnalysisResponse, error) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	report := &dto.AnalysisResponse{
		Runtime: dto.RuntimeStats{
			Goroutines:    runtime.NumGoroutine(),
			HeapAllocMB:   float64(mem.HeapAlloc) / (1 << 20),
			SysMB:         float64(mem.Sys) / (1 << 20),
			NumGC:         mem.NumGC,
			NumCPU:        runtime.NumCPU(),
			UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
			GoVersion:     runtime.Version(),
		},
	}

	var err error
	counters := []struct {
		name  string
		count func(context.Context) (int64, error)
		into  *int64
	}{
		{"departments", s.stores.Departments.Count, &report.Totals.Departments},
		{"courses", s.stores.Courses.Count, &report.Totals.Courses},
		{"instructors", s.stores.Instructors.Count, &report.Totals.Instructors},
		{"enrollments", s.stores.Enrollments.Count, &report.Totals.Enrollments},
	}
	for _, c := range counters {
		if *c.into, err = c.count(ctx); err != nil {
			return nil, fmt.Errorf("error counting %s: %w", c.name, err)
		}
	}
	if report.Totals.Students, err = s.stores.Users.CountByRole(ctx, models.RoleStudent); err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}

	if report.Courses, err = s.stores.Courses.Stats(ctx); err != nil {
		return nil, fmt.Errorf("error collecting course stats: %w", err)
	}
	return report, nil
}
