package service

import (
	"context"

	"github.com/gccheapcars/rental-api/internal/repository"
)

// ReportService exposes dashboard statistics and business reports. The heavy
// lifting is SQL aggregates in the repository; this layer exists so the
// handler depends on the same service-shaped seam as everything else.
type ReportService struct {
	stats repository.StatsRepository
}

// NewReportService creates a ReportService.
func NewReportService(stats repository.StatsRepository) *ReportService {
	return &ReportService{stats: stats}
}

// Stats returns the admin dashboard headline numbers.
func (s *ReportService) Stats(ctx context.Context) (*repository.Stats, error) {
	return s.stats.Stats(ctx)
}

// Report returns the monthly business report figures.
func (s *ReportService) Report(ctx context.Context) (*repository.Report, error) {
	return s.stats.Report(ctx)
}
