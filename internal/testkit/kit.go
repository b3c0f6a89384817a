// Package testkit provides in-memory infrastructure and fixtures for tests.
package testkit

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"labfit/internal/errors"
	"labfit/models"
)

// InMemoryReportRepository implements ports.ReportRepository over a mutex map
type InMemoryReportRepository struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*models.FitReport
}

// NewInMemoryReportRepository creates an empty in-memory repository
func NewInMemoryReportRepository() *InMemoryReportRepository {
	return &InMemoryReportRepository{reports: make(map[uuid.UUID]*models.FitReport)}
}

// SaveReport stores a fit report
func (r *InMemoryReportRepository) SaveReport(_ context.Context, report *models.FitReport) error {
	if report == nil {
		return errors.InvalidInput("report is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID] = report
	return nil
}

// GetReport fetches one fit report by ID
func (r *InMemoryReportRepository) GetReport(_ context.Context, id uuid.UUID) (*models.FitReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, errors.NotFound("fit report")
	}
	return report, nil
}

// ListReports returns stored reports, newest first
func (r *InMemoryReportRepository) ListReports(_ context.Context, limit int) ([]*models.FitReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reports := make([]*models.FitReport, 0, len(r.reports))
	for _, report := range r.reports {
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

// Count returns the number of stored reports
func (r *InMemoryReportRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.reports)
}
