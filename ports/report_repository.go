package ports

import (
	"context"

	"github.com/google/uuid"

	"labfit/models"
)

// ReportRepository persists fit reports. Implementations: postgres for the
// service, an in-memory map in testkit.
type ReportRepository interface {
	SaveReport(ctx context.Context, report *models.FitReport) error
	GetReport(ctx context.Context, id uuid.UUID) (*models.FitReport, error)
	ListReports(ctx context.Context, limit int) ([]*models.FitReport, error)
}
