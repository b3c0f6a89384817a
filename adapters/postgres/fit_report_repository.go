package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"labfit/internal/errors"
	"labfit/models"
)

// FitReportRepository persists fit reports in PostgreSQL. Numeric vectors and
// derived summaries are stored as JSONB; the schema stays flat otherwise.
type FitReportRepository struct {
	db *sqlx.DB
}

// NewFitReportRepository creates a new fit report repository
func NewFitReportRepository(db *sqlx.DB) *FitReportRepository {
	return &FitReportRepository{db: db}
}

// EnsureSchema creates the fit_reports table if it does not exist
func (r *FitReportRepository) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS fit_reports (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			dataset_label TEXT NOT NULL,
			model_name TEXT NOT NULL,
			observations INTEGER NOT NULL,
			params JSONB NOT NULL,
			std_errs JSONB NOT NULL,
			covariance JSONB NOT NULL,
			reduced_chi_square DOUBLE PRECISION NOT NULL,
			tail_probability DOUBLE PRECISION NOT NULL,
			derived JSONB NOT NULL DEFAULT '[]'
		)`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create fit_reports table")
	}
	return nil
}

type fitReportRow struct {
	ID               uuid.UUID `db:"id"`
	CreatedAt        time.Time `db:"created_at"`
	DatasetLabel     string    `db:"dataset_label"`
	ModelName        string    `db:"model_name"`
	Observations     int       `db:"observations"`
	Params           []byte    `db:"params"`
	StdErrs          []byte    `db:"std_errs"`
	Covariance       []byte    `db:"covariance"`
	ReducedChiSquare float64   `db:"reduced_chi_square"`
	TailProbability  float64   `db:"tail_probability"`
	Derived          []byte    `db:"derived"`
}

// SaveReport inserts a fit report
func (r *FitReportRepository) SaveReport(ctx context.Context, report *models.FitReport) error {
	params, err := json.Marshal(report.Params)
	if err != nil {
		return errors.Wrap(err, "failed to marshal params")
	}
	stdErrs, err := json.Marshal(report.StdErrs)
	if err != nil {
		return errors.Wrap(err, "failed to marshal std errors")
	}
	covariance, err := json.Marshal(report.Covariance)
	if err != nil {
		return errors.Wrap(err, "failed to marshal covariance")
	}
	derived, err := json.Marshal(report.Derived)
	if err != nil {
		return errors.Wrap(err, "failed to marshal derived summaries")
	}

	query := `
		INSERT INTO fit_reports (
			id, created_at, dataset_label, model_name, observations,
			params, std_errs, covariance, reduced_chi_square, tail_probability, derived
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.ExecContext(ctx, query,
		report.ID,
		report.CreatedAt,
		report.DatasetLabel,
		report.ModelName,
		report.Observations,
		params,
		stdErrs,
		covariance,
		report.ReducedChiSquare,
		report.TailProbability,
		derived,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert fit report")
	}
	return nil
}

// GetReport fetches one fit report by ID
func (r *FitReportRepository) GetReport(ctx context.Context, id uuid.UUID) (*models.FitReport, error) {
	query := `
		SELECT id, created_at, dataset_label, model_name, observations,
			   params, std_errs, covariance, reduced_chi_square, tail_probability, derived
		FROM fit_reports WHERE id = $1`

	var row fitReportRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("fit report")
		}
		return nil, errors.Wrap(err, "failed to query fit report")
	}
	return row.toReport()
}

// ListReports returns the most recent fit reports, newest first
func (r *FitReportRepository) ListReports(ctx context.Context, limit int) ([]*models.FitReport, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, created_at, dataset_label, model_name, observations,
			   params, std_errs, covariance, reduced_chi_square, tail_probability, derived
		FROM fit_reports ORDER BY created_at DESC LIMIT $1`

	var rows []fitReportRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, errors.Wrap(err, "failed to list fit reports")
	}

	reports := make([]*models.FitReport, 0, len(rows))
	for _, row := range rows {
		report, err := row.toReport()
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (row fitReportRow) toReport() (*models.FitReport, error) {
	report := &models.FitReport{
		ID:               row.ID,
		CreatedAt:        row.CreatedAt,
		DatasetLabel:     row.DatasetLabel,
		ModelName:        row.ModelName,
		Observations:     row.Observations,
		ReducedChiSquare: row.ReducedChiSquare,
		TailProbability:  row.TailProbability,
	}
	if err := json.Unmarshal(row.Params, &report.Params); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal params")
	}
	if err := json.Unmarshal(row.StdErrs, &report.StdErrs); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal std errors")
	}
	if err := json.Unmarshal(row.Covariance, &report.Covariance); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal covariance")
	}
	if err := json.Unmarshal(row.Derived, &report.Derived); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal derived summaries")
	}
	return report, nil
}
