package repository

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sman1la/tatib-bot/internal/models"
)

// InfractionLogRepository manages the append-only infraction log. Rows are
// never updated or deleted; the column order of the append statement is
// fixed for compatibility with the existing log rows.
type InfractionLogRepository struct {
	db       *sqlx.DB
	validate *validator.Validate
	logger   *zap.Logger
}

// NewInfractionLogRepository constructs the repository.
func NewInfractionLogRepository(db *sqlx.DB, validate *validator.Validate, logger *zap.Logger) *InfractionLogRepository {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InfractionLogRepository{db: db, validate: validate, logger: logger}
}

// ListByStudent returns all records for one student in append order.
func (r *InfractionLogRepository) ListByStudent(ctx context.Context, nis string) ([]models.InfractionRecord, error) {
	const query = `SELECT date, time, nis, student_name, class_label, code, description, points, evidence_link, officer
FROM infraction_log WHERE nis = $1 ORDER BY id ASC`
	var records []models.InfractionRecord
	if err := r.db.SelectContext(ctx, &records, query, nis); err != nil {
		return nil, fmt.Errorf("list infraction records: %w", err)
	}
	return validRows(r.validate, r.logger, "infraction_log", records), nil
}

// Append inserts one new record.
func (r *InfractionLogRepository) Append(ctx context.Context, record *models.InfractionRecord) error {
	if err := r.validate.Struct(record); err != nil {
		return fmt.Errorf("validate infraction record: %w", err)
	}
	const query = `INSERT INTO infraction_log (date, time, nis, student_name, class_label, code, description, points, evidence_link, officer)
VALUES (:date, :time, :nis, :student_name, :class_label, :code, :description, :points, :evidence_link, :officer)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("append infraction record: %w", err)
	}
	return nil
}

// TotalPoints sums the point values across all records of one student.
func (r *InfractionLogRepository) TotalPoints(ctx context.Context, nis string) (int, error) {
	const query = `SELECT COALESCE(SUM(points), 0) FROM infraction_log WHERE nis = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, nis); err != nil {
		return 0, fmt.Errorf("total points: %w", err)
	}
	return total, nil
}
