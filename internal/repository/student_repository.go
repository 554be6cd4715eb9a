package repository

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sman1la/tatib-bot/internal/models"
)

// StudentRepository reads the roster table. The roster is maintained by an
// external process; this system never writes to it.
type StudentRepository struct {
	db       *sqlx.DB
	validate *validator.Validate
	logger   *zap.Logger
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB, validate *validator.Validate, logger *zap.Logger) *StudentRepository {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentRepository{db: db, validate: validate, logger: logger}
}

// ListByClass returns the students of one class ordered by name.
func (r *StudentRepository) ListByClass(ctx context.Context, classLabel string) ([]models.Student, error) {
	const query = `SELECT nis, full_name, class_label FROM students WHERE class_label = $1 ORDER BY full_name ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, classLabel); err != nil {
		return nil, fmt.Errorf("list students by class: %w", err)
	}
	return validRows(r.validate, r.logger, "students", students), nil
}

// FindByNIS fetches a single student. Returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByNIS(ctx context.Context, nis string) (*models.Student, error) {
	const query = `SELECT nis, full_name, class_label FROM students WHERE nis = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, nis); err != nil {
		return nil, err
	}
	return &student, nil
}
