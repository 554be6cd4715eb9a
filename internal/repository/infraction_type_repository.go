package repository

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sman1la/tatib-bot/internal/models"
)

// InfractionTypeRepository reads the read-only infraction catalog.
type InfractionTypeRepository struct {
	db       *sqlx.DB
	validate *validator.Validate
	logger   *zap.Logger
}

// NewInfractionTypeRepository constructs the repository.
func NewInfractionTypeRepository(db *sqlx.DB, validate *validator.Validate, logger *zap.Logger) *InfractionTypeRepository {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InfractionTypeRepository{db: db, validate: validate, logger: logger}
}

// ListAll returns the full catalog ordered by code.
func (r *InfractionTypeRepository) ListAll(ctx context.Context) ([]models.InfractionType, error) {
	const query = `SELECT code, description, points FROM infraction_types ORDER BY code ASC`
	var types []models.InfractionType
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("list infraction types: %w", err)
	}
	return validRows(r.validate, r.logger, "infraction_types", types), nil
}

// FindByCode fetches one catalog entry. Returns sql.ErrNoRows when absent.
func (r *InfractionTypeRepository) FindByCode(ctx context.Context, code string) (*models.InfractionType, error) {
	const query = `SELECT code, description, points FROM infraction_types WHERE code = $1`
	var typ models.InfractionType
	if err := r.db.GetContext(ctx, &typ, query, code); err != nil {
		return nil, err
	}
	return &typ, nil
}
