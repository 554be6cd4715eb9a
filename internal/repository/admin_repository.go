package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/sman1la/tatib-bot/internal/models"
)

// AdminRepository reads the static admin allow-list.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs the repository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindActive fetches the active allow-list entry for a platform user id.
// Returns sql.ErrNoRows when the user is absent or inactive.
func (r *AdminRepository) FindActive(ctx context.Context, telegramID int64) (*models.AdminEntry, error) {
	const query = `SELECT telegram_id, full_name, active FROM admin_allowlist WHERE telegram_id = $1 AND active = true`
	var entry models.AdminEntry
	if err := r.db.GetContext(ctx, &entry, query, telegramID); err != nil {
		return nil, err
	}
	return &entry, nil
}
