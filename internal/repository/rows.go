package repository

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// validRows drops rows that fail struct validation instead of letting
// half-empty reference data flow into the wizard. Dropped rows are logged
// so the roster maintainers can repair them.
func validRows[T any](validate *validator.Validate, logger *zap.Logger, table string, rows []T) []T {
	if validate == nil {
		return rows
	}
	kept := rows[:0]
	for _, row := range rows {
		if err := validate.Struct(row); err != nil {
			if logger != nil {
				logger.Warn("dropping invalid row", zap.String("table", table), zap.Error(err))
			}
			continue
		}
		kept = append(kept, row)
	}
	return kept
}
