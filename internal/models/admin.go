package models

// AdminEntry is one row of the static allow-list that grants the
// record-infraction capability.
type AdminEntry struct {
	TelegramID int64  `db:"telegram_id" json:"telegram_id" validate:"required"`
	FullName   string `db:"full_name" json:"full_name" validate:"required"`
	Active     bool   `db:"active" json:"active"`
}
