package models

import "strings"

// Student is a read-only roster row maintained by an external roster
// process. NIS is the unique student identifier.
type Student struct {
	NIS        string `db:"nis" json:"nis" validate:"required"`
	FullName   string `db:"full_name" json:"full_name" validate:"required"`
	ClassLabel string `db:"class_label" json:"class_label" validate:"required"`
}

// Tier derives the grade tier from the class label ("XI-4" -> "XI").
func (s Student) Tier() string {
	if idx := strings.Index(s.ClassLabel, "-"); idx > 0 {
		return s.ClassLabel[:idx]
	}
	return s.ClassLabel
}
