package models

// InfractionType is a read-only catalog row describing one kind of
// infraction and its point value.
type InfractionType struct {
	Code        string `db:"code" json:"code" validate:"required"`
	Description string `db:"description" json:"description" validate:"required"`
	Points      int    `db:"points" json:"points" validate:"gte=0"`
}

// InfractionRecord is one append-only row of the infraction log. Points and
// Description are snapshotted from the catalog at submission time and never
// change afterwards. Date holds the formatted local date (Indonesian month
// names, matching the existing log rows) and Time the "HH:MM" time of day;
// the duplicate guard compares these strings directly.
type InfractionRecord struct {
	Date         string `db:"date" json:"date"`
	Time         string `db:"time" json:"time"`
	NIS          string `db:"nis" json:"nis" validate:"required"`
	StudentName  string `db:"student_name" json:"student_name"`
	ClassLabel   string `db:"class_label" json:"class_label"`
	Code         string `db:"code" json:"code" validate:"required"`
	Description  string `db:"description" json:"description"`
	Points       int    `db:"points" json:"points" validate:"gte=0"`
	EvidenceLink string `db:"evidence_link" json:"evidence_link"`
	Officer      string `db:"officer" json:"officer"`
}

// StudentHistory bundles a lookup result: the student snapshot, the full
// ordered record list and the on-demand point total.
type StudentHistory struct {
	Student     Student
	Records     []InfractionRecord
	TotalPoints int
	Category    Category
}
