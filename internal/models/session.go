package models

import "time"

// Stage identifies the wizard state a session is in.
type Stage string

const (
	StageIdle             Stage = "idle"
	StageSelectTier       Stage = "select_tier"
	StageSelectClass      Stage = "select_class"
	StageSelectStudent    Stage = "select_student"
	StageSelectInfraction Stage = "select_infraction"
	StageDuplicateConfirm Stage = "duplicate_confirm"
	StageAwaitEvidence    Stage = "await_evidence"
	StageAwaitLookupID    Stage = "await_lookup_id"
	StageAwaitExportID    Stage = "await_export_id"
)

// Session holds the transient per-user wizard state. It lives in the
// session store only; it is never persisted to the record store and is
// lost on restart.
type Session struct {
	UserID     int64           `json:"user_id"`
	Stage      Stage           `json:"stage"`
	AdminName  string          `json:"admin_name,omitempty"`
	Tier       string          `json:"tier,omitempty"`
	ClassLabel string          `json:"class_label,omitempty"`
	Student    *Student        `json:"student,omitempty"`
	Infraction *InfractionType `json:"infraction,omitempty"`
	PriorTime  string          `json:"prior_time,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
