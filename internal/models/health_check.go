package models

import "gorm.io/gorm"

// HealthCheck is an append-only snapshot of one monitor run.
type HealthCheck struct {
	gorm.Model

	// Score is 100, 66, 33 or 0 depending on how many sub-checks passed.
	Score int `gorm:"not null" json:"score"`

	MessageFlowOK bool   `json:"message_flow_ok"`
	RecentCount   int64  `json:"recent_count"`
	BotOK         bool   `json:"bot_ok"`
	DatabaseOK    bool   `json:"database_ok"`
	Error         string `gorm:"type:text" json:"error,omitempty"`

	// Recovery describes the single best-effort recovery attempt, if any.
	Recovery string `json:"recovery,omitempty"`
	// Notified marks whether an alert email went out for this snapshot.
	Notified bool `json:"notified"`
}

func (HealthCheck) TableName() string {
	return "health_checks"
}

// BotRun is an append-only snapshot of one ingestion batch's outcome.
type BotRun struct {
	gorm.Model

	RunID       string  `gorm:"uniqueIndex;not null" json:"run_id"`
	Found       int     `json:"found"`
	Processed   int     `json:"processed"`
	SuccessRate float64 `json:"success_rate"`
	Error       string  `gorm:"type:text" json:"error,omitempty"`
}

func (BotRun) TableName() string {
	return "bot_runs"
}
