package models

import "time"

const (
	CommissionJobPending = "Pending"
	CommissionJobDone    = "Done"
	CommissionJobFailed  = "Failed"
)

// CommissionJob is the durable record of a pending commission fan-out. It is
// inserted in the same transaction that commits new capital, so a crash
// between the capital commit and the fan-out leaves a re-runnable row behind.
type CommissionJob struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	InvestmentID uint       `gorm:"not null;index" json:"investment_id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	Amount       float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status       string     `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	Attempts     int        `gorm:"default:0" json:"attempts"`
	LastError    *string    `gorm:"column:last_error;type:text" json:"last_error,omitempty"`
	ProcessedAt  *time.Time `gorm:"column:processed_at" json:"processed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (CommissionJob) TableName() string {
	return "commission_jobs"
}
