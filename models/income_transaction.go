package models

import "time"

const (
	IncomeDailyROI    = "daily_roi"
	IncomeReferral    = "referral"
	IncomeTeam        = "team_income"
	IncomeBonus       = "bonus"
	IncomeCompounding = "compounding"
	IncomeWeeklyTrade = "weekly_trade"
)

// IncomeTransaction is the immutable income ledger. One row is created per
// credited event and never mutated afterwards; the wallet snapshots exist for
// audit independent of the users table.
type IncomeTransaction struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserID              uint      `gorm:"not null;index" json:"user_id"`
	IncomeType          string    `gorm:"column:income_type;size:30;not null;index" json:"income_type"`
	Amount              float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	EarningWalletBefore float64   `gorm:"column:earning_wallet_before;type:decimal(15,2);not null" json:"earning_wallet_before"`
	EarningWalletAfter  float64   `gorm:"column:earning_wallet_after;type:decimal(15,2);not null" json:"earning_wallet_after"`
	Level               *int      `gorm:"column:level" json:"level,omitempty"`
	InvestmentID        *uint     `gorm:"column:investment_id;index" json:"investment_id,omitempty"`
	ReferenceID         *uint     `gorm:"column:reference_id" json:"reference_id,omitempty"`
	OrderID             string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	Message             *string   `gorm:"type:text" json:"message,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

func (IncomeTransaction) TableName() string {
	return "income_transactions"
}
