package models

import "time"

// InvestmentTopUp records capital merged into an existing position instead of
// opening a new row.
type InvestmentTopUp struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InvestmentID uint      `gorm:"not null;index" json:"investment_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Amount       float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	OrderID      string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (InvestmentTopUp) TableName() string {
	return "investment_topups"
}
