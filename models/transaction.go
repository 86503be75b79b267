package models

import "time"

const (
	WalletInvestment = "investment"
	WalletEarning    = "earning"

	FlowCredit = "credit"
	FlowDebit  = "debit"
)

// Transaction is the coarse wallet-level ledger: one row per wallet-affecting
// event, with the resulting balance for reconciliation.
type Transaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Wallet          string    `gorm:"size:20;not null" json:"wallet"`
	Amount          float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	BalanceAfter    float64   `gorm:"column:balance_after;type:decimal(15,2);not null" json:"balance_after"`
	OrderID         string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	TransactionFlow string    `gorm:"size:10;not null" json:"transaction_flow"`
	TransactionType string    `gorm:"size:50;not null" json:"transaction_type"`
	Message         *string   `gorm:"type:text" json:"message,omitempty"`
	Status          string    `gorm:"size:20;not null;default:'Success'" json:"status"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
