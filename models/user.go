package models

import "time"

type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:100;not null" json:"name"`
	Number           string    `gorm:"size:20;uniqueIndex;not null" json:"number"`
	Password         string    `gorm:"size:255;not null" json:"-"`
	ReffCode         string    `gorm:"size:20;uniqueIndex;not null" json:"reff_code"`
	ReffBy           *uint     `gorm:"column:reff_by;index" json:"reff_by"`
	InvestmentWallet float64   `gorm:"column:investment_wallet;type:decimal(15,2);default:0" json:"investment_wallet"`
	EarningWallet    float64   `gorm:"column:earning_wallet;type:decimal(15,2);default:0" json:"earning_wallet"`
	TotalInvested    float64   `gorm:"column:total_invested;type:decimal(15,2);default:0" json:"total_invested"`
	TotalEarned      float64   `gorm:"column:total_earned;type:decimal(15,2);default:0" json:"total_earned"`
	Status           string    `gorm:"size:20;default:'Active'" json:"status"`
	InvestmentStatus string    `gorm:"size:20;default:'Inactive'" json:"investment_status"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
