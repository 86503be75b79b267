package models

import "time"

const (
	BonusTypeFixed      = "fixed"
	BonusTypePercentage = "percentage"
)

// ReferralBonusTier is an amount-banded referral bonus rule. MaxAmount nil
// means the band is open-ended upwards.
type ReferralBonusTier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MinAmount float64   `gorm:"column:min_amount;type:decimal(15,2);not null" json:"min_amount"`
	MaxAmount *float64  `gorm:"column:max_amount;type:decimal(15,2)" json:"max_amount,omitempty"`
	BonusType string    `gorm:"column:bonus_type;size:20;not null;default:'fixed'" json:"bonus_type"`
	Value     float64   `gorm:"type:decimal(15,2);not null" json:"value"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (ReferralBonusTier) TableName() string {
	return "referral_bonus_tiers"
}

// Contains reports whether amount falls inside the tier band.
func (t *ReferralBonusTier) Contains(amount float64) bool {
	if amount < t.MinAmount {
		return false
	}
	if t.MaxAmount != nil && amount > *t.MaxAmount {
		return false
	}
	return true
}
