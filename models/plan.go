package models

import "time"

const (
	PayoutTypeDaily   = "daily"
	PayoutTypeLumpSum = "lump_sum"
)

type Plan struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Name               string     `gorm:"size:100;not null" json:"name"`
	MinAmount          float64    `gorm:"column:min_amount;type:decimal(15,2);not null" json:"min_amount"`
	MaxAmount          float64    `gorm:"column:max_amount;type:decimal(15,2);not null" json:"max_amount"`
	DailyROI           float64    `gorm:"column:daily_roi;type:decimal(5,2);not null" json:"daily_roi"`
	DurationDays       int        `gorm:"column:duration_days;not null" json:"duration_days"`
	PayoutType         string     `gorm:"column:payout_type;size:20;default:'daily'" json:"payout_type"`
	PayoutDelayHours   int        `gorm:"column:payout_delay_hours;default:0" json:"payout_delay_hours"`
	LumpSumPercentage  float64    `gorm:"column:lump_sum_percentage;type:decimal(5,2);default:0" json:"lump_sum_percentage"`
	CompoundingEnabled bool       `gorm:"column:compounding_enabled;default:false" json:"compounding_enabled"`
	Status             string     `gorm:"size:20;default:'Active'" json:"status"`
	VisibleFrom        *time.Time `gorm:"column:visible_from" json:"visible_from,omitempty"`
	VisibleUntil       *time.Time `gorm:"column:visible_until" json:"visible_until,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

// VisibleAt reports whether the plan can be purchased at t. A nil boundary
// leaves that side of the window open.
func (p *Plan) VisibleAt(t time.Time) bool {
	if p.VisibleFrom != nil && t.Before(*p.VisibleFrom) {
		return false
	}
	if p.VisibleUntil != nil && t.After(*p.VisibleUntil) {
		return false
	}
	return true
}
