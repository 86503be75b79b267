package models

import "time"

const (
	InvestmentActive    = "Active"
	InvestmentCompleted = "Completed"
	InvestmentCancelled = "Cancelled"
)

// Investment carries a snapshot of the plan terms at purchase time so later
// plan edits never change the payout of a running position.
type Investment struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"not null;index" json:"user_id"`
	PlanID             uint       `gorm:"not null;index" json:"plan_id"`
	Amount             float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	CurrentBalance     float64    `gorm:"column:current_balance;type:decimal(15,2);not null" json:"current_balance"`
	TotalEarned        float64    `gorm:"column:total_earned;type:decimal(15,2);not null;default:0.00" json:"total_earned"`
	DailyROI           float64    `gorm:"column:daily_roi;type:decimal(5,2);not null" json:"daily_roi"`
	DurationDays       int        `gorm:"column:duration_days;not null" json:"duration_days"`
	PayoutType         string     `gorm:"column:payout_type;size:20;not null" json:"payout_type"`
	PayoutDelayHours   int        `gorm:"column:payout_delay_hours;default:0" json:"payout_delay_hours"`
	LumpSumPercentage  float64    `gorm:"column:lump_sum_percentage;type:decimal(5,2);default:0" json:"lump_sum_percentage"`
	CompoundingEnabled bool       `gorm:"column:compounding_enabled;default:false" json:"compounding_enabled"`
	IsWelcomeBonus     bool       `gorm:"column:is_welcome_bonus;default:false" json:"is_welcome_bonus"`
	LumpSumPaid        bool       `gorm:"column:lump_sum_paid;default:false" json:"lump_sum_paid"`
	LastPayoutDate     *time.Time `gorm:"column:last_payout_date" json:"last_payout_date,omitempty"`
	StartDate          time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	EndDate            *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	OrderID            string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	Status             string     `gorm:"size:20;default:'Active'" json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Relations
	Plan   *Plan             `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	TopUps []InvestmentTopUp `gorm:"foreignKey:InvestmentID" json:"top_ups,omitempty"`
}

func (Investment) TableName() string {
	return "investments"
}

// ElapsedDays returns the number of whole days since the position started.
func (i *Investment) ElapsedDays(now time.Time) int {
	return int(now.Sub(i.StartDate).Hours() / 24)
}
