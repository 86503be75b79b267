package models

import "time"

// Setting is a single-row table acting as the passive configuration source
// for the commission engine and the application shell.
type Setting struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	Name                   string    `gorm:"size:100" json:"name"`
	Company                string    `gorm:"size:100" json:"company"`
	TeamLevelPercentage    float64   `gorm:"column:team_level_percentage;type:decimal(5,2);default:0" json:"team_level_percentage"`
	MaxTeamLevels          int       `gorm:"column:max_team_levels;default:0" json:"max_team_levels"`
	WelcomeBonusAmount     float64   `gorm:"column:welcome_bonus_amount;type:decimal(15,2);default:0" json:"welcome_bonus_amount"`
	AutoInvestWelcomeBonus bool      `gorm:"column:auto_invest_welcome_bonus;default:false" json:"auto_invest_welcome_bonus"`
	Maintenance            bool      `gorm:"default:false" json:"maintenance"`
	ClosedRegister         bool      `gorm:"default:false" json:"closed_register"`
	CreatedAt              time.Time `json:"-"`
	UpdatedAt              time.Time `json:"-"`
}

func (Setting) TableName() string {
	return "settings"
}
