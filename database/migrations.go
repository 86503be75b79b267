package database

import (
	"errors"

	"project/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every model in dependency order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.Investment{},
		&models.InvestmentTopUp{},
		&models.Transaction{},
		&models.IncomeTransaction{},
		&models.ReferralBonusTier{},
		&models.CommissionJob{},
		&models.Setting{},
	)
}

// Seed inserts the singleton Setting row and a default referral tier when the
// tables are empty. It is safe to call on every boot.
func Seed(db *gorm.DB) error {
	var setting models.Setting
	if err := db.Take(&setting).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		setting = models.Setting{
			Name:                "Payout Engine",
			Company:             "Payout Engine",
			TeamLevelPercentage: 2,
			MaxTeamLevels:       10,
			WelcomeBonusAmount:  0,
		}
		if err := db.Create(&setting).Error; err != nil {
			return err
		}
		log.Info("seeded default settings")
	}

	var tiers int64
	if err := db.Model(&models.ReferralBonusTier{}).Count(&tiers).Error; err != nil {
		return err
	}
	if tiers == 0 {
		max := 1000.0
		tier := models.ReferralBonusTier{
			MinAmount: 50,
			MaxAmount: &max,
			BonusType: models.BonusTypeFixed,
			Value:     15,
		}
		if err := db.Create(&tier).Error; err != nil {
			return err
		}
		log.Info("seeded default referral bonus tier")
	}

	return nil
}
