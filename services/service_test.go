package services

import (
	"fmt"
	"testing"

	"project/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.Investment{},
		&models.InvestmentTopUp{},
		&models.Transaction{},
		&models.IncomeTransaction{},
		&models.ReferralBonusTier{},
		&models.CommissionJob{},
		&models.Setting{},
	))
	return db
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB, reffBy *uint, investmentWallet float64) *models.User {
	t.Helper()
	userSeq++
	user := models.User{
		Name:             fmt.Sprintf("User %d", userSeq),
		Number:           fmt.Sprintf("6281%08d", userSeq),
		Password:         "hashed",
		ReffCode:         fmt.Sprintf("REF%05d", userSeq),
		ReffBy:           reffBy,
		InvestmentWallet: investmentWallet,
		Status:           "Active",
		InvestmentStatus: "Inactive",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createDailyPlan(t *testing.T, db *gorm.DB, roi float64, durationDays int, compounding bool) *models.Plan {
	t.Helper()
	plan := models.Plan{
		Name:               fmt.Sprintf("Daily %.1f%%", roi),
		MinAmount:          10,
		MaxAmount:          100000,
		DailyROI:           roi,
		DurationDays:       durationDays,
		PayoutType:         models.PayoutTypeDaily,
		CompoundingEnabled: compounding,
		Status:             "Active",
	}
	require.NoError(t, db.Create(&plan).Error)
	return &plan
}

func createLumpSumPlan(t *testing.T, db *gorm.DB, pct float64, delayHours int) *models.Plan {
	t.Helper()
	plan := models.Plan{
		Name:              fmt.Sprintf("Trade %.0f%%", pct),
		MinAmount:         10,
		MaxAmount:         100000,
		DurationDays:      delayHours / 24,
		PayoutType:        models.PayoutTypeLumpSum,
		PayoutDelayHours:  delayHours,
		LumpSumPercentage: pct,
		Status:            "Active",
	}
	require.NoError(t, db.Create(&plan).Error)
	return &plan
}

func createSetting(t *testing.T, db *gorm.DB, teamPct float64, maxLevels int, welcomeBonus float64, autoInvest bool) {
	t.Helper()
	setting := models.Setting{
		Name:                   "Test",
		Company:                "Test",
		TeamLevelPercentage:    teamPct,
		MaxTeamLevels:          maxLevels,
		WelcomeBonusAmount:     welcomeBonus,
		AutoInvestWelcomeBonus: autoInvest,
	}
	require.NoError(t, db.Create(&setting).Error)
}

func createFixedTier(t *testing.T, db *gorm.DB, min float64, max *float64, value float64) {
	t.Helper()
	tier := models.ReferralBonusTier{MinAmount: min, MaxAmount: max, BonusType: models.BonusTypeFixed, Value: value}
	require.NoError(t, db.Create(&tier).Error)
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}
