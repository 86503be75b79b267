package services

import (
	"testing"
	"time"

	"project/models"
	"project/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createInvestment(t *testing.T, db *gorm.DB, userID uint, plan *models.Plan, amount float64, start time.Time) *models.Investment {
	t.Helper()
	inv := models.Investment{
		UserID:             userID,
		PlanID:             plan.ID,
		Amount:             amount,
		CurrentBalance:     amount,
		DailyROI:           plan.DailyROI,
		DurationDays:       plan.DurationDays,
		PayoutType:         plan.PayoutType,
		PayoutDelayHours:   plan.PayoutDelayHours,
		LumpSumPercentage:  plan.LumpSumPercentage,
		CompoundingEnabled: plan.CompoundingEnabled,
		StartDate:          start,
		OrderID:            utils.GenerateOrderID(userID),
		Status:             models.InvestmentActive,
	}
	require.NoError(t, db.Create(&inv).Error)
	return &inv
}

func TestProcessInvestmentPaysOncePerDay(t *testing.T) {
	db := newTestDB(t)
	scheduler := NewPayoutScheduler(db)
	user := createUser(t, db, nil, 0)
	plan := createDailyPlan(t, db, 8, 20, false)
	now := time.Now()
	inv := createInvestment(t, db, user.ID, plan, 1000, now.Add(-24*time.Hour))

	require.NoError(t, scheduler.ProcessInvestment(inv.ID, false, now))

	refreshed := reloadUser(t, db, user.ID)
	assert.Equal(t, 80.0, refreshed.EarningWallet)
	assert.Equal(t, 80.0, refreshed.TotalEarned)

	// The second run on the same day loses the claim.
	err := scheduler.ProcessInvestment(inv.ID, false, now)
	require.ErrorIs(t, err, ErrNotDue)
	assert.Equal(t, 80.0, reloadUser(t, db, user.ID).EarningWallet)

	var incomes int64
	require.NoError(t, db.Model(&models.IncomeTransaction{}).Where("user_id = ?", user.ID).Count(&incomes).Error)
	assert.Equal(t, int64(1), incomes)
}

func TestProcessInvestmentDueNextDay(t *testing.T) {
	db := newTestDB(t)
	scheduler := NewPayoutScheduler(db)
	user := createUser(t, db, nil, 0)
	plan := createDailyPlan(t, db, 8, 20, false)
	now := time.Now()
	inv := createInvestment(t, db, user.ID, plan, 1000, now.Add(-48*time.Hour))

	yesterday := now.Add(-24 * time.Hour)
	require.NoError(t, db.Model(inv).UpdateColumn("last_payout_date", yesterday).Error)

	require.NoError(t, scheduler.ProcessInvestment(inv.ID, false, now))
	assert.Equal(t, 80.0, reloadUser(t, db, user.ID).EarningWallet)
}

func TestProcessInvestmentForceOverridesCooldown(t *testing.T) {
	db := newTestDB(t)
	scheduler := NewPayoutScheduler(db)
	user := createUser(t, db, nil, 0)
	plan := createDailyPlan(t, db, 8, 20, false)
	now := time.Now()
	inv := createInvestment(t, db, user.ID, plan, 1000, now.Add(-24*time.Hour))

	require.NoError(t, scheduler.ProcessInvestment(inv.ID, false, now))
	require.NoError(t, scheduler.ProcessInvestment(inv.ID, true, now))

	assert.Equal(t, 160.0, reloadUser(t, db, user.ID).EarningWallet)
}

func TestProcessInvestmentCompletesOnFinalDay(t *testing.T) {
	db := newTestDB(t)
	scheduler := NewPayoutScheduler(db)
	user := createUser(t, db, nil, 0)
	plan := createDailyPlan(t, db, 8, 20, false)
	now := time.Now()
	inv := createInvestment(t, db, user.ID, plan, 1000, now.Add(-20*24*time.Hour))

	require.NoError(t, scheduler.ProcessInvestment(inv.ID, false, now))

	var refreshed models.Investment
	require.NoError(t, db.First(&refreshed, inv.ID).Error)
	assert.Equal(t, models.InvestmentCompleted, refreshed.Status)
	require.NotNil(t, refreshed.EndDate)
	assert.Equal(t, 80.0, reloadUser(t, db, user.ID).EarningWallet)

	// Completed positions never pay again, even forced.
	err := scheduler.ProcessInvestment(inv.ID, true, now)
	require.ErrorIs(t, err, ErrNotDue)
}

func TestProcessInvestmentLumpSum(t *testing.T) {
	db := newTestDB(t)
	scheduler := NewPayoutScheduler(db)
	user := createUser(t, db, nil, 0)
	plan := createLumpSumPlan(t, db, 21, 72)
	now := time.Now()
	inv := createInvestment(t, db, user.ID, plan, 500, now.Add(-73*time.Hour))

	require.NoError(t, scheduler.ProcessInvestment(inv.ID, false, now))

	var refreshed models.Investment
	require.NoError(t, db.First(&refreshed, inv.ID).Error)
	assert.True(t, refreshed.LumpSumPaid)
	assert.Equal(t, models.InvestmentCompleted, refreshed.Status)
	assert.Equal(t, 105.0, reloadUser(t, db, user.ID).EarningWallet)

	var income models.IncomeTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&income).Error)
	assert.Equal(t, models.IncomeWeeklyTrade, income.IncomeType)

	err := scheduler.ProcessInvestment(inv.ID, true, now)
	require.ErrorIs(t, err, ErrNotDue)
}

func TestProcessInvestmentLumpSumBeforeDelay(t *testing.T) {
	db := newTestDB(t)
	scheduler := NewPayoutScheduler(db)
	user := createUser(t, db, nil, 0)
	plan := createLumpSumPlan(t, db, 21, 72)
	now := time.Now()
	inv := createInvestment(t, db, user.ID, plan, 500, now.Add(-time.Hour))

	err := scheduler.ProcessInvestment(inv.ID, false, now)
	require.ErrorIs(t, err, ErrNotDue)
	assert.Zero(t, reloadUser(t, db, user.ID).EarningWallet)
}

func TestProcessInvestmentLumpSumForcedBeforeDelay(t *testing.T) {
	db := newTestDB(t)
	scheduler := NewPayoutScheduler(db)
	user := createUser(t, db, nil, 0)
	plan := createLumpSumPlan(t, db, 21, 72)
	now := time.Now()
	inv := createInvestment(t, db, user.ID, plan, 500, now.Add(-time.Hour))

	// Forcing pays the lump sum before the delay has elapsed.
	require.NoError(t, scheduler.ProcessInvestment(inv.ID, true, now))

	var refreshed models.Investment
	require.NoError(t, db.First(&refreshed, inv.ID).Error)
	assert.True(t, refreshed.LumpSumPaid)
	assert.Equal(t, models.InvestmentCompleted, refreshed.Status)
	assert.Equal(t, 105.0, reloadUser(t, db, user.ID).EarningWallet)

	err := scheduler.ProcessInvestment(inv.ID, true, now)
	require.ErrorIs(t, err, ErrNotDue)
}

func TestProcessDailyROIForcedPaysPreDelayLumpSum(t *testing.T) {
	db := newTestDB(t)
	scheduler := NewPayoutScheduler(db)
	user := createUser(t, db, nil, 0)
	plan := createLumpSumPlan(t, db, 21, 72)
	createInvestment(t, db, user.ID, plan, 500, time.Now().Add(-time.Hour))

	// Not selected and not paid on a normal pass.
	processed, total, err := scheduler.ProcessDailyROI(false)
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Zero(t, total)

	// A forced pass selects and pays it: every selected item is processed.
	processed, total, err = scheduler.ProcessDailyROI(true)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 1, total)
	assert.Equal(t, 105.0, reloadUser(t, db, user.ID).EarningWallet)
}

func TestProcessInvestmentNotFound(t *testing.T) {
	db := newTestDB(t)
	scheduler := NewPayoutScheduler(db)

	err := scheduler.ProcessInvestment(12345, false, time.Now())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSelectDueSkipsWelcomeBonusCapital(t *testing.T) {
	db := newTestDB(t)
	scheduler := NewPayoutScheduler(db)
	user := createUser(t, db, nil, 0)
	plan := createDailyPlan(t, db, 8, 20, false)
	now := time.Now()

	createInvestment(t, db, user.ID, plan, 1000, now.Add(-24*time.Hour))
	bonus := createInvestment(t, db, user.ID, plan, 50, now.Add(-24*time.Hour))
	require.NoError(t, db.Model(bonus).UpdateColumn("is_welcome_bonus", true).Error)

	due, err := scheduler.SelectDue(false, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.NotEqual(t, bonus.ID, due[0].ID)
}

func TestProcessDailyROIBatch(t *testing.T) {
	db := newTestDB(t)
	scheduler := NewPayoutScheduler(db)
	plan := createDailyPlan(t, db, 8, 20, false)
	now := time.Now()

	u1 := createUser(t, db, nil, 0)
	u2 := createUser(t, db, nil, 0)
	createInvestment(t, db, u1.ID, plan, 1000, now.Add(-24*time.Hour))
	paid := createInvestment(t, db, u2.ID, plan, 500, now.Add(-24*time.Hour))
	require.NoError(t, db.Model(paid).UpdateColumn("last_payout_date", now).Error)

	processed, total, err := scheduler.ProcessDailyROI(false)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 1, total)
	assert.Equal(t, 80.0, reloadUser(t, db, u1.ID).EarningWallet)
	assert.Zero(t, reloadUser(t, db, u2.ID).EarningWallet)

	// Forced pass picks up both.
	processed, total, err = scheduler.ProcessDailyROI(true)
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.Equal(t, 2, total)
}
