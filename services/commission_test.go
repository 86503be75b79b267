package services

import (
	"testing"

	"project/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSelectTier(t *testing.T) {
	max1 := 1000.0
	tiers := []models.ReferralBonusTier{
		{MinAmount: 50, MaxAmount: &max1, BonusType: models.BonusTypeFixed, Value: 15},
		{MinAmount: 1001, BonusType: models.BonusTypePercentage, Value: 3},
	}

	assert.Nil(t, selectTier(tiers, 49.99))
	require.NotNil(t, selectTier(tiers, 50))
	assert.Equal(t, 15.0, selectTier(tiers, 1000).Value)
	assert.Equal(t, models.BonusTypePercentage, selectTier(tiers, 1500).BonusType)
}

func TestReferralBonusAmount(t *testing.T) {
	max := 1000.0
	fixed := &models.ReferralBonusTier{MinAmount: 50, MaxAmount: &max, BonusType: models.BonusTypeFixed, Value: 15}
	pct := &models.ReferralBonusTier{MinAmount: 1001, BonusType: models.BonusTypePercentage, Value: 3}

	assert.Equal(t, 15.0, referralBonusAmount(fixed, 800))
	assert.Equal(t, 45.0, referralBonusAmount(pct, 1500))
	assert.Zero(t, referralBonusAmount(nil, 800))
}

func TestProcessReferralBonus(t *testing.T) {
	db := newTestDB(t)
	createSetting(t, db, 2, 10, 0, false)
	max := 1000.0
	createFixedTier(t, db, 50, &max, 15)

	settings := NewSettingsService(db)
	svc := NewCommissionService(db, settings)
	cfg, err := settings.Commission()
	require.NoError(t, err)

	referrer := createUser(t, db, nil, 0)
	referred := createUser(t, db, &referrer.ID, 0)

	require.NoError(t, svc.ProcessReferralBonus(cfg, referrer.ID, referred.ID, 1000, 7))
	assert.Equal(t, 15.0, reloadUser(t, db, referrer.ID).EarningWallet)

	var income models.IncomeTransaction
	require.NoError(t, db.Where("user_id = ?", referrer.ID).First(&income).Error)
	assert.Equal(t, models.IncomeReferral, income.IncomeType)
	require.NotNil(t, income.ReferenceID)
	assert.Equal(t, referred.ID, *income.ReferenceID)

	// Below every tier: nothing is paid.
	require.NoError(t, svc.ProcessReferralBonus(cfg, referrer.ID, referred.ID, 10, 8))
	assert.Equal(t, 15.0, reloadUser(t, db, referrer.ID).EarningWallet)
}

func TestDistributeLevelIncome(t *testing.T) {
	db := newTestDB(t)
	createSetting(t, db, 2, 10, 0, false)

	settings := NewSettingsService(db)
	svc := NewCommissionService(db, settings)
	cfg, err := settings.Commission()
	require.NoError(t, err)

	root := createUser(t, db, nil, 0)
	mid := createUser(t, db, &root.ID, 0)
	investor := createUser(t, db, &mid.ID, 0)

	require.NoError(t, svc.DistributeLevelIncome(cfg, investor.ID, 1000, 9))

	// Flat 2% at every level of the chain.
	assert.Equal(t, 20.0, reloadUser(t, db, mid.ID).EarningWallet)
	assert.Equal(t, 20.0, reloadUser(t, db, root.ID).EarningWallet)
	assert.Zero(t, reloadUser(t, db, investor.ID).EarningWallet)

	var levels []int
	require.NoError(t, db.Model(&models.IncomeTransaction{}).
		Where("income_type = ?", models.IncomeTeam).Order("level ASC").Pluck("level", &levels).Error)
	assert.Equal(t, []int{1, 2}, levels)
}

func TestDistributeLevelIncomeRespectsLevelCap(t *testing.T) {
	db := newTestDB(t)
	createSetting(t, db, 2, 2, 0, false)

	settings := NewSettingsService(db)
	svc := NewCommissionService(db, settings)
	cfg, err := settings.Commission()
	require.NoError(t, err)

	great := createUser(t, db, nil, 0)
	grand := createUser(t, db, &great.ID, 0)
	parent := createUser(t, db, &grand.ID, 0)
	investor := createUser(t, db, &parent.ID, 0)

	require.NoError(t, svc.DistributeLevelIncome(cfg, investor.ID, 1000, 9))

	assert.Equal(t, 20.0, reloadUser(t, db, parent.ID).EarningWallet)
	assert.Equal(t, 20.0, reloadUser(t, db, grand.ID).EarningWallet)
	assert.Zero(t, reloadUser(t, db, great.ID).EarningWallet)
}

func TestDistributeLevelIncomeCycleGuard(t *testing.T) {
	db := newTestDB(t)
	createSetting(t, db, 2, 10, 0, false)

	settings := NewSettingsService(db)
	svc := NewCommissionService(db, settings)
	cfg, err := settings.Commission()
	require.NoError(t, err)

	a := createUser(t, db, nil, 0)
	b := createUser(t, db, &a.ID, 0)
	// Corrupt the graph into a cycle.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", a.ID).UpdateColumn("reff_by", b.ID).Error)

	require.NoError(t, svc.DistributeLevelIncome(cfg, b.ID, 1000, 9))

	// The walk pays each node at most once and terminates.
	assert.Equal(t, 20.0, reloadUser(t, db, a.ID).EarningWallet)
	assert.Zero(t, reloadUser(t, db, b.ID).EarningWallet)
}

func TestDispatchPendingOutbox(t *testing.T) {
	db := newTestDB(t)
	createSetting(t, db, 2, 10, 0, false)
	max := 1000.0
	createFixedTier(t, db, 50, &max, 15)

	settings := NewSettingsService(db)
	svc := NewCommissionService(db, settings)

	referrer := createUser(t, db, nil, 0)
	investor := createUser(t, db, &referrer.ID, 0)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.EnqueueTx(tx, 42, investor.ID, 1000)
	}))

	done, err := svc.DispatchPending(10)
	require.NoError(t, err)
	assert.Equal(t, 1, done)

	// Referral bonus plus level 1 team income for the same event.
	assert.Equal(t, 35.0, reloadUser(t, db, referrer.ID).EarningWallet)

	var job models.CommissionJob
	require.NoError(t, db.First(&job).Error)
	assert.Equal(t, models.CommissionJobDone, job.Status)
	assert.Equal(t, 1, job.Attempts)
	require.NotNil(t, job.ProcessedAt)

	// Nothing left to dispatch.
	done, err = svc.DispatchPending(10)
	require.NoError(t, err)
	assert.Zero(t, done)
}

func TestDispatchPendingRetriesAndParksFailures(t *testing.T) {
	db := newTestDB(t)
	createSetting(t, db, 2, 10, 0, false)

	settings := NewSettingsService(db)
	svc := NewCommissionService(db, settings)

	// Job for a user that does not exist keeps failing.
	require.NoError(t, db.Create(&models.CommissionJob{
		InvestmentID: 1, UserID: 999, Amount: 1000, Status: models.CommissionJobPending,
	}).Error)

	for i := 1; i < commissionMaxAttempts; i++ {
		done, err := svc.DispatchPending(10)
		require.NoError(t, err)
		assert.Zero(t, done)

		var job models.CommissionJob
		require.NoError(t, db.First(&job).Error)
		assert.Equal(t, models.CommissionJobPending, job.Status)
		assert.Equal(t, i, job.Attempts)
		require.NotNil(t, job.LastError)
	}

	done, err := svc.DispatchPending(10)
	require.NoError(t, err)
	assert.Zero(t, done)

	var job models.CommissionJob
	require.NoError(t, db.First(&job).Error)
	assert.Equal(t, models.CommissionJobFailed, job.Status)
	assert.Equal(t, commissionMaxAttempts, job.Attempts)

	// Parked jobs are no longer picked up.
	_, err = svc.DispatchPending(10)
	require.NoError(t, err)
	require.NoError(t, db.First(&job).Error)
	assert.Equal(t, commissionMaxAttempts, job.Attempts)
}
