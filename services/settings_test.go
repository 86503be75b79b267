package services

import (
	"testing"

	"project/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommissionConfigDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	cfg, err := svc.Commission()
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxTeamLevels, cfg.MaxTeamLevels)
	assert.Zero(t, cfg.TeamLevelPercentage)
	assert.Zero(t, cfg.WelcomeBonusAmount)
	assert.Empty(t, cfg.ReferralTiers)
}

func TestCommissionConfigReadsSettings(t *testing.T) {
	db := newTestDB(t)
	createSetting(t, db, 2.5, 5, 50, true)
	max := 1000.0
	createFixedTier(t, db, 50, &max, 15)
	createFixedTier(t, db, 1001, nil, 30)

	cfg, err := NewSettingsService(db).Commission()
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.TeamLevelPercentage)
	assert.Equal(t, 5, cfg.MaxTeamLevels)
	assert.Equal(t, 50.0, cfg.WelcomeBonusAmount)
	assert.True(t, cfg.AutoInvestWelcomeBonus)

	// Tiers come back ordered by min_amount.
	require.Len(t, cfg.ReferralTiers, 2)
	assert.Equal(t, 50.0, cfg.ReferralTiers[0].MinAmount)
	assert.Nil(t, cfg.ReferralTiers[1].MaxAmount)
}

func TestCommissionConfigCacheAndInvalidate(t *testing.T) {
	db := newTestDB(t)
	createSetting(t, db, 2, 10, 0, false)
	svc := NewSettingsService(db)

	cfg, err := svc.Commission()
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.TeamLevelPercentage)

	require.NoError(t, db.Model(&models.Setting{}).Where("1 = 1").UpdateColumn("team_level_percentage", 3).Error)

	// Cached snapshot is still served.
	cfg, err = svc.Commission()
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.TeamLevelPercentage)

	svc.Invalidate()
	cfg, err = svc.Commission()
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.TeamLevelPercentage)
}

func TestCommissionConfigSnapshotIsolation(t *testing.T) {
	db := newTestDB(t)
	createSetting(t, db, 2, 10, 0, false)
	max := 1000.0
	createFixedTier(t, db, 50, &max, 15)
	svc := NewSettingsService(db)

	cfg, err := svc.Commission()
	require.NoError(t, err)

	// Mutating a returned snapshot never leaks into later reads.
	cfg.TeamLevelPercentage = 99

	again, err := svc.Commission()
	require.NoError(t, err)
	assert.Equal(t, 2.0, again.TeamLevelPercentage)
}
