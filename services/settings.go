package services

import (
	"errors"
	"sync"
	"time"

	"project/models"

	"gorm.io/gorm"
)

// Defaults applied when the settings row or tier table is empty.
const (
	DefaultMaxTeamLevels = 10
	settingsCacheTTL     = time.Minute
)

// CommissionConfig is an immutable snapshot of the business parameters the
// engine needs. It is loaded once per batch and passed down explicitly so a
// single run never mixes two versions of the configuration.
type CommissionConfig struct {
	ReferralTiers          []models.ReferralBonusTier
	TeamLevelPercentage    float64
	MaxTeamLevels          int
	WelcomeBonusAmount     float64
	AutoInvestWelcomeBonus bool
}

// SettingsService reads business parameters from the settings tables with a
// short-lived cache. Missing rows fall back to defaults rather than erroring.
type SettingsService struct {
	db *gorm.DB

	mu        sync.Mutex
	cached    *CommissionConfig
	fetchedAt time.Time
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Commission returns the current configuration snapshot.
func (s *SettingsService) Commission() (*CommissionConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.fetchedAt) < settingsCacheTTL {
		cfg := *s.cached
		return &cfg, nil
	}

	cfg := &CommissionConfig{MaxTeamLevels: DefaultMaxTeamLevels}

	var setting models.Setting
	if err := s.db.First(&setting).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else {
		cfg.TeamLevelPercentage = setting.TeamLevelPercentage
		if setting.MaxTeamLevels > 0 {
			cfg.MaxTeamLevels = setting.MaxTeamLevels
		}
		cfg.WelcomeBonusAmount = setting.WelcomeBonusAmount
		cfg.AutoInvestWelcomeBonus = setting.AutoInvestWelcomeBonus
	}

	if err := s.db.Order("min_amount ASC").Find(&cfg.ReferralTiers).Error; err != nil {
		return nil, err
	}

	s.cached = cfg
	s.fetchedAt = time.Now()
	out := *cfg
	return &out, nil
}

// Invalidate drops the cached snapshot, forcing the next Commission call to
// re-read storage. Called after admin settings updates.
func (s *SettingsService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *SettingsService) GetReferralBonusTiers() ([]models.ReferralBonusTier, error) {
	cfg, err := s.Commission()
	if err != nil {
		return nil, err
	}
	return cfg.ReferralTiers, nil
}

func (s *SettingsService) GetTeamLevelIncomePercentage() (float64, error) {
	cfg, err := s.Commission()
	if err != nil {
		return 0, err
	}
	return cfg.TeamLevelPercentage, nil
}

func (s *SettingsService) GetMaxTeamLevels() (int, error) {
	cfg, err := s.Commission()
	if err != nil {
		return 0, err
	}
	return cfg.MaxTeamLevels, nil
}

func (s *SettingsService) GetWelcomeBonusAmount() (float64, error) {
	cfg, err := s.Commission()
	if err != nil {
		return 0, err
	}
	return cfg.WelcomeBonusAmount, nil
}

func (s *SettingsService) ShouldAutoInvestWelcomeBonus() (bool, error) {
	cfg, err := s.Commission()
	if err != nil {
		return false, err
	}
	return cfg.AutoInvestWelcomeBonus, nil
}
