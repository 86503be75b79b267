package services

import (
	"errors"
	"fmt"
	"time"

	"project/models"
	"project/utils"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// InvestmentService owns the investment lifecycle: committing capital into a
// new position, merging top-ups into an existing one, and granting the
// registration welcome bonus.
type InvestmentService struct {
	db          *gorm.DB
	settings    *SettingsService
	commissions *CommissionService
}

func NewInvestmentService(db *gorm.DB, settings *SettingsService, commissions *CommissionService) *InvestmentService {
	return &InvestmentService{db: db, settings: settings, commissions: commissions}
}

// CreateInvestment debits the investment wallet and either merges the amount
// into a qualifying existing position (same plan, active, not lump-sum, not
// welcome-bonus, still under the plan cap) or creates a new Investment with a
// snapshot of the plan terms. The commission fan-out job is enqueued in the
// same transaction and dispatched afterwards.
func (s *InvestmentService) CreateInvestment(userID, planID uint, amount float64, isWelcomeBonus bool) (*models.Investment, error) {
	var plan models.Plan
	if err := s.db.Where("id = ? AND status = ?", planID, "Active").First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: plan %d", ErrNotFound, planID)
		}
		return nil, err
	}

	now := time.Now()
	if !plan.VisibleAt(now) {
		return nil, fmt.Errorf("%w: plan %d is outside its visibility window", ErrNotFound, planID)
	}
	if amount < plan.MinAmount || amount > plan.MaxAmount {
		return nil, fmt.Errorf("%w: %.2f is outside plan bounds [%.2f, %.2f]",
			ErrInvalidAmount, amount, plan.MinAmount, plan.MaxAmount)
	}

	var result *models.Investment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		msg := fmt.Sprintf("Investment in plan %s", plan.Name)
		if _, err := debitTx(tx, userID, models.WalletInvestment, amount, "investment", msg); err != nil {
			return err
		}

		merged, err := s.tryTopUp(tx, userID, &plan, amount, isWelcomeBonus)
		if err != nil {
			return err
		}
		if merged != nil {
			result = merged
		} else {
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
				IsWelcomeBonus:     isWelcomeBonus,
				StartDate:          now,
				OrderID:            utils.GenerateOrderID(userID),
				Status:             models.InvestmentActive,
			}
			if err := tx.Create(&inv).Error; err != nil {
				return err
			}
			result = &inv
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"total_invested":    gorm.Expr("total_invested + ?", amount),
			"investment_status": "Active",
		}).Error; err != nil {
			return err
		}

		// Bonus capital does not generate commissions.
		if !isWelcomeBonus {
			return s.commissions.EnqueueTx(tx, result.ID, userID, amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Fan-out is a separable step: a failure here never unwinds the commit,
	// the pending job is retried by the cron dispatcher.
	if !isWelcomeBonus {
		if _, err := s.commissions.DispatchPending(50); err != nil {
			log.WithField("investment_id", result.ID).Warnf("commission dispatch failed: %v", err)
		}
	}

	return result, nil
}

// tryTopUp merges amount into an existing qualifying position and returns it,
// or returns nil when a new row should be created instead.
func (s *InvestmentService) tryTopUp(tx *gorm.DB, userID uint, plan *models.Plan, amount float64, isWelcomeBonus bool) (*models.Investment, error) {
	if isWelcomeBonus || plan.PayoutType == models.PayoutTypeLumpSum {
		return nil, nil
	}

	var existing models.Investment
	err := tx.Where("user_id = ? AND plan_id = ? AND status = ? AND payout_type <> ? AND is_welcome_bonus = ?",
		userID, plan.ID, models.InvestmentActive, models.PayoutTypeLumpSum, false).
		Order("id DESC").First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if existing.Amount+amount > plan.MaxAmount {
		return nil, nil
	}

	if err := tx.Model(&existing).Updates(map[string]interface{}{
		"amount":          gorm.Expr("amount + ?", amount),
		"current_balance": gorm.Expr("current_balance + ?", amount),
	}).Error; err != nil {
		return nil, err
	}

	topup := models.InvestmentTopUp{
		InvestmentID: existing.ID,
		UserID:       userID,
		Amount:       amount,
		OrderID:      utils.GenerateOrderID(userID),
	}
	if err := tx.Create(&topup).Error; err != nil {
		return nil, err
	}

	if err := tx.First(&existing, existing.ID).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// GrantWelcomeBonus credits the configured welcome bonus to the investment
// wallet and, when auto-invest is enabled, immediately commits it into the
// first matching active daily plan as bonus capital.
func (s *InvestmentService) GrantWelcomeBonus(userID uint) error {
	cfg, err := s.settings.Commission()
	if err != nil {
		return err
	}
	if cfg.WelcomeBonusAmount <= 0 {
		return nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		_, err := creditTx(tx, userID, models.WalletInvestment, cfg.WelcomeBonusAmount, "bonus", "Welcome bonus")
		return err
	})
	if err != nil {
		return err
	}

	if !cfg.AutoInvestWelcomeBonus {
		return nil
	}

	var plan models.Plan
	err = s.db.Where("status = ? AND payout_type = ? AND min_amount <= ? AND max_amount >= ?",
		"Active", models.PayoutTypeDaily, cfg.WelcomeBonusAmount, cfg.WelcomeBonusAmount).
		Order("min_amount ASC").First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No plan fits the bonus; leave the funds in the wallet.
			log.WithField("user_id", userID).Warn("no plan matches welcome bonus amount, skipping auto-invest")
			return nil
		}
		return err
	}

	_, err = s.CreateInvestment(userID, plan.ID, cfg.WelcomeBonusAmount, true)
	return err
}
