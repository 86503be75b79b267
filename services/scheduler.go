package services

import (
	"errors"
	"fmt"
	"time"

	"project/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PayoutScheduler selects due investments and processes each one in
// isolation: a failure for one investment is logged and skipped, the batch
// always finishes and reports how many succeeded.
type PayoutScheduler struct {
	db   *gorm.DB
	calc ROICalculator
}

func NewPayoutScheduler(db *gorm.DB) *PayoutScheduler {
	return &PayoutScheduler{db: db}
}

// SelectDue returns the investments eligible for a payout at now.
//
// Daily candidates: active, not lump-sum, not welcome-bonus-funded, and past
// the calendar-day cooldown (or forceAll). Lump-sum candidates: active, not
// yet paid, past their delay (or forceAll).
func (s *PayoutScheduler) SelectDue(forceAll bool, now time.Time) ([]models.Investment, error) {
	var due []models.Investment

	daily := s.db.Where("status = ? AND payout_type <> ? AND is_welcome_bonus = ?",
		models.InvestmentActive, models.PayoutTypeLumpSum, false)
	if !forceAll {
		daily = daily.Where("last_payout_date IS NULL OR last_payout_date < ?", startOfDay(now))
	}
	if err := daily.Order("id ASC").Find(&due).Error; err != nil {
		return nil, err
	}

	var lump []models.Investment
	if err := s.db.Where("status = ? AND payout_type = ? AND lump_sum_paid = ?",
		models.InvestmentActive, models.PayoutTypeLumpSum, false).
		Order("id ASC").Find(&lump).Error; err != nil {
		return nil, err
	}
	for i := range lump {
		if forceAll || !now.Before(lumpSumDueAt(&lump[i])) {
			due = append(due, lump[i])
		}
	}

	return due, nil
}

// ProcessInvestment runs the per-record unit of work for one investment.
// Idempotency is enforced with an atomic conditional update on
// last_payout_date (daily) or lump_sum_paid (lump sum): whichever concurrent
// caller loses the claim gets ErrNotDue and nothing is written.
func (s *PayoutScheduler) ProcessInvestment(id uint, force bool, now time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var inv models.Investment
		if err := tx.First(&inv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: investment %d", ErrNotFound, id)
			}
			return err
		}
		if inv.Status != models.InvestmentActive {
			return ErrNotDue
		}

		if inv.PayoutType == models.PayoutTypeLumpSum {
			if !force && now.Before(lumpSumDueAt(&inv)) {
				return ErrNotDue
			}
			res := tx.Model(&models.Investment{}).
				Where("id = ? AND status = ? AND lump_sum_paid = ?", id, models.InvestmentActive, false).
				UpdateColumn("lump_sum_paid", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotDue
			}
		} else {
			if !force && !dailyDue(inv.LastPayoutDate, now) {
				return ErrNotDue
			}
			claim := tx.Model(&models.Investment{}).
				Where("id = ? AND status = ?", id, models.InvestmentActive)
			if !force {
				claim = claim.Where("last_payout_date IS NULL OR last_payout_date < ?", startOfDay(now))
			}
			res := claim.UpdateColumn("last_payout_date", now)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotDue
			}
		}

		eval, err := s.calc.Evaluate(&inv, now, force)
		if err != nil {
			return err
		}

		if eval.Amount > 0 {
			msg := fmt.Sprintf("Daily return on investment %s", inv.OrderID)
			if eval.IncomeType == models.IncomeWeeklyTrade {
				msg = fmt.Sprintf("Trade payout on investment %s", inv.OrderID)
			}
			invID := inv.ID
			if _, err := recordIncomeTx(tx, inv.UserID, eval.IncomeType, eval.Amount, nil, &invID, nil, msg); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"current_balance":  inv.CurrentBalance,
			"total_earned":     inv.TotalEarned,
			"last_payout_date": inv.LastPayoutDate,
			"lump_sum_paid":    inv.LumpSumPaid,
			"status":           inv.Status,
			"end_date":         inv.EndDate,
		}
		return tx.Model(&models.Investment{}).Where("id = ?", inv.ID).Updates(updates).Error
	})
}

// ProcessDailyROI runs one full scheduler pass and returns the number of
// investments paid out of the number selected.
func (s *PayoutScheduler) ProcessDailyROI(forceAll bool) (int, int, error) {
	now := time.Now()
	due, err := s.SelectDue(forceAll, now)
	if err != nil {
		return 0, 0, err
	}

	processed := 0
	for i := range due {
		inv := &due[i]
		err := s.ProcessInvestment(inv.ID, forceAll, now)
		switch {
		case err == nil:
			processed++
		case errors.Is(err, ErrNotDue):
			log.WithField("investment_id", inv.ID).Debug("payout skipped, already claimed")
		case errors.Is(err, ErrInvalidConfiguration):
			log.WithField("investment_id", inv.ID).Warnf("payout skipped: %v", err)
		default:
			log.WithField("investment_id", inv.ID).Errorf("payout failed: %v", err)
		}
	}

	log.WithFields(log.Fields{"processed": processed, "total": len(due), "force": forceAll}).
		Info("daily payout pass finished")
	return processed, len(due), nil
}
