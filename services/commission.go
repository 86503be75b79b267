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

// commissionMaxAttempts caps outbox retries before a job is parked as Failed.
const commissionMaxAttempts = 5

// CommissionService fans a "new capital committed" event out to the referral
// tree: one tiered bonus to the direct referrer and a flat per-level amount
// to every ancestor up to the configured level cap.
type CommissionService struct {
	db       *gorm.DB
	settings *SettingsService
}

func NewCommissionService(db *gorm.DB, settings *SettingsService) *CommissionService {
	return &CommissionService{db: db, settings: settings}
}

// selectTier returns the first tier whose band contains amount. Tiers are
// ordered by min_amount ascending.
func selectTier(tiers []models.ReferralBonusTier, amount float64) *models.ReferralBonusTier {
	for i := range tiers {
		if tiers[i].Contains(amount) {
			return &tiers[i]
		}
	}
	return nil
}

// referralBonusAmount computes the bonus a tier yields for amount.
func referralBonusAmount(tier *models.ReferralBonusTier, amount float64) float64 {
	if tier == nil {
		return 0
	}
	switch tier.BonusType {
	case models.BonusTypePercentage:
		return utils.RoundFloat(amount*tier.Value/100, 2)
	default:
		return utils.RoundFloat(tier.Value, 2)
	}
}

// ProcessReferralBonus credits the direct referrer with the tiered bonus for
// the committed amount. A zero result (no tier match, zero value) is a no-op.
func (s *CommissionService) ProcessReferralBonus(cfg *CommissionConfig, referrerID, referredUserID uint, amount float64, investmentID uint) error {
	bonus := referralBonusAmount(selectTier(cfg.ReferralTiers, amount), amount)
	if bonus <= 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		msg := fmt.Sprintf("Referral bonus from downline investment of %.2f", amount)
		invID := investmentID
		refID := referredUserID
		_, err := recordIncomeTx(tx, referrerID, models.IncomeReferral, bonus, nil, &invID, &refID, msg)
		return err
	})
}

// DistributeLevelIncome walks the referral-parent chain upward from the
// investor, crediting the same flat amount at every level. The walk is an
// explicit loop with a visited set and a hard level bound, so a corrupted
// cyclic referral graph terminates instead of looping forever.
func (s *CommissionService) DistributeLevelIncome(cfg *CommissionConfig, investorID uint, amount float64, investmentID uint) error {
	levelAmount := utils.RoundFloat(amount*cfg.TeamLevelPercentage/100, 2)
	if levelAmount <= 0 {
		return nil
	}

	var investor models.User
	if err := s.db.Select("id, reff_by").First(&investor, investorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, investorID)
		}
		return err
	}

	visited := map[uint]bool{investorID: true}
	parentID := investor.ReffBy

	for level := 1; level <= cfg.MaxTeamLevels && parentID != nil; level++ {
		if visited[*parentID] {
			log.WithFields(log.Fields{"user_id": *parentID, "investor_id": investorID}).
				Warn("cycle detected in referral chain, stopping level income walk")
			break
		}
		visited[*parentID] = true

		var parent models.User
		if err := s.db.Select("id, reff_by").First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// A missing ancestor ends the walk; levels already paid stay paid.
				log.WithField("user_id", *parentID).Warn("referral ancestor missing, stopping level income walk")
				break
			}
			return err
		}

		lvl := level
		invID := investmentID
		refID := investorID
		err := s.db.Transaction(func(tx *gorm.DB) error {
			msg := fmt.Sprintf("Level %d team income from downline investment of %.2f", lvl, amount)
			_, err := recordIncomeTx(tx, parent.ID, models.IncomeTeam, levelAmount, &lvl, &invID, &refID, msg)
			return err
		})
		if err != nil {
			return err
		}

		parentID = parent.ReffBy
	}

	return nil
}

// EnqueueTx inserts a pending fan-out job inside the transaction that commits
// the capital, so the commission step survives a crash between the two.
func (s *CommissionService) EnqueueTx(tx *gorm.DB, investmentID, userID uint, amount float64) error {
	job := models.CommissionJob{
		InvestmentID: investmentID,
		UserID:       userID,
		Amount:       amount,
		Status:       models.CommissionJobPending,
	}
	return tx.Create(&job).Error
}

// DispatchPending processes up to limit pending fan-out jobs. Per-job
// failures are recorded on the job and do not stop the batch; a job that
// keeps failing is parked as Failed after commissionMaxAttempts.
func (s *CommissionService) DispatchPending(limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}

	cfg, err := s.settings.Commission()
	if err != nil {
		return 0, err
	}

	var jobs []models.CommissionJob
	if err := s.db.Where("status = ?", models.CommissionJobPending).
		Order("id ASC").Limit(limit).Find(&jobs).Error; err != nil {
		return 0, err
	}

	done := 0
	for i := range jobs {
		job := &jobs[i]
		if err := s.runJob(cfg, job); err != nil {
			s.markJobFailed(job, err)
			continue
		}
		now := time.Now()
		if err := s.db.Model(job).Updates(map[string]interface{}{
			"status":       models.CommissionJobDone,
			"attempts":     gorm.Expr("attempts + 1"),
			"processed_at": now,
		}).Error; err != nil {
			log.WithField("job_id", job.ID).Errorf("failed to mark commission job done: %v", err)
			continue
		}
		done++
	}
	return done, nil
}

func (s *CommissionService) runJob(cfg *CommissionConfig, job *models.CommissionJob) error {
	var investor models.User
	if err := s.db.Select("id, reff_by").First(&investor, job.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, job.UserID)
		}
		return err
	}

	if investor.ReffBy != nil {
		if err := s.ProcessReferralBonus(cfg, *investor.ReffBy, investor.ID, job.Amount, job.InvestmentID); err != nil {
			return fmt.Errorf("referral bonus: %w", err)
		}
	}
	if err := s.DistributeLevelIncome(cfg, investor.ID, job.Amount, job.InvestmentID); err != nil {
		return fmt.Errorf("level income: %w", err)
	}
	return nil
}

func (s *CommissionService) markJobFailed(job *models.CommissionJob, cause error) {
	attempts := job.Attempts + 1
	status := models.CommissionJobPending
	if attempts >= commissionMaxAttempts {
		status = models.CommissionJobFailed
	}
	msg := cause.Error()
	if err := s.db.Model(job).Updates(map[string]interface{}{
		"status":     status,
		"attempts":   attempts,
		"last_error": msg,
	}).Error; err != nil {
		log.WithField("job_id", job.ID).Errorf("failed to record commission job error: %v", err)
	}
	log.WithFields(log.Fields{"job_id": job.ID, "attempts": attempts}).
		Warnf("commission fan-out failed: %v", cause)
}
