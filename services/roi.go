package services

import (
	"fmt"
	"time"

	"project/models"
	"project/utils"
)

// PayoutEvaluation is the result of evaluating one investment for one cycle.
// The calculator mutates the in-memory Investment; persisting it and applying
// the wallet credit is the scheduler's job.
type PayoutEvaluation struct {
	Amount     float64
	IncomeType string
	Completed  bool
}

// ROICalculator computes the payout for a single investment under the two
// payout models. It never touches the wallet ledger.
type ROICalculator struct{}

// Evaluate applies one payout cycle to inv at the reference time now. force
// overrides the lump-sum delay gate, mirroring the scheduler's forced claim;
// it never overrides the status, welcome-bonus or already-paid guards.
func (ROICalculator) Evaluate(inv *models.Investment, now time.Time, force bool) (*PayoutEvaluation, error) {
	if inv.Status != models.InvestmentActive {
		return nil, ErrNotDue
	}
	// Bonus capital does not itself earn.
	if inv.IsWelcomeBonus {
		return nil, ErrNotDue
	}

	if inv.PayoutType == models.PayoutTypeLumpSum {
		return evaluateLumpSum(inv, now, force)
	}
	return evaluateDaily(inv, now)
}

func evaluateDaily(inv *models.Investment, now time.Time) (*PayoutEvaluation, error) {
	payout := utils.RoundFloat(inv.CurrentBalance*inv.DailyROI/100, 2)

	if inv.CompoundingEnabled {
		inv.CurrentBalance = utils.RoundFloat(inv.CurrentBalance+payout, 2)
	}
	inv.TotalEarned = utils.RoundFloat(inv.TotalEarned+payout, 2)
	inv.LastPayoutDate = &now

	eval := &PayoutEvaluation{Amount: payout, IncomeType: models.IncomeDailyROI}
	if inv.ElapsedDays(now) >= inv.DurationDays {
		end := now
		inv.Status = models.InvestmentCompleted
		inv.EndDate = &end
		eval.Completed = true
	}
	return eval, nil
}

// evaluateLumpSum fires at most once per investment: the lump_sum_paid flag
// is terminal.
func evaluateLumpSum(inv *models.Investment, now time.Time, force bool) (*PayoutEvaluation, error) {
	if inv.LumpSumPaid {
		return nil, ErrNotDue
	}
	if inv.LumpSumPercentage <= 0 {
		return nil, fmt.Errorf("%w: lump-sum plan %d has payout percentage %.2f",
			ErrInvalidConfiguration, inv.PlanID, inv.LumpSumPercentage)
	}
	if !force && now.Before(lumpSumDueAt(inv)) {
		return nil, ErrNotDue
	}

	payout := utils.RoundFloat(inv.Amount*inv.LumpSumPercentage/100, 2)
	end := now
	inv.CurrentBalance = utils.RoundFloat(inv.CurrentBalance+payout, 2)
	inv.TotalEarned = utils.RoundFloat(inv.TotalEarned+payout, 2)
	inv.LumpSumPaid = true
	inv.LastPayoutDate = &now
	inv.Status = models.InvestmentCompleted
	inv.EndDate = &end

	return &PayoutEvaluation{Amount: payout, IncomeType: models.IncomeWeeklyTrade, Completed: true}, nil
}

func lumpSumDueAt(inv *models.Investment) time.Time {
	return inv.StartDate.Add(time.Duration(inv.PayoutDelayHours) * time.Hour)
}

// startOfDay truncates t to midnight in its own location. The daily cooldown
// is calendar-day based: an investment paid at any point today is not due
// again today, one paid before today is.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dailyDue reports whether a daily investment has cleared its cooldown.
func dailyDue(last *time.Time, now time.Time) bool {
	return last == nil || last.Before(startOfDay(now))
}
