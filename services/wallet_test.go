package services

import (
	"testing"

	"project/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletCreditAndDebit(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	user := createUser(t, db, nil, 0)

	trx, err := svc.Credit(user.ID, models.WalletInvestment, 100, "deposit", "Test deposit")
	require.NoError(t, err)
	assert.Equal(t, models.FlowCredit, trx.TransactionFlow)
	assert.Equal(t, 100.0, trx.BalanceAfter)
	assert.Equal(t, 100.0, reloadUser(t, db, user.ID).InvestmentWallet)

	trx, err = svc.Debit(user.ID, models.WalletInvestment, 40, "investment", "Test debit")
	require.NoError(t, err)
	assert.Equal(t, models.FlowDebit, trx.TransactionFlow)
	assert.Equal(t, 60.0, trx.BalanceAfter)
	assert.Equal(t, 60.0, reloadUser(t, db, user.ID).InvestmentWallet)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestWalletDebitInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	user := createUser(t, db, nil, 50)

	_, err := svc.Debit(user.ID, models.WalletInvestment, 50.01, "investment", "")
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// The failed debit leaves no trace.
	assert.Equal(t, 50.0, reloadUser(t, db, user.ID).InvestmentWallet)
	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWalletUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)

	_, err := svc.Credit(999, models.WalletEarning, 10, "bonus", "")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Debit(999, models.WalletEarning, 10, "bonus", "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWalletRejectsNonPositiveAmounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	user := createUser(t, db, nil, 100)

	_, err := svc.Credit(user.ID, models.WalletInvestment, 0, "deposit", "")
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Debit(user.ID, models.WalletInvestment, -5, "investment", "")
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestWalletRejectsUnknownWallet(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	user := createUser(t, db, nil, 100)

	_, err := svc.Credit(user.ID, "savings", 10, "deposit", "")
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestRecordIncome(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	user := createUser(t, db, nil, 0)

	_, err := svc.RecordIncome(user.ID, models.IncomeDailyROI, 80, nil, nil, nil, "Daily return")
	require.NoError(t, err)

	level := 3
	income, err := svc.RecordIncome(user.ID, models.IncomeTeam, 20, &level, nil, nil, "Team income")
	require.NoError(t, err)

	assert.Equal(t, 80.0, income.EarningWalletBefore)
	assert.Equal(t, 100.0, income.EarningWalletAfter)
	require.NotNil(t, income.Level)
	assert.Equal(t, 3, *income.Level)

	refreshed := reloadUser(t, db, user.ID)
	assert.Equal(t, 100.0, refreshed.EarningWallet)
	assert.Equal(t, 100.0, refreshed.TotalEarned)

	// The investment wallet is untouched by income credits.
	assert.Zero(t, refreshed.InvestmentWallet)

	var ledger int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("user_id = ? AND wallet = ?", user.ID, models.WalletEarning).Count(&ledger).Error)
	assert.Equal(t, int64(2), ledger)
}
