package services

import (
	"errors"
	"fmt"

	"project/models"
	"project/utils"

	"gorm.io/gorm"
)

// WalletService is the sole path by which investment_wallet and
// earning_wallet may change. Every mutation is an atomic column update plus
// one appended Transaction row carrying the resulting balance.
type WalletService struct {
	db *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db}
}

// Credit adds amount to the given wallet and appends a ledger row.
func (s *WalletService) Credit(userID uint, wallet string, amount float64, txType, message string) (*models.Transaction, error) {
	var rec *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		r, err := creditTx(tx, userID, wallet, amount, txType, message)
		rec = r
		return err
	})
	return rec, err
}

// Debit removes amount from the given wallet, failing with
// ErrInsufficientBalance when amount exceeds the current balance.
func (s *WalletService) Debit(userID uint, wallet string, amount float64, txType, message string) (*models.Transaction, error) {
	var rec *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		r, err := debitTx(tx, userID, wallet, amount, txType, message)
		rec = r
		return err
	})
	return rec, err
}

// RecordIncome credits the earning wallet, bumps the user's total_earned
// audit counter and appends one immutable IncomeTransaction with before/after
// snapshots, plus the coarse Transaction row. Sole path for income credits.
func (s *WalletService) RecordIncome(userID uint, incomeType string, amount float64, level *int, investmentID, referenceID *uint, message string) (*models.IncomeTransaction, error) {
	var rec *models.IncomeTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		r, err := recordIncomeTx(tx, userID, incomeType, amount, level, investmentID, referenceID, message)
		rec = r
		return err
	})
	return rec, err
}

func walletColumn(wallet string) (string, error) {
	switch wallet {
	case models.WalletInvestment:
		return "investment_wallet", nil
	case models.WalletEarning:
		return "earning_wallet", nil
	default:
		return "", fmt.Errorf("%w: unknown wallet %q", ErrInvalidConfiguration, wallet)
	}
}

func walletBalance(u *models.User, wallet string) float64 {
	if wallet == models.WalletInvestment {
		return u.InvestmentWallet
	}
	return u.EarningWallet
}

// creditTx applies a credit inside an existing transaction.
func creditTx(tx *gorm.DB, userID uint, wallet string, amount float64, txType, message string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: credit amount must be positive, got %.2f", ErrInvalidAmount, amount)
	}
	col, err := walletColumn(wallet)
	if err != nil {
		return nil, err
	}

	res := tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn(col, gorm.Expr(col+" + ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	return appendLedger(tx, userID, wallet, amount, models.FlowCredit, txType, message)
}

// debitTx applies a debit with an atomic conditional update so a negative
// balance can never be persisted, even under concurrent writers.
func debitTx(tx *gorm.DB, userID uint, wallet string, amount float64, txType, message string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: debit amount must be positive, got %.2f", ErrInvalidAmount, amount)
	}
	col, err := walletColumn(wallet)
	if err != nil {
		return nil, err
	}

	res := tx.Model(&models.User{}).Where("id = ? AND "+col+" >= ?", userID, amount).
		UpdateColumn(col, gorm.Expr(col+" - ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var user models.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
			}
			return nil, err
		}
		return nil, ErrInsufficientBalance
	}

	return appendLedger(tx, userID, wallet, amount, models.FlowDebit, txType, message)
}

func appendLedger(tx *gorm.DB, userID uint, wallet string, amount float64, flow, txType, message string) (*models.Transaction, error) {
	var user models.User
	if err := tx.Select("id, investment_wallet, earning_wallet").First(&user, userID).Error; err != nil {
		return nil, err
	}

	trx := models.Transaction{
		UserID:          userID,
		Wallet:          wallet,
		Amount:          utils.RoundFloat(amount, 2),
		BalanceAfter:    utils.RoundFloat(walletBalance(&user, wallet), 2),
		OrderID:         utils.GenerateOrderID(userID),
		TransactionFlow: flow,
		TransactionType: txType,
		Status:          "Success",
	}
	if message != "" {
		trx.Message = &message
	}
	if err := tx.Create(&trx).Error; err != nil {
		return nil, err
	}
	return &trx, nil
}

func recordIncomeTx(tx *gorm.DB, userID uint, incomeType string, amount float64, level *int, investmentID, referenceID *uint, message string) (*models.IncomeTransaction, error) {
	var before models.User
	if err := tx.Select("id, earning_wallet").First(&before, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	ledger, err := creditTx(tx, userID, models.WalletEarning, amount, incomeType, message)
	if err != nil {
		return nil, err
	}

	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("total_earned", gorm.Expr("total_earned + ?", amount)).Error; err != nil {
		return nil, err
	}

	income := models.IncomeTransaction{
		UserID:              userID,
		IncomeType:          incomeType,
		Amount:              utils.RoundFloat(amount, 2),
		EarningWalletBefore: utils.RoundFloat(before.EarningWallet, 2),
		EarningWalletAfter:  ledger.BalanceAfter,
		Level:               level,
		InvestmentID:        investmentID,
		ReferenceID:         referenceID,
		OrderID:             utils.GenerateOrderID(userID),
	}
	if message != "" {
		income.Message = &message
	}
	if err := tx.Create(&income).Error; err != nil {
		return nil, err
	}
	return &income, nil
}
