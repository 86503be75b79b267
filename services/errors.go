package services

import "errors"

var (
	// ErrInsufficientBalance aborts the operation that attempted the debit.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNotFound covers missing users, investments and plans.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidConfiguration marks a misconfigured plan or setting. Batch
	// loops log it as a warning and skip the item instead of aborting.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNotDue means the payout guard (cooldown, delay or lump-sum flag)
	// rejected the investment. Not an error at batch level.
	ErrNotDue = errors.New("investment not due for payout")

	// ErrInvalidAmount rejects non-positive ledger amounts and investments
	// outside the plan bounds.
	ErrInvalidAmount = errors.New("invalid amount")
)
