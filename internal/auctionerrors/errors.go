package auctionerrors

import (
	"errors"
	"fmt"
)

// Store-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found or already closed")
	ErrBudgetNotSet    = errors.New("no budget configured for user")
)

// Business logic errors
var (
	ErrInvalidBid         = errors.New("invalid bid")
	ErrBidTooLow          = errors.New("bid amount too low")
	ErrInsufficientBudget = errors.New("insufficient budget")
)

// InsufficientBudgetError reports by how much a reservation would overrun the
// user's total budget. It matches ErrInsufficientBudget under errors.Is.
type InsufficientBudgetError struct {
	UserID    string
	Shortfall float64
}

func (e *InsufficientBudgetError) Error() string {
	return fmt.Sprintf("insufficient budget for user %s: short by %.2f", e.UserID, e.Shortfall)
}

func (e *InsufficientBudgetError) Is(target error) bool {
	return target == ErrInsufficientBudget
}
