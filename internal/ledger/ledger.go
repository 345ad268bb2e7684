package ledger

import (
	"fmt"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
)

// BudgetLedger tracks each user's spend cap and the amount reserved by their
// currently standing bids. A user raising their own bid is only charged the
// difference: the prior standing amount on that auction is credited back
// before the new one is reserved.
//
// No locking here; the engine serializes all access.
type BudgetLedger struct {
	budgets map[string]*model.UserBudget
	// standing amount per user per auction, mirrors each user's one standing
	// bid so reservations net out on replacement
	standing map[string]map[string]float64
}

// NewBudgetLedger creates an empty ledger.
func NewBudgetLedger() *BudgetLedger {
	return &BudgetLedger{
		budgets:  make(map[string]*model.UserBudget),
		standing: make(map[string]map[string]float64),
	}
}

// SetBudget creates a budget for a user with zero spend. The first write
// wins: a second call for an already-budgeted user is a no-op that returns
// the existing snapshot. There is no update path.
func (l *BudgetLedger) SetBudget(userID string, amount float64) model.UserBudget {
	if b, ok := l.budgets[userID]; ok {
		return *b
	}
	b := &model.UserBudget{UserID: userID, TotalBudget: amount, Spent: 0}
	l.budgets[userID] = b
	return *b
}

// GetBudget returns the user's budget snapshot, or ErrBudgetNotSet.
func (l *BudgetLedger) GetBudget(userID string) (model.UserBudget, error) {
	b, ok := l.budgets[userID]
	if !ok {
		return model.UserBudget{}, fmt.Errorf("get budget for user %s: %w", userID, auctionerrors.ErrBudgetNotSet)
	}
	return *b, nil
}

// HasBudget reports whether the user has a budget configured. Users without
// one are exempt from reservation checks entirely.
func (l *BudgetLedger) HasBudget(userID string) bool {
	_, ok := l.budgets[userID]
	return ok
}

// Reserve charges the net difference between the user's new bid on an
// auction and their prior standing bid there (zero if none). If the net
// charge would push spend past the total budget, nothing is committed and an
// InsufficientBudgetError carrying the shortfall is returned. Users with no
// budget pass untouched.
func (l *BudgetLedger) Reserve(userID, auctionID string, newAmount float64) (model.UserBudget, error) {
	b, ok := l.budgets[userID]
	if !ok {
		return model.UserBudget{}, nil
	}

	previous := l.standing[userID][auctionID]
	net := newAmount - previous

	if b.TotalBudget < b.Spent+net {
		return model.UserBudget{}, &auctionerrors.InsufficientBudgetError{
			UserID:    userID,
			Shortfall: b.Spent + net - b.TotalBudget,
		}
	}

	b.Spent += net
	if l.standing[userID] == nil {
		l.standing[userID] = make(map[string]float64)
	}
	l.standing[userID][auctionID] = newAmount
	return *b, nil
}
