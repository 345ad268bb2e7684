// Package engine implements the auction bid processing and lifecycle core:
// bid validation and execution, the per-user budget ledger, the auto-bid
// proxy, and the periodic tick that closes expired auctions.
//
// All state tables (auction store, ledger, directive table) are owned by the
// Engine and mutated only under its single write lock, so every bid and
// every scheduler tick runs as one indivisible unit. Outbound events are
// published only after the corresponding state change is committed.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/autobid"
	"auction-engine/internal/events"
	"auction-engine/internal/ledger"
	model "auction-engine/internal/models"
	"auction-engine/internal/store"
	"auction-engine/utils"
)

// Broadcaster receives engine events and fans them out to subscribers.
type Broadcaster interface {
	Publish(ev events.Envelope)
}

// Delivery selects where a bid's acknowledgment goes.
type Delivery int

const (
	// DeliverDirect: the caller is interactive; the synchronous return value
	// is the acknowledgment, and rejections are returned, not broadcast.
	DeliverDirect Delivery = iota
	// DeliverBroadcast: no direct caller exists (scheduler and webhook
	// paths); rejections go to the broadcaster as a general notice.
	DeliverBroadcast
)

// DefaultIncrement is the flat step an auto-bid adds to the current high.
const DefaultIncrement = 1

// Engine is the single mutation gateway for all auction state.
type Engine struct {
	mu          sync.Mutex
	store       *store.AuctionStore
	ledger      *ledger.BudgetLedger
	directives  *autobid.Table
	broadcaster Broadcaster
	increment   float64
}

// New creates an engine over the given tables. A non-positive increment
// falls back to DefaultIncrement.
func New(st *store.AuctionStore, lg *ledger.BudgetLedger, tbl *autobid.Table, b Broadcaster, increment float64) *Engine {
	if increment <= 0 {
		increment = DefaultIncrement
	}
	return &Engine{
		store:       st,
		ledger:      lg,
		directives:  tbl,
		broadcaster: b,
		increment:   increment,
	}
}

// PlaceBid validates and executes one bid as an atomic unit. On success the
// receipt carries the new high bid and bid count, and a BidAccepted event is
// broadcast. On rejection no state is mutated; the error is returned to a
// direct caller, or broadcast as a BidRejected notice when none exists.
func (e *Engine) PlaceBid(auctionID, bidder string, amount float64, isAutoBid bool, delivery Delivery) (model.BidReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.placeBidLocked(auctionID, bidder, amount, isAutoBid, delivery, time.Now().UTC())
}

func (e *Engine) placeBidLocked(auctionID, bidder string, amount float64, isAutoBid bool, delivery Delivery, now time.Time) (model.BidReceipt, error) {
	receipt, err := e.executeBid(auctionID, bidder, amount, isAutoBid, now)
	if err != nil {
		if delivery == DeliverBroadcast {
			e.broadcaster.Publish(events.Envelope{Type: events.TypeBidRejected, Payload: events.BidRejected{
				AuctionID: auctionID,
				Amount:    amount,
				Bidder:    bidder,
				Reason:    rejectionReason(err),
			}})
		}
		return model.BidReceipt{}, err
	}

	e.broadcaster.Publish(events.Envelope{Type: events.TypeBidAccepted, Payload: events.BidAccepted{
		AuctionID: auctionID,
		Amount:    amount,
		Bidder:    bidder,
		IsAutoBid: isAutoBid,
	}})
	return receipt, nil
}

// executeBid runs the validation and mutation steps. It either commits the
// whole bid or leaves every table untouched.
func (e *Engine) executeBid(auctionID, bidder string, amount float64, isAutoBid bool, now time.Time) (model.BidReceipt, error) {
	if auctionID == "" || bidder == "" {
		return model.BidReceipt{}, fmt.Errorf("engine: %w - missing auction or bidder", auctionerrors.ErrInvalidBid)
	}
	if amount <= 0 {
		return model.BidReceipt{}, fmt.Errorf("engine: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	a, err := e.store.GetActive(auctionID)
	if err != nil {
		return model.BidReceipt{}, fmt.Errorf("engine: %w", err)
	}

	// Strictly greater: equal amounts are rejected, no ties.
	if amount <= a.CurrentHighBid {
		return model.BidReceipt{}, fmt.Errorf("engine: %w - current highest bid is %.2f", auctionerrors.ErrBidTooLow, a.CurrentHighBid)
	}

	if _, err := e.ledger.Reserve(bidder, auctionID, amount); err != nil {
		return model.BidReceipt{}, fmt.Errorf("engine: %w", err)
	}

	// One standing bid per user per auction: drop the bidder's prior record
	// before appending, so budgets never double-charge a raised bid.
	kept := a.Bids[:0]
	for _, rec := range a.Bids {
		if rec.Bidder != bidder {
			kept = append(kept, rec)
		}
	}
	rec := model.BidRecord{
		BidID:     utils.GenerateID(),
		AuctionID: auctionID,
		Bidder:    bidder,
		Amount:    amount,
		CreatedAt: now,
		IsAutoBid: isAutoBid,
	}
	a.Bids = append(kept, rec)
	a.CurrentHighBid = amount
	a.CurrentHighBidder = bidder
	a.BidCount = len(a.Bids)

	return model.BidReceipt{Record: rec, NewHighBid: a.CurrentHighBid, BidCount: a.BidCount}, nil
}

// SetBudget creates a budget for the user with zero spend. The first write
// wins; later calls return the existing snapshot unchanged.
func (e *Engine) SetBudget(userID string, amount float64) (model.UserBudget, error) {
	if userID == "" || amount <= 0 {
		return model.UserBudget{}, fmt.Errorf("engine: %w - invalid budget parameters", auctionerrors.ErrInvalidBid)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.SetBudget(userID, amount), nil
}

// GetBudget returns the user's budget snapshot.
func (e *Engine) GetBudget(userID string) (model.UserBudget, error) {
	if userID == "" {
		return model.UserBudget{}, fmt.Errorf("engine: %w - empty user ID", auctionerrors.ErrInvalidBid)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.GetBudget(userID)
}

// SetAutoBid stores or overwrites the auto-bid ceiling for a (user, auction)
// pair. The auction must be active. The directive is stored even when the
// ceiling does not clear the current high bid, so a later rise in the
// ceiling is not required; that case is reported as a distinct outcome. No
// bid is placed here: the next sweep acts on the directive.
func (e *Engine) SetAutoBid(userID, auctionID string, ceiling float64) (model.AutoBidStatus, error) {
	if userID == "" || auctionID == "" || ceiling <= 0 {
		return model.AutoBidStatus{}, fmt.Errorf("engine: %w - invalid auto-bid parameters", auctionerrors.ErrInvalidBid)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.store.GetActive(auctionID)
	if err != nil {
		return model.AutoBidStatus{}, fmt.Errorf("engine: %w", err)
	}

	d := e.directives.Set(userID, auctionID, ceiling)

	outcome := model.OutcomePending
	switch {
	case a.CurrentHighBidder == userID:
		outcome = model.OutcomeLeading
	case ceiling <= a.CurrentHighBid:
		outcome = model.OutcomeCeilingTooLow
	}
	return model.AutoBidStatus{Directive: d, Outcome: outcome}, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return "auction_not_found"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return "bid_too_low"
	case errors.Is(err, auctionerrors.ErrInsufficientBudget):
		return "insufficient_budget"
	default:
		return "invalid_bid"
	}
}
