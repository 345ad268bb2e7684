package engine

import (
	"fmt"
	"sort"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
)

// Read-only projections over engine state. Each returns copies; callers
// never see live table entries.

// GetAuction returns a snapshot of one auction from either partition.
func (e *Engine) GetAuction(name string) (model.Auction, error) {
	if name == "" {
		return model.Auction{}, fmt.Errorf("engine: %w - empty auction name", auctionerrors.ErrInvalidBid)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.store.Get(name)
	if err != nil {
		return model.Auction{}, fmt.Errorf("engine: %w", err)
	}
	cp := *a
	cp.Bids = append([]model.BidRecord(nil), a.Bids...)
	return cp, nil
}

// ListActive returns all auctions still open for bidding.
func (e *Engine) ListActive() []model.Auction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ListActive()
}

// ListClosed returns all auctions that have ended.
func (e *Engine) ListClosed() []model.Auction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ListClosed()
}

// GetBidHistory returns the bid records of one auction in insertion order.
func (e *Engine) GetBidHistory(name string) ([]model.BidRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("engine: %w - empty auction name", auctionerrors.ErrInvalidBid)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.store.Get(name)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return append([]model.BidRecord(nil), a.Bids...), nil
}

// GetUserBids returns the user's standing bid records across all auctions,
// active and closed, ordered by bid time.
func (e *Engine) GetUserBids(userID string) ([]model.BidRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("engine: %w - empty user ID", auctionerrors.ErrInvalidBid)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []model.BidRecord
	for _, a := range append(e.store.ListActive(), e.store.ListClosed()...) {
		for _, rec := range a.Bids {
			if rec.Bidder == userID {
				out = append(out, rec)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
