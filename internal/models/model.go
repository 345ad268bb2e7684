package models

import "time"

// AuctionStatus is the lifecycle state of an auction. The transition
// Active -> Closed is one-way; a closed auction is never reopened.
type AuctionStatus string

const (
	StatusActive AuctionStatus = "active"
	StatusClosed AuctionStatus = "closed"
)

// Auction represents a single item under timed bidding.
type Auction struct {
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	CurrentHighBid    float64       `json:"current_high_bid"`
	CurrentHighBidder string        `json:"current_high_bidder"`
	Bids              []BidRecord   `json:"bids"`
	BidCount          int           `json:"bid_count"`
	EndTime           time.Time     `json:"end_time"`
	Status            AuctionStatus `json:"status"`
}

// BidRecord is one standing bid tied to an auction and bidder. Records are
// append-only; a user's prior record on the same auction is replaced, never
// edited in place.
type BidRecord struct {
	BidID     string    `json:"bid_id"`
	AuctionID string    `json:"auction_id"`
	Bidder    string    `json:"bidder"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	IsAutoBid bool      `json:"is_auto_bid"`
}

// UserBudget caps a user's total spend across all auctions. Spent is the sum
// of the user's currently standing bids, not cumulative bid history.
type UserBudget struct {
	UserID      string  `json:"user_id"`
	TotalBudget float64 `json:"total_budget"`
	Spent       float64 `json:"spent"`
}

// Remaining returns the headroom left for new reservations.
func (b UserBudget) Remaining() float64 {
	return b.TotalBudget - b.Spent
}

// AutoBidDirective authorizes proxy bidding for a user on one auction up to
// a ceiling. At most one directive exists per (user, auction) pair.
type AutoBidDirective struct {
	UserID    string  `json:"user_id"`
	AuctionID string  `json:"auction_id"`
	Ceiling   float64 `json:"ceiling"`
}

// BidReceipt is the acknowledgment for an accepted bid.
type BidReceipt struct {
	Record     BidRecord `json:"record"`
	NewHighBid float64   `json:"new_high_bid"`
	BidCount   int       `json:"bid_count"`
}

// AutoBidOutcome distinguishes the results of storing a directive.
type AutoBidOutcome string

const (
	// OutcomeLeading: the user already holds the high bid; nothing to do.
	OutcomeLeading AutoBidOutcome = "leading"
	// OutcomePending: directive stored; the next sweep may act on it.
	OutcomePending AutoBidOutcome = "pending"
	// OutcomeCeilingTooLow: directive stored but inert because the ceiling
	// does not clear the current high bid. Reported explicitly, never folded
	// into plain success.
	OutcomeCeilingTooLow AutoBidOutcome = "ceiling_below_current_high"
)

// AutoBidStatus is the acknowledgment for SetAutoBid.
type AutoBidStatus struct {
	Directive AutoBidDirective `json:"directive"`
	Outcome   AutoBidOutcome   `json:"outcome"`
}
