// Package events defines the flat records the engine emits to its
// broadcaster after each committed state change.
package events

// Type tags an outbound envelope.
type Type string

const (
	TypeBidAccepted    Type = "bid_accepted"
	TypeBidRejected    Type = "bid_rejected"
	TypeTimerTick      Type = "timer_tick"
	TypeAuctionClosed  Type = "auction_closed"
	TypeAutoBidExpired Type = "auto_bid_expired"
)

// Envelope is the wire shape delivered to subscribers.
type Envelope struct {
	Type    Type `json:"type"`
	Payload any  `json:"payload"`
}

type BidAccepted struct {
	AuctionID string  `json:"auction_id"`
	Amount    float64 `json:"amount"`
	Bidder    string  `json:"bidder"`
	IsAutoBid bool    `json:"is_auto_bid"`
}

type BidRejected struct {
	AuctionID string  `json:"auction_id"`
	Amount    float64 `json:"amount"`
	Bidder    string  `json:"bidder"`
	Reason    string  `json:"reason"`
}

type TimerTick struct {
	AuctionID        string `json:"auction_id"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}

type AuctionClosed struct {
	AuctionID  string  `json:"auction_id"`
	Winner     string  `json:"winner"`
	FinalPrice float64 `json:"final_price"`
}

type AutoBidExpired struct {
	UserID    string `json:"user_id"`
	AuctionID string `json:"auction_id"`
}
