package helpers

// Request/Response DTOs
type PlaceBidRequest struct {
	AuctionID string  `json:"auction_id" binding:"required"`
	UserID    string  `json:"user_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type AutoBidRequest struct {
	AuctionID string  `json:"auction_id" binding:"required"`
	UserID    string  `json:"user_id" binding:"required"`
	Ceiling   float64 `json:"ceiling" binding:"required,gt=0"`
}

type SetBudgetRequest struct {
	UserID string  `json:"user_id" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID      string  `json:"bid_id"`
	AuctionID  string  `json:"auction_id"`
	UserID     string  `json:"user_id"`
	Amount     float64 `json:"amount"`
	IsAutoBid  bool    `json:"is_auto_bid"`
	NewHighBid float64 `json:"new_high_bid"`
	BidCount   int     `json:"bid_count"`
	CreatedAt  string  `json:"created_at"`
}

type AutoBidResponse struct {
	UserID    string  `json:"user_id"`
	AuctionID string  `json:"auction_id"`
	Ceiling   float64 `json:"ceiling"`
	Outcome   string  `json:"outcome"`
}

type BudgetResponse struct {
	UserID      string  `json:"user_id"`
	TotalBudget float64 `json:"total_budget"`
	Spent       float64 `json:"spent"`
	Remaining   float64 `json:"remaining"`
}

// WebhookRequest is the chat-intent payload shape.
type WebhookRequest struct {
	Intent             string         `json:"intent" binding:"required"`
	ExtractedVariables map[string]any `json:"extracted_variables"`
	UserID             string         `json:"user_id"`
	Timestamp          string         `json:"timestamp"`
}
