package handler

import (
	"fmt"
	"net/http"
	"time"

	"auction-engine/internal/engine"
	model "auction-engine/internal/models"
	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// WebhookHandler handles POST /webhook: the chat-intent channel. Payloads
// name an intent plus extracted variables; each intent maps onto one engine
// operation. Bids arriving here have no interactive socket behind them, so
// they use the broadcast-only path and the HTTP body only reports a coarse
// placed/failed status, like the original channel did.
func (h *AuctionHandler) WebhookHandler(c *gin.Context) {
	var req helpers.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "WebhookHandler", err)
		return
	}

	utils.Info("incoming webhook intent", map[string]any{
		"intent":  req.Intent,
		"user_id": req.UserID,
	})

	vars := req.ExtractedVariables
	if vars == nil {
		vars = map[string]any{}
	}

	var resp gin.H
	switch req.Intent {
	case "ListAvailableProductsIntent":
		resp = h.intentListProducts()
	case "AskProductIntent":
		resp = h.intentAskProduct(vars)
	case "PlaceBidIntent":
		resp = h.intentPlaceBid(vars)
	case "AutoBidIntent":
		resp = h.intentAutoBid(vars)
	case "GetStatsIntent":
		resp = h.intentGetStats(vars)
	case "GetBiddingHistoryIntent":
		resp = h.intentBidHistory(vars)
	case "FullAuctionSummaryIntent":
		resp = h.intentFullSummary()
	default:
		resp = gin.H{"message": "I'm not sure how to help with that yet."}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuctionHandler) intentListProducts() gin.H {
	names := []string{}
	for _, a := range h.service.ListActive() {
		names = append(names, a.Name)
	}
	return gin.H{"products": names}
}

func (h *AuctionHandler) intentAskProduct(vars map[string]any) gin.H {
	name := helpers.ToString(vars["productName"])
	a, err := h.service.GetAuction(name)
	if err != nil || a.Status != model.StatusActive {
		return gin.H{"error": "Product not found"}
	}
	return gin.H{
		"product":        a.Name,
		"description":    a.Description,
		"highest_bid":    a.CurrentHighBid,
		"time_remaining": formatRemaining(a.EndTime),
	}
}

func (h *AuctionHandler) intentPlaceBid(vars map[string]any) gin.H {
	name := helpers.ToString(vars["productName"])
	user := helpers.ToString(vars["user"])
	amount, ok := helpers.ToFloat(vars["bidAmount"])
	if !ok {
		return gin.H{"status": "bid_failed", "product": name, "user": user}
	}

	if _, err := h.service.PlaceBid(name, user, amount, false, engine.DeliverBroadcast); err != nil {
		return gin.H{"status": "bid_failed", "product": name, "amount": amount, "user": user}
	}
	return gin.H{"status": "bid_placed", "product": name, "amount": amount, "user": user}
}

func (h *AuctionHandler) intentAutoBid(vars map[string]any) gin.H {
	name := helpers.ToString(vars["productName"])
	user := helpers.ToString(vars["user"])
	ceiling, ok := helpers.ToFloat(vars["maxAutoBidAmount"])
	if !ok {
		return gin.H{"status": "error", "message": "Invalid auto-bid parameters."}
	}

	status, err := h.service.SetAutoBid(user, name, ceiling)
	if err != nil {
		return gin.H{"status": "error", "message": fmt.Sprintf("Product %s not found or auction ended.", name)}
	}

	message := fmt.Sprintf("Auto-bid set for %s up to %.0f.", name, ceiling)
	switch status.Outcome {
	case model.OutcomeLeading:
		message += " You are currently the highest bidder."
	case model.OutcomeCeilingTooLow:
		message += " The ceiling is below the current highest bid, so no bid will be placed yet."
	}

	return gin.H{
		"status":     "success",
		"message":    message,
		"product":    name,
		"max_amount": ceiling,
		"user":       user,
	}
}

func (h *AuctionHandler) intentGetStats(vars map[string]any) gin.H {
	name := helpers.ToString(vars["productName"])
	a, err := h.service.GetAuction(name)
	if err != nil || a.Status != model.StatusActive {
		return gin.H{"error": "Product not found"}
	}
	return gin.H{"product": a.Name, "bids": a.BidCount, "highest": a.CurrentHighBid}
}

func (h *AuctionHandler) intentBidHistory(vars map[string]any) gin.H {
	name := helpers.ToString(vars["productName"])
	bids, err := h.service.GetBidHistory(name)
	if err != nil {
		return gin.H{"error": "Product not found"}
	}
	amounts := make([]float64, 0, len(bids))
	for _, b := range bids {
		amounts = append(amounts, b.Amount)
	}
	return gin.H{"product": name, "history": amounts}
}

func (h *AuctionHandler) intentFullSummary() gin.H {
	summary := []gin.H{}
	for _, a := range h.service.ListActive() {
		summary = append(summary, gin.H{
			"product":        a.Name,
			"description":    a.Description,
			"highest_bid":    a.CurrentHighBid,
			"time_remaining": formatRemaining(a.EndTime),
			"total_bids":     a.BidCount,
		})
	}
	return gin.H{"summary": summary}
}

// formatRemaining renders a countdown as "3m 20s", or "Ended" once the
// deadline has passed.
func formatRemaining(endTime time.Time) string {
	remaining := time.Until(endTime)
	if remaining <= 0 {
		return "Ended"
	}
	total := int(remaining / time.Second)
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}
