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

// AuctionServiceInterface is the engine surface the transport layer uses.
type AuctionServiceInterface interface {
	PlaceBid(auctionID, bidder string, amount float64, isAutoBid bool, delivery engine.Delivery) (model.BidReceipt, error)
	SetAutoBid(userID, auctionID string, ceiling float64) (model.AutoBidStatus, error)
	SetBudget(userID string, amount float64) (model.UserBudget, error)
	GetBudget(userID string) (model.UserBudget, error)
	GetAuction(name string) (model.Auction, error)
	ListActive() []model.Auction
	ListClosed() []model.Auction
	GetBidHistory(name string) ([]model.BidRecord, error)
	GetUserBids(userID string) ([]model.BidRecord, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// PlaceBidHandler handles POST /bids. The HTTP response is the direct
// acknowledgment of the interactive caller.
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	receipt, err := h.service.PlaceBid(req.AuctionID, req.UserID, req.Amount, false, engine.DeliverDirect)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":    "PlaceBidHandler",
			"auction_id": req.AuctionID,
			"user_id":    req.UserID,
			"error":      err.Error(),
		})
		return
	}

	resp := bidResponse(receipt)
	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     receipt.Record.BidID,
		"auction_id": receipt.Record.AuctionID,
		"user_id":    req.UserID,
		"amount":     receipt.Record.Amount,
	})
}

// SetAutoBidHandler handles POST /autobids
func (h *AuctionHandler) SetAutoBidHandler(c *gin.Context) {
	var req helpers.AutoBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SetAutoBidHandler", err)
		return
	}

	status, err := h.service.SetAutoBid(req.UserID, req.AuctionID, req.Ceiling)
	if err != nil {
		code, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, code, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("SetAutoBidHandler: directive rejected", map[string]any{
			"auction_id": req.AuctionID,
			"user_id":    req.UserID,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.AutoBidResponse{
		UserID:    status.Directive.UserID,
		AuctionID: status.Directive.AuctionID,
		Ceiling:   status.Directive.Ceiling,
		Outcome:   string(status.Outcome),
	}

	message := "auto-bid directive stored"
	if status.Outcome == model.OutcomeCeilingTooLow {
		message = "auto-bid directive stored but inert: ceiling does not clear the current high bid"
	}

	utils.JSONResponse(c, http.StatusCreated, resp, message)
	helpers.LogSuccess("SetAutoBidHandler", message, map[string]any{
		"auction_id": req.AuctionID,
		"user_id":    req.UserID,
		"ceiling":    req.Ceiling,
		"outcome":    string(status.Outcome),
	})
}

// SetBudgetHandler handles POST /budgets. The first write wins; repeated
// calls return the standing snapshot unchanged.
func (h *AuctionHandler) SetBudgetHandler(c *gin.Context) {
	var req helpers.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SetBudgetHandler", err)
		return
	}

	budget, err := h.service.SetBudget(req.UserID, req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, budgetResponse(budget), "budget recorded")
	helpers.LogSuccess("SetBudgetHandler", "budget recorded", map[string]any{
		"user_id":      budget.UserID,
		"total_budget": budget.TotalBudget,
	})
}

// GetBudgetHandler handles GET /budgets/:user_id
func (h *AuctionHandler) GetBudgetHandler(c *gin.Context) {
	userID := c.Param("user_id")
	budget, err := h.service.GetBudget(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Info("GetBudgetHandler: budget lookup failed", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, budgetResponse(budget), "budget retrieved successfully")
}

// ListAuctionsHandler handles GET /auctions, with ?status=closed for the
// closed partition. Active is the default.
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	var auctions []model.Auction
	switch c.DefaultQuery("status", "active") {
	case "closed":
		auctions = h.service.ListClosed()
	default:
		auctions = h.service.ListActive()
	}

	utils.JSONResponse(c, http.StatusOK, auctions, "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	name := c.Param("auction_id")
	a, err := h.service.GetAuction(name)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Info("GetAuctionHandler: auction lookup failed", map[string]any{"auction_id": name})
		return
	}

	utils.JSONResponse(c, http.StatusOK, a, "auction retrieved successfully")
}

// GetBidHistoryHandler handles GET /auctions/:auction_id/bids
func (h *AuctionHandler) GetBidHistoryHandler(c *gin.Context) {
	name := c.Param("auction_id")
	bids, err := h.service.GetBidHistory(name)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetBidHistoryHandler: error retrieving bids", map[string]any{"auction_id": name, "error": err.Error()})
		return
	}

	if bids == nil {
		bids = []model.BidRecord{}
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
}

// GetUserBidsHandler handles GET /users/:user_id/bids
func (h *AuctionHandler) GetUserBidsHandler(c *gin.Context) {
	userID := c.Param("user_id")
	bids, err := h.service.GetUserBids(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}

	if bids == nil {
		bids = []model.BidRecord{}
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
}

func bidResponse(receipt model.BidReceipt) helpers.BidResponse {
	return helpers.BidResponse{
		BidID:      receipt.Record.BidID,
		AuctionID:  receipt.Record.AuctionID,
		UserID:     receipt.Record.Bidder,
		Amount:     receipt.Record.Amount,
		IsAutoBid:  receipt.Record.IsAutoBid,
		NewHighBid: receipt.NewHighBid,
		BidCount:   receipt.BidCount,
		CreatedAt:  receipt.Record.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func budgetResponse(b model.UserBudget) helpers.BudgetResponse {
	return helpers.BudgetResponse{
		UserID:      b.UserID,
		TotalBudget: b.TotalBudget,
		Spent:       b.Spent,
		Remaining:   b.Remaining(),
	}
}
