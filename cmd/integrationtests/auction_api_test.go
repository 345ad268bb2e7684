package integrationtests

import (
	"net/http"
	"testing"
	"time"

	"auction-engine/internal/events"
	"auction-engine/services/auction/helpers"

	"github.com/stretchr/testify/require"
)

func TestBiddingFlow(t *testing.T) {
	env := SetupTestEnv(t, ActiveAuction("Chessboard", 3500, "Aarav Sharma", time.Hour))

	// a higher bid takes the lead
	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/bids", helpers.PlaceBidRequest{
		AuctionID: "Chessboard", UserID: "X", Amount: 3600,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := Data(t, resp)
	require.Equal(t, 3600.0, data["new_high_bid"])
	require.Equal(t, 2.0, data["bid_count"])

	// an equal bid is rejected: no ties
	_, w = ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/bids", helpers.PlaceBidRequest{
		AuctionID: "Chessboard", UserID: "Y", Amount: 3600,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// state unchanged by the rejection
	resp, w = ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/auctions/Chessboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = Data(t, resp)
	require.Equal(t, 3600.0, data["current_high_bid"])
	require.Equal(t, "X", data["current_high_bidder"])

	// unknown auction
	_, w = ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/bids", helpers.PlaceBidRequest{
		AuctionID: "Submarine", UserID: "X", Amount: 100,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBudgetFlow(t *testing.T) {
	env := SetupTestEnv(t,
		ActiveAuction("auctionA", 0, "", time.Hour),
		ActiveAuction("auctionB", 0, "", time.Hour),
	)

	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/budgets", helpers.SetBudgetRequest{
		UserID: "u1", Amount: 500,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 500.0, Data(t, resp)["total_budget"])

	// first write wins: a second SetBudget is a no-op
	resp, w = ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/budgets", helpers.SetBudgetRequest{
		UserID: "u1", Amount: 900,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 500.0, Data(t, resp)["total_budget"])

	_, w = ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/bids", helpers.PlaceBidRequest{
		AuctionID: "auctionA", UserID: "u1", Amount: 400,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// the second auction would overrun the cap
	_, w = ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/bids", helpers.PlaceBidRequest{
		AuctionID: "auctionB", UserID: "u1", Amount: 200,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp, w = ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/budgets/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := Data(t, resp)
	require.Equal(t, 400.0, data["spent"])
	require.Equal(t, 100.0, data["remaining"])

	_, w = ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/budgets/ghost", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAutoBidFlow(t *testing.T) {
	env := SetupTestEnv(t, ActiveAuction("Chessboard", 3600, "X", time.Hour))

	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/autobids", helpers.AutoBidRequest{
		AuctionID: "Chessboard", UserID: "u2", Ceiling: 3700,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "pending", Data(t, resp)["outcome"])

	// the next scheduler pass places the proxy bid
	env.Engine.Tick(time.Now().UTC())

	resp, w = ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/auctions/Chessboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := Data(t, resp)
	require.Equal(t, 3601.0, data["current_high_bid"])
	require.Equal(t, "u2", data["current_high_bidder"])

	// boundary: ceiling equal to the current high is stored but inert
	resp, w = ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/autobids", helpers.AutoBidRequest{
		AuctionID: "Chessboard", UserID: "u3", Ceiling: 3601,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "ceiling_below_current_high", Data(t, resp)["outcome"])

	env.Engine.Tick(time.Now().UTC())
	resp, _ = ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/auctions/Chessboard", nil)
	require.Equal(t, "u2", Data(t, resp)["current_high_bidder"])
}

func TestLifecycleFlow(t *testing.T) {
	env := SetupTestEnv(t, ActiveAuction("Chessboard", 3500, "Aarav Sharma", 50*time.Millisecond))

	_, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/autobids", helpers.AutoBidRequest{
		AuctionID: "Chessboard", UserID: "u2", Ceiling: 5000,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	ch, cancel := env.Hub.Subscribe()
	defer cancel()

	// drive the tick past the deadline
	env.Engine.Tick(time.Now().UTC().Add(time.Second))

	var sawClosed, sawExpired bool
	for len(ch) > 0 {
		ev := <-ch
		switch ev.Type {
		case events.TypeAuctionClosed:
			sawClosed = true
			payload := ev.Payload.(events.AuctionClosed)
			require.Equal(t, "Aarav Sharma", payload.Winner)
			require.Equal(t, 3500.0, payload.FinalPrice)
		case events.TypeAutoBidExpired:
			sawExpired = true
		}
	}
	require.True(t, sawClosed, "expected an auction_closed event")
	require.True(t, sawExpired, "expected an auto_bid_expired event")

	// partition moved: active empty, closed holds the auction
	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/auctions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, resp["data"])

	resp, w = ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/auctions?status=closed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	closed := resp["data"].([]any)
	require.Len(t, closed, 1)

	// bidding on a closed auction is a not-found
	_, w = ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/bids", helpers.PlaceBidRequest{
		AuctionID: "Chessboard", UserID: "X", Amount: 9999,
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	// history of the closed auction stays readable
	resp, w = ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/auctions/Chessboard/bids", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)
}

func TestUserBidsProjection(t *testing.T) {
	env := SetupTestEnv(t,
		ActiveAuction("Chessboard", 3500, "Aarav Sharma", time.Hour),
		ActiveAuction("PS5", 42000, "Simran Bhatia", time.Hour),
	)

	for _, bid := range []helpers.PlaceBidRequest{
		{AuctionID: "Chessboard", UserID: "u1", Amount: 3600},
		{AuctionID: "PS5", UserID: "u1", Amount: 43000},
		{AuctionID: "Chessboard", UserID: "u1", Amount: 3700}, // replaces the first
	} {
		_, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/bids", bid)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/users/u1/bids", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// one standing bid per auction
	bids := resp["data"].([]any)
	require.Len(t, bids, 2)
	amounts := map[string]float64{}
	for _, b := range bids {
		rec := b.(map[string]any)
		amounts[rec["auction_id"].(string)] = rec["amount"].(float64)
	}
	require.Equal(t, 3700.0, amounts["Chessboard"])
	require.Equal(t, 43000.0, amounts["PS5"])
}

func TestWebhookIntentFlow(t *testing.T) {
	env := SetupTestEnv(t, ActiveAuction("Chessboard", 3500, "Aarav Sharma", time.Hour))

	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/webhook", helpers.WebhookRequest{
		Intent: "PlaceBidIntent",
		UserID: "u1",
		ExtractedVariables: map[string]any{
			"productName": "Chessboard",
			"bidAmount":   3600,
			"user":        "u1",
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "bid_placed", resp["status"])

	resp, w = ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/webhook", helpers.WebhookRequest{
		Intent:             "GetStatsIntent",
		ExtractedVariables: map[string]any{"productName": "Chessboard"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 3600.0, resp["highest"])
	require.Equal(t, 2.0, resp["bids"])
}
