package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"auction-engine/internal/autobid"
	"auction-engine/internal/broadcast"
	"auction-engine/internal/engine"
	"auction-engine/internal/ledger"
	model "auction-engine/internal/models"
	"auction-engine/internal/scheduler"
	"auction-engine/internal/server"
	"auction-engine/internal/store"
)

func main() {

	auctionStore := store.NewAuctionStore()
	budgetLedger := ledger.NewBudgetLedger()
	directives := autobid.NewTable()
	hub := broadcast.NewHub()

	seedAuctions(auctionStore)

	eng := engine.New(auctionStore, budgetLedger, directives, hub, getIncrement())

	lifecycle := scheduler.New(eng, getTickInterval())
	lifecycle.Start()
	defer lifecycle.Stop()

	router := server.SetupRouter(eng, hub)

	port := getPort()
	fmt.Printf("Starting auction server on %s...\n", port)
	if err := router.Run(port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// seedAuctions loads the demo catalog: each auction gets its bid history and
// the leader the catalog names.
func seedAuctions(auctionStore *store.AuctionStore) {
	now := time.Now().UTC()

	catalog := []struct {
		name        string
		description string
		minutes     int
		history     []float64
		leader      string
	}{
		{"Chessboard", "Handcrafted wooden chessboard with polished walnut finish.", 3, []float64{2000, 2500, 3100, 3500}, "Aarav Sharma"},
		{"Vintage Watch", "Classic 1960s Swiss automatic wristwatch in mint condition.", 8, []float64{5000, 6000, 6800, 7600}, "Meera Kapoor"},
		{"iPad", "Brand new Apple iPad Pro 11-inch with M2 chip.", 10, []float64{48000, 50000, 51000, 52000}, "Rohan Verma"},
		{"PS5", "Sony PlayStation 5 with DualSense Controller and Horizon bundle.", 6, []float64{39000, 40000, 41000, 42000}, "Simran Bhatia"},
		{"MacBook Air", "Apple MacBook Air M2 (2023), 256GB SSD, Space Gray.", 12, []float64{87000, 89000, 91000, 92000}, "Nikhil Joshi"},
	}

	for _, item := range catalog {
		a := &model.Auction{
			Name:        item.name,
			Description: item.description,
			EndTime:     now.Add(time.Duration(item.minutes) * time.Minute),
		}
		for i, amount := range item.history {
			bidder := fmt.Sprintf("seed-bidder-%d", i+1)
			if i == len(item.history)-1 {
				bidder = item.leader
			}
			a.Bids = append(a.Bids, model.BidRecord{
				BidID:     fmt.Sprintf("seed-%s-%d", item.name, i+1),
				AuctionID: item.name,
				Bidder:    bidder,
				Amount:    amount,
				CreatedAt: now.Add(time.Duration(i-len(item.history)) * time.Minute),
			})
			a.CurrentHighBid = amount
			a.CurrentHighBidder = bidder
		}
		a.BidCount = len(a.Bids)

		if err := auctionStore.Add(a); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed auction %s: %v\n", item.name, err)
			os.Exit(1)
		}
	}
}

// getPort returns the server port from env or defaults to ":8080"
func getPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return fmt.Sprintf(":%s", p)
	}
	return ":8080"
}

// getTickInterval returns the scheduler period from env or the 1s default
func getTickInterval() time.Duration {
	if v := os.Getenv("AUCTION_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return scheduler.DefaultInterval
}

// getIncrement returns the auto-bid step from env or the unit default
func getIncrement() float64 {
	if v := os.Getenv("AUCTION_BID_INCREMENT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return engine.DefaultIncrement
}
