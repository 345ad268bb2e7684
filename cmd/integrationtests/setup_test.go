package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"auction-engine/internal/autobid"
	"auction-engine/internal/broadcast"
	"auction-engine/internal/engine"
	"auction-engine/internal/ledger"
	model "auction-engine/internal/models"
	"auction-engine/internal/server"
	"auction-engine/internal/store"

	"github.com/gin-gonic/gin"
)

// TestEnv bundles the wired application plus the engine handle so tests can
// drive scheduler ticks deterministically.
type TestEnv struct {
	Router *gin.Engine
	Engine *engine.Engine
	Hub    *broadcast.Hub
}

// SetupTestEnv wires the full application over in-memory state, seeded with
// the given auctions.
func SetupTestEnv(t *testing.T, auctions ...*model.Auction) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auctionStore := store.NewAuctionStore()
	for _, a := range auctions {
		if err := auctionStore.Add(a); err != nil {
			t.Fatalf("failed to seed auction %s: %v", a.Name, err)
		}
	}

	hub := broadcast.NewHub()
	eng := engine.New(auctionStore, ledger.NewBudgetLedger(), autobid.NewTable(), hub, 0)
	router := server.SetupRouter(eng, hub)

	return &TestEnv{Router: router, Engine: eng, Hub: hub}
}

// ActiveAuction builds a seeded auction with one standing bid.
func ActiveAuction(name string, high float64, leader string, endsIn time.Duration) *model.Auction {
	now := time.Now().UTC()
	a := &model.Auction{
		Name:    name,
		EndTime: now.Add(endsIn),
	}
	if high > 0 {
		a.CurrentHighBid = high
		a.CurrentHighBidder = leader
		a.Bids = []model.BidRecord{
			{BidID: "seed-" + name, AuctionID: name, Bidder: leader, Amount: high, CreatedAt: now.Add(-time.Minute)},
		}
		a.BidCount = 1
	}
	return a
}

// ExecuteRequestAndParse executes an HTTP request on the router and parses
// the JSON response body.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// Data extracts the "data" object from an envelope response.
func Data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return data
}
