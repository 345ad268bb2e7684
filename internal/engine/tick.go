package engine

import (
	"time"

	"auction-engine/internal/events"
	"auction-engine/utils"
)

// Tick runs one scheduler pass as a single indivisible unit: timer events
// for every active auction, then the closing pass for expired ones, then the
// auto-bid sweep over whatever is still active. The sweep never sees an
// auction that expired earlier in the same tick.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var expired []string
	for _, name := range e.store.ActiveNames() {
		a, err := e.store.GetActive(name)
		if err != nil {
			continue
		}
		remaining := a.EndTime.Sub(now)
		secs := int64(remaining / time.Second)
		if secs < 0 {
			secs = 0
		}
		e.broadcaster.Publish(events.Envelope{Type: events.TypeTimerTick, Payload: events.TimerTick{
			AuctionID:        name,
			RemainingSeconds: secs,
		}})
		if remaining <= 0 {
			expired = append(expired, name)
		}
	}

	for _, name := range expired {
		e.closeLocked(name)
	}

	e.sweepLocked(now)
}

// closeLocked moves one expired auction to the closed partition, purges its
// directives, and announces the result. A vanished auction is skipped as a
// no-op, never surfaced as an error.
func (e *Engine) closeLocked(name string) {
	a, err := e.store.Close(name)
	if err != nil {
		return
	}

	for _, d := range e.directives.RemoveByAuction(name) {
		e.broadcaster.Publish(events.Envelope{Type: events.TypeAutoBidExpired, Payload: events.AutoBidExpired{
			UserID:    d.UserID,
			AuctionID: name,
		}})
	}

	e.broadcaster.Publish(events.Envelope{Type: events.TypeAuctionClosed, Payload: events.AuctionClosed{
		AuctionID:  name,
		Winner:     a.CurrentHighBidder,
		FinalPrice: a.CurrentHighBid,
	}})

	utils.Info("auction closed", map[string]any{
		"auction_id":  name,
		"winner":      a.CurrentHighBidder,
		"final_price": a.CurrentHighBid,
		"bid_count":   a.BidCount,
	})
}

// sweepLocked evaluates every directive against current state and places a
// proxy bid for each outbid user whose ceiling still clears the next step.
// Rejections here (a budget running out, a race with another directive) go
// to the broadcaster; the directive stays stored for future ticks.
func (e *Engine) sweepLocked(now time.Time) {
	for _, d := range e.directives.All() {
		a, err := e.store.GetActive(d.AuctionID)
		if err != nil {
			// closed since the directive was read; skip as a no-op
			continue
		}
		if a.CurrentHighBidder == d.UserID || a.CurrentHighBid >= d.Ceiling {
			continue
		}
		candidate := a.CurrentHighBid + e.increment
		if candidate > d.Ceiling {
			continue
		}
		if _, err := e.placeBidLocked(d.AuctionID, d.UserID, candidate, true, DeliverBroadcast, now); err != nil {
			utils.Warn("auto-bid attempt rejected", map[string]any{
				"auction_id": d.AuctionID,
				"user_id":    d.UserID,
				"amount":     candidate,
				"error":      err.Error(),
			})
		}
	}
}
