package autobid

import (
	"sort"

	model "auction-engine/internal/models"
)

// Table holds auto-bid directives keyed by (user, auction). A new Set for
// the same pair overwrites the prior ceiling. Directives are removed only
// when their auction closes.
//
// No locking here; the engine serializes all access.
type Table struct {
	// userID -> auctionID -> directive
	directives map[string]map[string]model.AutoBidDirective
}

// NewTable creates an empty directive table.
func NewTable() *Table {
	return &Table{directives: make(map[string]map[string]model.AutoBidDirective)}
}

// Set stores or overwrites the ceiling for a (user, auction) pair.
func (t *Table) Set(userID, auctionID string, ceiling float64) model.AutoBidDirective {
	d := model.AutoBidDirective{UserID: userID, AuctionID: auctionID, Ceiling: ceiling}
	if t.directives[userID] == nil {
		t.directives[userID] = make(map[string]model.AutoBidDirective)
	}
	t.directives[userID][auctionID] = d
	return d
}

// Get returns the directive for a (user, auction) pair, if any.
func (t *Table) Get(userID, auctionID string) (model.AutoBidDirective, bool) {
	d, ok := t.directives[userID][auctionID]
	return d, ok
}

// All returns every directive, ordered by user then auction for a stable
// sweep order.
func (t *Table) All() []model.AutoBidDirective {
	users := make([]string, 0, len(t.directives))
	for u := range t.directives {
		users = append(users, u)
	}
	sort.Strings(users)

	var out []model.AutoBidDirective
	for _, u := range users {
		byAuction := t.directives[u]
		names := make([]string, 0, len(byAuction))
		for n := range byAuction {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			out = append(out, byAuction[n])
		}
	}
	return out
}

// RemoveByAuction deletes every directive bound to an auction and returns
// them. Called when the auction closes.
func (t *Table) RemoveByAuction(auctionID string) []model.AutoBidDirective {
	var removed []model.AutoBidDirective
	users := make([]string, 0, len(t.directives))
	for u := range t.directives {
		users = append(users, u)
	}
	sort.Strings(users)

	for _, u := range users {
		if d, ok := t.directives[u][auctionID]; ok {
			removed = append(removed, d)
			delete(t.directives[u], auctionID)
			if len(t.directives[u]) == 0 {
				delete(t.directives, u)
			}
		}
	}
	return removed
}
