package store

import (
	"fmt"
	"sort"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
)

// AuctionStore partitions auctions into active and closed. An auction name is
// unique across the active partition and lives in exactly one partition at a
// time; Close is the only move between them and is one-way.
//
// The store does no locking of its own: the engine serializes every access
// behind its single write lock.
type AuctionStore struct {
	active map[string]*model.Auction
	closed map[string]*model.Auction
}

// NewAuctionStore creates an empty store.
func NewAuctionStore() *AuctionStore {
	return &AuctionStore{
		active: make(map[string]*model.Auction),
		closed: make(map[string]*model.Auction),
	}
}

// Add registers an auction in the active partition. Intended for process
// start seeding; a duplicate name is an error.
func (s *AuctionStore) Add(a *model.Auction) error {
	if _, ok := s.active[a.Name]; ok {
		return fmt.Errorf("add auction %s: name already active", a.Name)
	}
	a.Status = model.StatusActive
	s.active[a.Name] = a
	return nil
}

// GetActive returns the active auction with the given name.
func (s *AuctionStore) GetActive(name string) (*model.Auction, error) {
	a, ok := s.active[name]
	if !ok {
		return nil, fmt.Errorf("get auction %s: %w", name, auctionerrors.ErrAuctionNotFound)
	}
	return a, nil
}

// Get returns the auction with the given name from either partition.
func (s *AuctionStore) Get(name string) (*model.Auction, error) {
	if a, ok := s.active[name]; ok {
		return a, nil
	}
	if a, ok := s.closed[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("get auction %s: %w", name, auctionerrors.ErrAuctionNotFound)
}

// ListActive returns a snapshot of the active partition, sorted by name for
// stable iteration order.
func (s *AuctionStore) ListActive() []model.Auction {
	return snapshot(s.active)
}

// ListClosed returns a snapshot of the closed partition, sorted by name.
func (s *AuctionStore) ListClosed() []model.Auction {
	return snapshot(s.closed)
}

// ActiveNames returns the names of all active auctions, sorted.
func (s *AuctionStore) ActiveNames() []string {
	names := make([]string, 0, len(s.active))
	for name := range s.active {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close moves an auction from active to closed. It fails if the auction is
// not currently active.
func (s *AuctionStore) Close(name string) (*model.Auction, error) {
	a, ok := s.active[name]
	if !ok {
		return nil, fmt.Errorf("close auction %s: %w", name, auctionerrors.ErrAuctionNotFound)
	}
	delete(s.active, name)
	a.Status = model.StatusClosed
	s.closed[name] = a
	return a, nil
}

func snapshot(m map[string]*model.Auction) []model.Auction {
	out := make([]model.Auction, 0, len(m))
	for _, a := range m {
		cp := *a
		cp.Bids = append([]model.BidRecord(nil), a.Bids...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
