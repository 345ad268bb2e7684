package store

import (
	"errors"
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"

	"github.com/stretchr/testify/require"
)

func newAuction(name string, high float64) *model.Auction {
	return &model.Auction{
		Name:           name,
		CurrentHighBid: high,
		EndTime:        time.Now().UTC().Add(time.Minute),
		Bids: []model.BidRecord{
			{BidID: "b1", AuctionID: name, Bidder: "u1", Amount: high},
		},
		BidCount: 1,
	}
}

func TestAuctionStore_AddAndGet(t *testing.T) {
	s := NewAuctionStore()

	require.NoError(t, s.Add(newAuction("Chessboard", 3500)))

	a, err := s.GetActive("Chessboard")
	require.NoError(t, err)
	require.Equal(t, model.StatusActive, a.Status)

	// active names are unique
	err = s.Add(newAuction("Chessboard", 100))
	require.Error(t, err)

	_, err = s.GetActive("missing")
	require.Error(t, err)
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
}

func TestAuctionStore_Close(t *testing.T) {
	s := NewAuctionStore()
	require.NoError(t, s.Add(newAuction("PS5", 42000)))

	closed, err := s.Close("PS5")
	require.NoError(t, err)
	require.Equal(t, model.StatusClosed, closed.Status)

	// gone from active, present in closed
	_, err = s.GetActive("PS5")
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))

	got, err := s.Get("PS5")
	require.NoError(t, err)
	require.Equal(t, model.StatusClosed, got.Status)

	require.Empty(t, s.ListActive())
	require.Len(t, s.ListClosed(), 1)

	// closing twice fails: the transition is one-way
	_, err = s.Close("PS5")
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
}

func TestAuctionStore_ListSnapshotsAreCopies(t *testing.T) {
	s := NewAuctionStore()
	require.NoError(t, s.Add(newAuction("iPad", 52000)))

	snap := s.ListActive()
	require.Len(t, snap, 1)

	snap[0].CurrentHighBid = 1
	snap[0].Bids[0].Amount = 1

	a, err := s.GetActive("iPad")
	require.NoError(t, err)
	require.Equal(t, 52000.0, a.CurrentHighBid)
	require.Equal(t, 52000.0, a.Bids[0].Amount)
}

func TestAuctionStore_ActiveNamesSorted(t *testing.T) {
	s := NewAuctionStore()
	for _, name := range []string{"PS5", "Chessboard", "iPad"} {
		require.NoError(t, s.Add(newAuction(name, 100)))
	}
	require.Equal(t, []string{"Chessboard", "PS5", "iPad"}, s.ActiveNames())
}
