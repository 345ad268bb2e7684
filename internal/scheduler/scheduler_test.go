package scheduler

import (
	"testing"
	"time"

	"auction-engine/internal/autobid"
	"auction-engine/internal/engine"
	"auction-engine/internal/events"
	"auction-engine/internal/ledger"
	model "auction-engine/internal/models"
	"auction-engine/internal/store"

	"github.com/stretchr/testify/require"
)

type countingBroadcaster struct {
	envelopes chan events.Envelope
}

func (c *countingBroadcaster) Publish(ev events.Envelope) {
	select {
	case c.envelopes <- ev:
	default:
	}
}

func newSchedulerFixture(t *testing.T, endsIn time.Duration) (*engine.Engine, *countingBroadcaster) {
	t.Helper()
	st := store.NewAuctionStore()
	require.NoError(t, st.Add(&model.Auction{
		Name:           "Chessboard",
		CurrentHighBid: 3500,
		EndTime:        time.Now().UTC().Add(endsIn),
	}))
	b := &countingBroadcaster{envelopes: make(chan events.Envelope, 1024)}
	eng := engine.New(st, ledger.NewBudgetLedger(), autobid.NewTable(), b, 0)
	return eng, b
}

func TestScheduler_TicksDriveLifecycle(t *testing.T) {
	eng, b := newSchedulerFixture(t, 30*time.Millisecond)

	s := New(eng, 10*time.Millisecond)
	s.Start()
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-b.envelopes:
			if ev.Type == events.TypeAuctionClosed {
				require.Len(t, eng.ListClosed(), 1)
				require.Empty(t, eng.ListActive())
				return
			}
		case <-deadline:
			t.Fatal("auction was never closed by the scheduler")
		}
	}
}

func TestScheduler_StopHaltsTicking(t *testing.T) {
	eng, b := newSchedulerFixture(t, time.Hour)

	s := New(eng, 10*time.Millisecond)
	s.Start()

	// wait for at least one tick
	select {
	case <-b.envelopes:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick observed before stop")
	}

	s.Stop()

	// drain whatever was in flight, then expect silence
	for {
		select {
		case <-b.envelopes:
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}

	select {
	case ev := <-b.envelopes:
		t.Fatalf("tick after Stop: %v", ev.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestScheduler_DefaultInterval(t *testing.T) {
	eng, _ := newSchedulerFixture(t, time.Hour)
	s := New(eng, 0)
	require.Equal(t, DefaultInterval, s.interval)
}
