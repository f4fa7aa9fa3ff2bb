package game

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, store *MemoryStore, publisher Publisher) *Manager {
	t.Helper()
	manager, err := NewManager(store, store, store, NewMemoryHandStateTracker(), publisher, nil)
	require.NoError(t, err)
	return manager
}

// Five users join a two-seat cash game, the 5th leaves, then the 2nd
// leaves and the 5th rejoins into the vacated seat.
func TestEndToEndSeatingScenario(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	manager := newTestManager(t, store, &fakePublisher{})

	g := newCashGame(2)
	require.NoError(t, store.CreateGame(ctx, g))
	gameID := g.Ref().ID

	players := make(map[uint64]*Player)
	for userID := uint64(1); userID <= 5; userID++ {
		player, err := manager.JoinGame(ctx, userID, gameID, GameTypeCash)
		require.NoError(t, err)
		players[userID] = player
	}

	// (T1,1),(T1,2),(T2,1),(T2,2),(T3,1)
	assert.Equal(t, players[1].TableID, players[2].TableID)
	assert.Equal(t, players[3].TableID, players[4].TableID)
	assert.NotEqual(t, players[1].TableID, players[3].TableID)
	assert.NotEqual(t, players[3].TableID, players[5].TableID)
	assert.Equal(t, uint32(1), players[1].SeatNumber)
	assert.Equal(t, uint32(2), players[2].SeatNumber)
	assert.Equal(t, uint32(1), players[3].SeatNumber)
	assert.Equal(t, uint32(2), players[4].SeatNumber)
	assert.Equal(t, uint32(1), players[5].SeatNumber)

	// User 5 leaves: their player row and their now-empty table are
	// both gone.
	snapshot, err := manager.LeaveGame(ctx, 5, gameID, GameTypeCash)
	require.NoError(t, err)
	assert.Equal(t, players[5].PlayerID, snapshot.PlayerID)
	_, err = store.Player(ctx, players[5].PlayerID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Table(ctx, players[5].TableID)
	assert.ErrorIs(t, err, ErrNotFound)

	// User 2 leaves, user 5 rejoins: lands at table 1 in the vacated
	// seat.
	_, err = manager.LeaveGame(ctx, 2, gameID, GameTypeCash)
	require.NoError(t, err)
	rejoined, err := manager.JoinGame(ctx, 5, gameID, GameTypeCash)
	require.NoError(t, err)
	assert.Equal(t, players[1].TableID, rejoined.TableID)
	assert.Equal(t, uint32(2), rejoined.SeatNumber)
}

func TestJoinGameRejectedAfterFinish(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	manager := newTestManager(t, store, &fakePublisher{})

	g := newCashGame(4)
	require.NoError(t, store.CreateGame(ctx, g))
	gameID := g.Ref().ID

	_, err := manager.JoinGame(ctx, 1, gameID, GameTypeCash)
	require.NoError(t, err)

	require.NoError(t, manager.UpdateGameStatus(ctx, gameID, GameTypeCash, GameStatusFinished))

	_, err = manager.JoinGame(ctx, 2, gameID, GameTypeCash)
	var eligibility EligibilityError
	require.ErrorAs(t, err, &eligibility)
	_, err = store.PlayerForUser(ctx, 2, g.Ref())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinishedStatusIsTerminal(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	manager := newTestManager(t, store, &fakePublisher{})

	g := newCashGame(4)
	require.NoError(t, store.CreateGame(ctx, g))
	gameID := g.Ref().ID

	require.NoError(t, manager.UpdateGameStatus(ctx, gameID, GameTypeCash, GameStatusFinished))
	err := manager.UpdateGameStatus(ctx, gameID, GameTypeCash, GameStatusOngoing)
	var eligibility EligibilityError
	require.ErrorAs(t, err, &eligibility)
}

func TestJoinGameUnknownGame(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	manager := newTestManager(t, store, &fakePublisher{})

	_, err := manager.JoinGame(ctx, 1, 42, GameTypeCash)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDistributeCardsUnknownTable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	manager := newTestManager(t, store, &fakePublisher{})

	_, err := manager.DistributeCards(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDistributeCardsThroughManager(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	publisher := &fakePublisher{}
	manager := newTestManager(t, store, publisher)

	g := newTournamentGame(6, LateRegistration60Min)
	require.NoError(t, store.CreateGame(ctx, g))
	gameID := g.Ref().ID

	var tableID uint64
	for userID := uint64(1); userID <= 3; userID++ {
		player, err := manager.JoinGame(ctx, userID, gameID, GameTypeTournament)
		require.NoError(t, err)
		tableID = player.TableID
	}

	handState, err := manager.DistributeCards(ctx, tableID)
	require.NoError(t, err)
	assert.Len(t, handState.Players, 3)
	assert.Equal(t, g.Ref(), handState.Game)

	// 3 joins + 1 hand.
	assert.Len(t, publisher.messages(), 4)
}

// Concurrent joins against one game must neither double-assign a seat
// nor create redundant tables.
func TestConcurrentJoinsKeepSeatsUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	manager := newTestManager(t, store, &fakePublisher{})

	g := newCashGame(10)
	require.NoError(t, store.CreateGame(ctx, g))
	gameID := g.Ref().ID

	const numUsers = 30
	var wg sync.WaitGroup
	results := make([]*Player, numUsers)
	joinErrs := make([]error, numUsers)
	for i := 0; i < numUsers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], joinErrs[i] = manager.JoinGame(ctx, uint64(i+1), gameID, GameTypeCash)
		}(i)
	}
	wg.Wait()
	for i, err := range joinErrs {
		require.NoErrorf(t, err, "join %d failed", i+1)
	}

	type seatKey struct {
		tableID uint64
		seatNo  uint32
	}
	seats := make(map[seatKey]bool)
	tables := make(map[uint64]int)
	for _, player := range results {
		key := seatKey{tableID: player.TableID, seatNo: player.SeatNumber}
		require.Falsef(t, seats[key], "seat %d at table %d assigned twice", player.SeatNumber, player.TableID)
		seats[key] = true
		tables[player.TableID]++
	}
	// 30 players at capacity 10 means exactly 3 tables, all full.
	assert.Len(t, tables, 3)
	for tableID, count := range tables {
		assert.Equalf(t, 10, count, "table %d has %d players", tableID, count)
	}
}
