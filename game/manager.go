package game

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Degen-IO/pokerbackend/internal"
	"github.com/Degen-IO/pokerbackend/logging"
	"github.com/Degen-IO/pokerbackend/util"
)

var managerLogger = logging.GetZeroLogger("game::manager", nil)

const gameCacheSize = 10000

// Manager is the caller-facing facade over the engine. It owns the
// per-game locks that serialize roster mutations and the LRU cache
// fronting game lookups. One Manager serves all games of the process.
type Manager struct {
	games      GameStore
	tables     TableStore
	players    PlayerStore
	membership *Membership
	dealer     *Dealer
	publisher  Publisher
	cache      *internal.GameCache

	lock      sync.Mutex
	gameLocks map[GameRef]*sync.Mutex
}

func NewManager(
	games GameStore,
	tables TableStore,
	players PlayerStore,
	handStates PersistHandState,
	publisher Publisher,
	deckSource DeckSource) (*Manager, error) {

	cache, err := internal.NewGameCache(gameCacheSize)
	if err != nil {
		return nil, err
	}
	tableManager := NewTableManager(tables)
	return &Manager{
		games:      games,
		tables:     tables,
		players:    players,
		membership: NewMembership(players, tableManager, publisher),
		dealer:     NewDealer(handStates, publisher, deckSource),
		publisher:  publisher,
		cache:      cache,
		gameLocks:  make(map[GameRef]*sync.Mutex),
	}, nil
}

// lockGame serializes the read-roster-then-write sequences for a
// single game. Two concurrent joins against a near-full table must not
// both claim the last seat or both create a redundant table.
func (m *Manager) lockGame(ref GameRef) *sync.Mutex {
	m.lock.Lock()
	defer m.lock.Unlock()
	gameLock, ok := m.gameLocks[ref]
	if !ok {
		gameLock = &sync.Mutex{}
		m.gameLocks[ref] = gameLock
	}
	return gameLock
}

func (m *Manager) game(ctx context.Context, ref GameRef) (Game, error) {
	if cached, ok := m.cache.Get(ref.ChannelKey()); ok {
		return cached.(Game), nil
	}
	g, err := m.games.Game(ctx, ref)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "unable to load game %s", ref.ChannelKey())
	}
	m.cache.Add(ref.ChannelKey(), g)
	util.Metrics.SetGameCacheCount(m.cache.Len())
	return g, nil
}

// JoinGame seats the user in the identified game.
func (m *Manager) JoinGame(ctx context.Context, userID uint64, gameID uint64, gameType GameType) (*Player, error) {
	ref := GameRef{Type: gameType, ID: gameID}
	g, err := m.game(ctx, ref)
	if err != nil {
		return nil, err
	}

	gameLock := m.lockGame(ref)
	gameLock.Lock()
	defer gameLock.Unlock()
	return m.membership.Join(ctx, userID, g)
}

// LeaveGame removes the user's seat and returns a snapshot of it.
func (m *Manager) LeaveGame(ctx context.Context, userID uint64, gameID uint64, gameType GameType) (Player, error) {
	ref := GameRef{Type: gameType, ID: gameID}
	g, err := m.game(ctx, ref)
	if err != nil {
		return Player{}, err
	}

	gameLock := m.lockGame(ref)
	gameLock.Lock()
	defer gameLock.Unlock()
	return m.membership.Leave(ctx, userID, g)
}

// DistributeCards deals a hand at the identified table. The owning
// game's lock is held for the duration so a concurrent leave cannot
// orphan a hole-card entry.
func (m *Manager) DistributeCards(ctx context.Context, tableID uint64) (*HandState, error) {
	table, err := m.tables.Table(ctx, tableID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "unable to load table %d", tableID)
	}

	gameLock := m.lockGame(table.Game)
	gameLock.Lock()
	defer gameLock.Unlock()

	// Re-read under the lock; the roster may have changed since the
	// unlocked lookup.
	table, err = m.tables.Table(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return m.dealer.DistributeCards(ctx, table)
}

// UpdateGameStatus transitions a game and broadcasts the change.
// Finished is terminal.
func (m *Manager) UpdateGameStatus(ctx context.Context, gameID uint64, gameType GameType, status GameStatus) error {
	ref := GameRef{Type: gameType, ID: gameID}
	g, err := m.game(ctx, ref)
	if err != nil {
		return err
	}

	gameLock := m.lockGame(ref)
	gameLock.Lock()
	defer gameLock.Unlock()

	if g.Info().Status == GameStatusFinished {
		return EligibilityError{Msg: "game is already finished"}
	}
	if err := m.games.UpdateGameStatus(ctx, ref, status); err != nil {
		return errors.Wrapf(err, "unable to update status of game %s", ref.ChannelKey())
	}
	m.cache.Remove(ref.ChannelKey())

	managerLogger.Info().
		Str(logging.GameIDKey, ref.ChannelKey()).
		Msgf("Game status updated to %s", status)
	msg := GameUpdateMessage{
		MessageID: uuid.NewString(),
		Game:      ref,
		Update:    UpdateGameStatus,
		Status:    status,
	}
	if err := m.publisher.Publish(ref.ChannelKey(), &msg); err != nil {
		managerLogger.Error().
			Str(logging.ChannelKey, ref.ChannelKey()).
			Msgf("Failed to publish status update: %s", err)
	}
	return nil
}
