package game

import (
	"context"
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// MemoryStore is an in-process implementation of the game, table, and
// player stores. Used by tests and single-node deployments
// (PERSIST_METHOD=memory).
type MemoryStore struct {
	lock sync.Mutex

	games      map[GameRef]Game
	tables     map[uint64]*Table
	tableOrder map[GameRef][]uint64
	players    map[uint64]*Player

	nextGameID   map[GameType]uint64
	nextTableID  uint64
	nextPlayerID uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:      make(map[GameRef]Game),
		tables:     make(map[uint64]*Table),
		tableOrder: make(map[GameRef][]uint64),
		players:    make(map[uint64]*Player),
		nextGameID: make(map[GameType]uint64),
	}
}

func (s *MemoryStore) Game(ctx context.Context, ref GameRef) (Game, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	g, ok := s.games[ref]
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

// CreateGame assigns the game's ID (IDs are per game type, matching
// the two-table layout of the SQL store).
func (s *MemoryStore) CreateGame(ctx context.Context, g Game) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	gameType := g.Ref().Type
	s.nextGameID[gameType]++
	g.Info().ID = s.nextGameID[gameType]
	s.games[g.Ref()] = g
	return nil
}

func (s *MemoryStore) UpdateGameStatus(ctx context.Context, ref GameRef, status GameStatus) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	g, ok := s.games[ref]
	if !ok {
		return ErrNotFound
	}
	g.Info().Status = status
	return nil
}

func (s *MemoryStore) GamesByStatus(ctx context.Context, gameType GameType, status GameStatus) ([]Game, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	var result []Game
	for ref, g := range s.games {
		if ref.Type == gameType && g.Info().Status == status {
			result = append(result, g)
		}
	}
	return result, nil
}

func (s *MemoryStore) Table(ctx context.Context, tableID uint64) (*Table, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	table, ok := s.tables[tableID]
	if !ok {
		return nil, ErrNotFound
	}
	return s.snapshotTable(table), nil
}

func (s *MemoryStore) TablesForGame(ctx context.Context, ref GameRef) ([]*Table, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	var result []*Table
	for _, tableID := range s.tableOrder[ref] {
		result = append(result, s.snapshotTable(s.tables[tableID]))
	}
	return result, nil
}

func (s *MemoryStore) CreateTable(ctx context.Context, ref GameRef) (*Table, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.nextTableID++
	table := &Table{
		TableID: s.nextTableID,
		Game:    ref,
	}
	s.tables[table.TableID] = table
	s.tableOrder[ref] = append(s.tableOrder[ref], table.TableID)
	return s.snapshotTable(table), nil
}

func (s *MemoryStore) DestroyTable(ctx context.Context, tableID uint64) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	table, ok := s.tables[tableID]
	if !ok {
		return ErrNotFound
	}
	delete(s.tables, tableID)
	order := s.tableOrder[table.Game]
	for i, id := range order {
		if id == tableID {
			s.tableOrder[table.Game] = append(order[:i], order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) SetDealerSeat(ctx context.Context, tableID uint64, seatNo uint32) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	table, ok := s.tables[tableID]
	if !ok {
		return ErrNotFound
	}
	table.DealerSeat = seatNo
	return nil
}

func (s *MemoryStore) Player(ctx context.Context, playerID uint64) (*Player, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	snapshot := *player
	return &snapshot, nil
}

func (s *MemoryStore) PlayerForUser(ctx context.Context, userID uint64, ref GameRef) (*Player, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, player := range s.players {
		if player.UserID == userID && player.Game == ref {
			snapshot := *player
			return &snapshot, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreatePlayer(ctx context.Context, player *Player) (*Player, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.nextPlayerID++
	created := *player
	created.PlayerID = s.nextPlayerID
	s.players[created.PlayerID] = &created
	snapshot := created
	return &snapshot, nil
}

func (s *MemoryStore) DestroyPlayer(ctx context.Context, playerID uint64) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.players[playerID]; !ok {
		return ErrNotFound
	}
	delete(s.players, playerID)
	return nil
}

// snapshotTable copies a table and attaches its current roster in
// seat-creation order. Callers get their own copy to mutate.
func (s *MemoryStore) snapshotTable(table *Table) *Table {
	snapshot := *table
	snapshot.Players = nil
	for _, player := range s.players {
		if player.TableID == table.TableID {
			playerCopy := *player
			snapshot.Players = append(snapshot.Players, &playerCopy)
		}
	}
	return &snapshot
}

// MemoryHandStateTracker keeps the last dealt hand per game channel in
// process memory.
type MemoryHandStateTracker struct {
	lock        sync.Mutex
	activeHands map[string][]byte
}

func NewMemoryHandStateTracker() *MemoryHandStateTracker {
	return &MemoryHandStateTracker{
		activeHands: make(map[string][]byte),
	}
}

func (m *MemoryHandStateTracker) Load(channelKey string) (*HandState, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	handStateBytes, ok := m.activeHands[channelKey]
	if !ok {
		return nil, fmt.Errorf("hand state for key %s is not found", channelKey)
	}
	handState := &HandState{}
	if err := jsoniter.Unmarshal(handStateBytes, handState); err != nil {
		return nil, err
	}
	return handState, nil
}

func (m *MemoryHandStateTracker) Save(channelKey string, state *HandState) error {
	stateInBytes, err := jsoniter.Marshal(state)
	if err != nil {
		return err
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	m.activeHands[channelKey] = stateInBytes
	return nil
}

func (m *MemoryHandStateTracker) Remove(channelKey string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.activeHands, channelKey)
	return nil
}
