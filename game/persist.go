package game

import (
	"context"
	"errors"
)

// ErrNotFound is returned by the stores when a record does not exist.
var ErrNotFound = errors.New("record not found")

// GameStore is the persistence collaborator for game records.
type GameStore interface {
	Game(ctx context.Context, ref GameRef) (Game, error)
	CreateGame(ctx context.Context, g Game) error
	UpdateGameStatus(ctx context.Context, ref GameRef, status GameStatus) error
	GamesByStatus(ctx context.Context, gameType GameType, status GameStatus) ([]Game, error)
}

// TableStore is the persistence collaborator for table records.
// TablesForGame returns tables in creation order with rosters attached.
type TableStore interface {
	Table(ctx context.Context, tableID uint64) (*Table, error)
	TablesForGame(ctx context.Context, ref GameRef) ([]*Table, error)
	CreateTable(ctx context.Context, ref GameRef) (*Table, error)
	DestroyTable(ctx context.Context, tableID uint64) error
	SetDealerSeat(ctx context.Context, tableID uint64, seatNo uint32) error
}

// PlayerStore is the persistence collaborator for seating records.
type PlayerStore interface {
	Player(ctx context.Context, playerID uint64) (*Player, error)
	PlayerForUser(ctx context.Context, userID uint64, ref GameRef) (*Player, error)
	CreatePlayer(ctx context.Context, player *Player) (*Player, error)
	DestroyPlayer(ctx context.Context, playerID uint64) error
}

// PersistHandState tracks the last dealt hand per game channel.
type PersistHandState interface {
	Load(channelKey string) (*HandState, error)
	Save(channelKey string, state *HandState) error
	Remove(channelKey string) error
}
