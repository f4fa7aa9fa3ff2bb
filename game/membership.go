package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Degen-IO/pokerbackend/logging"
	"github.com/Degen-IO/pokerbackend/util"
)

var membershipLogger = logging.GetZeroLogger("game::membership", nil)

// Membership orchestrates join/leave: eligibility, double-registration
// checks, seat assignment through the table manager, and the cascading
// table cleanup on leave. Callers must hold the owning game's lock.
type Membership struct {
	players   PlayerStore
	tables    *TableManager
	publisher Publisher
	now       func() time.Time
}

func NewMembership(players PlayerStore, tables *TableManager, publisher Publisher) *Membership {
	return &Membership{
		players:   players,
		tables:    tables,
		publisher: publisher,
		now:       time.Now,
	}
}

// Join registers the user for the game, seating them at the first
// table with a free seat (lowest free seat number first).
func (m *Membership) Join(ctx context.Context, userID uint64, g Game) (*Player, error) {
	if err := g.CanJoin(m.now()); err != nil {
		return nil, err
	}

	existing, err := m.players.PlayerForUser(ctx, userID, g.Ref())
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrapf(err, "unable to look up player for user %d", userID)
	}
	if existing != nil {
		return nil, AlreadyRegisteredError{UserID: userID, Game: g.Ref()}
	}

	table, err := m.tables.FindOrCreateTable(ctx, g)
	if err != nil {
		return nil, err
	}

	seatNo, ok := findAvailableSeatNumber(table.OccupiedSeats(), g.Info().PlayersPerTable)
	if !ok {
		// FindOrCreateTable promised a free seat. Getting here means
		// the roster changed underneath us or capacity is
		// miscalculated; surface it rather than retry.
		membershipLogger.Error().
			Str(logging.GameIDKey, g.Ref().ChannelKey()).
			Uint64(logging.TableIDKey, table.TableID).
			Msg("Table handed out as available has no free seat")
		return nil, TableFullError{TableID: table.TableID, Capacity: g.Info().PlayersPerTable}
	}

	player, err := m.players.CreatePlayer(ctx, &Player{
		UserID:     userID,
		Game:       g.Ref(),
		TableID:    table.TableID,
		SeatNumber: seatNo,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create player for user %d", userID)
	}

	util.Metrics.PlayerJoined()
	membershipLogger.Info().
		Str(logging.GameIDKey, g.Ref().ChannelKey()).
		Uint64(logging.UserIDKey, userID).
		Uint64(logging.TableIDKey, table.TableID).
		Uint32(logging.SeatNumKey, seatNo).
		Msg("Player joined")

	m.publishUpdate(g.Ref(), UpdatePlayerJoined, player)
	return player, nil
}

// Leave removes the user's seating record and destroys the vacated
// table if it is now empty. Returns a snapshot of the destroyed record.
func (m *Membership) Leave(ctx context.Context, userID uint64, g Game) (Player, error) {
	player, err := m.players.PlayerForUser(ctx, userID, g.Ref())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Player{}, NotRegisteredError{UserID: userID, Game: g.Ref()}
		}
		return Player{}, errors.Wrapf(err, "unable to look up player for user %d", userID)
	}

	snapshot := *player
	if err := m.players.DestroyPlayer(ctx, player.PlayerID); err != nil {
		return Player{}, errors.Wrapf(err, "unable to destroy player %d", player.PlayerID)
	}
	if err := m.tables.ReleaseIfEmpty(ctx, snapshot.TableID); err != nil {
		return Player{}, err
	}

	util.Metrics.PlayerLeft()
	membershipLogger.Info().
		Str(logging.GameIDKey, g.Ref().ChannelKey()).
		Uint64(logging.UserIDKey, userID).
		Uint64(logging.TableIDKey, snapshot.TableID).
		Uint32(logging.SeatNumKey, snapshot.SeatNumber).
		Msg("Player left")

	m.publishUpdate(g.Ref(), UpdatePlayerLeft, &snapshot)
	return snapshot, nil
}

func (m *Membership) publishUpdate(ref GameRef, update string, player *Player) {
	msg := GameUpdateMessage{
		MessageID: uuid.NewString(),
		Game:      ref,
		Update:    update,
		Player:    player,
	}
	if err := m.publisher.Publish(ref.ChannelKey(), &msg); err != nil {
		// Broadcast is fire-and-forget. The membership change stands.
		membershipLogger.Error().
			Str(logging.ChannelKey, ref.ChannelKey()).
			Msgf("Failed to publish %s update: %s", update, err)
	}
}
