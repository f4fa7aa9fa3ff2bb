package game

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Degen-IO/pokerbackend/logging"
	"github.com/Degen-IO/pokerbackend/util"
)

var tableLogger = logging.GetZeroLogger("game::table", nil)

// TableManager allocates tables for joining players and tears down
// tables that have gone empty. Callers must hold the owning game's
// lock around FindOrCreateTable and ReleaseIfEmpty; both are
// read-roster-then-write sequences.
type TableManager struct {
	tables TableStore
}

func NewTableManager(tables TableStore) *TableManager {
	return &TableManager{tables: tables}
}

// FindOrCreateTable returns the first table (in creation order) of the
// game with a free seat, creating a new table when every existing one
// is full. First-created tables fill completely before later ones
// receive anyone.
func (tm *TableManager) FindOrCreateTable(ctx context.Context, g Game) (*Table, error) {
	existingTables, err := tm.tables.TablesForGame(ctx, g.Ref())
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list tables for game %s", g.Ref().ChannelKey())
	}

	for _, existingTable := range existingTables {
		if uint32(len(existingTable.Players)) < g.Info().PlayersPerTable {
			return existingTable, nil
		}
	}

	newTable, err := tm.tables.CreateTable(ctx, g.Ref())
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create a table for game %s", g.Ref().ChannelKey())
	}
	util.Metrics.TableCreated()
	tableLogger.Info().
		Str(logging.GameIDKey, g.Ref().ChannelKey()).
		Uint64(logging.TableIDKey, newTable.TableID).
		Msg("Created a new table")
	return newTable, nil
}

// ReleaseIfEmpty destroys the table if its roster is now empty. It
// runs synchronously as part of leave processing so that a join
// immediately after a leave observes a consistent table set.
func (tm *TableManager) ReleaseIfEmpty(ctx context.Context, tableID uint64) error {
	table, err := tm.tables.Table(ctx, tableID)
	if err != nil {
		return errors.Wrapf(err, "unable to read table %d", tableID)
	}
	if len(table.Players) > 0 {
		return nil
	}
	if err := tm.tables.DestroyTable(ctx, tableID); err != nil {
		return errors.Wrapf(err, "unable to destroy table %d", tableID)
	}
	util.Metrics.TableDestroyed()
	tableLogger.Info().
		Str(logging.GameIDKey, table.Game.ChannelKey()).
		Uint64(logging.TableIDKey, tableID).
		Msg("Destroyed empty table")
	return nil
}
