package game

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	// Postgres driver, registered for sqlx.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// PostgresStore implements the game, table, and player stores on
// Postgres via sqlx. Roster mutations take a SELECT ... FOR UPDATE on
// the table row so concurrent processes cannot double-assign a seat or
// resurrect a destroyed table; within one process the manager's
// per-game lock already serializes these paths.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect to postgres")
	}
	return &PostgresStore{db: db}, nil
}

// Schema is the DDL for the store. Applied by InitSchema on fresh
// databases; production deployments run it out of band.
const Schema = `
CREATE TABLE IF NOT EXISTS cash_games (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	status TEXT NOT NULL,
	start_date_time TIMESTAMPTZ NOT NULL,
	players_per_table INT NOT NULL CHECK (players_per_table BETWEEN 2 AND 10),
	starting_chips DOUBLE PRECISION NOT NULL,
	blinds_small DOUBLE PRECISION NOT NULL,
	blinds_big DOUBLE PRECISION NOT NULL,
	duration TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tournament_games (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	status TEXT NOT NULL,
	start_date_time TIMESTAMPTZ NOT NULL,
	players_per_table INT NOT NULL CHECK (players_per_table BETWEEN 2 AND 10),
	number_of_rebuys INT NOT NULL,
	rebuy_period TEXT NOT NULL,
	add_on BOOLEAN NOT NULL,
	starting_chips DOUBLE PRECISION,
	game_speed TEXT NOT NULL,
	late_registration_duration TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS game_tables (
	id BIGSERIAL PRIMARY KEY,
	game_type TEXT NOT NULL,
	game_id BIGINT NOT NULL,
	dealer_seat INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS players (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	game_type TEXT NOT NULL,
	game_id BIGINT NOT NULL,
	table_id BIGINT NOT NULL REFERENCES game_tables(id) ON DELETE CASCADE,
	seat_number INT NOT NULL,
	UNIQUE (table_id, seat_number),
	UNIQUE (user_id, game_type, game_id)
);
`

func (s *PostgresStore) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return errors.Wrap(err, "unable to initialize schema")
}

type cashGameRow struct {
	ID              uint64    `db:"id"`
	Name            string    `db:"name"`
	Status          string    `db:"status"`
	StartDateTime   time.Time `db:"start_date_time"`
	PlayersPerTable uint32    `db:"players_per_table"`
	StartingChips   float64   `db:"starting_chips"`
	BlindsSmall     float64   `db:"blinds_small"`
	BlindsBig       float64   `db:"blinds_big"`
	Duration        string    `db:"duration"`
}

func (r *cashGameRow) toGame() Game {
	return &CashGame{
		GameInfo: GameInfo{
			ID:              r.ID,
			Name:            r.Name,
			Status:          GameStatus(r.Status),
			StartDateTime:   r.StartDateTime,
			PlayersPerTable: r.PlayersPerTable,
		},
		StartingChips: r.StartingChips,
		BlindsSmall:   r.BlindsSmall,
		BlindsBig:     r.BlindsBig,
		Duration:      Duration(r.Duration),
	}
}

type tournamentGameRow struct {
	ID              uint64          `db:"id"`
	Name            string          `db:"name"`
	Status          string          `db:"status"`
	StartDateTime   time.Time       `db:"start_date_time"`
	PlayersPerTable uint32          `db:"players_per_table"`
	NumberOfRebuys  uint32          `db:"number_of_rebuys"`
	RebuyPeriod     string          `db:"rebuy_period"`
	AddOn           bool            `db:"add_on"`
	StartingChips   sql.NullFloat64 `db:"starting_chips"`
	GameSpeed       string          `db:"game_speed"`
	LateRegDuration string          `db:"late_registration_duration"`
}

func (r *tournamentGameRow) toGame() Game {
	return &TournamentGame{
		GameInfo: GameInfo{
			ID:              r.ID,
			Name:            r.Name,
			Status:          GameStatus(r.Status),
			StartDateTime:   r.StartDateTime,
			PlayersPerTable: r.PlayersPerTable,
		},
		NumberOfRebuys:           r.NumberOfRebuys,
		RebuyPeriod:              RebuyPeriod(r.RebuyPeriod),
		AddOn:                    r.AddOn,
		StartingChips:            r.StartingChips.Float64,
		GameSpeed:                GameSpeed(r.GameSpeed),
		LateRegistrationDuration: LateRegistration(r.LateRegDuration),
	}
}

type tableRow struct {
	ID         uint64 `db:"id"`
	GameType   string `db:"game_type"`
	GameID     uint64 `db:"game_id"`
	DealerSeat uint32 `db:"dealer_seat"`
}

func (r *tableRow) toTable() *Table {
	return &Table{
		TableID:    r.ID,
		Game:       GameRef{Type: GameType(r.GameType), ID: r.GameID},
		DealerSeat: r.DealerSeat,
	}
}

type playerRow struct {
	ID         uint64 `db:"id"`
	UserID     uint64 `db:"user_id"`
	GameType   string `db:"game_type"`
	GameID     uint64 `db:"game_id"`
	TableID    uint64 `db:"table_id"`
	SeatNumber uint32 `db:"seat_number"`
}

func (r *playerRow) toPlayer() *Player {
	return &Player{
		PlayerID:   r.ID,
		UserID:     r.UserID,
		Game:       GameRef{Type: GameType(r.GameType), ID: r.GameID},
		TableID:    r.TableID,
		SeatNumber: r.SeatNumber,
	}
}

func (s *PostgresStore) Game(ctx context.Context, ref GameRef) (Game, error) {
	switch ref.Type {
	case GameTypeCash:
		var row cashGameRow
		err := s.db.GetContext(ctx, &row, "SELECT * FROM cash_games WHERE id = $1", ref.ID)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		} else if err != nil {
			return nil, errors.Wrap(err, "sqlx Get returned an error")
		}
		return row.toGame(), nil
	case GameTypeTournament:
		var row tournamentGameRow
		err := s.db.GetContext(ctx, &row, "SELECT * FROM tournament_games WHERE id = $1", ref.ID)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		} else if err != nil {
			return nil, errors.Wrap(err, "sqlx Get returned an error")
		}
		return row.toGame(), nil
	}
	return nil, errors.Errorf("invalid game type [%s]", ref.Type)
}

func (s *PostgresStore) CreateGame(ctx context.Context, g Game) error {
	switch v := g.(type) {
	case *CashGame:
		return s.db.QueryRowContext(ctx,
			`INSERT INTO cash_games
			 (name, status, start_date_time, players_per_table, starting_chips, blinds_small, blinds_big, duration)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			v.Name, v.Status, v.StartDateTime, v.PlayersPerTable,
			v.StartingChips, v.BlindsSmall, v.BlindsBig, v.Duration).Scan(&v.GameInfo.ID)
	case *TournamentGame:
		return s.db.QueryRowContext(ctx,
			`INSERT INTO tournament_games
			 (name, status, start_date_time, players_per_table, number_of_rebuys, rebuy_period, add_on, starting_chips, game_speed, late_registration_duration)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
			v.Name, v.Status, v.StartDateTime, v.PlayersPerTable,
			v.NumberOfRebuys, v.RebuyPeriod, v.AddOn, v.StartingChips,
			v.GameSpeed, v.LateRegistrationDuration).Scan(&v.GameInfo.ID)
	}
	return errors.Errorf("invalid game variant %T", g)
}

func (s *PostgresStore) UpdateGameStatus(ctx context.Context, ref GameRef, status GameStatus) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE "+gameTableName(ref.Type)+" SET status = $1 WHERE id = $2", status, ref.ID)
	if err != nil {
		return errors.Wrap(err, "unable to update game status")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GamesByStatus(ctx context.Context, gameType GameType, status GameStatus) ([]Game, error) {
	var result []Game
	switch gameType {
	case GameTypeCash:
		var rows []cashGameRow
		if err := s.db.SelectContext(ctx, &rows,
			"SELECT * FROM cash_games WHERE status = $1 ORDER BY id", status); err != nil {
			return nil, errors.Wrap(err, "sqlx Select returned an error")
		}
		for i := range rows {
			result = append(result, rows[i].toGame())
		}
	case GameTypeTournament:
		var rows []tournamentGameRow
		if err := s.db.SelectContext(ctx, &rows,
			"SELECT * FROM tournament_games WHERE status = $1 ORDER BY id", status); err != nil {
			return nil, errors.Wrap(err, "sqlx Select returned an error")
		}
		for i := range rows {
			result = append(result, rows[i].toGame())
		}
	default:
		return nil, errors.Errorf("invalid game type [%s]", gameType)
	}
	return result, nil
}

func gameTableName(gameType GameType) string {
	if gameType == GameTypeTournament {
		return "tournament_games"
	}
	return "cash_games"
}

func (s *PostgresStore) Table(ctx context.Context, tableID uint64) (*Table, error) {
	var row tableRow
	err := s.db.GetContext(ctx, &row,
		"SELECT id, game_type, game_id, dealer_seat FROM game_tables WHERE id = $1", tableID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "sqlx Get returned an error")
	}
	table := row.toTable()
	if err := s.attachRoster(ctx, s.db, table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *PostgresStore) TablesForGame(ctx context.Context, ref GameRef) ([]*Table, error) {
	var rows []tableRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, game_type, game_id, dealer_seat FROM game_tables
		 WHERE game_type = $1 AND game_id = $2 ORDER BY id`, ref.Type, ref.ID)
	if err != nil {
		return nil, errors.Wrap(err, "sqlx Select returned an error")
	}
	tables := make([]*Table, 0, len(rows))
	for i := range rows {
		table := rows[i].toTable()
		if err := s.attachRoster(ctx, s.db, table); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func (s *PostgresStore) CreateTable(ctx context.Context, ref GameRef) (*Table, error) {
	var tableID uint64
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO game_tables (game_type, game_id) VALUES ($1, $2) RETURNING id",
		ref.Type, ref.ID).Scan(&tableID)
	if err != nil {
		return nil, errors.Wrap(err, "unable to insert table")
	}
	return &Table{TableID: tableID, Game: ref}, nil
}

func (s *PostgresStore) DestroyTable(ctx context.Context, tableID uint64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var lockedID uint64
		err := tx.GetContext(ctx, &lockedID,
			"SELECT id FROM game_tables WHERE id = $1 FOR UPDATE", tableID)
		if err == sql.ErrNoRows {
			return ErrNotFound
		} else if err != nil {
			return errors.Wrap(err, "unable to lock table row")
		}
		var rosterCount int
		if err := tx.GetContext(ctx, &rosterCount,
			"SELECT COUNT(*) FROM players WHERE table_id = $1", tableID); err != nil {
			return errors.Wrap(err, "unable to count roster")
		}
		if rosterCount > 0 {
			return errors.Errorf("refusing to destroy table %d with %d seated players", tableID, rosterCount)
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM game_tables WHERE id = $1", tableID)
		return errors.Wrap(err, "unable to delete table")
	})
}

func (s *PostgresStore) SetDealerSeat(ctx context.Context, tableID uint64, seatNo uint32) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE game_tables SET dealer_seat = $1 WHERE id = $2", seatNo, tableID)
	if err != nil {
		return errors.Wrap(err, "unable to set dealer seat")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Player(ctx context.Context, playerID uint64) (*Player, error) {
	var row playerRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM players WHERE id = $1", playerID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "sqlx Get returned an error")
	}
	return row.toPlayer(), nil
}

func (s *PostgresStore) PlayerForUser(ctx context.Context, userID uint64, ref GameRef) (*Player, error) {
	var row playerRow
	err := s.db.GetContext(ctx, &row,
		"SELECT * FROM players WHERE user_id = $1 AND game_type = $2 AND game_id = $3",
		userID, ref.Type, ref.ID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "sqlx Get returned an error")
	}
	return row.toPlayer(), nil
}

// CreatePlayer inserts the seating record under a lock on the table
// row, re-checking the seat is still free.
func (s *PostgresStore) CreatePlayer(ctx context.Context, player *Player) (*Player, error) {
	created := *player
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var lockedID uint64
		err := tx.GetContext(ctx, &lockedID,
			"SELECT id FROM game_tables WHERE id = $1 FOR UPDATE", player.TableID)
		if err == sql.ErrNoRows {
			return ErrNotFound
		} else if err != nil {
			return errors.Wrap(err, "unable to lock table row")
		}
		var seatTaken int
		if err := tx.GetContext(ctx, &seatTaken,
			"SELECT COUNT(*) FROM players WHERE table_id = $1 AND seat_number = $2",
			player.TableID, player.SeatNumber); err != nil {
			return errors.Wrap(err, "unable to check seat")
		}
		if seatTaken > 0 {
			return errors.Errorf("seat %d at table %d is already taken", player.SeatNumber, player.TableID)
		}
		return tx.QueryRowContext(ctx,
			`INSERT INTO players (user_id, game_type, game_id, table_id, seat_number)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			player.UserID, player.Game.Type, player.Game.ID, player.TableID,
			player.SeatNumber).Scan(&created.PlayerID)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *PostgresStore) DestroyPlayer(ctx context.Context, playerID uint64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = $1", playerID)
	if err != nil {
		return errors.Wrap(err, "unable to delete player")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) attachRoster(ctx context.Context, q sqlx.QueryerContext, table *Table) error {
	var rows []playerRow
	err := sqlx.SelectContext(ctx, q, &rows,
		"SELECT * FROM players WHERE table_id = $1 ORDER BY seat_number", table.TableID)
	if err != nil {
		return errors.Wrap(err, "sqlx Select returned an error")
	}
	table.Players = make([]*Player, 0, len(rows))
	for i := range rows {
		table.Players = append(table.Players, rows[i].toPlayer())
	}
	return nil
}

func (s *PostgresStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "unable to begin transaction")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "unable to commit transaction")
}
