package game

import (
	"fmt"
	"time"

	"github.com/Degen-IO/pokerbackend/poker"
)

type GameType string

const (
	GameTypeCash       GameType = "cash"
	GameTypeTournament GameType = "tournament"
)

func ParseGameType(s string) (GameType, error) {
	switch GameType(s) {
	case GameTypeCash:
		return GameTypeCash, nil
	case GameTypeTournament:
		return GameTypeTournament, nil
	}
	return "", EligibilityError{Msg: fmt.Sprintf("invalid game type [%s]", s)}
}

type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"
	GameStatusOngoing  GameStatus = "ongoing"
	GameStatusFinished GameStatus = "finished"
)

func ParseGameStatus(s string) (GameStatus, error) {
	switch GameStatus(s) {
	case GameStatusWaiting, GameStatusOngoing, GameStatusFinished:
		return GameStatus(s), nil
	}
	return "", fmt.Errorf("invalid game status [%s]", s)
}

// Duration of a cash game session.
type Duration string

const (
	Duration1Hr       Duration = "_1hr"
	Duration2Hr       Duration = "_2hr"
	Duration3Hr       Duration = "_3hr"
	Duration4Hr       Duration = "_4hr"
	DurationUnlimited Duration = "unlimited"
	DurationManual    Duration = "manual"
)

// FixedWindow returns the session length for the fixed durations.
// Unlimited and manual games have no fixed end.
func (d Duration) FixedWindow() (time.Duration, bool) {
	switch d {
	case Duration1Hr:
		return 1 * time.Hour, true
	case Duration2Hr:
		return 2 * time.Hour, true
	case Duration3Hr:
		return 3 * time.Hour, true
	case Duration4Hr:
		return 4 * time.Hour, true
	}
	return 0, false
}

type GameSpeed string

const (
	GameSpeedSlow       GameSpeed = "slow"
	GameSpeedMedium     GameSpeed = "medium"
	GameSpeedFast       GameSpeed = "fast"
	GameSpeedRidiculous GameSpeed = "ridiculous"
)

type RebuyPeriod string

const (
	RebuyPeriod30Min  RebuyPeriod = "_30min"
	RebuyPeriod60Min  RebuyPeriod = "_60min"
	RebuyPeriod90Min  RebuyPeriod = "_90min"
	RebuyPeriod120Min RebuyPeriod = "_120min"
	RebuyPeriodNone   RebuyPeriod = "none"
)

// LateRegistration is the tournament window after the official start
// during which new players may still join.
type LateRegistration string

const (
	LateRegistration30Min LateRegistration = "_30min"
	LateRegistration60Min LateRegistration = "_60min"
	LateRegistration90Min LateRegistration = "_90min"
	LateRegistrationNone  LateRegistration = "none"
)

// Expired reports whether the window has closed at the given time.
// "none" means there is no window at all.
func (l LateRegistration) Expired(startDateTime time.Time, now time.Time) (bool, error) {
	registrationEndTime := startDateTime
	switch l {
	case LateRegistrationNone:
		// No late registration. End time is the start time.
	case LateRegistration30Min:
		registrationEndTime = registrationEndTime.Add(30 * time.Minute)
	case LateRegistration60Min:
		registrationEndTime = registrationEndTime.Add(60 * time.Minute)
	case LateRegistration90Min:
		registrationEndTime = registrationEndTime.Add(90 * time.Minute)
	default:
		return false, fmt.Errorf("invalid lateRegistrationDuration value [%s]", string(l))
	}
	return now.After(registrationEndTime), nil
}

// GameRef identifies a game polymorphically by (kind, id). Tables and
// players reference their owning game through it.
type GameRef struct {
	Type GameType `json:"gameType" db:"game_type"`
	ID   uint64   `json:"gameId" db:"game_id"`
}

// ChannelKey is the publish channel for this game's subscribers.
func (r GameRef) ChannelKey() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}

// GameInfo carries the attributes common to both game variants.
type GameInfo struct {
	ID              uint64     `json:"gameId" db:"id"`
	Name            string     `json:"name" db:"name"`
	Status          GameStatus `json:"status" db:"status"`
	StartDateTime   time.Time  `json:"startDateTime" db:"start_date_time"`
	PlayersPerTable uint32     `json:"playersPerTable" db:"players_per_table"`
}

// Game is the tagged union over the cash and tournament variants.
type Game interface {
	Ref() GameRef
	Info() *GameInfo

	// CanJoin reports whether a new player may register at the given
	// time. Returns an EligibilityError describing the refusal.
	CanJoin(now time.Time) error
}

type CashGame struct {
	GameInfo
	StartingChips float64  `json:"startingChips" db:"starting_chips"`
	BlindsSmall   float64  `json:"blindsSmall" db:"blinds_small"`
	BlindsBig     float64  `json:"blindsBig" db:"blinds_big"`
	Duration      Duration `json:"duration" db:"duration"`
}

func (g *CashGame) Ref() GameRef {
	return GameRef{Type: GameTypeCash, ID: g.ID}
}

func (g *CashGame) Info() *GameInfo {
	return &g.GameInfo
}

func (g *CashGame) CanJoin(now time.Time) error {
	if g.Status == GameStatusFinished {
		return EligibilityError{Msg: "cannot join a finished game"}
	}
	return nil
}

type TournamentGame struct {
	GameInfo
	NumberOfRebuys           uint32           `json:"numberOfRebuys" db:"number_of_rebuys"`
	RebuyPeriod              RebuyPeriod      `json:"rebuyPeriod" db:"rebuy_period"`
	AddOn                    bool             `json:"addOn" db:"add_on"`
	StartingChips            float64          `json:"startingChips" db:"starting_chips"`
	GameSpeed                GameSpeed        `json:"gameSpeed" db:"game_speed"`
	LateRegistrationDuration LateRegistration `json:"lateRegistrationDuration" db:"late_registration_duration"`
}

func (g *TournamentGame) Ref() GameRef {
	return GameRef{Type: GameTypeTournament, ID: g.ID}
}

func (g *TournamentGame) Info() *GameInfo {
	return &g.GameInfo
}

func (g *TournamentGame) CanJoin(now time.Time) error {
	switch g.Status {
	case GameStatusWaiting:
		return nil
	case GameStatusOngoing:
		expired, err := g.LateRegistrationDuration.Expired(g.StartDateTime, now)
		if err != nil {
			return err
		}
		if expired {
			return EligibilityError{Msg: "late registration for this tournament has expired"}
		}
		return nil
	}
	return EligibilityError{Msg: "cannot join a finished tournament"}
}

// Table seats 0..playersPerTable players of a single game. DealerSeat
// is 0 until a dealer has been marked.
type Table struct {
	TableID    uint64    `json:"tableId" db:"id"`
	Game       GameRef   `json:"game"`
	DealerSeat uint32    `json:"dealerSeat" db:"dealer_seat"`
	Players    []*Player `json:"players"`
}

// OccupiedSeats returns the table's seat numbers in ascending order.
func (t *Table) OccupiedSeats() []uint32 {
	seats := make([]uint32, 0, len(t.Players))
	for _, p := range t.Players {
		seats = append(seats, p.SeatNumber)
	}
	for i := 1; i < len(seats); i++ {
		for j := i; j > 0 && seats[j] < seats[j-1]; j-- {
			seats[j], seats[j-1] = seats[j-1], seats[j]
		}
	}
	return seats
}

// PlayerAtSeat returns the player occupying the given seat, or nil.
func (t *Table) PlayerAtSeat(seatNo uint32) *Player {
	for _, p := range t.Players {
		if p.SeatNumber == seatNo {
			return p
		}
	}
	return nil
}

// Player is the seating record linking a user to a game at a table.
type Player struct {
	PlayerID   uint64  `json:"playerId" db:"id"`
	UserID     uint64  `json:"userId" db:"user_id"`
	Game       GameRef `json:"game"`
	TableID    uint64  `json:"tableId" db:"table_id"`
	SeatNumber uint32  `json:"seatNumber" db:"seat_number"`
}

// PlayerHand is one player's hole-card entry in a dealt hand,
// addressable by player rather than by array position.
type PlayerHand struct {
	PlayerID   uint64       `json:"playerId"`
	UserID     uint64       `json:"userId"`
	SeatNumber uint32       `json:"seatNumber"`
	HoleCards  []poker.Card `json:"holeCards"`
}

// HandState is the ephemeral output of one deal. Community slots hold
// at most one card each; nil means the slot was never filled.
type HandState struct {
	HandID  string        `json:"handId"`
	Game    GameRef       `json:"game"`
	TableID uint64        `json:"tableId"`
	Players []*PlayerHand `json:"players"`
	Burn1   *poker.Card   `json:"burn1"`
	Flop1   *poker.Card   `json:"flop1"`
	Flop2   *poker.Card   `json:"flop2"`
	Flop3   *poker.Card   `json:"flop3"`
	Burn2   *poker.Card   `json:"burn2"`
	Turn    *poker.Card   `json:"turn"`
	Burn3   *poker.Card   `json:"burn3"`
	River   *poker.Card   `json:"river"`
}
