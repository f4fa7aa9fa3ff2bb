package game

import "fmt"

// EligibilityError rejects a join for game-state reasons: the game is
// finished, the tournament's late registration has expired, or the
// game type is invalid.
type EligibilityError struct {
	Msg string
}

func (e EligibilityError) Error() string {
	return e.Msg
}

type AlreadyRegisteredError struct {
	UserID uint64
	Game   GameRef
}

func (e AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("user %d is already registered for game %s", e.UserID, e.Game.ChannelKey())
}

type NotRegisteredError struct {
	UserID uint64
	Game   GameRef
}

func (e NotRegisteredError) Error() string {
	return fmt.Sprintf("user %d is not registered for game %s", e.UserID, e.Game.ChannelKey())
}

// TableFullError indicates an allocator/manager inconsistency: a table
// handed out as having a free seat turned out to be full.
type TableFullError struct {
	TableID  uint64
	Capacity uint32
}

func (e TableFullError) Error() string {
	return fmt.Sprintf("no available seat at table %d (capacity %d)", e.TableID, e.Capacity)
}

type InsufficientCardsError struct {
	NumPlayers int
	DeckSize   int
}

func (e InsufficientCardsError) Error() string {
	if e.NumPlayers < 1 {
		return "cannot deal a hand with no seated players"
	}
	return fmt.Sprintf("not enough cards in the deck for the hand: %d players, %d cards", e.NumPlayers, e.DeckSize)
}
