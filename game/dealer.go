package game

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Degen-IO/pokerbackend/logging"
	"github.com/Degen-IO/pokerbackend/poker"
	"github.com/Degen-IO/pokerbackend/util"
)

var dealerLogger = logging.GetZeroLogger("game::dealer", nil)

// DeckSource supplies a fresh shuffled deck for each hand.
type DeckSource func() (*poker.Deck, error)

// Dealer deals a complete hold'em hand from a fresh deck to a table's
// seated players and publishes the result. Callers must hold the
// owning game's lock so the roster snapshot is stable for the whole
// deal.
type Dealer struct {
	handStates PersistHandState
	publisher  Publisher
	deckSource DeckSource
}

func NewDealer(handStates PersistHandState, publisher Publisher, deckSource DeckSource) *Dealer {
	if deckSource == nil {
		deckSource = func() (*poker.Deck, error) {
			return poker.NewDeck(nil)
		}
	}
	return &Dealer{
		handStates: handStates,
		publisher:  publisher,
		deckSource: deckSource,
	}
}

// DistributeCards deals two hole cards to every seated player starting
// left of the dealer, then burn/flop/burn/turn/burn/river, and
// publishes the resulting hand state on the game channel. Nothing is
// published when the deal fails.
func (d *Dealer) DistributeCards(ctx context.Context, table *Table) (*HandState, error) {
	numPlayers := len(table.Players)
	if numPlayers < 1 {
		return nil, InsufficientCardsError{NumPlayers: 0}
	}

	deck, err := d.deckSource()
	if err != nil {
		return nil, err
	}
	// 2 hole cards per player, 3 burns, 3 flop, turn, river.
	if deck.Size() < numPlayers*2+5 {
		return nil, InsufficientCardsError{NumPlayers: numPlayers, DeckSize: deck.Size()}
	}

	occupiedSeats := table.OccupiedSeats()
	dealingOrder := dealingOrderFromDealer(occupiedSeats, table.DealerSeat)

	handState := &HandState{
		HandID:  uuid.NewString(),
		Game:    table.Game,
		TableID: table.TableID,
		Players: make([]*PlayerHand, 0, numPlayers),
	}
	entryBySeat := make(map[uint32]*PlayerHand, numPlayers)
	for _, seatNo := range occupiedSeats {
		player := table.PlayerAtSeat(seatNo)
		entry := &PlayerHand{
			PlayerID:   player.PlayerID,
			UserID:     player.UserID,
			SeatNumber: seatNo,
			HoleCards:  make([]poker.Card, 0, 2),
		}
		handState.Players = append(handState.Players, entry)
		entryBySeat[seatNo] = entry
	}

	// Two rounds of one card each, round-robin. A player never gets
	// both hole cards consecutively.
	for round := 0; round < 2; round++ {
		for _, seatNo := range dealingOrder {
			entry := entryBySeat[seatNo]
			entry.HoleCards = append(entry.HoleCards, deck.Draw(1)[0])
		}
	}

	handState.Burn1 = drawOne(deck)
	handState.Flop1 = drawOne(deck)
	handState.Flop2 = drawOne(deck)
	handState.Flop3 = drawOne(deck)
	handState.Burn2 = drawOne(deck)
	handState.Turn = drawOne(deck)
	handState.Burn3 = drawOne(deck)
	handState.River = drawOne(deck)

	if d.handStates != nil {
		if err := d.handStates.Save(table.Game.ChannelKey(), handState); err != nil {
			dealerLogger.Error().
				Str(logging.ChannelKey, table.Game.ChannelKey()).
				Msgf("Failed to save hand state: %s", err)
		}
	}

	msg := HandStateMessage{
		MessageID: uuid.NewString(),
		Game:      table.Game,
		Message:   HandDealtMessage,
		HandState: handState,
	}
	if err := d.publisher.Publish(table.Game.ChannelKey(), &msg); err != nil {
		return nil, errors.Wrapf(err, "unable to publish hand state for table %d", table.TableID)
	}

	util.Metrics.HandDealt()
	dealerLogger.Info().
		Str(logging.GameIDKey, table.Game.ChannelKey()).
		Uint64(logging.TableIDKey, table.TableID).
		Str(logging.HandIDKey, handState.HandID).
		Int(logging.NumPlayersKey, numPlayers).
		Msg("Hand dealt")
	return handState, nil
}

// dealingOrderFromDealer rotates the occupied seats so dealing starts
// immediately left of the dealer and wraps around to the dealer last.
// An unset or vacated dealer seat defaults to the lowest occupied seat.
func dealingOrderFromDealer(occupiedSeats []uint32, dealerSeat uint32) []uint32 {
	startIndex := 0
	for i, seatNo := range occupiedSeats {
		if seatNo == dealerSeat {
			startIndex = i
			break
		}
	}
	numSeats := len(occupiedSeats)
	order := make([]uint32, 0, numSeats)
	for j := 1; j <= numSeats; j++ {
		order = append(order, occupiedSeats[(startIndex+j)%numSeats])
	}
	return order
}

func drawOne(deck *poker.Deck) *poker.Card {
	card := deck.Draw(1)[0]
	return &card
}
