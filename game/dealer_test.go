package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Degen-IO/pokerbackend/poker"
)

func tableWithSeats(seats []uint32, dealerSeat uint32) *Table {
	table := &Table{
		TableID:    1,
		Game:       GameRef{Type: GameTypeCash, ID: 1},
		DealerSeat: dealerSeat,
	}
	for i, seatNo := range seats {
		table.Players = append(table.Players, &Player{
			PlayerID:   uint64(i + 1),
			UserID:     uint64(100 + i),
			Game:       table.Game,
			TableID:    table.TableID,
			SeatNumber: seatNo,
		})
	}
	return table
}

func TestDealingOrderFromDealersLeft(t *testing.T) {
	testCases := []struct {
		name          string
		occupiedSeats []uint32
		dealerSeat    uint32
		expectedOrder []uint32
	}{
		{
			name:          "dealer at first seat",
			occupiedSeats: []uint32{1, 2, 4, 6, 7},
			dealerSeat:    1,
			expectedOrder: []uint32{2, 4, 6, 7, 1},
		},
		{
			name:          "dealer mid-table",
			occupiedSeats: []uint32{1, 2, 4, 6, 7},
			dealerSeat:    4,
			expectedOrder: []uint32{6, 7, 1, 2, 4},
		},
		{
			name:          "dealer at last seat wraps",
			occupiedSeats: []uint32{1, 2, 4, 6, 7},
			dealerSeat:    7,
			expectedOrder: []uint32{1, 2, 4, 6, 7},
		},
		{
			name:          "unset dealer defaults to lowest seat",
			occupiedSeats: []uint32{3, 5, 8},
			dealerSeat:    0,
			expectedOrder: []uint32{5, 8, 3},
		},
		{
			name:          "vacated dealer seat defaults to lowest",
			occupiedSeats: []uint32{2, 5},
			dealerSeat:    3,
			expectedOrder: []uint32{5, 2},
		},
		{
			name:          "single player",
			occupiedSeats: []uint32{4},
			dealerSeat:    4,
			expectedOrder: []uint32{4},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			order := dealingOrderFromDealer(tc.occupiedSeats, tc.dealerSeat)
			assert.Equal(t, tc.expectedOrder, order)
		})
	}
}

func TestDistributeCardsHoleCardOrder(t *testing.T) {
	// A known, unshuffled deck makes the round-robin order
	// observable: card i goes to the i-th deal in order.
	reference := poker.NewDeckNoShuffle().Draw(poker.DeckSize)
	dealer := NewDealer(nil, &fakePublisher{}, func() (*poker.Deck, error) {
		return poker.NewDeckNoShuffle(), nil
	})

	table := tableWithSeats([]uint32{1, 2, 4, 6, 7}, 1)
	handState, err := dealer.DistributeCards(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, handState.Players, 5)

	holeCardsBySeat := make(map[uint32][]poker.Card)
	for _, entry := range handState.Players {
		holeCardsBySeat[entry.SeatNumber] = entry.HoleCards
	}

	// Dealing order is [2,4,6,7,1]: seat 2 gets the 1st and 6th
	// cards, the dealer gets the 5th and 10th.
	assert.Equal(t, []poker.Card{reference[0], reference[5]}, holeCardsBySeat[2])
	assert.Equal(t, []poker.Card{reference[1], reference[6]}, holeCardsBySeat[4])
	assert.Equal(t, []poker.Card{reference[2], reference[7]}, holeCardsBySeat[6])
	assert.Equal(t, []poker.Card{reference[3], reference[8]}, holeCardsBySeat[7])
	assert.Equal(t, []poker.Card{reference[4], reference[9]}, holeCardsBySeat[1])

	// Community slots consume the next 8 cards in the fixed sequence.
	assert.Equal(t, reference[10], *handState.Burn1)
	assert.Equal(t, reference[11], *handState.Flop1)
	assert.Equal(t, reference[12], *handState.Flop2)
	assert.Equal(t, reference[13], *handState.Flop3)
	assert.Equal(t, reference[14], *handState.Burn2)
	assert.Equal(t, reference[15], *handState.Turn)
	assert.Equal(t, reference[16], *handState.Burn3)
	assert.Equal(t, reference[17], *handState.River)
}

func TestDistributeCardsUniqueness(t *testing.T) {
	for _, numPlayers := range []int{1, 2, 5, 9} {
		var dealtDeck *poker.Deck
		dealer := NewDealer(nil, &fakePublisher{}, func() (*poker.Deck, error) {
			deck, err := poker.NewDeck(rand.NewSource(int64(numPlayers)))
			dealtDeck = deck
			return deck, err
		})

		seats := make([]uint32, numPlayers)
		for i := range seats {
			seats[i] = uint32(i + 1)
		}
		table := tableWithSeats(seats, 1)

		handState, err := dealer.DistributeCards(context.Background(), table)
		require.NoError(t, err)

		seen := make(map[poker.Card]bool)
		record := func(card poker.Card) {
			require.Falsef(t, seen[card], "card %s dealt twice", card)
			seen[card] = true
		}
		for _, entry := range handState.Players {
			require.Len(t, entry.HoleCards, 2)
			for _, card := range entry.HoleCards {
				record(card)
			}
		}
		for _, slot := range []*poker.Card{
			handState.Burn1, handState.Flop1, handState.Flop2, handState.Flop3,
			handState.Burn2, handState.Turn, handState.Burn3, handState.River,
		} {
			require.NotNil(t, slot)
			record(*slot)
		}

		// Exactly 2P+8 distinct cards, disjoint from the undealt rest.
		assert.Len(t, seen, numPlayers*2+8)
		assert.Equal(t, poker.DeckSize-(numPlayers*2+8), dealtDeck.Size())
		for _, remaining := range dealtDeck.Draw(dealtDeck.Size()) {
			assert.Falsef(t, seen[remaining], "card %s both dealt and still in deck", remaining)
		}
	}
}

func TestDistributeCardsRequiresPlayers(t *testing.T) {
	dealer := NewDealer(nil, &fakePublisher{}, nil)
	table := tableWithSeats(nil, 0)
	_, err := dealer.DistributeCards(context.Background(), table)
	var insufficient InsufficientCardsError
	require.ErrorAs(t, err, &insufficient)
}

func TestDistributeCardsInsufficientDeck(t *testing.T) {
	publisher := &fakePublisher{}
	dealer := NewDealer(nil, publisher, func() (*poker.Deck, error) {
		deck := poker.NewDeckNoShuffle()
		deck.Draw(40) // 12 cards left; 4 players need 13
		return deck, nil
	})

	table := tableWithSeats([]uint32{1, 2, 3, 4}, 1)
	_, err := dealer.DistributeCards(context.Background(), table)
	var insufficient InsufficientCardsError
	require.ErrorAs(t, err, &insufficient)

	// A failed deal publishes nothing.
	assert.Empty(t, publisher.messages())
}

func TestDistributeCardsPublishesHandState(t *testing.T) {
	publisher := &fakePublisher{}
	tracker := NewMemoryHandStateTracker()
	dealer := NewDealer(tracker, publisher, func() (*poker.Deck, error) {
		return poker.NewDeck(rand.NewSource(7))
	})

	table := tableWithSeats([]uint32{1, 2}, 1)
	handState, err := dealer.DistributeCards(context.Background(), table)
	require.NoError(t, err)

	messages := publisher.messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "cash:1", messages[0].channelKey)
	msg, ok := messages[0].payload.(*HandStateMessage)
	require.True(t, ok)
	assert.Equal(t, HandDealtMessage, msg.Message)
	assert.Equal(t, handState.HandID, msg.HandState.HandID)

	// The tracker holds the last dealt hand for the channel.
	loaded, err := tracker.Load("cash:1")
	require.NoError(t, err)
	assert.Equal(t, handState.HandID, loaded.HandID)
	assert.Equal(t, *handState.River, *loaded.River)
}
