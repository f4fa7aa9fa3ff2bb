package poker

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckCompleteness(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		deck, err := NewDeck(rand.NewSource(seed))
		require.NoError(t, err)
		require.Equal(t, DeckSize, deck.Size())

		seen := make(map[Card]int, DeckSize)
		for _, card := range deck.Draw(DeckSize) {
			seen[card]++
		}
		require.Len(t, seen, DeckSize)
		for card, count := range seen {
			require.Equalf(t, 1, count, "card %s appeared %d times", card, count)
		}
	}
}

func TestShuffleNonIdentity(t *testing.T) {
	reference := NewDeckNoShuffle().Draw(DeckSize)
	identicalCount := 0
	for seed := int64(1); seed <= 100; seed++ {
		deck, err := NewDeck(rand.NewSource(seed))
		require.NoError(t, err)
		if cmp.Equal(deck.Draw(DeckSize), reference) {
			identicalCount++
		}
	}
	// A single identical permutation across 100 shuffles would be a
	// 1-in-52! coincidence.
	assert.Zero(t, identicalCount)
}

func TestSeededShuffleIsReproducible(t *testing.T) {
	deck1, err := NewDeck(rand.NewSource(42))
	require.NoError(t, err)
	deck2, err := NewDeck(rand.NewSource(42))
	require.NoError(t, err)
	assert.Equal(t, deck1.Draw(DeckSize), deck2.Draw(DeckSize))
}

func TestDrawConsumesFromFront(t *testing.T) {
	deck := NewDeckNoShuffle()
	first := deck.Draw(5)
	assert.Equal(t, DeckSize-5, deck.Size())
	next := deck.Draw(1)
	for _, card := range first {
		assert.NotEqual(t, card, next[0])
	}
	deck.Draw(DeckSize - 6)
	assert.True(t, deck.Empty())
}

func TestEmptySourceError(t *testing.T) {
	testCases := []struct {
		name    string
		catalog []Card
	}{
		{name: "nil catalog", catalog: nil},
		{name: "short catalog", catalog: initializeFullCards()[:51]},
		{name: "duplicate card", catalog: append(initializeFullCards()[:51], NewCard(Two, Clubs))},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDeckFromCards(tc.catalog, rand.NewSource(1))
			require.Error(t, err)
			var sourceErr EmptySourceError
			assert.ErrorAs(t, err, &sourceErr)
		})
	}
}
