package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// DeckSize is the number of cards in a canonical deck.
const DeckSize = 52

var fullDeck []Card

func init() {
	fullDeck = initializeFullCards()
}

// EmptySourceError reports a missing or corrupt backing card catalog.
type EmptySourceError struct {
	NumCards int
}

func (e EmptySourceError) Error() string {
	if e.NumCards == 0 {
		return "card source is empty"
	}
	return "card source does not contain 52 unique cards"
}

// Deck is an ordered sequence of cards consumed from the front. A deck
// is single-use: dealt cards are never put back.
type Deck struct {
	cards   []Card
	randGen *rand.Rand
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// NewDeck returns a shuffled deck built from the canonical 52-card set.
// A nil source is seeded from crypto/rand.
func NewDeck(source rand.Source) (*Deck, error) {
	return NewDeckFromCards(fullDeck, source)
}

// NewDeckFromCards builds a shuffled deck from the given card catalog.
// Anything other than 52 unique cards is invalid.
func NewDeckFromCards(catalog []Card, source rand.Source) (*Deck, error) {
	if err := validateCatalog(catalog); err != nil {
		return nil, err
	}
	if source == nil {
		source = newSeed()
	}
	deck := &Deck{randGen: rand.New(source)}
	deck.cards = make([]Card, len(catalog))
	copy(deck.cards, catalog)
	deck.shuffle()
	return deck, nil
}

// NewDeckNoShuffle returns the canonical deck in catalog order. Used by
// tests that need a known card sequence.
func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	return deck
}

func validateCatalog(catalog []Card) error {
	if len(catalog) != DeckSize {
		return EmptySourceError{NumCards: len(catalog)}
	}
	seen := make(map[Card]bool, DeckSize)
	for _, card := range catalog {
		if seen[card] {
			return EmptySourceError{NumCards: len(catalog)}
		}
		seen[card] = true
	}
	return nil
}

// shuffle permutes the cards in place (Fisher-Yates, back to front).
func (deck *Deck) shuffle() {
	for i := len(deck.cards) - 1; i > 0; i-- {
		j := deck.randGen.Intn(i + 1)
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	}
}

// Draw removes and returns the next n cards from the front of the deck.
func (deck *Deck) Draw(n int) []Card {
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards
}

func (deck *Deck) Size() int {
	return len(deck.cards)
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

func initializeFullCards() []Card {
	var cards []Card
	for rank := Two; rank <= Ace; rank++ {
		for _, suit := range []Suit{Clubs, Diamonds, Hearts, Spades} {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}
