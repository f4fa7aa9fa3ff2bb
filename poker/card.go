package poker

import (
	"fmt"
	"strings"
)

type Rank int32

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

type Suit int32

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Wire tokens for ranks and suits. Existing clients depend on these
// exact strings, so they are the single source of truth for both
// String() and the JSON forms.
var rankNames = map[Rank]string{
	Two:   "TWO",
	Three: "THREE",
	Four:  "FOUR",
	Five:  "FIVE",
	Six:   "SIX",
	Seven: "SEVEN",
	Eight: "EIGHT",
	Nine:  "NINE",
	Ten:   "TEN",
	Jack:  "JACK",
	Queen: "QUEEN",
	King:  "KING",
	Ace:   "ACE",
}

var suitNames = map[Suit]string{
	Clubs:    "CLUBS",
	Diamonds: "DIAMONDS",
	Hearts:   "HEARTS",
	Spades:   "SPADES",
}

var shortRanks = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7",
	Eight: "8", Nine: "9", Ten: "T", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

var prettySuits = map[Suit]string{
	Spades:   "♠",
	Hearts:   "❤",
	Diamonds: "♦",
	Clubs:    "♣",
}

var (
	rankFromName = map[string]Rank{}
	suitFromName = map[string]Suit{}
)

func init() {
	for r, name := range rankNames {
		rankFromName[name] = r
	}
	for s, name := range suitNames {
		suitFromName[name] = s
	}
}

func (r Rank) String() string {
	return rankNames[r]
}

func (r Rank) MarshalJSON() ([]byte, error) {
	name, ok := rankNames[r]
	if !ok {
		return nil, fmt.Errorf("invalid rank value %d", int32(r))
	}
	return []byte("\"" + name + "\""), nil
}

func (r *Rank) UnmarshalJSON(b []byte) error {
	parsed, err := ParseRank(strings.Trim(string(b), "\""))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func ParseRank(name string) (Rank, error) {
	r, ok := rankFromName[name]
	if !ok {
		return 0, fmt.Errorf("invalid rank token [%s]", name)
	}
	return r, nil
}

func (s Suit) String() string {
	return suitNames[s]
}

func (s Suit) MarshalJSON() ([]byte, error) {
	name, ok := suitNames[s]
	if !ok {
		return nil, fmt.Errorf("invalid suit value %d", int32(s))
	}
	return []byte("\"" + name + "\""), nil
}

func (s *Suit) UnmarshalJSON(b []byte) error {
	parsed, err := ParseSuit(strings.Trim(string(b), "\""))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseSuit(name string) (Suit, error) {
	s, ok := suitFromName[name]
	if !ok {
		return 0, fmt.Errorf("invalid suit token [%s]", name)
	}
	return s, nil
}

// Card is an immutable (rank, suit) value.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

func (c Card) String() string {
	return shortRanks[c.Rank] + prettySuits[c.Suit]
}

func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	fmt.Fprintf(&b, "[")
	for _, c := range cards {
		fmt.Fprintf(&b, " %s ", c.String())
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}
