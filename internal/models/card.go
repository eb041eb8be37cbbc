package models

import (
	"fmt"
)

// Suit is one of the four standard card suits
type Suit string

const (
	SuitSpades   Suit = "♠"
	SuitHearts   Suit = "♥"
	SuitDiamonds Suit = "♦"
	SuitClubs    Suit = "♣"
)

// Rank is a card rank, A and 2 through K
type Rank string

const (
	RankAce   Rank = "A"
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
)

// Card is a single playing card from the standard 52-card set
type Card struct {
	// Rank is the card's face rank
	Rank Rank

	// Suit is the card's suit
	Suit Suit
}

// String renders the card for display, e.g. "10♥".
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Ranks lists all thirteen ranks in deck order.
func Ranks() []Rank {
	return []Rank{
		RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
		RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing,
	}
}

// Suits lists all four suits in deck order.
func Suits() []Suit {
	return []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}
}
