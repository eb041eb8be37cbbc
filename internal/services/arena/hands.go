package arena

import (
	"strings"

	"github.com/wombatlabs/wombat-combat/internal/models"
)

// cardValue returns the blackjack value of a single card. Aces count as 11
// here; HandValue reduces them as needed.
func cardValue(rank models.Rank) int {
	switch rank {
	case models.RankAce:
		return 11
	case models.RankTen, models.RankJack, models.RankQueen, models.RankKing:
		return 10
	case models.RankTwo:
		return 2
	case models.RankThree:
		return 3
	case models.RankFour:
		return 4
	case models.RankFive:
		return 5
	case models.RankSix:
		return 6
	case models.RankSeven:
		return 7
	case models.RankEight:
		return 8
	case models.RankNine:
		return 9
	default:
		return 0
	}
}

// HandValue computes a hand's blackjack value with the standard soft-ace
// rule: aces start at 11 and drop to 1 one at a time while the total is
// over 21.
func HandValue(hand []models.Card) int {
	total := 0
	aces := 0
	for _, c := range hand {
		total += cardValue(c.Rank)
		if c.Rank == models.RankAce {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// freshDeck returns the standard 52-card set in deck order.
func freshDeck() []models.Card {
	deck := make([]models.Card, 0, 52)
	for _, suit := range models.Suits() {
		for _, rank := range models.Ranks() {
			deck = append(deck, models.Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}

// shuffleDeck returns a fresh deck in the order given by the roller.
func (s *service) shuffleDeck() []models.Card {
	deck := freshDeck()
	shuffled := make([]models.Card, len(deck))
	for i, j := range s.config.Roller.Perm(len(deck)) {
		shuffled[i] = deck[j]
	}
	return shuffled
}

// renderHand joins a hand's cards for display.
func renderHand(hand []models.Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
