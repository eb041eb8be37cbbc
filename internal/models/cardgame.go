package models

import (
	"time"
)

// TablePhase represents the current state of a card game
type TablePhase string

const (
	// TablePhaseLobby indicates the table is open for joins
	TablePhaseLobby TablePhase = "lobby"

	// TablePhasePlayerTurns indicates seated players are acting in order
	TablePhasePlayerTurns TablePhase = "player_turns"

	// TablePhaseDealerTurn indicates the dealer is drawing
	TablePhaseDealerTurn TablePhase = "dealer_turn"

	// TablePhaseSettling indicates the round is being paid out
	TablePhaseSettling TablePhase = "settling"
)

// SeatStatus represents the state of a seated player's hand
type SeatStatus string

const (
	// SeatStatusPlaying indicates the player can still act
	SeatStatusPlaying SeatStatus = "playing"

	// SeatStatusStood indicates the player chose to stand
	SeatStatusStood SeatStatus = "stood"

	// SeatStatusBusted indicates the player's hand went over 21
	SeatStatusBusted SeatStatus = "busted"
)

// Seat is one seated player's position in a card game. Seat order is join
// order and fixes turn order; the host is always first.
type Seat struct {
	// PlayerID is the seated player
	PlayerID string

	// PlayerName is the display name captured at seating time
	PlayerName string

	// Hand is the player's cards in draw order
	Hand []Card

	// Bet is the wager placed on this hand, always positive
	Bet int

	// Status is the current state of the hand
	Status SeatStatus
}

// CardGame represents one blackjack round at a room's table, from lobby
// through settlement.
type CardGame struct {
	// ID is the unique identifier for this round
	ID string

	// HostID is the player who opened the table
	HostID string

	// Seats holds the seated players in turn order
	Seats []*Seat

	// DealerHand is the dealer's cards; the second card stays hidden
	// until the dealer's turn
	DealerHand []Card

	// Deck is the remaining shuffled cards
	Deck []Card

	// Phase is the current state of the round
	Phase TablePhase

	// Turn indexes Seats at the player whose turn it is
	Turn int

	// PendingJoinerID is the single player mid-way through entering a
	// bet, or empty
	PendingJoinerID string

	// Deadline bounds the current phase: the lobby force-start, the
	// acting seat's turn, or the dealer's next draw. The sweeper pushes
	// the round onward once it passes.
	Deadline time.Time

	// MessageID is the table message, edited as the round progresses
	MessageID string
}

// Seated reports whether the player already has a seat at the table.
func (g *CardGame) Seated(playerID string) bool {
	return g.SeatOf(playerID) != nil
}

// SeatOf returns the player's seat, or nil if they are not seated.
func (g *CardGame) SeatOf(playerID string) *Seat {
	for _, seat := range g.Seats {
		if seat.PlayerID == playerID {
			return seat
		}
	}
	return nil
}
