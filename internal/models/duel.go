package models

import (
	"time"
)

// DuelChallenge represents a pending duel between two players. It exists
// from creation until the defender responds or the sweeper times it out.
type DuelChallenge struct {
	// ID is the unique identifier for this challenge
	ID string

	// AttackerID is the player who issued the challenge
	AttackerID string

	// DefenderID is the player being challenged; only they may respond
	DefenderID string

	// Deadline is when the unanswered challenge expires
	Deadline time.Time

	// MessageID is the challenge prompt, edited on every transition
	MessageID string
}
