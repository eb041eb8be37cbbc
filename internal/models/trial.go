package models

import (
	"time"
)

// Trial represents an open vote on a defendant. Votes live in two disjoint
// slices; a voter appears in at most one.
type Trial struct {
	// ID is the unique identifier for this trial
	ID string

	// ProsecutorID is the player who opened the trial
	ProsecutorID string

	// DefendantID is the player on trial
	DefendantID string

	// Deadline is when voting closes and the verdict is tallied
	Deadline time.Time

	// GuiltyVotes holds the IDs of players who voted guilty
	GuiltyVotes []string

	// InnocentVotes holds the IDs of players who voted innocent
	InnocentVotes []string

	// MessageID is the live tally message
	MessageID string
}

// HasVoted reports whether the player already appears in either vote set.
func (t *Trial) HasVoted(playerID string) bool {
	for _, id := range t.GuiltyVotes {
		if id == playerID {
			return true
		}
	}
	for _, id := range t.InnocentVotes {
		if id == playerID {
			return true
		}
	}
	return false
}
