package models

import (
	"time"
)

// Room represents the per-room persisted record. Each interaction kind has
// at most one live instance, held in its slot; a nil slot means no active
// instance of that kind.
type Room struct {
	// ID is the chat room ID
	ID string

	// Duel is the active duel challenge, if any
	Duel *DuelChallenge

	// Trial is the active trial, if any
	Trial *Trial

	// Table is the active card game, if any
	Table *CardGame

	// LastTagTime rate-limits the room-wide mention broadcast
	LastTagTime time.Time
}

// Empty reports whether the room carries no interaction state worth keeping.
func (r *Room) Empty() bool {
	return r.Duel == nil && r.Trial == nil && r.Table == nil && r.LastTagTime.IsZero()
}
