package models

import (
	"time"
)

// PlayerStatus represents the standing of a player within a room
type PlayerStatus string

const (
	// PlayerStatusNormal indicates a player with full command access
	PlayerStatusNormal PlayerStatus = "normal"

	// PlayerStatusCondemned indicates a player convicted at trial; most
	// commands are suppressed until the sentence expires
	PlayerStatusCondemned PlayerStatus = "condemned"

	// PlayerStatusExecuted indicates a condemned player whose wombat was
	// zeroed by their condemner
	PlayerStatusExecuted PlayerStatus = "executed"
)

// Player represents a participant scoped to a single room. The same person
// in two rooms is two independent Player records.
type Player struct {
	// ID is the chat platform user ID of the player
	ID string

	// RoomID is the room this record belongs to
	RoomID string

	// FirstName is the display name captured at registration
	FirstName string

	// Username is the platform handle, used for @mention resolution
	Username string

	// Nickname is the optional pet name for the player's wombat
	Nickname string

	// Size is the growth value; it is also the wager currency and is
	// never negative
	Size int

	// Medals is the number of prestige resets completed
	Medals int

	// LastGrowth is when the player last used the growth command
	LastGrowth time.Time

	// Status is the player's current standing
	Status PlayerStatus

	// CondemnedBy is the prosecutor that won the trial; set and cleared
	// together with PunishmentEnd
	CondemnedBy string

	// PunishmentEnd is when the condemned status expires
	PunishmentEnd *time.Time

	// ExecutedAt is when the player was executed, if ever
	ExecutedAt *time.Time

	// SizeBeforeExecution snapshots Size at execution time so a pardon
	// can restore it
	SizeBeforeExecution int
}

// DisplayName returns the nickname when set, the first name otherwise.
func (p *Player) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.FirstName
}
