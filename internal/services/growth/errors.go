package growth

import (
	"fmt"
	"time"
)

// GrowthError is a custom error type for growth-related errors
type GrowthError string

// Error implements the error interface
func (e GrowthError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig     GrowthError = "config cannot be nil"
	ErrNilPlayerRepo GrowthError = "player repository cannot be nil"
	ErrNilRoomRepo   GrowthError = "room repository cannot be nil"
	ErrNilClock      GrowthError = "clock cannot be nil"
	ErrNilRoller     GrowthError = "roller cannot be nil"

	ErrAlreadyRegistered   GrowthError = "you are already in the game"
	ErrPlayerNotRegistered GrowthError = "you are not in the game yet, use start first"
	ErrNotEnoughToPrestige GrowthError = "you have not grown enough to claim a medal yet"
	ErrNicknameTooLong     GrowthError = "that nickname is too long"
	ErrTagOnCooldown       GrowthError = "the room was tagged moments ago, give it a rest"
)

// CooldownError reports a growth attempt made before the daily window
// reopened.
type CooldownError struct {
	ReadyAt time.Time
}

// Error implements the error interface
func (e *CooldownError) Error() string {
	return fmt.Sprintf("you cannot grow again until %s", e.ReadyAt.Format(time.RFC1123))
}

// RefusalError carries the scripted line shown to a condemned player whose
// command was intercepted. No state changes accompany it.
type RefusalError struct {
	Phrase string
}

// Error implements the error interface
func (e *RefusalError) Error() string {
	return e.Phrase
}
