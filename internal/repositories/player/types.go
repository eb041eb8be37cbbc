package player

import (
	"context"

	"github.com/wombatlabs/wombat-combat/internal/models"
)

// SavePlayerInput contains parameters for saving a player
type SavePlayerInput struct {
	Player *models.Player
}

// GetPlayerInput contains parameters for retrieving a player
type GetPlayerInput struct {
	RoomID   string
	PlayerID string
}

// GetPlayerByUsernameInput contains parameters for resolving a username
type GetPlayerByUsernameInput struct {
	RoomID   string
	Username string
}

// GetPlayersInRoomInput contains parameters for retrieving a room's players
type GetPlayersInRoomInput struct {
	RoomID string
}

// GetPlayersInRoomOutput contains the result of retrieving a room's players
type GetPlayersInRoomOutput struct {
	Players []*models.Player
}

// AdjustSizeInput contains parameters for the clamped size adjustment
type AdjustSizeInput struct {
	RoomID   string
	PlayerID string

	// Delta is added to the player's size; the result is clamped at zero
	Delta int
}

// AdjustSizeOutput contains the result of a size adjustment
type AdjustSizeOutput struct {
	// Applied is the delta actually applied after clamping
	Applied int

	// NewSize is the player's size after the adjustment
	NewSize int
}

// UpdatePlayerInput contains parameters for an atomic read-modify-write
type UpdatePlayerInput struct {
	RoomID   string
	PlayerID string

	// Fn mutates the current record in place; returning an error aborts
	// the update without writing
	Fn func(ctx context.Context, p *models.Player) error
}
