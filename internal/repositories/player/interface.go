package player

import (
	"context"

	"github.com/wombatlabs/wombat-combat/internal/models"
)

// Repository defines the interface for player data persistence. Players are
// keyed by (room, player); balance and status writes go through the atomic
// primitives so two interactions can never step on each other's updates.
type Repository interface {
	// SavePlayer persists a player record
	SavePlayer(ctx context.Context, input *SavePlayerInput) error

	// GetPlayer retrieves a player by room and ID
	GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error)

	// GetPlayerByUsername resolves an @mention to a player in the room
	GetPlayerByUsername(ctx context.Context, input *GetPlayerByUsernameInput) (*models.Player, error)

	// GetPlayersInRoom retrieves every player registered in a room
	GetPlayersInRoom(ctx context.Context, input *GetPlayersInRoomInput) (*GetPlayersInRoomOutput, error)

	// AdjustSize atomically adds a delta to a player's size, clamping the
	// result at zero, and reports the delta actually applied
	AdjustSize(ctx context.Context, input *AdjustSizeInput) (*AdjustSizeOutput, error)

	// UpdatePlayer atomically applies fn to the current record. fn may
	// return an error to abort without writing.
	UpdatePlayer(ctx context.Context, input *UpdatePlayerInput) (*models.Player, error)

	// ListCondemned returns every condemned player with a pending
	// sentence end, across all rooms, for the punishment expiry sweep
	ListCondemned(ctx context.Context) ([]*models.Player, error)
}
