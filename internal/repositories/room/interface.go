package room

import (
	"context"

	"github.com/wombatlabs/wombat-combat/internal/models"
)

// Repository is the room state store. WithRoom is the single point of
// mutual exclusion for everything that mutates a room's interaction state:
// user actions and the timeout sweeper both go through it.
type Repository interface {
	// GetRoom retrieves a read-only snapshot of a room
	GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error)

	// WithRoom performs an exclusive read-modify-write on one room. fn
	// receives the current record (a fresh empty record if none exists)
	// and may mutate it; when fn returns nil the record is persisted, or
	// deleted if it carries no state. Callers on different rooms never
	// block each other.
	WithRoom(ctx context.Context, roomID string, fn func(room *models.Room) error) error

	// ListRoomIDs returns the IDs of every room with a stored record,
	// for the sweeper's scan
	ListRoomIDs(ctx context.Context) ([]string, error)
}
