package growth

import (
	"time"

	"github.com/wombatlabs/wombat-combat/internal/common/clock"
	"github.com/wombatlabs/wombat-combat/internal/models"
	"github.com/wombatlabs/wombat-combat/internal/repositories/player"
	"github.com/wombatlabs/wombat-combat/internal/repositories/room"
	"github.com/wombatlabs/wombat-combat/internal/rng"
)

const (
	// DefaultGrowCooldown is the wait between growth attempts
	DefaultGrowCooldown = 24 * time.Hour

	// DefaultTagCooldown is the per-room wait between tag broadcasts
	DefaultTagCooldown = 10 * time.Second

	// PrestigeThreshold is the size at which a medal can be claimed
	PrestigeThreshold = 100

	// PrestigeResetSize is the size a player restarts at after claiming
	// a medal
	PrestigeResetSize = 5

	// MaxNicknameLength bounds SetNickname input
	MaxNicknameLength = 20

	// DefaultTopLimit is the leaderboard length
	DefaultTopLimit = 15

	// InitialSizeMax bounds the random starting size
	InitialSizeMax = 10
)

// Config holds the growth service dependencies
type Config struct {
	PlayerRepo player.Repository
	RoomRepo   room.Repository
	Clock      clock.Clock
	Roller     rng.Roller

	// GrowCooldown overrides DefaultGrowCooldown when set
	GrowCooldown time.Duration

	// TagCooldown overrides DefaultTagCooldown when set
	TagCooldown time.Duration
}

// RegisterInput contains parameters for entering the game
type RegisterInput struct {
	RoomID    string
	PlayerID  string
	FirstName string
	Username  string
}

// RegisterOutput contains the freshly created player
type RegisterOutput struct {
	Player *models.Player
}

// GrowInput contains parameters for a daily growth attempt
type GrowInput struct {
	RoomID   string
	PlayerID string
}

// GrowOutput contains the result of a growth attempt
type GrowOutput struct {
	// Grown is the size gained, zero on an unlucky day
	Grown int

	NewSize int

	// NextGrowth is when the player may grow again
	NextGrowth time.Time
}

// PrestigeInput contains parameters for claiming a medal
type PrestigeInput struct {
	RoomID   string
	PlayerID string
}

// PrestigeOutput contains the result of claiming a medal
type PrestigeOutput struct {
	Medals  int
	NewSize int
}

// ProfileInput contains parameters for a profile lookup
type ProfileInput struct {
	RoomID   string
	PlayerID string
}

// ProfileOutput contains a player's profile and room standing
type ProfileOutput struct {
	Player *models.Player

	// Rank is the player's 1-based position by size in the room
	Rank int

	// Total is the number of registered players in the room
	Total int

	// NextGrowth is when the player may grow again
	NextGrowth time.Time
}

// SetNicknameInput contains parameters for setting a display nickname
type SetNicknameInput struct {
	RoomID   string
	PlayerID string

	// Nickname replaces the current one; empty clears it
	Nickname string
}

// SetNicknameOutput contains the updated player
type SetNicknameOutput struct {
	Player *models.Player
}

// TopInput contains parameters for the leaderboard
type TopInput struct {
	RoomID string

	// Limit caps the list length, DefaultTopLimit when zero
	Limit int
}

// TopOutput contains the leaderboard, largest first
type TopOutput struct {
	Players []*models.Player
}

// TagInput contains parameters for a room-wide mention broadcast
type TagInput struct {
	RoomID   string
	PlayerID string
}

// TagOutput lists the players to mention; rendering the mentions is the
// caller's job
type TagOutput struct {
	PlayerIDs []string
}
