package growth

import "context"

// Service handles the growth game: registration, the daily growth roll,
// medals, profiles and the leaderboard.
type Service interface {
	// Register enters a player into the room's game with a random
	// starting size
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Grow attempts the daily growth roll
	Grow(ctx context.Context, input *GrowInput) (*GrowOutput, error)

	// Prestige trades an oversized wombat for a medal and a fresh start
	Prestige(ctx context.Context, input *PrestigeInput) (*PrestigeOutput, error)

	// Profile reports a player's stats and room standing
	Profile(ctx context.Context, input *ProfileInput) (*ProfileOutput, error)

	// SetNickname sets or clears a player's display nickname
	SetNickname(ctx context.Context, input *SetNicknameInput) (*SetNicknameOutput, error)

	// Top returns the room leaderboard, largest first
	Top(ctx context.Context, input *TopInput) (*TopOutput, error)

	// Tag requests a room-wide mention broadcast, rate limited per room
	Tag(ctx context.Context, input *TagInput) (*TagOutput, error)
}
