package growth

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/wombatlabs/wombat-combat/internal/models"
	playerRepo "github.com/wombatlabs/wombat-combat/internal/repositories/player"
)

// Scripted refusal lines for condemned players
var refusalPhrases = []string{
	"Convicts do not grow.",
	"Serve your sentence first.",
	"The cell block has no room for ambition.",
	"Not while you wear the chains.",
	"Your privileges are suspended, convict.",
}

// service implements the Service interface
type service struct {
	config *Config
}

// New creates a new growth service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}
	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.Roller == nil {
		return nil, ErrNilRoller
	}

	if cfg.GrowCooldown == 0 {
		cfg.GrowCooldown = DefaultGrowCooldown
	}
	if cfg.TagCooldown == 0 {
		cfg.TagCooldown = DefaultTagCooldown
	}

	return &service{config: cfg}, nil
}

// Register enters a player into the room's game
func (s *service) Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	_, err := s.config.PlayerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{
		RoomID:   input.RoomID,
		PlayerID: input.PlayerID,
	})
	if err == nil {
		return nil, ErrAlreadyRegistered
	}
	if !errors.Is(err, playerRepo.ErrPlayerNotFound) {
		return nil, err
	}

	p := &models.Player{
		ID:        input.PlayerID,
		RoomID:    input.RoomID,
		FirstName: input.FirstName,
		Username:  input.Username,
		Size:      s.config.Roller.Roll(InitialSizeMax),
		Status:    models.PlayerStatusNormal,
	}

	if err := s.config.PlayerRepo.SavePlayer(ctx, &playerRepo.SavePlayerInput{Player: p}); err != nil {
		return nil, err
	}

	return &RegisterOutput{Player: p}, nil
}

// Grow attempts the daily growth roll
func (s *service) Grow(ctx context.Context, input *GrowInput) (*GrowOutput, error) {
	p, err := s.requireActivePlayer(ctx, input.RoomID, input.PlayerID)
	if err != nil {
		return nil, err
	}

	now := s.config.Clock.Now()
	if !p.LastGrowth.IsZero() {
		readyAt := p.LastGrowth.Add(s.config.GrowCooldown)
		if now.Before(readyAt) {
			return nil, &CooldownError{ReadyAt: readyAt}
		}
	}

	grown := s.rollGrowth(p.Medals)

	updated, err := s.config.PlayerRepo.UpdatePlayer(ctx, &playerRepo.UpdatePlayerInput{
		RoomID:   input.RoomID,
		PlayerID: input.PlayerID,
		Fn: func(ctx context.Context, cur *models.Player) error {
			// Re-check under the transaction so a concurrent grow
			// cannot double-dip the same window
			if !cur.LastGrowth.IsZero() && now.Before(cur.LastGrowth.Add(s.config.GrowCooldown)) {
				return &CooldownError{ReadyAt: cur.LastGrowth.Add(s.config.GrowCooldown)}
			}
			cur.Size += grown
			cur.LastGrowth = now
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &GrowOutput{
		Grown:      grown,
		NewSize:    updated.Size,
		NextGrowth: now.Add(s.config.GrowCooldown),
	}, nil
}

// rollGrowth draws the day's growth. A small slice of days grow nothing;
// medal holders draw from a higher band that creeps up with each medal.
func (s *service) rollGrowth(medals int) int {
	if s.config.Roller.Roll(20) == 1 {
		return 0
	}
	if medals == 0 {
		return s.config.Roller.Roll(10)
	}
	bonus := medals - 1
	return 4 + bonus + s.config.Roller.Roll(16)
}

// Prestige trades an oversized wombat for a medal
func (s *service) Prestige(ctx context.Context, input *PrestigeInput) (*PrestigeOutput, error) {
	if _, err := s.requireActivePlayer(ctx, input.RoomID, input.PlayerID); err != nil {
		return nil, err
	}

	updated, err := s.config.PlayerRepo.UpdatePlayer(ctx, &playerRepo.UpdatePlayerInput{
		RoomID:   input.RoomID,
		PlayerID: input.PlayerID,
		Fn: func(ctx context.Context, cur *models.Player) error {
			if cur.Size < PrestigeThreshold {
				return ErrNotEnoughToPrestige
			}
			cur.Size = PrestigeResetSize
			cur.Medals++
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &PrestigeOutput{
		Medals:  updated.Medals,
		NewSize: updated.Size,
	}, nil
}

// Profile reports a player's stats and standing
func (s *service) Profile(ctx context.Context, input *ProfileInput) (*ProfileOutput, error) {
	p, err := s.config.PlayerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{
		RoomID:   input.RoomID,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, playerRepo.ErrPlayerNotFound) {
			return nil, ErrPlayerNotRegistered
		}
		return nil, err
	}

	roster, err := s.config.PlayerRepo.GetPlayersInRoom(ctx, &playerRepo.GetPlayersInRoomInput{
		RoomID: input.RoomID,
	})
	if err != nil {
		return nil, err
	}

	players := sortBySize(roster.Players)
	rank := 0
	for i, other := range players {
		if other.ID == p.ID {
			rank = i + 1
			break
		}
	}

	return &ProfileOutput{
		Player:     p,
		Rank:       rank,
		Total:      len(players),
		NextGrowth: p.LastGrowth.Add(s.config.GrowCooldown),
	}, nil
}

// SetNickname sets or clears a player's display nickname
func (s *service) SetNickname(ctx context.Context, input *SetNicknameInput) (*SetNicknameOutput, error) {
	if _, err := s.requireActivePlayer(ctx, input.RoomID, input.PlayerID); err != nil {
		return nil, err
	}

	nickname := strings.TrimSpace(input.Nickname)
	if utf8.RuneCountInString(nickname) > MaxNicknameLength {
		return nil, ErrNicknameTooLong
	}

	updated, err := s.config.PlayerRepo.UpdatePlayer(ctx, &playerRepo.UpdatePlayerInput{
		RoomID:   input.RoomID,
		PlayerID: input.PlayerID,
		Fn: func(ctx context.Context, cur *models.Player) error {
			cur.Nickname = nickname
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &SetNicknameOutput{Player: updated}, nil
}

// Top returns the room leaderboard, largest first
func (s *service) Top(ctx context.Context, input *TopInput) (*TopOutput, error) {
	roster, err := s.config.PlayerRepo.GetPlayersInRoom(ctx, &playerRepo.GetPlayersInRoomInput{
		RoomID: input.RoomID,
	})
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	players := sortBySize(roster.Players)
	if len(players) > limit {
		players = players[:limit]
	}

	return &TopOutput{Players: players}, nil
}

// Tag requests a room-wide mention broadcast
func (s *service) Tag(ctx context.Context, input *TagInput) (*TagOutput, error) {
	caller, err := s.requireActivePlayer(ctx, input.RoomID, input.PlayerID)
	if err != nil {
		return nil, err
	}

	now := s.config.Clock.Now()
	err = s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		if !room.LastTagTime.IsZero() && now.Sub(room.LastTagTime) < s.config.TagCooldown {
			return ErrTagOnCooldown
		}
		room.LastTagTime = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	roster, err := s.config.PlayerRepo.GetPlayersInRoom(ctx, &playerRepo.GetPlayersInRoomInput{
		RoomID: input.RoomID,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(roster.Players))
	for _, p := range roster.Players {
		if p.ID == caller.ID {
			continue
		}
		ids = append(ids, p.ID)
	}

	return &TagOutput{PlayerIDs: ids}, nil
}

// requireActivePlayer loads a registered player and intercepts condemned
// ones with a scripted refusal.
func (s *service) requireActivePlayer(ctx context.Context, roomID, playerID string) (*models.Player, error) {
	p, err := s.config.PlayerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{
		RoomID:   roomID,
		PlayerID: playerID,
	})
	if err != nil {
		if errors.Is(err, playerRepo.ErrPlayerNotFound) {
			return nil, ErrPlayerNotRegistered
		}
		return nil, err
	}

	if p.Status == models.PlayerStatusCondemned {
		phrase := refusalPhrases[s.config.Roller.Roll(len(refusalPhrases))-1]
		return nil, &RefusalError{Phrase: phrase}
	}

	return p, nil
}

// sortBySize returns the roster ordered by size descending, names breaking
// ties for a stable leaderboard.
func sortBySize(players []*models.Player) []*models.Player {
	sorted := make([]*models.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Size != sorted[j].Size {
			return sorted[i].Size > sorted[j].Size
		}
		return sorted[i].DisplayName() < sorted[j].DisplayName()
	})
	return sorted
}
