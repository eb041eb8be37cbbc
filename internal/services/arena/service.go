package arena

import (
	"context"
	"errors"

	"github.com/wombatlabs/wombat-combat/internal/models"
	playerRepo "github.com/wombatlabs/wombat-combat/internal/repositories/player"
)

// Scripted refusal lines for condemned players
var refusalPhrases = []string{
	"Silence, convict!",
	"The condemned have no voice here.",
	"Nobody gave you the floor, worm.",
	"Your place is in the corner, not in the commands.",
	"Quiet now, your sentence is not over.",
	"The court has heard quite enough from you.",
}

// service implements the Service interface
type service struct {
	config *Config
}

// New creates a new arena service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
	}
	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}
	if cfg.Messenger == nil {
		return nil, ErrNilMessenger
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUID
	}
	if cfg.Roller == nil {
		return nil, ErrNilRoller
	}
	if cfg.Scheduler == nil {
		return nil, ErrNilScheduler
	}

	if cfg.DuelTimeout == 0 {
		cfg.DuelTimeout = DefaultDuelTimeout
	}
	if cfg.TrialDuration == 0 {
		cfg.TrialDuration = DefaultTrialDuration
	}
	if cfg.LobbyDuration == 0 {
		cfg.LobbyDuration = DefaultLobbyDuration
	}
	if cfg.TurnTimeout == 0 {
		cfg.TurnTimeout = DefaultTurnTimeout
	}
	if cfg.DealerPause == 0 {
		cfg.DealerPause = DefaultDealerPause
	}
	if cfg.CasinoDelay == 0 {
		cfg.CasinoDelay = DefaultCasinoDelay
	}
	if cfg.PardonWindow == 0 {
		cfg.PardonWindow = DefaultPardonWindow
	}

	return &service{config: cfg}, nil
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

// getTarget loads the other party of a two-player interaction.
func (s *service) getTarget(ctx context.Context, roomID, targetID string) (*models.Player, error) {
	p, err := s.config.PlayerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{
		RoomID:   roomID,
		PlayerID: targetID,
	})
	if err != nil {
		if errors.Is(err, playerRepo.ErrPlayerNotFound) {
			return nil, ErrTargetNotRegistered
		}
		return nil, err
	}
	return p, nil
}
