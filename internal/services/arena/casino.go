package arena

import (
	"context"
	"fmt"
	"log"

	playerRepo "github.com/wombatlabs/wombat-combat/internal/repositories/player"
)

// PlayCasino spins a double-or-nothing wager. The suspense message goes
// out immediately; the coin lands after a short pause so the room gets a
// moment of drama.
func (s *service) PlayCasino(ctx context.Context, input *PlayCasinoInput) (*PlayCasinoOutput, error) {
	player, err := s.requireActivePlayer(ctx, input.RoomID, input.PlayerID)
	if err != nil {
		return nil, err
	}

	if input.Bet <= 0 {
		return nil, ErrInvalidBet
	}
	if input.Bet > player.Size {
		return nil, ErrInsufficientBet
	}

	messageID, err := s.config.Messenger.Send(ctx, input.RoomID,
		fmt.Sprintf("🎰 %s puts %d cm on the line and spins the wheel... 🎰",
			player.DisplayName(), input.Bet), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send casino message: %w", err)
	}

	roomID := input.RoomID
	playerID := player.ID
	name := player.DisplayName()
	bet := input.Bet

	s.config.Scheduler.After(s.config.CasinoDelay, func() {
		s.resolveCasino(context.Background(), roomID, playerID, name, messageID, bet)
	})

	return &PlayCasinoOutput{MessageID: messageID}, nil
}

func (s *service) resolveCasino(ctx context.Context, roomID, playerID, name, messageID string, bet int) {
	delta := bet
	if !s.config.Roller.Coin() {
		delta = -bet
	}

	adjusted, err := s.config.PlayerRepo.AdjustSize(ctx, &playerRepo.AdjustSizeInput{
		RoomID:   roomID,
		PlayerID: playerID,
		Delta:    delta,
	})
	if err != nil {
		log.Printf("Failed to settle casino wager for %s in room %s: %v", playerID, roomID, err)
		s.edit(ctx, roomID, messageID, "🎰 The wheel jammed. The wager is off. 🎰")
		return
	}

	text := fmt.Sprintf("🎰 The house wins! %s loses %d cm. 🎰", name, -adjusted.Applied)
	if delta > 0 {
		text = fmt.Sprintf("🎰 %s beats the house and wins %d cm! 🎰", name, adjusted.Applied)
	}
	s.edit(ctx, roomID, messageID, text)
}
