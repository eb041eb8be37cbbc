package arena

import (
	"context"
	"fmt"
	"log"

	"github.com/wombatlabs/wombat-combat/internal/messaging"
	"github.com/wombatlabs/wombat-combat/internal/models"
	playerRepo "github.com/wombatlabs/wombat-combat/internal/repositories/player"
)

// StartDuel opens a duel challenge against another player
func (s *service) StartDuel(ctx context.Context, input *StartDuelInput) (*StartDuelOutput, error) {
	attacker, err := s.requireActivePlayer(ctx, input.RoomID, input.AttackerID)
	if err != nil {
		return nil, err
	}

	if input.AttackerID == input.DefenderID {
		return nil, ErrSelfTarget
	}

	defender, err := s.getTarget(ctx, input.RoomID, input.DefenderID)
	if err != nil {
		return nil, err
	}

	challenge := &models.DuelChallenge{
		ID:         s.config.UUID.NewUUID(),
		AttackerID: attacker.ID,
		DefenderID: defender.ID,
		Deadline:   s.config.Clock.Now().Add(s.config.DuelTimeout),
	}

	// Reserve the slot before sending the prompt so two challengers
	// racing each other cannot both create one.
	err = s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		if room.Duel != nil {
			return ErrDuelInProgress
		}
		room.Duel = challenge
		return nil
	})
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf(
		"⚔️ A duel challenge! ⚔️\n%s throws down the gauntlet before %s!\nLuck decides the outcome (50/50). You have %d seconds to accept.",
		attacker.DisplayName(), defender.DisplayName(), int(s.config.DuelTimeout.Seconds()),
	)
	controls := []messaging.Control{
		{ID: ControlDuelAccept, Label: "✅ Accept", Style: messaging.ControlStyleSuccess},
		{ID: ControlDuelDecline, Label: "❌ Decline", Style: messaging.ControlStyleDanger},
	}

	messageID, err := s.config.Messenger.Send(ctx, input.RoomID, text, controls)
	if err != nil {
		// Undo the reservation; nobody can answer a prompt that never
		// arrived.
		s.clearDuel(ctx, input.RoomID, challenge.ID)
		return nil, fmt.Errorf("failed to send duel prompt: %w", err)
	}

	err = s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		if room.Duel == nil || room.Duel.ID != challenge.ID {
			return ErrNoActiveDuel
		}
		room.Duel.MessageID = messageID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &StartDuelOutput{MessageID: messageID}, nil
}

// RespondDuel lets the defender accept or decline a challenge
func (s *service) RespondDuel(ctx context.Context, input *RespondDuelInput) (*RespondDuelOutput, error) {
	var out *RespondDuelOutput

	err := s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		duel := room.Duel
		if duel == nil {
			return ErrNoActiveDuel
		}
		if duel.DefenderID != input.PlayerID {
			return ErrNotYourChallenge
		}

		attacker, err := s.getTarget(ctx, input.RoomID, duel.AttackerID)
		if err != nil {
			return err
		}
		defender, err := s.getTarget(ctx, input.RoomID, duel.DefenderID)
		if err != nil {
			return err
		}

		if !input.Accept {
			s.edit(ctx, input.RoomID, duel.MessageID, fmt.Sprintf(
				"%s cowardly declined the duel with %s.",
				defender.DisplayName(), attacker.DisplayName(),
			))
			room.Duel = nil
			out = &RespondDuelOutput{Accepted: false}
			return nil
		}

		s.edit(ctx, input.RoomID, duel.MessageID, fmt.Sprintf(
			"%s accepts the challenge! The fight begins...",
			defender.DisplayName(),
		))

		winner, loser := attacker, defender
		if !s.config.Roller.Coin() {
			winner, loser = defender, attacker
		}

		stolen, err := s.settleDuel(ctx, input.RoomID, winner.ID, loser.ID)
		if err != nil {
			return err
		}

		s.edit(ctx, input.RoomID, duel.MessageID, fmt.Sprintf(
			"🏆 Winner: %s!\nLuck was on their side in a random scuffle. They take a whole %d cm from %s!",
			winner.DisplayName(), stolen, loser.DisplayName(),
		))

		room.Duel = nil
		out = &RespondDuelOutput{
			Accepted:   true,
			WinnerID:   winner.ID,
			WinnerName: winner.DisplayName(),
			LoserID:    loser.ID,
			LoserName:  loser.DisplayName(),
			Stolen:     stolen,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// settleDuel transfers a random 1..DuelMaxSteal from loser to winner. The
// loser is debited first with a clamped delta; the winner is credited only
// what the loser actually had.
func (s *service) settleDuel(ctx context.Context, roomID, winnerID, loserID string) (int, error) {
	raw := s.config.Roller.Roll(DuelMaxSteal)

	debit, err := s.config.PlayerRepo.AdjustSize(ctx, &playerRepo.AdjustSizeInput{
		RoomID:   roomID,
		PlayerID: loserID,
		Delta:    -raw,
	})
	if err != nil {
		return 0, err
	}

	stolen := -debit.Applied
	if stolen > 0 {
		if _, err := s.config.PlayerRepo.AdjustSize(ctx, &playerRepo.AdjustSizeInput{
			RoomID:   roomID,
			PlayerID: winnerID,
			Delta:    stolen,
		}); err != nil {
			return 0, err
		}
	}

	return stolen, nil
}

// clearDuel removes the duel slot if it still holds the given challenge.
func (s *service) clearDuel(ctx context.Context, roomID, challengeID string) {
	err := s.config.RoomRepo.WithRoom(ctx, roomID, func(room *models.Room) error {
		if room.Duel != nil && room.Duel.ID == challengeID {
			room.Duel = nil
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to clear duel slot in room %s: %v", roomID, err)
	}
}

// edit updates a room message, stripping any controls it carried.
func (s *service) edit(ctx context.Context, roomID, messageID, text string) {
	s.editWithControls(ctx, roomID, messageID, text, nil)
}
