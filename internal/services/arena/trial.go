package arena

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wombatlabs/wombat-combat/internal/messaging"
	"github.com/wombatlabs/wombat-combat/internal/models"
	playerRepo "github.com/wombatlabs/wombat-combat/internal/repositories/player"
)

// StartTrial opens a trial against another player
func (s *service) StartTrial(ctx context.Context, input *StartTrialInput) (*StartTrialOutput, error) {
	prosecutor, err := s.requireActivePlayer(ctx, input.RoomID, input.ProsecutorID)
	if err != nil {
		return nil, err
	}

	if input.ProsecutorID == input.DefendantID {
		return nil, ErrSelfTarget
	}

	defendant, err := s.getTarget(ctx, input.RoomID, input.DefendantID)
	if err != nil {
		return nil, err
	}

	trial := &models.Trial{
		ID:           s.config.UUID.NewUUID(),
		ProsecutorID: prosecutor.ID,
		DefendantID:  defendant.ID,
		Deadline:     s.config.Clock.Now().Add(s.config.TrialDuration),
	}

	err = s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		if room.Trial != nil {
			return ErrTrialInProgress
		}
		room.Trial = trial
		return nil
	})
	if err != nil {
		return nil, err
	}

	messageID, err := s.config.Messenger.Send(ctx, input.RoomID,
		trialText(prosecutor.DisplayName(), defendant.DisplayName(), 0, 0),
		trialControls(),
	)
	if err != nil {
		s.clearTrial(ctx, input.RoomID, trial.ID)
		return nil, fmt.Errorf("failed to send trial message: %w", err)
	}

	err = s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		if room.Trial == nil || room.Trial.ID != trial.ID {
			return ErrNoActiveTrial
		}
		room.Trial.MessageID = messageID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &StartTrialOutput{MessageID: messageID}, nil
}

// CastVote records a guilty or innocent vote on the open trial
func (s *service) CastVote(ctx context.Context, input *CastVoteInput) (*CastVoteOutput, error) {
	var out *CastVoteOutput

	err := s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		trial := room.Trial
		if trial == nil {
			return ErrNoActiveTrial
		}
		if input.VoterID == trial.ProsecutorID || input.VoterID == trial.DefendantID {
			return ErrPartiesCannotVote
		}
		if trial.HasVoted(input.VoterID) {
			return ErrAlreadyVoted
		}

		if input.Guilty {
			trial.GuiltyVotes = append(trial.GuiltyVotes, input.VoterID)
		} else {
			trial.InnocentVotes = append(trial.InnocentVotes, input.VoterID)
		}

		prosecutor, err := s.getTarget(ctx, input.RoomID, trial.ProsecutorID)
		if err != nil {
			return err
		}
		defendant, err := s.getTarget(ctx, input.RoomID, trial.DefendantID)
		if err != nil {
			return err
		}

		if err := s.config.Messenger.Edit(ctx, input.RoomID, trial.MessageID,
			trialText(prosecutor.DisplayName(), defendant.DisplayName(),
				len(trial.GuiltyVotes), len(trial.InnocentVotes)),
			trialControls(),
		); err != nil {
			log.Printf("Failed to update trial tally in room %s: %v", input.RoomID, err)
		}

		out = &CastVoteOutput{
			GuiltyCount:   len(trial.GuiltyVotes),
			InnocentCount: len(trial.InnocentVotes),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// ChooseSentence lets the winning prosecutor set the sentence length. The
// trial slot is long gone at this point; the check runs against the
// defendant's own condemnation record instead.
func (s *service) ChooseSentence(ctx context.Context, input *ChooseSentenceInput) (*ChooseSentenceOutput, error) {
	validTerm := false
	for _, hours := range SentenceTermHours {
		if input.Hours == hours {
			validTerm = true
			break
		}
	}
	if !validTerm {
		return nil, ErrInvalidTerm
	}

	endsAt := s.config.Clock.Now().Add(time.Duration(input.Hours) * time.Hour)

	updated, err := s.config.PlayerRepo.UpdatePlayer(ctx, &playerRepo.UpdatePlayerInput{
		RoomID:   input.RoomID,
		PlayerID: input.DefendantID,
		Fn: func(ctx context.Context, p *models.Player) error {
			if p.Status != models.PlayerStatusCondemned || p.CondemnedBy != input.ActorID {
				return ErrNotCondemner
			}
			p.PunishmentEnd = &endsAt
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &ChooseSentenceOutput{
		DefendantName: updated.DisplayName(),
		EndsAt:        endsAt,
	}, nil
}

// Execute zeroes a condemned player; only their condemner may do it
func (s *service) Execute(ctx context.Context, input *ExecuteInput) (*ExecuteOutput, error) {
	now := s.config.Clock.Now()

	updated, err := s.config.PlayerRepo.UpdatePlayer(ctx, &playerRepo.UpdatePlayerInput{
		RoomID:   input.RoomID,
		PlayerID: input.TargetID,
		Fn: func(ctx context.Context, p *models.Player) error {
			if p.Status != models.PlayerStatusCondemned || p.CondemnedBy != input.ExecutionerID {
				return ErrCannotExecute
			}
			p.SizeBeforeExecution = p.Size
			p.Size = 0
			p.Status = models.PlayerStatusExecuted
			p.ExecutedAt = &now
			p.CondemnedBy = ""
			p.PunishmentEnd = nil
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &ExecuteOutput{TargetName: updated.DisplayName()}, nil
}

// Pardon restores an executed player within the pardon window
func (s *service) Pardon(ctx context.Context, input *PardonInput) (*PardonOutput, error) {
	now := s.config.Clock.Now()

	updated, err := s.config.PlayerRepo.UpdatePlayer(ctx, &playerRepo.UpdatePlayerInput{
		RoomID:   input.RoomID,
		PlayerID: input.TargetID,
		Fn: func(ctx context.Context, p *models.Player) error {
			if p.Status != models.PlayerStatusExecuted || p.ExecutedAt == nil {
				return ErrNotExecuted
			}
			if now.After(p.ExecutedAt.Add(s.config.PardonWindow)) {
				return ErrPardonTooLate
			}
			p.Size = p.SizeBeforeExecution
			p.Status = models.PlayerStatusNormal
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &PardonOutput{
		TargetName:   updated.DisplayName(),
		RestoredSize: updated.Size,
	}, nil
}

// resolveTrial tallies the verdict once the voting window has closed. It
// runs inside the room's exclusive section; the caller clears the slot.
func (s *service) resolveTrial(ctx context.Context, roomID string, trial *models.Trial) error {
	prosecutor, err := s.getTarget(ctx, roomID, trial.ProsecutorID)
	if err != nil {
		return err
	}
	defendant, err := s.getTarget(ctx, roomID, trial.DefendantID)
	if err != nil {
		return err
	}

	guiltyCount, innocentCount := len(trial.GuiltyVotes), len(trial.InnocentVotes)

	// Strict majority convicts; ties and empty votes acquit
	if guiltyCount > innocentCount {
		_, err := s.config.PlayerRepo.UpdatePlayer(ctx, &playerRepo.UpdatePlayerInput{
			RoomID:   roomID,
			PlayerID: trial.DefendantID,
			Fn: func(ctx context.Context, p *models.Player) error {
				p.Status = models.PlayerStatusCondemned
				p.CondemnedBy = trial.ProsecutorID
				return nil
			},
		})
		if err != nil {
			return err
		}

		if err := s.config.Messenger.Delete(ctx, roomID, trial.MessageID); err != nil {
			log.Printf("Failed to delete trial message in room %s: %v", roomID, err)
		}

		controls := make([]messaging.Control, 0, len(SentenceTermHours))
		for _, hours := range SentenceTermHours {
			controls = append(controls, messaging.Control{
				ID:    SentenceControlID(trial.DefendantID, hours),
				Label: termLabel(hours),
				Style: messaging.ControlStyleDanger,
			})
		}

		if _, err := s.config.Messenger.Send(ctx, roomID, fmt.Sprintf(
			"VERDICT: GUILTY!\n%s, choose the punishment term for %s.",
			prosecutor.DisplayName(), defendant.DisplayName(),
		), controls); err != nil {
			log.Printf("Failed to send sentencing message in room %s: %v", roomID, err)
		}

		return nil
	}

	if err := s.config.Messenger.Delete(ctx, roomID, trial.MessageID); err != nil {
		log.Printf("Failed to delete trial message in room %s: %v", roomID, err)
	}

	if _, err := s.config.PlayerRepo.AdjustSize(ctx, &playerRepo.AdjustSizeInput{
		RoomID:   roomID,
		PlayerID: trial.ProsecutorID,
		Delta:    -ProsecutorFine,
	}); err != nil {
		return err
	}

	if _, err := s.config.Messenger.Send(ctx, roomID, fmt.Sprintf(
		"VERDICT: INNOCENT!\n%s is acquitted. The prosecutor (%s) is fined %d cm.",
		defendant.DisplayName(), prosecutor.DisplayName(), ProsecutorFine,
	), nil); err != nil {
		log.Printf("Failed to send acquittal message in room %s: %v", roomID, err)
	}

	return nil
}

// clearTrial removes the trial slot if it still holds the given trial.
func (s *service) clearTrial(ctx context.Context, roomID, trialID string) {
	err := s.config.RoomRepo.WithRoom(ctx, roomID, func(room *models.Room) error {
		if room.Trial != nil && room.Trial.ID == trialID {
			room.Trial = nil
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to clear trial slot in room %s: %v", roomID, err)
	}
}

func trialText(prosecutorName, defendantName string, guilty, innocent int) string {
	text := fmt.Sprintf(
		"⚖️ TRIAL! ⚖️\n%s accuses %s!\nVoting lasts 5 minutes.",
		prosecutorName, defendantName,
	)
	if guilty > 0 || innocent > 0 {
		text += fmt.Sprintf("\n\nVotes 'Guilty': %d | 'Innocent': %d", guilty, innocent)
	}
	return text
}

func trialControls() []messaging.Control {
	return []messaging.Control{
		{ID: ControlVoteGuilty, Label: "Guilty", Style: messaging.ControlStyleDanger},
		{ID: ControlVoteInnocent, Label: "Innocent", Style: messaging.ControlStyleSuccess},
	}
}

func termLabel(hours int) string {
	switch {
	case hours < 24:
		return fmt.Sprintf("%d hour", hours)
	case hours == 24:
		return "1 day"
	case hours == 168:
		return "1 week"
	default:
		return fmt.Sprintf("%d days", hours/24)
	}
}
