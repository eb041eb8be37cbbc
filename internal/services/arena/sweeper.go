package arena

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wombatlabs/wombat-combat/internal/models"
	playerRepo "github.com/wombatlabs/wombat-combat/internal/repositories/player"
)

// Sweep runs one pass over every room: it times out expired duels,
// resolves trials whose voting window closed, pushes card games past their
// phase deadline (force-start, forced stand, dealer re-arm), and lifts
// expired punishments. Each room
// is handled under its own lock, so a sweep never races a click; a
// failing room is logged and skipped, never halting the pass.
func (s *service) Sweep(ctx context.Context, input *SweepInput) (*SweepOutput, error) {
	out := &SweepOutput{}

	roomIDs, err := s.config.RoomRepo.ListRoomIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	now := s.config.Clock.Now()

	for _, roomID := range roomIDs {
		if err := s.sweepRoom(ctx, roomID, now, out); err != nil {
			log.Printf("Sweep failed for room %s: %v", roomID, err)
		}
		out.RoomsScanned++
	}

	if err := s.sweepPunishments(ctx, out); err != nil {
		log.Printf("Punishment sweep failed: %v", err)
	}

	return out, nil
}

func (s *service) sweepRoom(ctx context.Context, roomID string, now time.Time, out *SweepOutput) error {
	return s.config.RoomRepo.WithRoom(ctx, roomID, func(room *models.Room) error {
		if duel := room.Duel; duel != nil && now.After(duel.Deadline) {
			s.edit(ctx, roomID, duel.MessageID,
				"⏳ Time is up. The challenge expires unanswered. ⏳")
			room.Duel = nil
			out.DuelsTimedOut++
		}

		if trial := room.Trial; trial != nil && now.After(trial.Deadline) {
			if err := s.resolveTrial(ctx, roomID, trial); err != nil {
				log.Printf("Failed to resolve trial in room %s: %v", roomID, err)
			}
			room.Trial = nil
			out.TrialsResolved++
		}

		if game := room.Table; game != nil && now.After(game.Deadline) {
			switch game.Phase {
			case models.TablePhaseLobby:
				// A join left hanging past the deadline forfeits its
				// seat
				game.PendingJoinerID = ""

				if len(game.Seats) == 0 {
					s.edit(ctx, roomID, game.MessageID,
						"Nobody sat down. The table closes.")
					room.Table = nil
					out.TablesCancelled++
					return nil
				}

				if err := s.dealTable(ctx, roomID, room, game); err != nil {
					log.Printf("Failed to deal table in room %s: %v", roomID, err)
					out.TablesCancelled++
					return nil
				}
				out.TablesStarted++

			case models.TablePhasePlayerTurns:
				// The acting seat sat on its turn too long; it stands
				// and the round moves on
				if game.Turn < len(game.Seats) {
					game.Seats[game.Turn].Status = models.SeatStatusStood
					game.Turn++
				}
				if err := s.afterTurn(ctx, roomID, room, game); err != nil {
					log.Printf("Failed to advance table in room %s: %v", roomID, err)
				}
				out.TurnsForced++

			case models.TablePhaseDealerTurn:
				// The scheduled dealer callback was lost, likely to a
				// restart; arm a fresh one
				game.Deadline = now.Add(s.config.TurnTimeout)
				gameID := game.ID
				s.config.Scheduler.After(s.config.DealerPause, func() {
					s.dealerStep(context.Background(), roomID, gameID)
				})
				out.DealersRearmed++
			}
		}

		return nil
	})
}

// sweepPunishments releases condemned players whose sentence has run out.
func (s *service) sweepPunishments(ctx context.Context, out *SweepOutput) error {
	condemned, err := s.config.PlayerRepo.ListCondemned(ctx)
	if err != nil {
		return fmt.Errorf("failed to list condemned players: %w", err)
	}

	now := s.config.Clock.Now()

	for _, p := range condemned {
		if p.PunishmentEnd == nil || now.Before(*p.PunishmentEnd) {
			continue
		}

		released, err := s.config.PlayerRepo.UpdatePlayer(ctx, &playerRepo.UpdatePlayerInput{
			RoomID:   p.RoomID,
			PlayerID: p.ID,
			Fn: func(ctx context.Context, cur *models.Player) error {
				// The record may have changed since the listing;
				// only a still-expired sentence gets lifted.
				if cur.Status != models.PlayerStatusCondemned ||
					cur.PunishmentEnd == nil || now.Before(*cur.PunishmentEnd) {
					return errPlayerNotCondemned
				}
				cur.Status = models.PlayerStatusNormal
				cur.CondemnedBy = ""
				cur.PunishmentEnd = nil
				return nil
			},
		})
		if err != nil {
			if err != errPlayerNotCondemned {
				log.Printf("Failed to release %s in room %s: %v", p.ID, p.RoomID, err)
			}
			continue
		}

		if _, err := s.config.Messenger.Send(ctx, p.RoomID, fmt.Sprintf(
			"🔓 %s has served the sentence and walks free! 🔓",
			released.DisplayName()), nil); err != nil {
			log.Printf("Failed to send release message in room %s: %v", p.RoomID, err)
		}
		out.PunishmentsLifted++
	}

	return nil
}
