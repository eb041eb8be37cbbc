package arena

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/wombatlabs/wombat-combat/internal/messaging"
	"github.com/wombatlabs/wombat-combat/internal/models"
	playerRepo "github.com/wombatlabs/wombat-combat/internal/repositories/player"
	roomRepo "github.com/wombatlabs/wombat-combat/internal/repositories/room"
)

// OpenTable opens a card game lobby with the host's bet
func (s *service) OpenTable(ctx context.Context, input *OpenTableInput) (*OpenTableOutput, error) {
	host, err := s.requireActivePlayer(ctx, input.RoomID, input.HostID)
	if err != nil {
		return nil, err
	}

	if input.Bet <= 0 {
		return nil, ErrInvalidBet
	}
	if input.Bet > host.Size {
		return nil, ErrInsufficientBet
	}

	game := &models.CardGame{
		ID:     s.config.UUID.NewUUID(),
		HostID: host.ID,
		Seats: []*models.Seat{{
			PlayerID:   host.ID,
			PlayerName: host.DisplayName(),
			Bet:        input.Bet,
			Status:     models.SeatStatusPlaying,
		}},
		Phase:    models.TablePhaseLobby,
		Deadline: s.config.Clock.Now().Add(s.config.LobbyDuration),
	}

	err = s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		if room.Table != nil {
			return ErrTableInProgress
		}
		room.Table = game
		return nil
	})
	if err != nil {
		return nil, err
	}

	messageID, err := s.config.Messenger.Send(ctx, input.RoomID, s.lobbyText(game), lobbyControls())
	if err != nil {
		s.clearTable(ctx, input.RoomID, game.ID)
		return nil, fmt.Errorf("failed to send lobby message: %w", err)
	}

	err = s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		if room.Table == nil || room.Table.ID != game.ID {
			return ErrNoActiveTable
		}
		room.Table.MessageID = messageID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &OpenTableOutput{MessageID: messageID}, nil
}

// JoinTable handles a Join click on an open lobby. Joining is two-phase:
// the click reserves the single pending-joiner slot, and the player's next
// chat message carries the bet.
func (s *service) JoinTable(ctx context.Context, input *JoinTableInput) (*JoinTableOutput, error) {
	if _, err := s.requireActivePlayer(ctx, input.RoomID, input.PlayerID); err != nil {
		return nil, err
	}

	err := s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		game := room.Table
		if game == nil {
			return ErrNoActiveTable
		}
		if game.Phase != models.TablePhaseLobby {
			return ErrTableNotOpen
		}
		if game.Seated(input.PlayerID) {
			return ErrAlreadySeated
		}
		if game.PendingJoinerID != "" && game.PendingJoinerID != input.PlayerID {
			return ErrJoinInProgress
		}

		game.PendingJoinerID = input.PlayerID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &JoinTableOutput{
		Prompt: "Type your bet amount in the chat to take a seat.",
	}, nil
}

// PlaceBet handles a plain chat message that may be the pending joiner's
// bet entry. Messages from anyone else, or with no join pending, are not
// the service's business.
func (s *service) PlaceBet(ctx context.Context, input *PlaceBetInput) (*PlaceBetOutput, error) {
	// Cheap pre-check so the handler can feed every room message through
	// here without paying for a lock each time.
	snapshot, err := s.config.RoomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: input.RoomID})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrNoPendingBet
		}
		return nil, err
	}
	if snapshot.Table == nil || snapshot.Table.PendingJoinerID != input.PlayerID {
		return nil, ErrNoPendingBet
	}

	joiner, err := s.getTarget(ctx, input.RoomID, input.PlayerID)
	if err != nil {
		return nil, err
	}

	var out *PlaceBetOutput
	err = s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		game := room.Table
		if game == nil || game.Phase != models.TablePhaseLobby || game.PendingJoinerID != input.PlayerID {
			return ErrNoPendingBet
		}

		// An invalid amount clears the reservation; the player has to
		// click Join again.
		bet, convErr := strconv.Atoi(strings.TrimSpace(input.Text))
		if convErr != nil || bet <= 0 {
			game.PendingJoinerID = ""
			return ErrInvalidBet
		}
		if bet > joiner.Size {
			game.PendingJoinerID = ""
			return ErrInsufficientBet
		}

		game.Seats = append(game.Seats, &models.Seat{
			PlayerID:   joiner.ID,
			PlayerName: joiner.DisplayName(),
			Bet:        bet,
			Status:     models.SeatStatusPlaying,
		})
		game.PendingJoinerID = ""

		if err := s.config.Messenger.Edit(ctx, input.RoomID, game.MessageID, s.lobbyText(game), lobbyControls()); err != nil {
			log.Printf("Failed to refresh lobby in room %s: %v", input.RoomID, err)
		}

		out = &PlaceBetOutput{Seated: true, Bet: bet}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Hit draws a card for the player whose turn it is
func (s *service) Hit(ctx context.Context, input *TurnActionInput) (*TurnActionOutput, error) {
	var out *TurnActionOutput
	var roundErr error

	err := s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		game := room.Table
		if game == nil {
			return ErrNoActiveTable
		}
		seat, err := s.actingSeat(game, input.PlayerID)
		if err != nil {
			return err
		}

		if len(game.Deck) == 0 {
			// The cleared slot must still persist, so the void cannot
			// surface as a callback error
			s.failRound(ctx, input.RoomID, room, game)
			roundErr = ErrDeckExhausted
			return nil
		}

		card := game.Deck[0]
		game.Deck = game.Deck[1:]
		seat.Hand = append(seat.Hand, card)

		value := HandValue(seat.Hand)
		switch {
		case value > 21:
			seat.Status = models.SeatStatusBusted
			game.Turn++
		case value == 21:
			// Held at 21, nothing left to decide
			seat.Status = models.SeatStatusStood
			game.Turn++
		}

		out = &TurnActionOutput{
			Drawn:     &card,
			HandValue: value,
			Busted:    value > 21,
		}

		return s.afterTurn(ctx, input.RoomID, room, game)
	})
	if err != nil {
		return nil, err
	}
	if roundErr != nil {
		return nil, roundErr
	}

	return out, nil
}

// Stand ends the acting player's turn
func (s *service) Stand(ctx context.Context, input *TurnActionInput) (*TurnActionOutput, error) {
	var out *TurnActionOutput

	err := s.config.RoomRepo.WithRoom(ctx, input.RoomID, func(room *models.Room) error {
		game := room.Table
		if game == nil {
			return ErrNoActiveTable
		}
		seat, err := s.actingSeat(game, input.PlayerID)
		if err != nil {
			return err
		}

		seat.Status = models.SeatStatusStood
		game.Turn++

		out = &TurnActionOutput{HandValue: HandValue(seat.Hand)}

		return s.afterTurn(ctx, input.RoomID, room, game)
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// actingSeat validates that the player owns the current turn.
func (s *service) actingSeat(game *models.CardGame, playerID string) (*models.Seat, error) {
	if game.Phase != models.TablePhasePlayerTurns {
		return nil, ErrNotYourTurn
	}
	if game.Turn >= len(game.Seats) {
		return nil, ErrNotYourTurn
	}
	seat := game.Seats[game.Turn]
	if seat.PlayerID != playerID {
		return nil, ErrNotYourTurn
	}
	return seat, nil
}

// dealTable shuffles a fresh deck and deals the opening hands. Runs inside
// the room's exclusive section, from the sweeper's force-start.
func (s *service) dealTable(ctx context.Context, roomID string, room *models.Room, game *models.CardGame) error {
	game.Deck = s.shuffleDeck()

	// Two cards to each seat in seating order, then two to the dealer
	for round := 0; round < 2; round++ {
		for _, seat := range game.Seats {
			if len(game.Deck) == 0 {
				s.failRound(ctx, roomID, room, game)
				return ErrDeckExhausted
			}
			seat.Hand = append(seat.Hand, game.Deck[0])
			game.Deck = game.Deck[1:]
		}
		if len(game.Deck) == 0 {
			s.failRound(ctx, roomID, room, game)
			return ErrDeckExhausted
		}
		game.DealerHand = append(game.DealerHand, game.Deck[0])
		game.Deck = game.Deck[1:]
	}

	game.Phase = models.TablePhasePlayerTurns
	game.Turn = 0

	return s.afterTurn(ctx, roomID, room, game)
}

// afterTurn re-validates the turn pointer, hands the round to the dealer
// once the last seat has acted, and refreshes the table message. It runs
// inside the room's exclusive section.
func (s *service) afterTurn(ctx context.Context, roomID string, room *models.Room, game *models.CardGame) error {
	// Defensive re-check: never present a turn to a hand already over 21
	for game.Turn < len(game.Seats) {
		seat := game.Seats[game.Turn]
		if seat.Status == models.SeatStatusPlaying && HandValue(seat.Hand) > 21 {
			seat.Status = models.SeatStatusBusted
		}
		if seat.Status != models.SeatStatusPlaying {
			game.Turn++
			continue
		}
		break
	}

	if game.Turn >= len(game.Seats) {
		game.Phase = models.TablePhaseDealerTurn
		game.Deadline = s.config.Clock.Now().Add(s.config.TurnTimeout)
		s.editWithControls(ctx, roomID, game.MessageID, s.tableText(game, true), nil)

		// The dealer draws on a schedule so the pacing pause never
		// holds this room's lock.
		gameID := game.ID
		s.config.Scheduler.After(s.config.DealerPause, func() {
			s.dealerStep(context.Background(), roomID, gameID)
		})
		return nil
	}

	game.Deadline = s.config.Clock.Now().Add(s.config.TurnTimeout)
	s.editWithControls(ctx, roomID, game.MessageID, s.tableText(game, false), turnControls())
	return nil
}

// dealerStep draws one dealer card (or settles) under the room lock, then
// reschedules itself while the dealer is under the stand value. Stale
// invocations against a finished or replaced round are no-ops.
func (s *service) dealerStep(ctx context.Context, roomID, gameID string) {
	err := s.config.RoomRepo.WithRoom(ctx, roomID, func(room *models.Room) error {
		game := room.Table
		if game == nil || game.ID != gameID || game.Phase != models.TablePhaseDealerTurn {
			return nil
		}

		if HandValue(game.DealerHand) < DealerStandValue {
			if len(game.Deck) == 0 {
				s.failRound(ctx, roomID, room, game)
				return nil
			}
			game.DealerHand = append(game.DealerHand, game.Deck[0])
			game.Deck = game.Deck[1:]

			if HandValue(game.DealerHand) < DealerStandValue {
				game.Deadline = s.config.Clock.Now().Add(s.config.TurnTimeout)
				s.editWithControls(ctx, roomID, game.MessageID, s.tableText(game, true), nil)
				s.config.Scheduler.After(s.config.DealerPause, func() {
					s.dealerStep(context.Background(), roomID, gameID)
				})
				return nil
			}
		}

		return s.settleTable(ctx, roomID, room, game)
	})
	if err != nil {
		log.Printf("Dealer step failed in room %s: %v", roomID, err)
	}
}

// settleTable pays out every seat against the dealer's final hand and
// clears the slot. Runs inside the room's exclusive section.
func (s *service) settleTable(ctx context.Context, roomID string, room *models.Room, game *models.CardGame) error {
	game.Phase = models.TablePhaseSettling
	dealerValue := HandValue(game.DealerHand)

	var lines []string
	lines = append(lines, fmt.Sprintf("Dealer: %s (%d)", renderHand(game.DealerHand), dealerValue))
	if dealerValue > 21 {
		lines = append(lines, "The dealer busts!")
	}
	lines = append(lines, "")

	for _, seat := range game.Seats {
		value := HandValue(seat.Hand)
		delta := 0
		switch {
		case seat.Status == models.SeatStatusBusted:
			delta = -seat.Bet
		case dealerValue > 21 || value > dealerValue:
			delta = seat.Bet
		case value < dealerValue:
			delta = -seat.Bet
		}

		outcome := "push"
		if delta != 0 {
			adjusted, err := s.config.PlayerRepo.AdjustSize(ctx, &playerRepo.AdjustSizeInput{
				RoomID:   roomID,
				PlayerID: seat.PlayerID,
				Delta:    delta,
			})
			if err != nil {
				return err
			}
			outcome = fmt.Sprintf("%+d cm", adjusted.Applied)
		}

		status := ""
		if seat.Status == models.SeatStatusBusted {
			status = " busted,"
		}
		lines = append(lines, fmt.Sprintf("%s: %s (%d) —%s %s",
			seat.PlayerName, renderHand(seat.Hand), value, status, outcome))
	}

	s.editWithControls(ctx, roomID, game.MessageID,
		"🃏 Round over! 🃏\n"+strings.Join(lines, "\n"), nil)

	room.Table = nil
	return nil
}

// failRound voids the round after a fatal error such as deck exhaustion.
// No bets move; the slot is force-cleared.
func (s *service) failRound(ctx context.Context, roomID string, room *models.Room, game *models.CardGame) {
	s.editWithControls(ctx, roomID, game.MessageID,
		"The deck ran out of cards — the round is void. All bets are returned.", nil)
	room.Table = nil
}

// clearTable removes the table slot if it still holds the given round.
func (s *service) clearTable(ctx context.Context, roomID, gameID string) {
	err := s.config.RoomRepo.WithRoom(ctx, roomID, func(room *models.Room) error {
		if room.Table != nil && room.Table.ID == gameID {
			room.Table = nil
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to clear table slot in room %s: %v", roomID, err)
	}
}

func (s *service) lobbyText(game *models.CardGame) string {
	var lines []string
	lines = append(lines, "🃏 A blackjack table is open! 🃏")
	for _, seat := range game.Seats {
		lines = append(lines, fmt.Sprintf("• %s — bet %d cm", seat.PlayerName, seat.Bet))
	}
	lines = append(lines, "", fmt.Sprintf(
		"Click Join to play. The round starts in %d seconds.",
		int(s.config.LobbyDuration.Seconds()),
	))
	return strings.Join(lines, "\n")
}

// tableText renders the table. The dealer's second card stays hidden until
// revealDealer is set.
func (s *service) tableText(game *models.CardGame, revealDealer bool) string {
	var lines []string
	lines = append(lines, "🃏 Blackjack 🃏")

	if revealDealer {
		lines = append(lines, fmt.Sprintf("Dealer: %s (%d)",
			renderHand(game.DealerHand), HandValue(game.DealerHand)))
	} else if len(game.DealerHand) > 0 {
		lines = append(lines, fmt.Sprintf("Dealer: %s ▯", game.DealerHand[0]))
	}

	for i, seat := range game.Seats {
		marker := "  "
		if game.Phase == models.TablePhasePlayerTurns && i == game.Turn {
			marker = "▶ "
		}
		tag := ""
		switch seat.Status {
		case models.SeatStatusStood:
			tag = " [stood]"
		case models.SeatStatusBusted:
			tag = " [busted]"
		}
		lines = append(lines, fmt.Sprintf("%s%s: %s (%d) — bet %d%s",
			marker, seat.PlayerName, renderHand(seat.Hand), HandValue(seat.Hand), seat.Bet, tag))
	}

	if game.Phase == models.TablePhasePlayerTurns && game.Turn < len(game.Seats) {
		lines = append(lines, "", fmt.Sprintf("%s, your move.", game.Seats[game.Turn].PlayerName))
	}
	if game.Phase == models.TablePhaseDealerTurn {
		lines = append(lines, "", "The dealer draws...")
	}

	return strings.Join(lines, "\n")
}

// editWithControls updates a room message, logging delivery failures
// instead of failing the transition that triggered them.
func (s *service) editWithControls(ctx context.Context, roomID, messageID, text string, controls []messaging.Control) {
	if messageID == "" {
		return
	}
	if err := s.config.Messenger.Edit(ctx, roomID, messageID, text, controls); err != nil {
		log.Printf("Failed to edit message %s in room %s: %v", messageID, roomID, err)
	}
}

func lobbyControls() []messaging.Control {
	return []messaging.Control{
		{ID: ControlTableJoin, Label: "🪑 Join", Style: messaging.ControlStyleSuccess},
	}
}

func turnControls() []messaging.Control {
	return []messaging.Control{
		{ID: ControlTableHit, Label: "Hit", Style: messaging.ControlStylePrimary},
		{ID: ControlTableStand, Label: "Stand", Style: messaging.ControlStyleDanger},
	}
}
