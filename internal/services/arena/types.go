package arena

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wombatlabs/wombat-combat/internal/common/clock"
	"github.com/wombatlabs/wombat-combat/internal/common/uuid"
	"github.com/wombatlabs/wombat-combat/internal/messaging"
	"github.com/wombatlabs/wombat-combat/internal/models"
	playerRepo "github.com/wombatlabs/wombat-combat/internal/repositories/player"
	roomRepo "github.com/wombatlabs/wombat-combat/internal/repositories/room"
	"github.com/wombatlabs/wombat-combat/internal/rng"
	"github.com/wombatlabs/wombat-combat/internal/scheduler"
)

// Control IDs round-tripped through message buttons
const (
	ControlDuelAccept   = "duel_accept"
	ControlDuelDecline  = "duel_decline"
	ControlVoteGuilty   = "vote_guilty"
	ControlVoteInnocent = "vote_innocent"
	ControlTableJoin    = "table_join"
	ControlTableHit     = "table_hit"
	ControlTableStand   = "table_stand"

	sentenceControlPrefix = "set_term:"
)

// Default timings and amounts, matching the live product
const (
	DefaultDuelTimeout   = 60 * time.Second
	DefaultTrialDuration = 5 * time.Minute
	DefaultLobbyDuration = 60 * time.Second
	DefaultTurnTimeout   = 60 * time.Second
	DefaultDealerPause   = 2 * time.Second
	DefaultCasinoDelay   = 3 * time.Second
	DefaultPardonWindow  = 30 * time.Minute

	// DuelMaxSteal bounds the size transferred to a duel winner
	DuelMaxSteal = 5

	// ProsecutorFine is taken from the prosecutor after an acquittal
	ProsecutorFine = 2

	// DealerStandValue is the total the dealer stands on
	DealerStandValue = 17
)

// SentenceTermHours lists the selectable sentence lengths
var SentenceTermHours = []int{1, 24, 72, 168}

// SentenceControlID builds the control ID for one sentence-length button.
func SentenceControlID(defendantID string, hours int) string {
	return fmt.Sprintf("%s%s:%d", sentenceControlPrefix, defendantID, hours)
}

// ParseSentenceControl extracts the defendant and term from a sentence
// button's control ID. ok is false for any other control.
func ParseSentenceControl(controlID string) (defendantID string, hours int, ok bool) {
	if !strings.HasPrefix(controlID, sentenceControlPrefix) {
		return "", 0, false
	}
	parts := strings.Split(strings.TrimPrefix(controlID, sentenceControlPrefix), ":")
	if len(parts) != 2 {
		return "", 0, false
	}
	hours, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, false
	}
	return parts[0], hours, true
}

// Config holds configuration for the arena service
type Config struct {
	// Repository dependencies
	RoomRepo   roomRepo.Repository
	PlayerRepo playerRepo.Repository

	// Collaborator dependencies
	Messenger messaging.Messenger
	Clock     clock.Clock
	UUID      uuid.UUID
	Roller    rng.Roller
	Scheduler scheduler.Scheduler

	// DuelTimeout is how long a challenge waits for the defender
	DuelTimeout time.Duration

	// TrialDuration is the length of the voting window
	TrialDuration time.Duration

	// LobbyDuration is the card game join window
	LobbyDuration time.Duration

	// TurnTimeout bounds a seat's turn and the dealer's next draw; the
	// sweeper forces the round onward past it
	TurnTimeout time.Duration

	// DealerPause is the visible pause between dealer draws
	DealerPause time.Duration

	// CasinoDelay is the suspense pause before a casino result
	CasinoDelay time.Duration

	// PardonWindow is how long after execution a pardon still works
	PardonWindow time.Duration
}

// StartDuelInput contains parameters for opening a duel challenge
type StartDuelInput struct {
	RoomID     string
	AttackerID string
	DefenderID string
}

// StartDuelOutput contains the result of opening a duel challenge
type StartDuelOutput struct {
	// MessageID is the challenge prompt
	MessageID string
}

// RespondDuelInput contains parameters for answering a challenge
type RespondDuelInput struct {
	RoomID   string
	PlayerID string

	// Accept is true for accept, false for decline
	Accept bool
}

// RespondDuelOutput contains the result of answering a challenge
type RespondDuelOutput struct {
	Accepted   bool
	WinnerID   string
	WinnerName string
	LoserID    string
	LoserName  string

	// Stolen is the size actually transferred after clamping
	Stolen int
}

// StartTrialInput contains parameters for opening a trial
type StartTrialInput struct {
	RoomID       string
	ProsecutorID string
	DefendantID  string
}

// StartTrialOutput contains the result of opening a trial
type StartTrialOutput struct {
	// MessageID is the live tally message
	MessageID string
}

// CastVoteInput contains parameters for casting a vote
type CastVoteInput struct {
	RoomID  string
	VoterID string
	Guilty  bool
}

// CastVoteOutput contains the resulting tally
type CastVoteOutput struct {
	GuiltyCount   int
	InnocentCount int
}

// ChooseSentenceInput contains parameters for picking a sentence length
type ChooseSentenceInput struct {
	RoomID      string
	ActorID     string
	DefendantID string
	Hours       int
}

// ChooseSentenceOutput contains the result of sentencing
type ChooseSentenceOutput struct {
	DefendantName string
	EndsAt        time.Time
}

// ExecuteInput contains parameters for executing a condemned player
type ExecuteInput struct {
	RoomID        string
	ExecutionerID string
	TargetID      string
}

// ExecuteOutput contains the result of an execution
type ExecuteOutput struct {
	TargetName string
}

// PardonInput contains parameters for pardoning an executed player
type PardonInput struct {
	RoomID   string
	TargetID string
}

// PardonOutput contains the result of a pardon
type PardonOutput struct {
	TargetName   string
	RestoredSize int
}

// OpenTableInput contains parameters for opening a card game lobby
type OpenTableInput struct {
	RoomID string
	HostID string
	Bet    int
}

// OpenTableOutput contains the result of opening a lobby
type OpenTableOutput struct {
	// MessageID is the table message
	MessageID string
}

// JoinTableInput contains parameters for clicking Join on a lobby
type JoinTableInput struct {
	RoomID   string
	PlayerID string
}

// JoinTableOutput contains the result of a join click
type JoinTableOutput struct {
	// Prompt asks the pending joiner to type their bet
	Prompt string
}

// PlaceBetInput carries a plain chat message that may be a pending
// joiner's bet entry
type PlaceBetInput struct {
	RoomID   string
	PlayerID string
	Text     string
}

// PlaceBetOutput contains the result of a bet entry
type PlaceBetOutput struct {
	Seated bool
	Bet    int
}

// TurnActionInput contains parameters for a hit or stand
type TurnActionInput struct {
	RoomID   string
	PlayerID string
}

// TurnActionOutput contains the result of a hit or stand
type TurnActionOutput struct {
	// Drawn is the card dealt on a hit, nil for a stand
	Drawn *models.Card

	// HandValue is the acting player's hand value after the action
	HandValue int

	Busted bool
}

// PlayCasinoInput contains parameters for a casino wager
type PlayCasinoInput struct {
	RoomID   string
	PlayerID string
	Bet      int
}

// PlayCasinoOutput contains the acknowledgement of a placed wager; the
// result lands later as a message edit
type PlayCasinoOutput struct {
	MessageID string
}

// SweepInput contains parameters for a sweeper pass
type SweepInput struct{}

// SweepOutput summarizes what one sweeper pass did
type SweepOutput struct {
	RoomsScanned      int
	DuelsTimedOut     int
	TrialsResolved    int
	TablesStarted     int
	TablesCancelled   int
	TurnsForced       int
	DealersRearmed    int
	PunishmentsLifted int
}
