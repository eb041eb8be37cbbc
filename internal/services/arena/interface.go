package arena

import "context"

// Service runs the per-room interactions: duels, trials, the card game,
// the casino and the timeout sweeper. Every mutation goes through the room
// store's exclusive section, so a live action and a sweeper pass can never
// double-apply a transition.
type Service interface {
	// StartDuel opens a duel challenge against another player
	StartDuel(ctx context.Context, input *StartDuelInput) (*StartDuelOutput, error)

	// RespondDuel lets the defender accept or decline a challenge
	RespondDuel(ctx context.Context, input *RespondDuelInput) (*RespondDuelOutput, error)

	// StartTrial opens a trial against another player
	StartTrial(ctx context.Context, input *StartTrialInput) (*StartTrialOutput, error)

	// CastVote records a guilty or innocent vote on the open trial
	CastVote(ctx context.Context, input *CastVoteInput) (*CastVoteOutput, error)

	// ChooseSentence lets the winning prosecutor set the sentence length
	ChooseSentence(ctx context.Context, input *ChooseSentenceInput) (*ChooseSentenceOutput, error)

	// Execute zeroes a condemned player; only their condemner may do it
	Execute(ctx context.Context, input *ExecuteInput) (*ExecuteOutput, error)

	// Pardon restores an executed player within the pardon window
	Pardon(ctx context.Context, input *PardonInput) (*PardonOutput, error)

	// OpenTable opens a card game lobby with the host's bet
	OpenTable(ctx context.Context, input *OpenTableInput) (*OpenTableOutput, error)

	// JoinTable handles a Join click on an open lobby
	JoinTable(ctx context.Context, input *JoinTableInput) (*JoinTableOutput, error)

	// PlaceBet handles a plain chat message that may be the pending
	// joiner's bet entry
	PlaceBet(ctx context.Context, input *PlaceBetInput) (*PlaceBetOutput, error)

	// Hit draws a card for the player whose turn it is
	Hit(ctx context.Context, input *TurnActionInput) (*TurnActionOutput, error)

	// Stand ends the acting player's turn
	Stand(ctx context.Context, input *TurnActionInput) (*TurnActionOutput, error)

	// PlayCasino runs a single coin-flip wager
	PlayCasino(ctx context.Context, input *PlayCasinoInput) (*PlayCasinoOutput, error)

	// Sweep scans every room and forces expired interactions through
	// their timeout transitions
	Sweep(ctx context.Context, input *SweepInput) (*SweepOutput, error)
}
