package arena

// ArenaError is a custom error type for arena-related errors
type ArenaError string

// Error implements the error interface
func (e ArenaError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig     ArenaError = "config cannot be nil"
	ErrNilRoomRepo   ArenaError = "room repository cannot be nil"
	ErrNilPlayerRepo ArenaError = "player repository cannot be nil"
	ErrNilMessenger  ArenaError = "messenger cannot be nil"
	ErrNilClock      ArenaError = "clock cannot be nil"
	ErrNilUUID       ArenaError = "UUID generator cannot be nil"
	ErrNilRoller     ArenaError = "roller cannot be nil"
	ErrNilScheduler  ArenaError = "scheduler cannot be nil"

	ErrPlayerNotRegistered ArenaError = "you are not in the game yet, use start first"
	ErrTargetNotRegistered ArenaError = "that player is not in the game yet"
	ErrTargetNotFound      ArenaError = "target not found, reply to a message or @mention a player"
	ErrSelfTarget          ArenaError = "you cannot target yourself"

	ErrDuelInProgress   ArenaError = "a duel challenge is already open in this room"
	ErrNoActiveDuel     ArenaError = "this duel challenge is no longer active"
	ErrNotYourChallenge ArenaError = "this challenge is not yours to answer"

	ErrTrialInProgress   ArenaError = "a trial is already in session in this room"
	ErrNoActiveTrial     ArenaError = "voting has already closed"
	ErrPartiesCannotVote ArenaError = "the prosecutor and the defendant do not vote"
	ErrAlreadyVoted      ArenaError = "you have already voted"
	ErrInvalidTerm       ArenaError = "that is not a valid sentence length"
	ErrNotCondemner      ArenaError = "only the prosecutor may choose the sentence"
	ErrCannotExecute     ArenaError = "you have no right to execute this player"
	ErrNotExecuted       ArenaError = "this player has not been executed"
	ErrPardonTooLate     ArenaError = "too late for mercy"

	// errPlayerNotCondemned aborts a release when the record changed
	// between the condemned listing and the update
	errPlayerNotCondemned ArenaError = "player is no longer serving a sentence"

	ErrTableInProgress ArenaError = "a card game is already running in this room"
	ErrNoActiveTable   ArenaError = "there is no active card game in this room"
	ErrTableNotOpen    ArenaError = "the table is no longer accepting players"
	ErrAlreadySeated   ArenaError = "you are already seated at the table"
	ErrJoinInProgress  ArenaError = "another player is entering their bet, try again in a moment"
	ErrNoPendingBet    ArenaError = "no bet is expected from you"
	ErrInvalidBet      ArenaError = "the bet must be a positive whole number"
	ErrInsufficientBet ArenaError = "you cannot bet more than you have"
	ErrNotYourTurn     ArenaError = "it is not your turn"
	ErrDeckExhausted   ArenaError = "the deck ran out of cards"
)

// RefusalError carries the scripted line shown to a condemned player whose
// command was intercepted. No state changes accompany it.
type RefusalError struct {
	Phrase string
}

// Error implements the error interface
func (e *RefusalError) Error() string {
	return e.Phrase
}
