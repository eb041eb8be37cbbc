package messaging

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_messenger.go github.com/wombatlabs/wombat-combat/internal/messaging Messenger

// ControlStyle hints how a control should be rendered by the platform
type ControlStyle string

const (
	// ControlStylePrimary is the default, prominent style
	ControlStylePrimary ControlStyle = "primary"

	// ControlStyleSuccess marks an affirmative action
	ControlStyleSuccess ControlStyle = "success"

	// ControlStyleDanger marks a destructive or negative action
	ControlStyleDanger ControlStyle = "danger"
)

// Control is a platform-neutral interactive button attached to a message.
// The ID round-trips through the platform and comes back on a press.
type Control struct {
	// ID identifies the action, e.g. "duel_accept"
	ID string

	// Label is the visible button text
	Label string

	// Style hints the rendering
	Style ControlStyle
}

// Messenger delivers, edits and deletes room messages. Implementations wrap
// the chat platform; failures are non-fatal to the game state transitions
// that trigger them.
type Messenger interface {
	// Send posts a new message to the room and returns its message ID
	Send(ctx context.Context, roomID, text string, controls []Control) (string, error)

	// Edit replaces an existing message's text and controls
	Edit(ctx context.Context, roomID, messageID, text string, controls []Control) error

	// Delete removes a message from the room
	Delete(ctx context.Context, roomID, messageID string) error
}
