package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/wombatlabs/wombat-combat/internal/messaging"
)

// ChannelMessenger implements messaging.Messenger over a Discord session.
// Room IDs are Discord channel IDs.
type ChannelMessenger struct {
	session *discordgo.Session
}

// NewChannelMessenger creates a Messenger bound to a Discord session
func NewChannelMessenger(session *discordgo.Session) (*ChannelMessenger, error) {
	if session == nil {
		return nil, errors.New("session cannot be nil")
	}
	return &ChannelMessenger{session: session}, nil
}

// Send posts a new message to the channel and returns its message ID
func (m *ChannelMessenger) Send(ctx context.Context, roomID, text string, controls []messaging.Control) (string, error) {
	msg, err := m.session.ChannelMessageSendComplex(roomID, &discordgo.MessageSend{
		Content:    text,
		Components: buildComponents(controls),
	})
	if err != nil {
		return "", fmt.Errorf("failed to send message to channel %s: %w", roomID, err)
	}
	return msg.ID, nil
}

// Edit replaces an existing message's text and controls
func (m *ChannelMessenger) Edit(ctx context.Context, roomID, messageID, text string, controls []messaging.Control) error {
	components := buildComponents(controls)
	_, err := m.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    roomID,
		ID:         messageID,
		Content:    &text,
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("failed to edit message %s in channel %s: %w", messageID, roomID, err)
	}
	return nil
}

// Delete removes a message from the channel
func (m *ChannelMessenger) Delete(ctx context.Context, roomID, messageID string) error {
	if err := m.session.ChannelMessageDelete(roomID, messageID); err != nil {
		return fmt.Errorf("failed to delete message %s in channel %s: %w", messageID, roomID, err)
	}
	return nil
}

// buildComponents maps platform-neutral controls onto Discord buttons. An
// empty control list yields an empty slice so edits strip stale buttons.
func buildComponents(controls []messaging.Control) []discordgo.MessageComponent {
	if len(controls) == 0 {
		return []discordgo.MessageComponent{}
	}

	buttons := make([]discordgo.MessageComponent, 0, len(controls))
	for _, control := range controls {
		buttons = append(buttons, discordgo.Button{
			Label:    control.Label,
			Style:    buttonStyle(control.Style),
			CustomID: control.ID,
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

func buttonStyle(style messaging.ControlStyle) discordgo.ButtonStyle {
	switch style {
	case messaging.ControlStyleSuccess:
		return discordgo.SuccessButton
	case messaging.ControlStyleDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}
