package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/wombatlabs/wombat-combat/internal/services/arena"
	"github.com/wombatlabs/wombat-combat/internal/services/growth"
)

// Bot represents the Discord bot instance
type Bot struct {
	session       *discordgo.Session
	commands      map[string]CommandHandler
	commandIDs    map[string]string // Maps command name to command ID
	growthService growth.Service
	arenaService  arena.Service
	config        *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Session is the Discord session to use. When nil, one is created
	// from Token.
	Session *discordgo.Session

	// Discord bot token, required when Session is nil
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Services
	GrowthService growth.Service
	ArenaService  arena.Service
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.GrowthService == nil {
		return nil, errors.New("growth service cannot be nil")
	}

	if cfg.ArenaService == nil {
		return nil, errors.New("arena service cannot be nil")
	}

	session := cfg.Session
	if session == nil {
		if cfg.Token == "" {
			return nil, errors.New("token cannot be empty")
		}
		var err error
		session, err = discordgo.New("Bot " + cfg.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to create Discord session: %w", err)
		}
	}

	session.Identify.Intents |= discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	bot := &Bot{
		session:       session,
		commands:      make(map[string]CommandHandler),
		commandIDs:    make(map[string]string),
		growthService: cfg.GrowthService,
		arenaService:  cfg.ArenaService,
		config:        cfg,
	}

	session.AddHandler(bot.handleInteraction)
	session.AddHandler(bot.handleMessage)

	return bot, nil
}

// Session exposes the underlying Discord session, for wiring the messenger
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	wombatCmd := NewWombatCommand(b.growthService, b.arenaService)
	if err := b.RegisterCommand(wombatCmd); err != nil {
		return fmt.Errorf("failed to register wombat command: %w", err)
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
		log.Printf("Registering command %s for guild %s", cmd.GetName(), guildID)
	} else {
		log.Printf("Registering command %s globally", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	log.Printf("Registered command: %s with ID: %s", cmd.GetName(), createdCmd.ID)

	return nil
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			log.Printf("Error handling component interaction: %v", err)
		}
	}
}

// handleComponentInteraction handles button clicks
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID
	channelID := i.ChannelID
	userID := i.Member.User.ID

	switch customID {
	case arena.ControlDuelAccept:
		return b.handleDuelResponse(s, i, channelID, userID, true)
	case arena.ControlDuelDecline:
		return b.handleDuelResponse(s, i, channelID, userID, false)
	case arena.ControlVoteGuilty:
		return b.handleVote(s, i, channelID, userID, true)
	case arena.ControlVoteInnocent:
		return b.handleVote(s, i, channelID, userID, false)
	case arena.ControlTableJoin:
		return b.handleTableJoin(s, i, channelID, userID)
	case arena.ControlTableHit:
		return b.handleTableHit(s, i, channelID, userID)
	case arena.ControlTableStand:
		return b.handleTableStand(s, i, channelID, userID)
	}

	if defendantID, hours, ok := arena.ParseSentenceControl(customID); ok {
		return b.handleSentence(s, i, channelID, userID, defendantID, hours)
	}

	return RespondWithError(s, i, fmt.Sprintf("Unknown button: %s", customID))
}

// handleDuelResponse handles the accept and decline buttons on a challenge
func (b *Bot) handleDuelResponse(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string, accept bool) error {
	ctx := context.Background()

	output, err := b.arenaService.RespondDuel(ctx, &arena.RespondDuelInput{
		RoomID:   channelID,
		PlayerID: userID,
		Accept:   accept,
	})
	if err != nil {
		return b.respondComponentError(s, i, err)
	}

	if !output.Accepted {
		return RespondWithEphemeralMessage(s, i, "You declined. Probably wise.")
	}
	if output.WinnerID == userID {
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf("You won and took %d cm!", output.Stolen))
	}
	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("You lost %d cm. Ouch.", output.Stolen))
}

// handleVote handles the guilty and innocent buttons on a trial
func (b *Bot) handleVote(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string, guilty bool) error {
	ctx := context.Background()

	_, err := b.arenaService.CastVote(ctx, &arena.CastVoteInput{
		RoomID:  channelID,
		VoterID: userID,
		Guilty:  guilty,
	})
	if err != nil {
		return b.respondComponentError(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, "Your vote is in.")
}

// handleSentence handles the sentence-length buttons after a conviction
func (b *Bot) handleSentence(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID, defendantID string, hours int) error {
	ctx := context.Background()

	output, err := b.arenaService.ChooseSentence(ctx, &arena.ChooseSentenceInput{
		RoomID:      channelID,
		ActorID:     userID,
		DefendantID: defendantID,
		Hours:       hours,
	})
	if err != nil {
		return b.respondComponentError(s, i, err)
	}

	return RespondWithMessage(s, i, fmt.Sprintf(
		"⛓️ %s is condemned until <t:%d>. Their commands fall on deaf ears until then. ⛓️",
		output.DefendantName, output.EndsAt.Unix()))
}

// handleTableJoin handles the join button on a card game lobby
func (b *Bot) handleTableJoin(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()

	output, err := b.arenaService.JoinTable(ctx, &arena.JoinTableInput{
		RoomID:   channelID,
		PlayerID: userID,
	})
	if err != nil {
		return b.respondComponentError(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, output.Prompt)
}

// handleTableHit handles the hit button
func (b *Bot) handleTableHit(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()

	output, err := b.arenaService.Hit(ctx, &arena.TurnActionInput{
		RoomID:   channelID,
		PlayerID: userID,
	})
	if err != nil {
		return b.respondComponentError(s, i, err)
	}

	if output.Busted {
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
			"You drew %s and busted at %d.", output.Drawn, output.HandValue))
	}
	return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
		"You drew %s, hand value %d.", output.Drawn, output.HandValue))
}

// handleTableStand handles the stand button
func (b *Bot) handleTableStand(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()

	output, err := b.arenaService.Stand(ctx, &arena.TurnActionInput{
		RoomID:   channelID,
		PlayerID: userID,
	})
	if err != nil {
		return b.respondComponentError(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Standing at %d.", output.HandValue))
}

// handleMessage feeds plain chat messages to the card game, which may be
// waiting on a pending joiner's bet.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	ctx := context.Background()

	_, err := b.arenaService.PlaceBet(ctx, &arena.PlaceBetInput{
		RoomID:   m.ChannelID,
		PlayerID: m.Author.ID,
		Text:     m.Content,
	})
	if err != nil {
		// Almost every message in the room is not a bet entry
		if errors.Is(err, arena.ErrNoPendingBet) {
			return
		}
		if _, sendErr := s.ChannelMessageSend(m.ChannelID, err.Error()); sendErr != nil {
			log.Printf("Failed to send bet error to channel %s: %v", m.ChannelID, sendErr)
		}
	}
}

// respondComponentError renders a service error from a button press
func (b *Bot) respondComponentError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) error {
	var refusal *arena.RefusalError
	if errors.As(err, &refusal) {
		return RespondWithMessage(s, i, refusal.Phrase)
	}

	var arenaErr arena.ArenaError
	if errors.As(err, &arenaErr) {
		return RespondWithEphemeralMessage(s, i, err.Error())
	}

	log.Printf("Unexpected component error: %v", err)
	return RespondWithError(s, i, "Something went wrong, try again.")
}
