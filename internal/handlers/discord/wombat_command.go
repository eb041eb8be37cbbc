package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/wombatlabs/wombat-combat/internal/services/arena"
	"github.com/wombatlabs/wombat-combat/internal/services/growth"
)

// WombatCommand handles the /wombat command
type WombatCommand struct {
	BaseCommand
	growthService growth.Service
	arenaService  arena.Service
}

// NewWombatCommand creates a new wombat command handler
func NewWombatCommand(growthService growth.Service, arenaService arena.Service) *WombatCommand {
	return &WombatCommand{
		BaseCommand: BaseCommand{
			Name:        "wombat",
			Description: "Wombat growing game commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Enter the game with a fresh wombat",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "grow",
					Description: "Attempt your daily growth",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "prestige",
					Description: "Trade 100 cm for a medal and a fresh start",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "me",
					Description: "Show your wombat's profile",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "top",
					Description: "Show the room leaderboard",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "nickname",
					Description: "Set or clear your wombat's nickname",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "The nickname, up to 20 characters; omit to clear",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "duel",
					Description: "Challenge another player to a duel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "opponent",
							Description: "The player to challenge",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "trial",
					Description: "Put another player on trial",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "defendant",
							Description: "The player to prosecute",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "execute",
					Description: "Execute a player you had condemned",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "target",
							Description: "The condemned player",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "pardon",
					Description: "Pardon a recently executed player",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "target",
							Description: "The executed player",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "casino",
					Description: "Bet size on a coin flip",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "bet",
							Description: "How many cm to wager",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "table",
					Description: "Open a blackjack table",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "bet",
							Description: "Your bet for the round",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "tag",
					Description: "Mention everyone playing in this room",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "help",
					Description: "Show what all the commands do",
				},
			},
		},
		growthService: growthService,
		arenaService:  arenaService,
	}
}

// Handle processes a Discord interaction for the wombat command
func (c *WombatCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	channelID := i.ChannelID
	userID := i.Member.User.ID
	username := i.Member.User.Username
	firstName := i.Member.User.GlobalName
	if firstName == "" {
		firstName = username
	}

	sub := data.Options[0]

	var err error
	switch sub.Name {
	case "start":
		err = c.handleStart(s, i, channelID, userID, firstName, username)
	case "grow":
		err = c.handleGrow(s, i, channelID, userID)
	case "prestige":
		err = c.handlePrestige(s, i, channelID, userID)
	case "me":
		err = c.handleProfile(s, i, channelID, userID)
	case "top":
		err = c.handleTop(s, i, channelID)
	case "nickname":
		err = c.handleNickname(s, i, channelID, userID, sub.Options)
	case "duel":
		err = c.handleDuel(s, i, channelID, userID, sub.Options)
	case "trial":
		err = c.handleTrial(s, i, channelID, userID, sub.Options)
	case "execute":
		err = c.handleExecute(s, i, channelID, userID, sub.Options)
	case "pardon":
		err = c.handlePardon(s, i, channelID, sub.Options)
	case "casino":
		err = c.handleCasino(s, i, channelID, userID, sub.Options)
	case "table":
		err = c.handleTable(s, i, channelID, userID, sub.Options)
	case "tag":
		err = c.handleTag(s, i, channelID, userID)
	case "help":
		err = c.handleHelp(s, i)
	default:
		err = errors.New("unknown subcommand")
	}

	return err
}

// handleStart handles the start subcommand
func (c *WombatCommand) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID, firstName, username string) error {
	ctx := context.Background()

	output, err := c.growthService.Register(ctx, &growth.RegisterInput{
		RoomID:    channelID,
		PlayerID:  userID,
		FirstName: firstName,
		Username:  username,
	})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	return RespondWithMessage(s, i, fmt.Sprintf(
		"🐾 A wild wombat joins the burrow! %s starts at %d cm. Use `/wombat grow` once a day. 🐾",
		output.Player.DisplayName(), output.Player.Size))
}

// handleGrow handles the grow subcommand
func (c *WombatCommand) handleGrow(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()

	output, err := c.growthService.Grow(ctx, &growth.GrowInput{
		RoomID:   channelID,
		PlayerID: userID,
	})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	if output.Grown == 0 {
		return RespondWithMessage(s, i, fmt.Sprintf(
			"Nothing today. Your wombat stays at %d cm. Better luck tomorrow.", output.NewSize))
	}

	return RespondWithMessage(s, i, fmt.Sprintf(
		"🌱 Your wombat grew by %d cm and now measures %d cm! 🌱", output.Grown, output.NewSize))
}

// handlePrestige handles the prestige subcommand
func (c *WombatCommand) handlePrestige(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()

	output, err := c.growthService.Prestige(ctx, &growth.PrestigeInput{
		RoomID:   channelID,
		PlayerID: userID,
	})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	return RespondWithMessage(s, i, fmt.Sprintf(
		"🏅 A medal! That makes %d. The wombat shrinks back to %d cm and starts the climb again. 🏅",
		output.Medals, output.NewSize))
}

// handleProfile handles the me subcommand
func (c *WombatCommand) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()

	output, err := c.growthService.Profile(ctx, &growth.ProfileInput{
		RoomID:   channelID,
		PlayerID: userID,
	})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	p := output.Player

	fields := []*discordgo.MessageEmbedField{
		{Name: "Size", Value: fmt.Sprintf("%d cm", p.Size), Inline: true},
		{Name: "Medals", Value: fmt.Sprintf("%d", p.Medals), Inline: true},
		{Name: "Rank", Value: fmt.Sprintf("%d of %d", output.Rank, output.Total), Inline: true},
	}

	if p.Status != "" && p.Status != "normal" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Status", Value: string(p.Status), Inline: true,
		})
	}

	nextGrowth := "now"
	if remaining := time.Until(output.NextGrowth); remaining > 0 {
		nextGrowth = formatDuration(remaining)
	}
	fields = append(fields, &discordgo.MessageEmbedField{
		Name: "Next growth", Value: nextGrowth, Inline: true,
	})

	return RespondWithEmbed(s, i, p.DisplayName(), "", fields)
}

// handleTop handles the top subcommand
func (c *WombatCommand) handleTop(s *discordgo.Session, i *discordgo.InteractionCreate, channelID string) error {
	ctx := context.Background()

	output, err := c.growthService.Top(ctx, &growth.TopInput{RoomID: channelID})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	if len(output.Players) == 0 {
		return RespondWithEphemeralMessage(s, i, "Nobody is playing here yet. Use `/wombat start` to be the first.")
	}

	var lines []string
	for rank, p := range output.Players {
		medals := ""
		if p.Medals > 0 {
			medals = strings.Repeat("🏅", p.Medals)
		}
		lines = append(lines, fmt.Sprintf("%d. %s — %d cm %s", rank+1, p.DisplayName(), p.Size, medals))
	}

	return RespondWithEmbed(s, i, "Biggest wombats in the room", strings.Join(lines, "\n"), nil)
}

// handleNickname handles the nickname subcommand
func (c *WombatCommand) handleNickname(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	nickname := ""
	for _, opt := range opts {
		if opt.Name == "name" {
			nickname = opt.StringValue()
		}
	}

	output, err := c.growthService.SetNickname(ctx, &growth.SetNicknameInput{
		RoomID:   channelID,
		PlayerID: userID,
		Nickname: nickname,
	})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	if output.Player.Nickname == "" {
		return RespondWithEphemeralMessage(s, i, "Nickname cleared.")
	}
	return RespondWithMessage(s, i, fmt.Sprintf(
		"From now on this wombat answers to **%s**.", output.Player.Nickname))
}

// handleDuel handles the duel subcommand
func (c *WombatCommand) handleDuel(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	opponent := requiredUser(s, opts, "opponent")
	if opponent == nil {
		return RespondWithError(s, i, "Pick an opponent to challenge.")
	}

	_, err := c.arenaService.StartDuel(ctx, &arena.StartDuelInput{
		RoomID:     channelID,
		AttackerID: userID,
		DefenderID: opponent.ID,
	})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, "The gauntlet is thrown. Waiting for an answer...")
}

// handleTrial handles the trial subcommand
func (c *WombatCommand) handleTrial(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	defendant := requiredUser(s, opts, "defendant")
	if defendant == nil {
		return RespondWithError(s, i, "Pick a defendant to prosecute.")
	}

	_, err := c.arenaService.StartTrial(ctx, &arena.StartTrialInput{
		RoomID:       channelID,
		ProsecutorID: userID,
		DefendantID:  defendant.ID,
	})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, "Court is in session. The room has five minutes to vote.")
}

// handleExecute handles the execute subcommand
func (c *WombatCommand) handleExecute(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	target := requiredUser(s, opts, "target")
	if target == nil {
		return RespondWithError(s, i, "Pick the condemned player.")
	}

	output, err := c.arenaService.Execute(ctx, &arena.ExecuteInput{
		RoomID:        channelID,
		ExecutionerID: userID,
		TargetID:      target.ID,
	})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	return RespondWithMessage(s, i, fmt.Sprintf(
		"⚰️ The sentence is carried out. %s is reduced to nothing. A pardon within 30 minutes can still undo this. ⚰️",
		output.TargetName))
}

// handlePardon handles the pardon subcommand
func (c *WombatCommand) handlePardon(s *discordgo.Session, i *discordgo.InteractionCreate, channelID string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	target := requiredUser(s, opts, "target")
	if target == nil {
		return RespondWithError(s, i, "Pick the executed player.")
	}

	output, err := c.arenaService.Pardon(ctx, &arena.PardonInput{
		RoomID:   channelID,
		TargetID: target.ID,
	})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	return RespondWithMessage(s, i, fmt.Sprintf(
		"🕊️ Mercy! %s returns from the void with %d cm restored. 🕊️",
		output.TargetName, output.RestoredSize))
}

// handleCasino handles the casino subcommand
func (c *WombatCommand) handleCasino(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	bet := requiredInt(opts, "bet")

	_, err := c.arenaService.PlayCasino(ctx, &arena.PlayCasinoInput{
		RoomID:   channelID,
		PlayerID: userID,
		Bet:      int(bet),
	})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, "The wheel is spinning...")
}

// handleTable handles the table subcommand
func (c *WombatCommand) handleTable(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	bet := requiredInt(opts, "bet")

	_, err := c.arenaService.OpenTable(ctx, &arena.OpenTableInput{
		RoomID: channelID,
		HostID: userID,
		Bet:    int(bet),
	})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, "Table opened. Waiting for players to join.")
}

// handleTag handles the tag subcommand
func (c *WombatCommand) handleTag(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	ctx := context.Background()

	output, err := c.growthService.Tag(ctx, &growth.TagInput{
		RoomID:   channelID,
		PlayerID: userID,
	})
	if err != nil {
		return c.respondServiceError(s, i, err)
	}

	if len(output.PlayerIDs) == 0 {
		return RespondWithEphemeralMessage(s, i, "Nobody else is playing here yet.")
	}

	mentions := make([]string, 0, len(output.PlayerIDs))
	for _, id := range output.PlayerIDs {
		mentions = append(mentions, fmt.Sprintf("<@%s>", id))
	}

	return RespondWithMessage(s, i, "📣 Wombats, assemble! "+strings.Join(mentions, " "))
}

// handleHelp handles the help subcommand
func (c *WombatCommand) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	description := strings.Join([]string{
		"`/wombat start` — enter the game with a fresh wombat",
		"`/wombat grow` — attempt your daily growth",
		"`/wombat prestige` — trade 100 cm for a medal",
		"`/wombat me` — your wombat's profile",
		"`/wombat top` — the room leaderboard",
		"`/wombat nickname` — name your wombat",
		"`/wombat duel` — winner steals up to 5 cm from the loser",
		"`/wombat trial` — put a player on trial, the room votes",
		"`/wombat execute` — carry out a sentence you won",
		"`/wombat pardon` — undo an execution within 30 minutes",
		"`/wombat casino` — double or nothing on a coin flip",
		"`/wombat table` — open a blackjack table for the room",
		"`/wombat tag` — mention everyone playing here",
	}, "\n")

	return RespondWithEmbed(s, i, "Wombat commands", description, nil)
}

// respondServiceError renders a service error back to the user. Scripted
// refusals go to the whole room; everything else stays ephemeral.
func (c *WombatCommand) respondServiceError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) error {
	var arenaRefusal *arena.RefusalError
	if errors.As(err, &arenaRefusal) {
		return RespondWithMessage(s, i, arenaRefusal.Phrase)
	}

	var growthRefusal *growth.RefusalError
	if errors.As(err, &growthRefusal) {
		return RespondWithMessage(s, i, growthRefusal.Phrase)
	}

	var cooldown *growth.CooldownError
	if errors.As(err, &cooldown) {
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
			"Your wombat is resting. Try again in %s.", formatDuration(time.Until(cooldown.ReadyAt))))
	}

	var arenaErr arena.ArenaError
	var growthErr growth.GrowthError
	if errors.As(err, &arenaErr) || errors.As(err, &growthErr) {
		return RespondWithEphemeralMessage(s, i, err.Error())
	}

	log.Printf("Unexpected service error: %v", err)
	return RespondWithError(s, i, "Something went wrong, try again.")
}

// requiredUser pulls a user option by name
func requiredUser(s *discordgo.Session, opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.User {
	for _, opt := range opts {
		if opt.Name == name {
			return opt.UserValue(s)
		}
	}
	return nil
}

// requiredInt pulls an integer option by name
func requiredInt(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, opt := range opts {
		if opt.Name == name {
			return opt.IntValue()
		}
	}
	return 0
}

// formatDuration renders a duration in rough human terms
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if minutes == 0 {
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d hours %d minutes", hours, minutes)
}
