package bot

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"concoin/events"
	"concoin/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token           string
	GuildID         string
	LeaderboardSize int
}

// Bot is the chat front end. It parses commands into plain values,
// calls the ledger core, and formats replies; it owns no balance state
// and no ledger rules.
type Bot struct {
	config             Config
	session            *discordgo.Session
	userService        service.UserService
	transferService    service.TransferService
	leaderboardService service.LeaderboardService
	eventBus           *events.Bus
}

func New(config Config, userService service.UserService, transferService service.TransferService, leaderboardService service.LeaderboardService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	bot := &Bot{
		config:             config,
		session:            dg,
		userService:        userService,
		transferService:    transferService,
		leaderboardService: leaderboardService,
		eventBus:           eventBus,
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Recipient notification is best-effort: a failed DM is logged and
	// never surfaced to the sender, whose transfer already committed.
	eventBus.Subscribe(events.EventTypeTransferCompleted, func(ctx context.Context, event events.Event) {
		transfer, ok := event.(events.TransferCompletedEvent)
		if !ok {
			return
		}
		bot.notifyRecipient(transfer)
	})

	return bot, nil
}

// Close shuts down the Discord session
func (b *Bot) Close() error {
	return b.session.Close()
}

// notifyRecipient DMs the recipient of a committed transfer
func (b *Bot) notifyRecipient(transfer events.TransferCompletedEvent) {
	channel, err := b.session.UserChannelCreate(strconv.FormatInt(transfer.ToUserID, 10))
	if err != nil {
		log.Warnf("Could not open DM channel for recipient %d: %v", transfer.ToUserID, err)
		return
	}

	sender := transfer.FromName
	if sender == "" {
		sender = fmt.Sprintf("id:%d", transfer.FromUserID)
	}
	message := fmt.Sprintf("You received **%s con** from %s", FormatBalance(transfer.Amount), sender)

	if _, err := b.session.ChannelMessageSend(channel.ID, message); err != nil {
		log.Warnf("Could not notify recipient %d: %v", transfer.ToUserID, err)
	}
}
