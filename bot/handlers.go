package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"concoin/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleCommands dispatches slash commands
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance":
		b.handleBalance(s, i)
	case "send":
		b.handleSend(s, i)
	case "leaderboard":
		b.handleLeaderboard(s, i)
	}
}

// interactionUser returns the invoking user. Guild interactions carry
// it inside Member; DM interactions carry it directly on the
// interaction with Member left nil.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// upsertCaller registers the interacting user and refreshes their name.
// Every interaction goes through here, which is how users enter the
// directory in the first place.
func (b *Bot) upsertCaller(ctx context.Context, i *discordgo.InteractionCreate) (int64, error) {
	user := interactionUser(i)
	if user == nil {
		return 0, fmt.Errorf("interaction carries no user")
	}
	userID, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse user ID %s: %w", user.ID, err)
	}

	if _, err := b.userService.UpsertUser(ctx, userID, user.Username); err != nil {
		return 0, fmt.Errorf("failed to upsert user %d: %w", userID, err)
	}

	return userID, nil
}

func (b *Bot) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, err := b.upsertCaller(ctx, i)
	if err != nil {
		log.Errorf("Error registering user: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	balance, err := b.userService.GetBalance(ctx, userID)
	if err != nil {
		log.Errorf("Error getting balance for user %d: %v", userID, err)
		b.respondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	b.respond(s, i, fmt.Sprintf("Balance: **%s con**", FormatBalance(balance)))
}

func (b *Bot) handleSend(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var target string
	var amount int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "target":
			target = opt.StringValue()
		case "amount":
			amount = opt.IntValue()
		}
	}

	fromID, err := b.upsertCaller(ctx, i)
	if err != nil {
		log.Errorf("Error registering sender: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	recipient, err := b.userService.Resolve(ctx, target)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			b.respondWithError(s, i, "Recipient not found. Ask them to interact with the bot first.")
			return
		}
		log.Errorf("Error resolving target %q: %v", target, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := b.transferService.Transfer(ctx, fromID, recipient.UserID, amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			b.respondWithError(s, i, "Amount must be greater than zero.")
		case errors.Is(err, service.ErrSelfTransfer):
			b.respondWithError(s, i, "You cannot send con to yourself.")
		case errors.Is(err, service.ErrInsufficientFunds):
			b.respondWithError(s, i, "Insufficient balance.")
		default:
			log.Errorf("Error transferring %d con from %d to %d: %v", amount, fromID, recipient.UserID, err)
			b.respondWithError(s, i, "Unable to complete the transfer. Please try again.")
		}
		return
	}

	recipientName := result.RecipientName
	if recipientName == "" {
		recipientName = fmt.Sprintf("id:%d", result.RecipientID)
	}
	b.respond(s, i, fmt.Sprintf("Sent **%s con** to **%s**. Your balance: **%s con**",
		FormatBalance(result.Amount), recipientName, FormatBalance(result.NewBalance)))
}

func (b *Bot) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if _, err := b.upsertCaller(ctx, i); err != nil {
		log.Errorf("Error registering user: %v", err)
	}

	entries, err := b.leaderboardService.Top(ctx, b.config.LeaderboardSize)
	if err != nil {
		log.Errorf("Error getting leaderboard: %v", err)
		b.respondWithError(s, i, "Unable to retrieve the leaderboard. Please try again.")
		return
	}

	if len(entries) == 0 {
		b.respond(s, i, "No users yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Leaderboard (top %d):**\n", b.config.LeaderboardSize))
	for _, entry := range entries {
		display := entry.DisplayName
		if display == "" {
			display = fmt.Sprintf("id:%d", entry.UserID)
		} else {
			display = "@" + display
		}
		sb.WriteString(fmt.Sprintf("%d. %s — %s con\n", entry.Rank, display, FormatBalance(entry.Balance)))
	}

	b.respond(s, i, sb.String())
}
