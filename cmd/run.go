package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"concoin/bot"
	"concoin/config"
	"concoin/database"
	"concoin/events"
	"concoin/repository"
	"concoin/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting con ledger bot...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Surface where the daily credit left off before the worker arms
	if last, err := repository.NewCreditRunRepository(db).GetLatest(ctx); err != nil {
		log.Printf("Could not read last credit run: %v", err)
	} else if last == nil {
		log.Println("No daily credit run recorded yet")
	} else {
		log.Printf("Last daily credit run: %s (%d users credited)", last.RunDate.Format("2006-01-02"), last.UsersCredited)
	}

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	userService := service.NewUserService(uowFactory)
	transferService := service.NewTransferService(uowFactory)
	leaderboardService := service.NewLeaderboardService(uowFactory)
	creditService := service.NewDailyCreditService(uowFactory, service.CreditConfig{
		Amount:   cfg.DailyCreditAmount,
		Location: cfg.CreditLocation(),
	})

	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:           cfg.DiscordToken,
		GuildID:         cfg.DiscordGuildID,
		LeaderboardSize: cfg.LeaderboardSize,
	}
	discordBot, err := bot.New(botConfig, userService, transferService, leaderboardService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	stopWorker := discordBot.StartDailyCreditWorker(ctx, creditService, cfg.CreditHour, cfg.CreditLocation())

	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Println("Shutting down bot...")
	stopWorker()

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
