package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"creditbot/bot"
	"creditbot/config"
	"creditbot/database"
	"creditbot/events"
	"creditbot/repository"
	"creditbot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting credits bot...")

	// A .env file is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database connection
	log.Println("Opening database...")
	db, err := database.NewConnection(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	log.Println("Applying migrations...")
	if err := database.MigrateUp(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Initialize event bus and unit of work factory
	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Direct repositories for read paths that don't need a transaction
	balanceRepo := repository.NewBalanceRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	serverRepo := repository.NewServerRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	log.Println("Initializing services...")
	ledgerService := service.NewLedgerService(uowFactory, balanceRepo, cfg)
	dailyService := service.NewDailyService(uowFactory, balanceRepo, cfg)
	statsService := service.NewStatsService(balanceRepo, transactionRepo)
	identityService := service.NewIdentityService(serverRepo, userRepo)
	backupService := service.NewBackupService(db, cfg)
	facade := service.NewCreditsFacade(cfg, ledgerService, dailyService, statsService, identityService, backupService)

	// Initialize Discord bot
	log.Println("Connecting to Discord...")
	discordBot, err := bot.New(cfg, facade, eventBus)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
