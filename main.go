package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"creditbot/cmd"
	"creditbot/database"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
		return
	}

	// Restore a backup over the store file. Only valid while the bot is
	// stopped, which is why it lives here instead of a command.
	if len(os.Args) > 1 && os.Args[1] == "restore" {
		if err := handleRestoreCommand(); err != nil {
			log.Fatal("Restore error:", err)
		}
		return
	}

	// Normal bot operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Run the application
	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}

func handleRestoreCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: creditbot restore <backup-file>")
	}

	_ = godotenv.Load()
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "data/credits.db"
	}

	if err := database.RestoreFile(os.Args[2], path); err != nil {
		return err
	}
	log.Printf("Restored %s from %s", path, os.Args[2])
	return nil
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: creditbot migrate [up|down|status] [args...]")
	}

	// Migrations only need the database path, not the full bot config
	_ = godotenv.Load()
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "data/credits.db"
	}

	db, err := database.NewConnection(context.Background(), path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp(db)
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(db, steps)
	case "status":
		return database.MigrateStatus(db)
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}
