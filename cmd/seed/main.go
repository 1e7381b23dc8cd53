// Seeds the user table with demo accounts for local development.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mentoralabs/mentora/internal/domain"
	"github.com/mentoralabs/mentora/internal/store"
)

var demoUsers = []domain.User{
	{UserID: "vijaya01", Name: "Vijaya", Password: "vijaya@123", Email: "vijaya@example.com", Firm: "Acme", Unit: "AI & Analytics", Location: "Chennai"},
	{UserID: "harish02", Name: "Harish", Password: "harish@123", Email: "harish@example.com", Firm: "Acme", Unit: "CloudOps", Location: "Bangalore"},
	{UserID: "shivam03", Name: "Shivam", Password: "shivam@123", Email: "shivam@example.com", Firm: "Acme", Unit: "GenAI", Location: "Bangalore"},
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/mentora.db"
	}

	repo, err := store.NewSQLite(dbPath)
	if err != nil {
		slog.Error("Failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	ctx := context.Background()
	for i := range demoUsers {
		if err := repo.CreateUser(ctx, &demoUsers[i]); err != nil {
			slog.Error("Failed to seed user", "user_id", demoUsers[i].UserID, "error", err)
			os.Exit(1)
		}
		slog.Info("Seeded user", "user_id", demoUsers[i].UserID)
	}
}
