package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"poll-service/internal/config"
	"poll-service/internal/database"
	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting database seeding...")

	db, err := database.NewPostgresConnection(cfg.Database.URI)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	slog.Info("Database connection established")

	pollRepo := postgres.NewPollRepository(db)
	ctx := context.Background()

	in30Days := time.Now().AddDate(0, 0, 30)
	samples := []*models.Poll{
		{
			Title:       "Best Programming Language?",
			Description: "Vote for your favorite",
			CreatedBy:   1,
			IsActive:    true,
			Options: []models.Option{
				{Text: "Python"},
				{Text: "Go"},
				{Text: "JavaScript"},
			},
		},
		{
			Title:       "Favourite Fruit",
			Description: "Pick one",
			ExpiresAt:   &in30Days,
			CreatedBy:   1,
			IsActive:    true,
			Options: []models.Option{
				{Text: "Mango"},
				{Text: "Banana"},
				{Text: "Apple"},
			},
		},
	}

	for _, poll := range samples {
		if err := pollRepo.CreatePoll(ctx, poll); err != nil {
			slog.Warn("Poll might already exist", "title", poll.Title, "error", err)
			continue
		}
		slog.Info("Created poll", "id", poll.ID, "title", poll.Title)
	}

	slog.Info("Database seeding completed!")
}
