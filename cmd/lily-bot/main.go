package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"lily/internal/app"
	"lily/internal/auth"
	"lily/internal/companion"
	"lily/internal/config"
	"lily/internal/scheduler"
	"lily/internal/telegram"
)

// userLists exposes a user's collections to the bot's list commands.
type userLists struct{ cols *app.Collections }

func (l userLists) Achievements() []string { return l.cols.Achievements.Items() }
func (l userLists) Moments() []string      { return l.cols.Moments.Items() }

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if cfg.TelegramBotToken == "" {
		log.Fatal("❌ TELEGRAM_BOT_TOKEN is required")
	}

	svc, err := app.NewServices(cfg)
	if err != nil {
		log.Fatalf("failed to init services: %v", err)
	}

	newSession := func(userID int64, userName string) (*companion.Companion, telegram.Lists, error) {
		dir := filepath.Join(cfg.BotDataDir, strconv.FormatInt(userID, 10))
		cols, err := app.LoadCollections(
			filepath.Join(dir, filepath.Base(cfg.AchievementsFile)),
			filepath.Join(dir, filepath.Base(cfg.StoreFile)),
		)
		if err != nil {
			return nil, nil, err
		}
		return svc.NewCompanion(cols, userID, userName), userLists{cols: cols}, nil
	}

	repo, err := auth.NewFileRepository(filepath.Join(cfg.BotDataDir, "users.json"))
	if err != nil {
		log.Fatalf("failed to init users repo: %v", err)
	}
	users, err := auth.NewWithRepo(repo, cfg.AllowedUsers)
	if err != nil {
		log.Fatalf("failed to init users: %v", err)
	}

	bot, err := telegram.New(cfg.TelegramBotToken, users, newSession, svc.Recorder)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(cfg.CheckInSchedule)
	sched.SetCheckInFunction(bot.CheckIn)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	bot.Start(ctx)
}
