package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lily/internal/analytics"
	"lily/internal/app"
	"lily/internal/config"
	"lily/internal/console"
	"lily/internal/storage"
	"lily/internal/store"
)

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to Lily (default)",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	svc, err := app.NewServices(cfg)
	if err != nil {
		return err
	}
	cols, err := app.LoadCollections(cfg.AchievementsFile, cfg.StoreFile)
	if err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			return fmt.Errorf("%w (fix or move the file aside, it was not overwritten)", err)
		}
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comp := svc.NewCompanion(cols, 0, "")
	return comp.Chat(ctx, console.New(cmd.InOrStdin(), cmd.OutOrStdout()))
}

// --- achievements / moments ---

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List saved achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Parse()
		if err != nil {
			return err
		}
		return printCollection(cmd, cfg.AchievementsFile, "No achievements saved yet.")
	},
}

var momentsCmd = &cobra.Command{
	Use:   "moments",
	Short: "List saved positive moments",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Parse()
		if err != nil {
			return err
		}
		return printCollection(cmd, cfg.StoreFile, "No positive moments saved yet.")
	},
}

func printCollection(cmd *cobra.Command, path, empty string) error {
	c, err := store.Load(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	items := c.Items()
	if len(items) == 0 {
		fmt.Fprintln(out, empty)
		return nil
	}
	for i, it := range items {
		fmt.Fprintf(out, "%d. %s\n", i+1, it)
	}
	return nil
}

// --- stats ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the mood summary for a day",
	Long: `Show the mood summary for a day from the conversation journal.

Examples:
  lily stats
  lily stats --date 2024-01-15 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		asJSON, _ := cmd.Flags().GetBool("json")

		day := time.Now().UTC()
		if dateStr != "" {
			d, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", dateStr)
			}
			day = d
		}

		cfg, err := config.Parse()
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfg.JournalFile); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no journal at %s yet, chat with Lily first", cfg.JournalFile)
		}
		rec, err := storage.NewFileRecorder(cfg.JournalFile)
		if err != nil {
			return err
		}
		events, err := rec.LoadInteractions()
		if err != nil {
			return err
		}
		stats := analytics.AnalyzeDailyLogs(events, day)
		if asJSON {
			js, err := stats.ToJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), js)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), stats.Summary())
		return nil
	},
}

func init() {
	statsCmd.Flags().String("date", "", "day to summarize (YYYY-MM-DD, default today UTC)")
	statsCmd.Flags().Bool("json", false, "print JSON instead of text")

	rootCmd.AddCommand(chatCmd, achievementsCmd, momentsCmd, statsCmd)
}
