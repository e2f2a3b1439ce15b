package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"lily/internal/app"
	"lily/internal/config"
	"lily/internal/inference"
	"lily/internal/store"
)

// ListParams limits a listing.
type ListParams struct {
	Limit int `json:"limit,omitempty" mcp:"maximum number of most recent entries to return (default: all)"`
}

// AddAchievementParams describes a new achievement.
type AddAchievementParams struct {
	Text string `json:"text" mcp:"the achievement, in the user's own words"`
}

// ClassifyParams carries text to classify.
type ClassifyParams struct {
	Text string `json:"text" mcp:"text to classify"`
}

// CompanionMCPServer exposes the saved collections and the mood classifier.
type CompanionMCPServer struct {
	cols      *app.Collections
	sentiment *inference.SentimentClassifier
}

func (s *CompanionMCPServer) ListAchievements(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ListParams]) (*mcp.CallToolResultFor[any], error) {
	return textResult(formatEntries(s.cols.Achievements, params.Arguments.Limit, "No achievements saved yet.")), nil
}

func (s *CompanionMCPServer) ListMoments(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ListParams]) (*mcp.CallToolResultFor[any], error) {
	return textResult(formatEntries(s.cols.Moments, params.Arguments.Limit, "No positive moments saved yet.")), nil
}

func (s *CompanionMCPServer) AddAchievement(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[AddAchievementParams]) (*mcp.CallToolResultFor[any], error) {
	text := strings.TrimSpace(params.Arguments.Text)
	if text == "" {
		return errorResult("text is required"), nil
	}
	n := s.cols.Achievements.Len()
	s.cols.Achievements.Append(text)
	if err := s.cols.Achievements.Persist(); err != nil {
		s.cols.Achievements.Truncate(n)
		log.Printf("❌ failed to persist achievement: %v", err)
		return errorResult(fmt.Sprintf("failed to save achievement: %v", err)), nil
	}
	log.Printf("🏆 MCP Server: achievement added")
	return textResult("Added to achievements: " + text), nil
}

func (s *CompanionMCPServer) ClassifyMood(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ClassifyParams]) (*mcp.CallToolResultFor[any], error) {
	if strings.TrimSpace(params.Arguments.Text) == "" {
		return errorResult("text is required"), nil
	}
	return textResult(string(s.sentiment.ClassifySentiment(ctx, params.Arguments.Text))), nil
}

func formatEntries(c *store.Collection, limit int, empty string) string {
	items := c.Items()
	if len(items) == 0 {
		return empty
	}
	start := 0
	if limit > 0 && limit < len(items) {
		start = len(items) - limit
	}
	var b strings.Builder
	for i := start; i < len(items); i++ {
		fmt.Fprintf(&b, "%d. %s\n", i+1, items[i])
	}
	return strings.TrimRight(b.String(), "\n")
}

func textResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "❌ " + text}},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	cols, err := app.LoadCollections(cfg.AchievementsFile, cfg.StoreFile)
	if err != nil {
		log.Fatalf("❌ Failed to load collections: %v", err)
	}
	client := inference.NewClient(cfg.HFAPIToken)

	srv := &CompanionMCPServer{
		cols:      cols,
		sentiment: inference.NewSentimentClassifier(client, cfg.SentimentURL),
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "lily-companion-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_achievements",
		Description: "Lists the user's saved achievements, oldest first",
	}, srv.ListAchievements)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_moments",
		Description: "Lists the user's saved positive moments, oldest first",
	}, srv.ListMoments)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_achievement",
		Description: "Saves a new achievement to the user's achievements list",
	}, srv.AddAchievement)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify_mood",
		Description: "Classifies the sentiment of text as POSITIVE, NEGATIVE or NEUTRAL",
	}, srv.ClassifyMood)

	log.Printf("📋 Registered MCP tools: list_achievements, list_moments, add_achievement, classify_mood")
	log.Printf("🔗 Starting Lily MCP server on stdin/stdout...")

	// The MCP server owns the collection files while it runs; stdio handles
	// one request at a time.
	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ Lily MCP Server failed: %v", err)
	}
}
