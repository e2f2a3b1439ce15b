package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"lily/internal/storage"
)

// DailyStats summarizes one calendar day of journal events.
type DailyStats struct {
	Date              string              `json:"date"`
	TotalTurns        int                 `json:"total_turns"`
	UniqueUsers       int                 `json:"unique_users"`
	BySentiment       map[string]int      `json:"by_sentiment"`
	AchievementsSaved int                 `json:"achievements_saved"`
	MomentsSaved      int                 `json:"moments_saved"`
	UserStats         map[int64]UserStats `json:"user_stats"`
}

// UserStats holds per-user counters for the day.
type UserStats struct {
	UserID            int64          `json:"user_id"`
	Turns             int            `json:"turns"`
	BySentiment       map[string]int `json:"by_sentiment"`
	AchievementsSaved int            `json:"achievements_saved"`
	MomentsSaved      int            `json:"moments_saved"`
}

// AnalyzeDailyLogs counts the events that fall on targetDate in its location.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	stats := &DailyStats{
		Date:        startOfDay.Format("2006-01-02"),
		BySentiment: make(map[string]int),
		UserStats:   make(map[int64]UserStats),
	}

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		if event.UserMessage == "" {
			continue
		}

		stats.TotalTurns++
		userStat, exists := stats.UserStats[event.UserID]
		if !exists {
			userStat = UserStats{UserID: event.UserID, BySentiment: make(map[string]int)}
		}
		userStat.Turns++

		sentiment := event.Sentiment
		if sentiment == "" {
			sentiment = "NEUTRAL"
		}
		stats.BySentiment[sentiment]++
		userStat.BySentiment[sentiment]++

		switch event.SavedTo {
		case storage.SavedAchievement:
			stats.AchievementsSaved++
			userStat.AchievementsSaved++
		case storage.SavedMoment:
			stats.MomentsSaved++
			userStat.MomentsSaved++
		}
		stats.UserStats[event.UserID] = userStat
	}

	stats.UniqueUsers = len(stats.UserStats)
	return stats
}

// ForUser narrows the stats to a single user.
func (ds *DailyStats) ForUser(userID int64) *DailyStats {
	us, ok := ds.UserStats[userID]
	out := &DailyStats{
		Date:        ds.Date,
		BySentiment: make(map[string]int),
		UserStats:   make(map[int64]UserStats),
	}
	if !ok {
		return out
	}
	out.TotalTurns = us.Turns
	out.UniqueUsers = 1
	out.AchievementsSaved = us.AchievementsSaved
	out.MomentsSaved = us.MomentsSaved
	for k, v := range us.BySentiment {
		out.BySentiment[k] = v
	}
	out.UserStats[userID] = us
	return out
}

// Summary renders the stats as a short human readable report.
func (ds *DailyStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mood summary for %s:\n", ds.Date)
	fmt.Fprintf(&b, "- Conversations: %d\n", ds.TotalTurns)
	if len(ds.BySentiment) > 0 {
		labels := make([]string, 0, len(ds.BySentiment))
		for l := range ds.BySentiment {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		for _, l := range labels {
			fmt.Fprintf(&b, "- %s: %d\n", strings.ToLower(l), ds.BySentiment[l])
		}
	}
	fmt.Fprintf(&b, "- Achievements saved: %d\n", ds.AchievementsSaved)
	fmt.Fprintf(&b, "- Positive moments saved: %d\n", ds.MomentsSaved)
	return b.String()
}

func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
