package companion

import (
	"fmt"
	"strings"
)

// AchievementLabels are the zero-shot candidates used on positive input.
var AchievementLabels = []string{"achievement", "goal", "success", "milestone", "win", "progress", "not_an_achievement"}

// Only these winners are saved as achievements. goal, progress,
// not_an_achievement and UNKNOWN go to the moment path.
var achievementWinners = map[string]bool{
	"achievement": true,
	"success":     true,
	"milestone":   true,
	"win":         true,
}

func IsAchievement(label string) bool { return achievementWinners[label] }

// DefaultFollowUp is used whenever no question can be cut out of the
// generated text.
const DefaultFollowUp = "Tell me more about that."

const storyPrompt = "Tell me a short motivational story about overcoming challenges:"

const (
	msgPositive         = "That sounds wonderful! I'm happy for you."
	msgAchievementSaved = "That's fantastic! I've added that to your achievements. Keep up the great work!"
	msgAskSaveMoment    = "Would you like to save this positive moment? (yes/no)"
	msgMomentSaved      = "Moment saved! We're building a collection of your happy times."
	msgSaveFailed       = "I couldn't save that right now, but I'll remember how good it felt."
	msgNegative         = "I hear that you're feeling down. I'm here for you."
	msgAskSupport       = "Would you like some encouragement, a motivational story, or just a listening ear? (encouragement/story/listening)"
	msgListening        = "I'm here to listen. Take your time."
	msgNeutral          = "Hmm, I'm not quite sure how you're feeling. Tell me more!"
	msgAskRecall        = "Perhaps you'd like to recall a past achievement or a positive moment? (achievement/moment/no)"
	msgHereIfNeeded     = "Okay, I'm here if you want to talk about anything."
	msgNoMoments        = "Keep noting down your positive moments, they add up!"
)

var quotes = []string{
	"The only way to do great work is to love what you do. - Steve Jobs",
	"Believe you can and you're halfway there. - Theodore Roosevelt",
	"The future belongs to those who believe in the beauty of their dreams. - Eleanor Roosevelt",
}

// FollowUpPrompt builds the generation prompt for a follow-up question.
func FollowUpPrompt(input string) string {
	return fmt.Sprintf("The user said '%s'. Lily is curious and wants to ask a follow-up question. Lily: ", input)
}

// FollowUp cuts a question out of generated text that starts with prompt.
// The text after the prompt is truncated at the first '?' (kept), or at the
// first '.' which becomes a '?'. Anything else yields DefaultFollowUp.
func FollowUp(prompt, generated string) string {
	if !strings.HasPrefix(generated, prompt) {
		return DefaultFollowUp
	}
	rest := strings.TrimSpace(generated[len(prompt):])
	if rest == "" {
		return DefaultFollowUp
	}
	cut := strings.IndexByte(rest, '?')
	if cut < 0 {
		cut = strings.IndexByte(rest, '.')
	}
	if cut < 0 {
		return DefaultFollowUp
	}
	head := strings.TrimSpace(rest[:cut])
	if head == "" {
		return DefaultFollowUp
	}
	return head + "?"
}
