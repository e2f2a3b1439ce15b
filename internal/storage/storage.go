package storage

import "time"

// Event is one conversation turn: what the user said, how it was classified
// and what the companion answered. Events are appended in chronological order.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	SessionID         string    `json:"session_id"`
	UserID            int64     `json:"user_id,omitempty"`
	UserName          string    `json:"user_name,omitempty"`
	UserMessage       string    `json:"user_message"`
	Sentiment         string    `json:"sentiment"`
	Topic             string    `json:"topic,omitempty"`
	SavedTo           string    `json:"saved_to,omitempty"`
	AssistantResponse string    `json:"assistant_response"`
}

// Where a turn's input was saved, if anywhere.
const (
	SavedAchievement = "achievements"
	SavedMoment      = "moments"
)

// Recorder abstracts persistence of turn events.
// LoadInteractions should return events in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
