package companion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"lily/internal/inference"
	"lily/internal/storage"
)

// ErrClosed is returned by a Conversation when the user went away.
var ErrClosed = errors.New("conversation closed")

type SentimentClassifier interface {
	ClassifySentiment(ctx context.Context, text string) inference.Sentiment
}

type TopicClassifier interface {
	ClassifyTopic(ctx context.Context, text string, labels []string) string
}

// Generator continues prompt. Implementations return the prompt followed by
// the continuation, or a fixed apology on failure.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxNewTokens, numSequences int) string
}

// Collection is an append-only list of saved entries. Truncate only rolls
// back appends that failed to persist.
type Collection interface {
	Items() []string
	Append(item string)
	Truncate(n int)
	Persist() error
}

// Conversation is the user-facing side of a turn.
type Conversation interface {
	Say(text string)
	Ask(ctx context.Context, question string) (string, error)
}

// Deps wires a Companion. Recorder and Intn are optional.
type Deps struct {
	Sentiment    SentimentClassifier
	Topics       TopicClassifier
	Generator    Generator
	Achievements Collection
	Moments      Collection
	Recorder     storage.Recorder
	SessionID    string
	UserID       int64
	UserName     string
	MaxNewTokens int
	Intn         func(n int) int
}

// Companion reacts to one user's messages. It is not safe for concurrent use.
type Companion struct {
	sentiment    SentimentClassifier
	topics       TopicClassifier
	gen          Generator
	achievements Collection
	moments      Collection
	recorder     storage.Recorder
	sessionID    string
	userID       int64
	userName     string
	maxNewTokens int
	intn         func(n int) int
}

func New(d Deps) *Companion {
	c := &Companion{
		sentiment:    d.Sentiment,
		topics:       d.Topics,
		gen:          d.Generator,
		achievements: d.Achievements,
		moments:      d.Moments,
		recorder:     d.Recorder,
		sessionID:    d.SessionID,
		userID:       d.UserID,
		userName:     d.UserName,
		maxNewTokens: d.MaxNewTokens,
		intn:         d.Intn,
	}
	if c.maxNewTokens <= 0 {
		c.maxNewTokens = 100
	}
	if c.intn == nil {
		c.intn = rand.Intn
	}
	return c
}

// SetUserName changes the name used in journal events.
func (c *Companion) SetUserName(name string) { c.userName = name }

// Turn summarizes what happened while handling one message.
type Turn struct {
	Input     string
	Sentiment inference.Sentiment
	Topic     string
	SavedTo   string
	Replies   []string
}

// Respond classifies input and runs the branch for its sentiment. Remote
// failures never abort a turn; only the conversation itself can fail.
func (c *Companion) Respond(ctx context.Context, conv Conversation, input string) (Turn, error) {
	tr := &transcript{conv: conv}
	turn := Turn{Input: input, Sentiment: c.sentiment.ClassifySentiment(ctx, input)}

	var err error
	switch turn.Sentiment {
	case inference.Positive:
		err = c.positive(ctx, tr, &turn)
	case inference.Negative:
		err = c.negative(ctx, tr, &turn)
	default:
		err = c.neutral(ctx, tr, &turn)
	}
	turn.Replies = tr.lines
	c.record(turn)
	return turn, err
}

func (c *Companion) positive(ctx context.Context, conv Conversation, turn *Turn) error {
	conv.Say(msgPositive)
	turn.Topic = c.topics.ClassifyTopic(ctx, turn.Input, AchievementLabels)
	if IsAchievement(turn.Topic) {
		if c.save(c.achievements, turn.Input, "achievement") {
			turn.SavedTo = storage.SavedAchievement
			conv.Say(msgAchievementSaved)
		} else {
			conv.Say(msgSaveFailed)
		}
		return nil
	}

	answer, err := conv.Ask(ctx, msgAskSaveMoment)
	if err != nil {
		return err
	}
	if isYes(answer) {
		if c.save(c.moments, turn.Input, "moment") {
			turn.SavedTo = storage.SavedMoment
			conv.Say(msgMomentSaved)
		} else {
			conv.Say(msgSaveFailed)
		}
	}
	conv.Say(c.followUp(ctx, turn.Input))
	return nil
}

func (c *Companion) negative(ctx context.Context, conv Conversation, turn *Turn) error {
	conv.Say(msgNegative)
	choice, err := conv.Ask(ctx, msgAskSupport)
	if err != nil {
		return err
	}
	switch normalize(choice) {
	case "encouragement":
		conv.Say(c.Encouragement())
	case "story":
		conv.Say(c.gen.Generate(ctx, storyPrompt, c.maxNewTokens, 1))
	default:
		conv.Say(msgListening)
	}
	conv.Say(c.followUp(ctx, turn.Input))
	return nil
}

func (c *Companion) neutral(ctx context.Context, conv Conversation, turn *Turn) error {
	conv.Say(msgNeutral)
	choice, err := conv.Ask(ctx, msgAskRecall)
	if err != nil {
		return err
	}
	switch normalize(choice) {
	case "achievement":
		conv.Say(c.Encouragement())
	case "moment":
		conv.Say("Here's a positive moment you shared: " + c.PositiveMoment())
	default:
		conv.Say(msgHereIfNeeded)
	}
	conv.Say(c.followUp(ctx, turn.Input))
	return nil
}

// Encouragement recalls a random saved achievement, or a static quote when
// there are none yet.
func (c *Companion) Encouragement() string {
	items := c.achievements.Items()
	if len(items) > 0 {
		a := items[c.intn(len(items))]
		return fmt.Sprintf("Remember when you achieved '%s'? You're capable of amazing things, keep pushing forward!", a)
	}
	return quotes[c.intn(len(quotes))]
}

// PositiveMoment returns a random saved moment or a placeholder.
func (c *Companion) PositiveMoment() string {
	items := c.moments.Items()
	if len(items) == 0 {
		return msgNoMoments
	}
	return items[c.intn(len(items))]
}

func (c *Companion) followUp(ctx context.Context, input string) string {
	prompt := FollowUpPrompt(input)
	return FollowUp(prompt, c.gen.Generate(ctx, prompt, c.maxNewTokens, 1))
}

func (c *Companion) save(col Collection, item, kind string) bool {
	n := len(col.Items())
	col.Append(item)
	if err := col.Persist(); err != nil {
		col.Truncate(n)
		log.Printf("❌ failed to persist %s: %v", kind, err)
		return false
	}
	return true
}

func (c *Companion) record(turn Turn) {
	if c.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:         time.Now().UTC(),
		SessionID:         c.sessionID,
		UserID:            c.userID,
		UserName:          c.userName,
		UserMessage:       turn.Input,
		Sentiment:         string(turn.Sentiment),
		Topic:             turn.Topic,
		SavedTo:           turn.SavedTo,
		AssistantResponse: strings.Join(turn.Replies, "\n"),
	}
	if err := c.recorder.AppendInteraction(ev); err != nil {
		log.Printf("⚠️ failed to record turn: %v", err)
	}
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func isYes(s string) bool {
	switch normalize(s) {
	case "yes", "y":
		return true
	}
	return false
}

// transcript remembers every line shown to the user during a turn.
type transcript struct {
	conv  Conversation
	lines []string
}

func (t *transcript) Say(text string) {
	t.lines = append(t.lines, text)
	t.conv.Say(text)
}

func (t *transcript) Ask(ctx context.Context, question string) (string, error) {
	t.lines = append(t.lines, question)
	return t.conv.Ask(ctx, question)
}
