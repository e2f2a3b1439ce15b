package companion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lily/internal/inference"
	"lily/internal/storage"
)

type fakeSentiment struct{ label inference.Sentiment }

func (f fakeSentiment) ClassifySentiment(ctx context.Context, text string) inference.Sentiment {
	return f.label
}

type fakeTopics struct {
	label  string
	calls  int
	labels []string
}

func (f *fakeTopics) ClassifyTopic(ctx context.Context, text string, labels []string) string {
	f.calls++
	f.labels = labels
	return f.label
}

// fakeGen echoes the prompt followed by suffix.
type fakeGen struct {
	suffix  string
	prompts []string
}

func (f *fakeGen) Generate(ctx context.Context, prompt string, maxNewTokens, numSequences int) string {
	f.prompts = append(f.prompts, prompt)
	return prompt + f.suffix
}

type memCollection struct {
	items    []string
	persists int
	err      error
}

func (m *memCollection) Items() []string    { return append([]string{}, m.items...) }
func (m *memCollection) Append(item string) { m.items = append(m.items, item) }
func (m *memCollection) Truncate(n int)     { m.items = m.items[:n] }
func (m *memCollection) Persist() error {
	m.persists++
	return m.err
}

// scripted answers Ask calls in order and records everything shown.
type scripted struct {
	answers []string
	asked   []string
	said    []string
}

func (s *scripted) Say(text string) { s.said = append(s.said, text) }

func (s *scripted) Ask(ctx context.Context, q string) (string, error) {
	s.asked = append(s.asked, q)
	if len(s.answers) == 0 {
		return "", ErrClosed
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

type memRecorder struct{ events []storage.Event }

func (m *memRecorder) AppendInteraction(ev storage.Event) error {
	m.events = append(m.events, ev)
	return nil
}
func (m *memRecorder) LoadInteractions() ([]storage.Event, error) { return m.events, nil }

type fixture struct {
	topics       *fakeTopics
	gen          *fakeGen
	achievements *memCollection
	moments      *memCollection
	rec          *memRecorder
}

func newCompanion(sent inference.Sentiment, topic string) (*Companion, *fixture) {
	f := &fixture{
		topics:       &fakeTopics{label: topic},
		gen:          &fakeGen{suffix: "What made it special? More text."},
		achievements: &memCollection{},
		moments:      &memCollection{},
		rec:          &memRecorder{},
	}
	c := New(Deps{
		Sentiment:    fakeSentiment{label: sent},
		Topics:       f.topics,
		Generator:    f.gen,
		Achievements: f.achievements,
		Moments:      f.moments,
		Recorder:     f.rec,
		SessionID:    "sess",
		Intn:         func(n int) int { return 0 },
	})
	return c, f
}

func TestRespond_AchievementPathSkipsMomentPrompt(t *testing.T) {
	c, f := newCompanion(inference.Positive, "milestone")
	conv := &scripted{}
	turn, err := c.Respond(context.Background(), conv, "I ran a marathon")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if diff := cmp.Diff([]string{"I ran a marathon"}, f.achievements.items); diff != "" {
		t.Fatalf("achievements (-want +got):\n%s", diff)
	}
	if f.achievements.persists != 1 {
		t.Fatalf("want 1 persist, got %d", f.achievements.persists)
	}
	if len(conv.asked) != 0 {
		t.Fatalf("unexpected prompts: %v", conv.asked)
	}
	if len(f.moments.items) != 0 || len(f.gen.prompts) != 0 {
		t.Fatalf("achievement path must short-circuit: moments=%v gen=%v", f.moments.items, f.gen.prompts)
	}
	if turn.SavedTo != storage.SavedAchievement || turn.Topic != "milestone" {
		t.Fatalf("turn: %+v", turn)
	}
	if diff := cmp.Diff(AchievementLabels, f.topics.labels); diff != "" {
		t.Fatalf("labels (-want +got):\n%s", diff)
	}
}

func TestRespond_PositiveNonAchievementLabels(t *testing.T) {
	for _, label := range []string{"goal", "progress", "not_an_achievement", inference.UnknownLabel} {
		t.Run(label, func(t *testing.T) {
			c, f := newCompanion(inference.Positive, label)
			conv := &scripted{answers: []string{" YES "}}
			turn, err := c.Respond(context.Background(), conv, "sunny walk")
			if err != nil {
				t.Fatalf("respond: %v", err)
			}
			if len(f.achievements.items) != 0 {
				t.Fatalf("unexpected achievement: %v", f.achievements.items)
			}
			if diff := cmp.Diff([]string{"sunny walk"}, f.moments.items); diff != "" {
				t.Fatalf("moments (-want +got):\n%s", diff)
			}
			if turn.SavedTo != storage.SavedMoment {
				t.Fatalf("saved to: %q", turn.SavedTo)
			}
			last := conv.said[len(conv.said)-1]
			if last != "What made it special?" {
				t.Fatalf("follow-up: %q", last)
			}
		})
	}
}

func TestRespond_PositiveDeclinedStillFollowsUp(t *testing.T) {
	c, f := newCompanion(inference.Positive, "goal")
	conv := &scripted{answers: []string{"no"}}
	if _, err := c.Respond(context.Background(), conv, "nice day"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if len(f.moments.items) != 0 || f.moments.persists != 0 {
		t.Fatalf("moment saved without consent")
	}
	if len(f.gen.prompts) != 1 || f.gen.prompts[0] != FollowUpPrompt("nice day") {
		t.Fatalf("gen prompts: %v", f.gen.prompts)
	}
}

func TestRespond_NegativeChoices(t *testing.T) {
	cases := []struct {
		choice string
		want   string
	}{
		{"encouragement", quotes[0]},
		{"listening", msgListening},
		{"whatever", msgListening},
	}
	for _, tc := range cases {
		t.Run(tc.choice, func(t *testing.T) {
			c, _ := newCompanion(inference.Negative, "")
			conv := &scripted{answers: []string{tc.choice}}
			if _, err := c.Respond(context.Background(), conv, "bad day"); err != nil {
				t.Fatalf("respond: %v", err)
			}
			if len(conv.said) != 3 || conv.said[1] != tc.want {
				t.Fatalf("said: %v", conv.said)
			}
		})
	}
}

func TestRespond_NegativeStoryUsesGenerator(t *testing.T) {
	c, f := newCompanion(inference.Negative, "")
	conv := &scripted{answers: []string{"Story"}}
	if _, err := c.Respond(context.Background(), conv, "bad day"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if len(f.gen.prompts) != 2 || f.gen.prompts[0] != storyPrompt {
		t.Fatalf("gen prompts: %v", f.gen.prompts)
	}
	if !strings.HasPrefix(conv.said[1], storyPrompt) {
		t.Fatalf("story not shown: %v", conv.said)
	}
}

func TestRespond_NeutralRecall(t *testing.T) {
	c, f := newCompanion(inference.Neutral, "")
	f.achievements.items = []string{"shipped v1"}
	f.moments.items = []string{"coffee with Ana"}

	conv := &scripted{answers: []string{"achievement"}}
	if _, err := c.Respond(context.Background(), conv, "hm"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if !strings.Contains(conv.said[1], "'shipped v1'") {
		t.Fatalf("encouragement: %q", conv.said[1])
	}

	conv = &scripted{answers: []string{"moment"}}
	if _, err := c.Respond(context.Background(), conv, "hm"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if conv.said[1] != "Here's a positive moment you shared: coffee with Ana" {
		t.Fatalf("moment: %q", conv.said[1])
	}
}

func TestRespond_UnknownSentimentTreatedAsNeutral(t *testing.T) {
	c, _ := newCompanion(inference.Sentiment("LABEL_1"), "")
	conv := &scripted{answers: []string{"no"}}
	if _, err := c.Respond(context.Background(), conv, "hm"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if conv.said[0] != msgNeutral || conv.said[1] != msgHereIfNeeded {
		t.Fatalf("said: %v", conv.said)
	}
}

func TestRespond_ConversationClosed(t *testing.T) {
	c, _ := newCompanion(inference.Negative, "")
	_, err := c.Respond(context.Background(), &scripted{}, "bad")
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("want ErrClosed, got %v", err)
	}
}

func TestRespond_PersistFailureDoesNotAbort(t *testing.T) {
	c, f := newCompanion(inference.Positive, "win")
	f.achievements.err = errors.New("disk full")
	conv := &scripted{}
	turn, err := c.Respond(context.Background(), conv, "won")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if turn.SavedTo != "" || conv.said[len(conv.said)-1] != msgSaveFailed {
		t.Fatalf("turn=%+v said=%v", turn, conv.said)
	}
	if len(f.achievements.items) != 0 {
		t.Fatalf("unsaved entry kept in memory: %v", f.achievements.items)
	}

	// the next successful save must not carry the failed entry to disk
	f.achievements.err = nil
	if _, err := c.Respond(context.Background(), &scripted{}, "won again"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if got := f.achievements.Items(); len(got) != 1 || got[0] != "won again" {
		t.Fatalf("achievements: %v", got)
	}
}

func TestRespond_RecordsJournalEvent(t *testing.T) {
	c, f := newCompanion(inference.Positive, "win")
	c.SetUserName("Sam")
	if _, err := c.Respond(context.Background(), &scripted{}, "won"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if len(f.rec.events) != 1 {
		t.Fatalf("want 1 event, got %d", len(f.rec.events))
	}
	ev := f.rec.events[0]
	if ev.SessionID != "sess" || ev.UserName != "Sam" || ev.Sentiment != "POSITIVE" || ev.Topic != "win" || ev.SavedTo != storage.SavedAchievement {
		t.Fatalf("event: %+v", ev)
	}
	if !strings.Contains(ev.AssistantResponse, msgAchievementSaved) {
		t.Fatalf("response: %q", ev.AssistantResponse)
	}
}

func TestEncouragementWithoutAchievementsUsesQuote(t *testing.T) {
	c, _ := newCompanion(inference.Neutral, "")
	c.intn = func(n int) int { return n - 1 }
	if got := c.Encouragement(); got != quotes[len(quotes)-1] {
		t.Fatalf("got %q", got)
	}
	if got := c.PositiveMoment(); got != msgNoMoments {
		t.Fatalf("got %q", got)
	}
}
