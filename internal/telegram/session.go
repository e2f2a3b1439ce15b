package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"lily/internal/companion"
)

const (
	cmdAchievements = "/achievements"
	cmdMoments      = "/moments"
	msgGoodbye      = "Goodbye! Remember, I'm here whenever you need me."
)

// session serializes one chat: its goroutine is the only writer of the
// user's collections.
type session struct {
	chatID int64
	userID int64
	inbox  chan string
	comp   *companion.Companion
	lists  Lists
	bot    *Bot
}

func (s *session) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-s.inbox:
			if err := s.handle(ctx, text); err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Printf("❌ session %d: %v", s.chatID, err)
				}
				return
			}
		}
	}
}

func (s *session) handle(ctx context.Context, text string) error {
	switch {
	case strings.HasPrefix(text, cmdAchievements):
		s.Say(formatList("Your achievements", s.lists.Achievements(), "No achievements saved yet."))
		return nil
	case strings.HasPrefix(text, cmdMoments):
		s.Say(formatList("Your positive moments", s.lists.Moments(), "No positive moments saved yet."))
		return nil
	case companion.IsExit(text):
		s.Say(msgGoodbye)
		return nil
	}
	_, err := s.comp.Respond(ctx, s, text)
	return err
}

func (s *session) Say(text string) {
	s.bot.sendMessage(s.chatID, text)
}

// Ask sends question and waits for the next message of the chat.
func (s *session) Ask(ctx context.Context, question string) (string, error) {
	s.Say(question)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case answer := <-s.inbox:
		return answer, nil
	}
}

func formatList(title string, items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	var b strings.Builder
	b.WriteString(title + ":\n")
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it)
	}
	return strings.TrimRight(b.String(), "\n")
}
