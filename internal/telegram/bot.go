package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lily/internal/analytics"
	"lily/internal/auth"
	"lily/internal/companion"
	"lily/internal/storage"
)

const inboxSize = 8

const (
	msgWelcome    = "Hello! I'm Lily, your emotional companion. How are you feeling today?"
	msgNotAllowed = "Sorry, this companion is private."
	msgBusy       = "One moment, I'm still thinking about your last message."
	msgStoreError = "I couldn't open your saved entries. Please ask the operator to check them."
	msgCheckIn    = "How are you feeling tonight?"
	msgPrivate    = "I only talk one to one. Please message me in a private chat."
)

// Lists are the saved entries of one user, read by /achievements and /moments.
type Lists interface {
	Achievements() []string
	Moments() []string
}

// SessionFactory builds the companion and the saved lists of a user.
type SessionFactory func(userID int64, userName string) (*companion.Companion, Lists, error)

type Bot struct {
	api        *tgbotapi.BotAPI
	s          sender
	newSession SessionFactory
	recorder   storage.Recorder
	users      *auth.Service

	mu       sync.Mutex
	sessions map[int64]*session // by user ID
	wg       sync.WaitGroup
}

func New(botToken string, users *auth.Service, newSession SessionFactory, recorder storage.Recorder) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	b := newBot(botAPISender{api: api}, users, newSession, recorder)
	b.api = api
	return b, nil
}

func newBot(s sender, users *auth.Service, newSession SessionFactory, recorder storage.Recorder) *Bot {
	return &Bot{
		s:          s,
		newSession: newSession,
		recorder:   recorder,
		users:      users,
		sessions:   make(map[int64]*session),
	}
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("🤖 Authorized on account %s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			return
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) isAllowed(userID int64) bool {
	return b.users == nil || b.users.IsAllowed(userID)
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if !b.isAllowed(msg.From.ID) {
		log.Printf("Unauthorized access attempt by user ID: %d, username: @%s", msg.From.ID, msg.From.UserName)
		b.sendMessage(msg.Chat.ID, msgNotAllowed)
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	// Saved entries are per user, so a shared chat cannot host a session.
	if !msg.Chat.IsPrivate() {
		b.sendMessage(msg.Chat.ID, msgPrivate)
		return
	}
	if b.users != nil {
		if err := b.users.Remember(auth.User{ID: msg.From.ID, Username: msg.From.UserName, FirstName: msg.From.FirstName}); err != nil {
			log.Printf("⚠️ failed to remember user %d: %v", msg.From.ID, err)
		}
	}
	if msg.IsCommand() && msg.Command() == "start" {
		b.sendMessage(msg.Chat.ID, msgWelcome)
		return
	}

	sess, err := b.session(ctx, msg.Chat.ID, msg.From)
	if err != nil {
		log.Printf("❌ failed to open session for %d: %v", msg.From.ID, err)
		b.sendMessage(msg.Chat.ID, msgStoreError)
		return
	}
	select {
	case sess.inbox <- text:
	default:
		b.sendMessage(msg.Chat.ID, msgBusy)
	}
}

// session returns the user's session, starting it on first use.
func (b *Bot) session(ctx context.Context, chatID int64, from *tgbotapi.User) (*session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.sessions[from.ID]; ok {
		return s, nil
	}
	name := from.FirstName
	if name == "" {
		name = from.UserName
	}
	comp, lists, err := b.newSession(from.ID, name)
	if err != nil {
		return nil, err
	}
	s := &session{
		chatID: chatID,
		userID: from.ID,
		inbox:  make(chan string, inboxSize),
		comp:   comp,
		lists:  lists,
		bot:    b,
	}
	b.sessions[from.ID] = s
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		s.run(ctx)
	}()
	log.Printf("💬 Started session for chat %d (user %d)", chatID, from.ID)
	return s, nil
}

// CheckIn sends every known user its mood summary for today. Users talk to
// the bot in private chats, so the user ID doubles as the chat ID.
func (b *Bot) CheckIn(ctx context.Context) error {
	var events []storage.Event
	if b.recorder != nil {
		evs, err := b.recorder.LoadInteractions()
		if err != nil {
			return fmt.Errorf("load journal: %w", err)
		}
		events = evs
	}
	today := analytics.AnalyzeDailyLogs(events, time.Now().UTC())

	targets := b.checkInTargets()
	for _, userID := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats := today.ForUser(userID)
		b.sendMessage(userID, stats.Summary()+"\n"+msgCheckIn)
	}
	log.Printf("📨 Check-in sent to %d chats", len(targets))
	return nil
}

func (b *Bot) checkInTargets() []int64 {
	if b.users != nil {
		known := b.users.Known()
		ids := make([]int64, 0, len(known))
		for _, u := range known {
			ids = append(ids, u.ID)
		}
		return ids
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int64, 0, len(b.sessions))
	for _, s := range b.sessions {
		ids = append(ids, s.userID)
	}
	return ids
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
