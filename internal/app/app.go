package app

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"lily/internal/companion"
	"lily/internal/config"
	"lily/internal/inference"
	"lily/internal/llm"
	"lily/internal/storage"
	"lily/internal/store"
)

// Services are the process-wide collaborators shared by every companion.
type Services struct {
	Config    *config.Config
	Client    *inference.Client
	Sentiment *inference.SentimentClassifier
	Topics    *inference.TopicClassifier
	Generator llm.Generator
	Recorder  storage.Recorder
}

// NewServices wires the inference client, classifiers, generator and journal.
// A journal that cannot be opened is logged and skipped.
func NewServices(cfg *config.Config) (*Services, error) {
	client := inference.NewClient(cfg.HFAPIToken)
	if !client.HasToken() {
		log.Printf("⚠️ HF_API_TOKEN not found, replies will use offline defaults")
	}
	gen, err := llm.NewGenerator(cfg, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	var rec storage.Recorder
	if cfg.JournalFile != "" {
		fr, err := storage.NewFileRecorder(cfg.JournalFile)
		if err != nil {
			log.Printf("failed to init journal: %v", err)
		} else {
			rec = fr
		}
	}

	return &Services{
		Config:    cfg,
		Client:    client,
		Sentiment: inference.NewSentimentClassifier(client, cfg.SentimentURL),
		Topics:    inference.NewTopicClassifier(client, cfg.ZeroShotURL),
		Generator: gen,
		Recorder:  rec,
	}, nil
}

// Collections are the two saved lists of one user.
type Collections struct {
	Achievements *store.Collection
	Moments      *store.Collection
}

// LoadCollections opens both lists. A corrupt file is returned as an error
// wrapping store.ErrCorrupt.
func LoadCollections(achievementsPath, momentsPath string) (*Collections, error) {
	a, err := store.Load(achievementsPath)
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	m, err := store.Load(momentsPath)
	if err != nil {
		return nil, fmt.Errorf("load moments: %w", err)
	}
	return &Collections{Achievements: a, Moments: m}, nil
}

// NewCompanion builds a companion for one user with a fresh session id.
func (s *Services) NewCompanion(cols *Collections, userID int64, userName string) *companion.Companion {
	return companion.New(companion.Deps{
		Sentiment:    s.Sentiment,
		Topics:       s.Topics,
		Generator:    s.Generator,
		Achievements: cols.Achievements,
		Moments:      cols.Moments,
		Recorder:     s.Recorder,
		SessionID:    uuid.NewString(),
		UserID:       userID,
		UserName:     userName,
		MaxNewTokens: s.Config.MaxNewTokens,
	})
}
