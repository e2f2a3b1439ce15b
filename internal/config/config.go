package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type GenerationProvider string

const (
	ProviderHuggingFace GenerationProvider = "huggingface"
	ProviderOpenAI      GenerationProvider = "openai"
	ProviderYandex      GenerationProvider = "yandex"
)

type Config struct {
	// Hosted inference. An empty token disables every remote call.
	HFAPIToken    string `env:"HF_API_TOKEN"`
	SentimentURL  string `env:"SENTIMENT_API_URL" envDefault:"https://api-inference.huggingface.co/models/distilbert/distilbert-base-uncased-finetuned-sst-2-english"`
	ZeroShotURL   string `env:"ZERO_SHOT_API_URL" envDefault:"https://api-inference.huggingface.co/models/facebook/bart-large-mnli"`
	GenerationURL string `env:"GENERATION_API_URL" envDefault:"https://api-inference.huggingface.co/models/gpt2"`
	MaxNewTokens  int    `env:"MAX_NEW_TOKENS" envDefault:"100"`

	// Text generation backend
	GenerationProvider GenerationProvider `env:"GENERATION_PROVIDER" envDefault:"huggingface"`
	OpenAIAPIKey       string             `env:"OPENAI_API_KEY"`
	OpenAIBaseURL      string             `env:"OPENAI_BASE_URL"`
	OpenAIModel        string             `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	YandexOAuthToken   string             `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID     string             `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Storage
	AchievementsFile string `env:"ACHIEVEMENTS_FILE" envDefault:"achievements.json"`
	StoreFile        string `env:"STORE_FILE" envDefault:"store.json"`
	JournalFile      string `env:"JOURNAL_FILE" envDefault:"logs/journal.jsonl"`

	// Telegram surface
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN"`
	AllowedUsers     []int64 `env:"ALLOWED_USERS" envSeparator:":"`
	BotDataDir       string  `env:"BOT_DATA_DIR" envDefault:"data"`
	CheckInSchedule  string  `env:"CHECKIN_SCHEDULE" envDefault:"0 21 * * *"`
}

// Parse reads the configuration from the environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.MaxNewTokens <= 0 {
		cfg.MaxNewTokens = 100
	}
	return cfg, nil
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
