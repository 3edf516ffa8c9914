package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	Port int `env:"PORT" envDefault:"5000"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Speech-to-text
	GoogleCredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	SpeechLanguage        string `env:"SPEECH_LANGUAGE" envDefault:"en-US"`

	// Storage
	UploadDir        string `env:"UPLOAD_DIR" envDefault:"uploads"`
	SessionsFilePath string `env:"SESSIONS_FILE_PATH" envDefault:"data/sessions.json"`
	SummariesDir     string `env:"SUMMARIES_DIR" envDefault:"data/summaries"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
