// Package config reads process settings from the environment, optionally
// seeded from a dotenv settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
	ProviderOllama  = "ollama"

	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	defaultCRMUsername = "admin"
	defaultCRMPassword = "admin"
)

var modelEnvKeys = map[model.Capability]string{
	model.CapabilityText:   "AETHER_TEXT_MODEL",
	model.CapabilityImage:  "AETHER_IMAGE_MODEL",
	model.CapabilitySpeech: "AETHER_SPEECH_MODEL",
	model.CapabilityVideo:  "AETHER_VIDEO_MODEL",
}

type Config struct {
	Provider      string
	GeminiKey     string
	GeminiBaseURL string
	OpenAIKey     string
	OpenAIBaseURL string
	OllamaBaseURL string
	LogLevel      string
	LogFormat     string
	CRMUsername   string
	CRMPassword   string
	Models        map[model.Capability]string
}

// Load reads settingsFile (when non-empty) into the environment without
// overriding variables that are already set, then builds a Config from it.
// With an empty settingsFile, $HOME/.env is used when it exists.
func Load(settingsFile string) (Config, error) {
	err := loadSettingsFile(settingsFile)
	if err != nil {
		return Config{}, utils.WrapIfNotNil(err)
	}
	return FromEnv(), nil
}

func loadSettingsFile(settingsFile string) error {
	explicit := strings.TrimSpace(settingsFile) != ""
	path := strings.TrimSpace(settingsFile)
	if !explicit {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(homeDir, ".env")
	}

	_, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return utils.WrapIfNotNil(err)
	}
	return utils.WrapIfNotNil(godotenv.Load(path))
}

func FromEnv() Config {
	cfg := Config{
		Provider:      strings.ToLower(envOr("AETHER_PROVIDER", ProviderGemini)),
		GeminiKey:     envOr("GEMINI_KEY", env("API_KEY")),
		GeminiBaseURL: env("GEMINI_BASE_URL"),
		OpenAIKey:     env("OPENAI_API_KEY"),
		OpenAIBaseURL: env("OPENAI_BASE_URL"),
		OllamaBaseURL: env("OLLAMA_BASE_URL"),
		LogLevel:      envOr("AETHER_LOG_LEVEL", defaultLogLevel),
		LogFormat:     envOr("AETHER_LOG_FORMAT", defaultLogFormat),
		CRMUsername:   envOr("CRM_USERNAME", defaultCRMUsername),
		CRMPassword:   envOr("CRM_PASSWORD", defaultCRMPassword),
		Models:        map[model.Capability]string{},
	}
	for capability, key := range modelEnvKeys {
		if name := env(key); name != "" {
			cfg.Models[capability] = name
		}
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderBedrock, ProviderOllama:
		return nil
	default:
		return utils.WrapIfNotNil(fmt.Errorf("%w: unknown provider %q", model.ErrInvalidInput, c.Provider))
	}
}

// GeneratorOptions returns the adapter options for the selected provider.
// Bedrock takes its credentials and endpoint from the AWS environment.
func (c Config) GeneratorOptions() []model.GeneratorOption {
	opts := make([]model.GeneratorOption, 0, 2+len(c.Models))
	switch c.Provider {
	case ProviderOpenAI:
		opts = appendIfSet(opts, c.OpenAIKey, model.WithAuthToken)
		opts = appendIfSet(opts, c.OpenAIBaseURL, model.WithURL)
	case ProviderOllama:
		opts = appendIfSet(opts, c.OllamaBaseURL, model.WithURL)
	case ProviderBedrock:
	default:
		opts = appendIfSet(opts, c.GeminiKey, model.WithAuthToken)
		opts = appendIfSet(opts, c.GeminiBaseURL, model.WithURL)
	}
	for capability, name := range c.Models {
		opts = append(opts, model.WithModel(capability, name))
	}
	return opts
}

func appendIfSet(opts []model.GeneratorOption, value string, option func(string) model.GeneratorOption) []model.GeneratorOption {
	if value == "" {
		return opts
	}
	return append(opts, option(value))
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envOr(key string, fallback string) string {
	if value := env(key); value != "" {
		return value
	}
	return fallback
}
