package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/compustack/aether/pkg/config"
	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/utils"
	"github.com/spf13/cobra"
)

var rootFlags struct {
	provider  string
	apiKey    string
	settings  string
	logLevel  string
	logFormat string
}

var appConfig config.Config

var rootCmd = &cobra.Command{
	Use:           "aether",
	Short:         "Generate text, images, speech and video, and run the store CRM assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg
		return logging.Configure(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootFlags.provider, "provider", "", "generation provider: gemini, openai, bedrock or ollama (env AETHER_PROVIDER)")
	flags.StringVar(&rootFlags.apiKey, "api-key", "", "API key for gemini or openai (env GEMINI_KEY or OPENAI_API_KEY)")
	flags.StringVar(&rootFlags.settings, "settings", os.Getenv("SETTINGS_FILE"), "dotenv settings file (default $HOME/.env)")
	flags.StringVar(&rootFlags.logLevel, "log-level", "", "log level (env AETHER_LOG_LEVEL)")
	flags.StringVar(&rootFlags.logFormat, "log-format", "", "log format: text or json (env AETHER_LOG_FORMAT)")
}

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() {
		if r := recover(); r != nil {
			utils.PrintStack(fmt.Sprintf("panic: %v", r), logging.NewLogger(ctx))
			panic(r)
		}
	}()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(rootFlags.settings)
	if err != nil {
		return config.Config{}, err
	}

	if rootFlags.provider != "" {
		cfg.Provider = strings.ToLower(strings.TrimSpace(rootFlags.provider))
	}
	if rootFlags.apiKey != "" {
		switch cfg.Provider {
		case config.ProviderOpenAI:
			cfg.OpenAIKey = rootFlags.apiKey
		case config.ProviderGemini:
			cfg.GeminiKey = rootFlags.apiKey
		}
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		cfg.LogFormat = rootFlags.logFormat
	}
	return cfg, cfg.Validate()
}
