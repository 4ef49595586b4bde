// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfctx CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pdfctx/internal/secrets"
	"github.com/pdiddy/pdfctx/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const secretsDir = ".secrets/"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// logger is a development logger with --verbose and a no-op otherwise.
	logger = zap.NewNop()
)

// rootCmd is the base command for the pdfctx CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfctx",
	Short: "Ask vision language models questions about PDF documents",
	Long: `pdfctx sends PDF documents to a vision-capable chat model. Every page is
rendered to an image and, optionally, its extracted text is added to the
system prompt so the model can answer with page citations.

Configuration is read from flags, PDFCTX_* environment variables and
pdfctx.yaml. API keys come from --api-key, files in .secrets/, or the
OPENROUTER_API_KEY, OPENAI_API_KEY and ANTHROPIC_API_KEY variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		if viper.GetBool("verbose") {
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			logger = l
		}

		s, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Info("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./pdfctx.yaml or ~/.config/pdfctx/pdfctx.yaml)")
	flags.String("provider", string(types.ProviderOpenAI), "chat API: openai (also OpenRouter and compatible) or anthropic")
	flags.String("api-key", "", "API key (default: .secrets/ or environment)")
	flags.String("base-url", "", "API base URL, e.g. https://openrouter.ai/api/v1")
	flags.String("model", types.DefaultModel, "vision-capable model identifier")
	flags.Int("max-tokens", types.DefaultMaxTokens, "maximum tokens in the answer")
	flags.Float64("temperature", types.DefaultTemperature, "sampling temperature")
	flags.String("system-prompt", "", "replace the built-in citation prompt")
	flags.Bool("no-text-layer", false, "send page images only, without extracted text")
	flags.String("image-detail", string(types.DefaultDetail), "image detail level: low, high or auto")
	flags.Int("dpi", types.DefaultDPI, "page rendering resolution")
	flags.String("image-format", types.DefaultImageFormat, "page image format: PNG or JPEG")
	flags.BoolP("verbose", "v", false, "print the request payload and debug logs to stderr")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfctx")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfctx"))
		}
	}

	viper.SetEnvPrefix("PDFCTX")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
