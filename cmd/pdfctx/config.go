package main

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pdfctx/internal/secrets"
	"github.com/pdiddy/pdfctx/pkg/types"
)

// queryConfig assembles the effective configuration from viper, which has
// already merged flags, PDFCTX_* variables and the config file.
func queryConfig() types.QueryConfig {
	cfg := types.QueryConfig{
		AI: types.AIConfig{
			Provider:    types.Provider(viper.GetString("provider")),
			BaseURL:     viper.GetString("base-url"),
			Model:       viper.GetString("model"),
			MaxTokens:   viper.GetInt("max-tokens"),
			Temperature: viper.GetFloat64("temperature"),
		},
		Prompt: types.PromptConfig{
			SystemPrompt:     viper.GetString("system-prompt"),
			ExcludeTextLayer: viper.GetBool("no-text-layer"),
			ImageDetail:      types.ImageDetail(viper.GetString("image-detail")),
		},
		Render: types.RenderConfig{
			DPI:         viper.GetInt("dpi"),
			ImageFormat: viper.GetString("image-format"),
		},
		Verbose: viper.GetBool("verbose"),
	}
	cfg = cfg.WithDefaults()
	cfg.AI.APIKey = resolveAPIKey(cfg.AI.Provider)
	return cfg
}

// resolveAPIKey prefers an explicit key, then .secrets/, then the
// provider's environment variables.
func resolveAPIKey(provider types.Provider) string {
	if key := viper.GetString("api-key"); key != "" {
		logger.Debug("using api key", zap.String("origin", "flag or config"))
		return key
	}
	key, origin := secrets.NewResolver(loadedSecrets, nil).APIKey(provider)
	if key != "" {
		logger.Debug("using api key", zap.String("origin", origin))
	}
	return key
}
