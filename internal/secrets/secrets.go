// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves provider API keys. Keys come from a directory of
// plain-text files, one key per file named after the key, or from the
// environment.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pdfctx/pkg/types"
)

// Key file names recognised in the secrets directory.
const (
	OpenAIKeyFile     = "openai-api-key"
	OpenRouterKeyFile = "openrouter-api-key"
	AnthropicKeyFile  = "anthropic-api-key"
)

// Environment variables consulted after the secrets directory.
const (
	OpenAIKeyEnv     = "OPENAI_API_KEY"
	OpenRouterKeyEnv = "OPENROUTER_API_KEY"
	AnthropicKeyEnv  = "ANTHROPIC_API_KEY"
)

// source pairs a key file with its environment variable.
type source struct {
	file string
	env  string
}

// sources lists where each provider's key may live, in lookup order.
// OpenRouter is tried first for the OpenAI-compatible provider so a
// configured OpenRouter key wins over a stray OpenAI one.
var sources = map[types.Provider][]source{
	types.ProviderOpenAI: {
		{file: OpenRouterKeyFile, env: OpenRouterKeyEnv},
		{file: OpenAIKeyFile, env: OpenAIKeyEnv},
	},
	types.ProviderAnthropic: {
		{file: AnthropicKeyFile, env: AnthropicKeyEnv},
	},
}

// Load reads every file in dir into a map of file name to trimmed contents.
// A missing directory yields an empty map. Dotfiles, subdirectories and
// empty files are skipped; unreadable files are logged and skipped.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	keys := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping unreadable secret", zap.String("name", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			keys[name] = value
		}
	}
	return keys, nil
}

// Resolver picks the API key for a provider from loaded key files and the
// environment.
type Resolver struct {
	files  map[string]string
	getenv func(string) string
}

// NewResolver wraps keys loaded with Load. A nil getenv means os.Getenv.
func NewResolver(files map[string]string, getenv func(string) string) *Resolver {
	if getenv == nil {
		getenv = os.Getenv
	}
	if files == nil {
		files = map[string]string{}
	}
	return &Resolver{files: files, getenv: getenv}
}

// APIKey returns the key for provider and where it was found. Key files are
// checked before environment variables. An empty key means none was found.
func (r *Resolver) APIKey(provider types.Provider) (key, origin string) {
	if provider == "" {
		provider = types.ProviderOpenAI
	}
	list := sources[provider]

	for _, s := range list {
		if v := r.files[s.file]; v != "" {
			return v, "file " + s.file
		}
	}
	for _, s := range list {
		if v := strings.TrimSpace(r.getenv(s.env)); v != "" {
			return v, "env " + s.env
		}
	}
	return "", ""
}
