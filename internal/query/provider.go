// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/pdfctx/internal/builder"
	"github.com/pdiddy/pdfctx/pkg/types"
)

// ErrMissingAPIKey is returned by New when no completer was supplied and the
// configuration carries no API key.
var ErrMissingAPIKey = errors.New("api key is required")

// Completer sends a built request to a chat-completion backend. Each
// implementation maps the provider's response into a Completion so the
// engine never sees SDK types. Tests supply a fake.
type Completer interface {
	Complete(ctx context.Context, req *builder.Request) (*Completion, error)
}

// Completion is the provider-neutral result of one request. FinishReason is
// expressed in the OpenAI vocabulary ("stop", "length", ...) and may be empty
// when the provider reported none.
type Completion struct {
	Answer       string
	Model        string
	Usage        types.Usage
	FinishReason string
}

// NewCompleter returns the completer selected by cfg.Provider.
func NewCompleter(cfg types.AIConfig) (Completer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		return NewOpenAICompleter(cfg.APIKey, cfg.BaseURL), nil
	case types.ProviderAnthropic:
		return NewAnthropicCompleter(cfg.APIKey, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want %s or %s)", cfg.Provider, types.ProviderOpenAI, types.ProviderAnthropic)
	}
}

// splitDataURL breaks "data:<mime>;base64,<payload>" into its MIME type and
// payload.
func splitDataURL(url string) (mime, data string, err error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", "", fmt.Errorf("image is not a data URL: %.60s", url)
	}
	header, data, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("malformed data URL: %.60s", url)
	}
	mime, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", "", fmt.Errorf("data URL is not base64 encoded: %.60s", url)
	}
	return mime, data, nil
}
