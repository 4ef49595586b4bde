// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/pdfctx/internal/builder"
	"github.com/pdiddy/pdfctx/pkg/types"
)

// AnthropicCompleter talks to the Anthropic Messages API. The system message
// becomes the request's system block and page images are sent as base64
// image blocks.
type AnthropicCompleter struct {
	client anthropic.Client
}

// NewAnthropicCompleter builds a client for apiKey. An empty baseURL uses
// the SDK default. The SDK's own retries are disabled.
func NewAnthropicCompleter(apiKey, baseURL string, extra ...anthropicoption.RequestOption) *AnthropicCompleter {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithMaxRetries(0),
	}
	if base := strings.TrimRight(strings.TrimSpace(baseURL), "/"); base != "" {
		opts = append(opts, anthropicoption.WithBaseURL(base))
	}
	opts = append(opts, extra...)
	return &AnthropicCompleter{client: anthropic.NewClient(opts...)}
}

// Complete sends req and joins the text blocks of the reply.
func (c *AnthropicCompleter) Complete(ctx context.Context, req *builder.Request) (*Completion, error) {
	params, err := anthropicParams(req)
	if err != nil {
		return nil, err
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	var answer strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			answer.WriteString(block.Text)
		}
	}

	return &Completion{
		Answer: answer.String(),
		Model:  string(msg.Model),
		Usage: types.Usage{
			PromptTokens:     msg.Usage.InputTokens,
			CompletionTokens: msg.Usage.OutputTokens,
			TotalTokens:      msg.Usage.InputTokens + msg.Usage.OutputTokens,
		},
		FinishReason: anthropicFinishReason(msg.StopReason),
	}, nil
}

// anthropicFinishReason maps stop reasons onto the OpenAI vocabulary so
// truncation is detected the same way for every provider.
func anthropicFinishReason(r anthropic.StopReason) string {
	switch r {
	case anthropic.StopReasonMaxTokens:
		return types.FinishLength
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence:
		return "stop"
	case anthropic.StopReasonToolUse:
		return "tool_calls"
	default:
		return string(r)
	}
}

func anthropicParams(req *builder.Request) (anthropic.MessageNewParams, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
	}

	for _, m := range req.Messages {
		switch m.Role {
		case builder.RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Text})
		case builder.RoleUser:
			if m.Parts == nil {
				params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
				continue
			}
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Parts))
			for _, p := range m.Parts {
				switch p.Type {
				case builder.PartText:
					blocks = append(blocks, anthropic.NewTextBlock(p.Text))
				case builder.PartImageURL:
					mime, data, err := splitDataURL(p.ImageURL.URL)
					if err != nil {
						return anthropic.MessageNewParams{}, err
					}
					blocks = append(blocks, anthropic.NewImageBlockBase64(mime, data))
				default:
					return anthropic.MessageNewParams{}, fmt.Errorf("unsupported content part %q", p.Type)
				}
			}
			params.Messages = append(params.Messages, anthropic.NewUserMessage(blocks...))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("unsupported role %q", m.Role)
		}
	}
	return params, nil
}
