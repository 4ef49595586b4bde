// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"

	"github.com/pdiddy/pdfctx/internal/builder"
	"github.com/pdiddy/pdfctx/pkg/types"
)

// OpenAICompleter talks to the OpenAI chat-completions API or any compatible
// endpoint such as OpenRouter.
type OpenAICompleter struct {
	client openai.Client
}

// NewOpenAICompleter builds a client for apiKey. An empty baseURL uses the
// SDK default. The SDK's own retries are disabled.
func NewOpenAICompleter(apiKey, baseURL string, extra ...openaioption.RequestOption) *OpenAICompleter {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if base := strings.TrimRight(strings.TrimSpace(baseURL), "/"); base != "" {
		opts = append(opts, openaioption.WithBaseURL(base+"/"))
	}
	opts = append(opts, extra...)
	return &OpenAICompleter{client: openai.NewClient(opts...)}
}

// Complete sends req and maps the first choice.
func (c *OpenAICompleter) Complete(ctx context.Context, req *builder.Request) (*Completion, error) {
	params, err := openAIParams(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	out := &Completion{
		Model: resp.Model,
		Usage: types.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) > 0 {
		out.Answer = resp.Choices[0].Message.Content
		out.FinishReason = resp.Choices[0].FinishReason
	}
	return out, nil
}

func openAIParams(req *builder.Request) (openai.ChatCompletionNewParams, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case builder.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Text))
		case builder.RoleUser:
			if m.Parts == nil {
				messages = append(messages, openai.UserMessage(m.Text))
				continue
			}
			parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(m.Parts))
			for _, p := range m.Parts {
				switch p.Type {
				case builder.PartText:
					parts = append(parts, openai.TextContentPart(p.Text))
				case builder.PartImageURL:
					parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
						URL:    p.ImageURL.URL,
						Detail: string(p.ImageURL.Detail),
					}))
				default:
					return openai.ChatCompletionNewParams{}, fmt.Errorf("unsupported content part %q", p.Type)
				}
			}
			messages = append(messages, openai.UserMessage(parts))
		default:
			return openai.ChatCompletionNewParams{}, fmt.Errorf("unsupported role %q", m.Role)
		}
	}

	return openai.ChatCompletionNewParams{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
	}, nil
}
