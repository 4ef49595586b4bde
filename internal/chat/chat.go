// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chat runs a multi-turn conversation over PDF documents. The first
// turn carries the full document context from the builder; later turns
// append to the accumulated history.
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/pdiddy/pdfctx/internal/builder"
	"github.com/pdiddy/pdfctx/pkg/types"
)

// ErrUnsupportedProvider is returned by NewModel for providers without an
// OpenAI-compatible endpoint.
var ErrUnsupportedProvider = errors.New("chat requires an OpenAI-compatible provider")

// quitWords end the interactive loop.
var quitWords = map[string]bool{"quit": true, "exit": true, "q": true}

// Generator produces the next assistant message for a history. Every eino
// chat model satisfies it.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// NewModel connects an eino OpenAI chat model using cfg.
func NewModel(ctx context.Context, cfg types.AIConfig) (Generator, error) {
	if cfg.Provider != "" && cfg.Provider != types.ProviderOpenAI {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedProvider, cfg.Provider)
	}
	maxTokens := cfg.MaxTokens
	temperature := float32(cfg.Temperature)
	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
}

// Session holds one conversation. It is not safe for concurrent use.
type Session struct {
	gen     Generator
	builder *builder.Builder
	logger  *zap.Logger
	history []*schema.Message
}

// NewSession starts a conversation about the documents already added to b.
func NewSession(gen Generator, b *builder.Builder, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{gen: gen, builder: b, logger: logger}
}

// Ask sends question and returns the reply. The first call seeds the
// history with the document context. A failed turn leaves the history
// unchanged.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	var input []*schema.Message
	if s.history == nil {
		h, err := s.builder.BuildHistory(question)
		if err != nil {
			return "", err
		}
		input = h
	} else {
		input = make([]*schema.Message, len(s.history), len(s.history)+1)
		copy(input, s.history)
		input = append(input, schema.UserMessage(question))
	}

	reply, err := s.gen.Generate(ctx, input)
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}
	if reply == nil {
		reply = schema.AssistantMessage("", nil)
	}

	s.history = append(input, reply)
	s.logger.Debug("chat turn", zap.Int("history", len(s.history)))
	return reply.Content, nil
}

// History returns the messages exchanged so far.
func (s *Session) History() []*schema.Message { return s.history }

// Run reads questions line by line from in until EOF or a quit word and
// writes each reply to out. Blank lines are ignored.
func Run(ctx context.Context, s *Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if quitWords[strings.ToLower(line)] {
			return nil
		}
		if line == "" {
			continue
		}

		answer, err := s.Ask(ctx, line)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Assistant: %s\n\n", answer)
	}
}
