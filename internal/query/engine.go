// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query sends PDF context to a vision-capable chat model and
// normalizes the answer. Each query loads its documents, builds one request
// with the builder package, optionally dumps it, and hands it to a Completer.
package query

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/pdfctx/internal/builder"
	"github.com/pdiddy/pdfctx/internal/document"
	"github.com/pdiddy/pdfctx/internal/render"
	"github.com/pdiddy/pdfctx/pkg/types"
)

// Engine answers questions about PDF documents. It holds configuration only;
// documents and builders are created per query.
type Engine struct {
	cfg       types.QueryConfig
	format    render.Format
	completer Completer
	logger    *zap.Logger
	out       io.Writer
	docOpts   []document.Option
}

// Option configures an Engine.
type Option func(*Engine)

// WithCompleter replaces the provider selected from the configuration.
func WithCompleter(c Completer) Option {
	return func(e *Engine) { e.completer = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithOutput sets where the verbose payload dump is written (default stderr).
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		if w != nil {
			e.out = w
		}
	}
}

// WithDocumentOptions adds options applied to every document the engine
// loads from a path, after the DPI and format from the configuration.
func WithDocumentOptions(opts ...document.Option) Option {
	return func(e *Engine) { e.docOpts = append(e.docOpts, opts...) }
}

// New validates cfg, fills defaults and connects the configured provider
// unless a completer is supplied.
func New(cfg types.QueryConfig, opts ...Option) (*Engine, error) {
	cfg = cfg.WithDefaults()

	if !cfg.Prompt.ImageDetail.Valid() {
		return nil, fmt.Errorf("invalid image detail %q (want low, high or auto)", cfg.Prompt.ImageDetail)
	}
	format, err := render.ParseFormat(cfg.Render.ImageFormat)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		format: format,
		logger: zap.NewNop(),
		out:    os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.completer == nil {
		c, err := NewCompleter(cfg.AI)
		if err != nil {
			return nil, err
		}
		e.completer = c
	}
	return e, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() types.QueryConfig { return e.cfg }

// NewDocument opens path with the engine's render settings. Nothing is read
// until the document's pages are first requested.
func (e *Engine) NewDocument(path string) *document.Document {
	return newDocument(e.cfg.Render.DPI, e.format, path, e.docOpts...)
}

// NewBuilder returns an empty builder with the engine's prompt settings.
func (e *Engine) NewBuilder() *builder.Builder {
	return NewBuilder(e.cfg.Prompt)
}

// NewDocument opens path with the render settings of cfg, for callers that
// build requests without an Engine.
func NewDocument(cfg types.RenderConfig, path string, opts ...document.Option) (*document.Document, error) {
	format, err := render.ParseFormat(cfg.ImageFormat)
	if err != nil {
		return nil, err
	}
	return newDocument(cfg.DPI, format, path, opts...), nil
}

// NewBuilder returns an empty builder configured from cfg.
func NewBuilder(cfg types.PromptConfig) *builder.Builder {
	return builder.New(
		builder.WithSystemPrompt(cfg.SystemPrompt),
		builder.WithTextLayer(!cfg.ExcludeTextLayer),
		builder.WithImageDetail(cfg.ImageDetail),
	)
}

func newDocument(dpi int, format render.Format, path string, extra ...document.Option) *document.Document {
	opts := append([]document.Option{
		document.WithDPI(dpi),
		document.WithImageFormat(format),
	}, extra...)
	return document.New(path, opts...)
}

// Query asks question about the PDF at path.
func (e *Engine) Query(ctx context.Context, path, question string) (types.QueryResult, error) {
	return e.run(ctx, []*document.Document{e.NewDocument(path)}, question)
}

// QueryMultiple asks question about all PDFs in paths, in order, within a
// single request.
func (e *Engine) QueryMultiple(ctx context.Context, paths []string, question string) (types.QueryResult, error) {
	docs := make([]*document.Document, len(paths))
	for i, p := range paths {
		docs[i] = e.NewDocument(p)
	}
	return e.run(ctx, docs, question)
}

// QueryDocument asks question about an already constructed document. Pages
// it has loaded before are reused.
func (e *Engine) QueryDocument(ctx context.Context, doc *document.Document, question string) (types.QueryResult, error) {
	return e.run(ctx, []*document.Document{doc}, question)
}

// Payload builds the request for question over paths without sending it.
func (e *Engine) Payload(paths []string, question string) (*builder.Request, error) {
	b := e.NewBuilder()
	for _, p := range paths {
		b.Add(e.NewDocument(p))
	}
	return b.BuildRequestPayload(question, e.requestOptions())
}

func (e *Engine) requestOptions() builder.RequestOptions {
	return builder.RequestOptions{
		Model:       e.cfg.AI.Model,
		MaxTokens:   e.cfg.AI.MaxTokens,
		Temperature: e.cfg.AI.Temperature,
	}
}

func (e *Engine) run(ctx context.Context, docs []*document.Document, question string) (types.QueryResult, error) {
	log := e.logger.With(zap.String("request_id", uuid.NewString()))

	b := e.NewBuilder()
	for _, d := range docs {
		b.Add(d)
	}

	start := time.Now()
	req, err := b.BuildRequestPayload(question, e.requestOptions())
	if err != nil {
		log.Debug("building request failed", zap.Error(err))
		return types.QueryResult{}, err
	}
	log.Debug("request built",
		zap.Strings("documents", b.Documents()),
		zap.String("model", req.Model),
		zap.Int("parts", len(req.Messages[len(req.Messages)-1].Parts)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if e.cfg.Verbose {
		if err := PrintPayload(e.out, req); err != nil {
			log.Warn("printing payload", zap.Error(err))
		}
	}

	start = time.Now()
	c, err := e.completer.Complete(ctx, req)
	if err != nil {
		log.Debug("completion failed", zap.Error(err), zap.Bool("canceled", errors.Is(err, context.Canceled)))
		return types.QueryResult{}, err
	}

	result := types.NewQueryResult(c.Answer, c.Model, c.Usage, c.FinishReason)
	log.Info("query answered",
		zap.String("model", result.Model),
		zap.Int64("prompt_tokens", result.Usage.PromptTokens),
		zap.Int64("completion_tokens", result.Usage.CompletionTokens),
		zap.String("finish_reason", result.FinishReason),
		zap.Duration("elapsed", time.Since(start)),
	)
	if result.IsTruncated() {
		log.Warn("answer truncated at token limit", zap.Int("max_tokens", req.MaxTokens))
	}
	return result, nil
}
