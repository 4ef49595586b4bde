// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package builder assembles chat-completion requests from loaded PDF
// documents. The system message carries document metadata and, optionally,
// the extracted text; the user message carries the page images followed by
// the question.
package builder

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/pdfctx/internal/document"
	"github.com/pdiddy/pdfctx/pkg/types"
)

// ErrNoDocuments is returned when a message set is built before any document
// was added.
var ErrNoDocuments = errors.New("no documents added: call Add first")

// Roles used in the request.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Content part types used in the user message.
const (
	PartText     = "text"
	PartImageURL = "image_url"
)

// ImageURL references an inline image and the detail level to analyse it at.
type ImageURL struct {
	URL    string            `json:"url"`
	Detail types.ImageDetail `json:"detail"`
}

// ContentPart is one block of a multimodal user message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// Message is a chat message. System messages carry Text; user messages
// carry Parts. It serializes content as a string or as an array accordingly.
type Message struct {
	Role  string
	Text  string
	Parts []ContentPart
}

// MarshalJSON emits {"role", "content"} with content as a string for text
// messages and as an array of parts otherwise.
func (m Message) MarshalJSON() ([]byte, error) {
	var content any = m.Text
	if m.Parts != nil {
		content = m.Parts
	}
	return json.Marshal(struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	}{Role: m.Role, Content: content})
}

// Request is the complete chat-completion payload.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// entry pairs a document with its display name.
type entry struct {
	doc  *document.Document
	name string
}

// Builder accumulates documents and produces the request for one question.
// It is built fresh for each query and is not safe for concurrent use.
type Builder struct {
	systemPrompt string
	includeText  bool
	detail       types.ImageDetail

	entries    []entry
	nameCounts map[string]int
}

// Option configures a Builder.
type Option func(*Builder)

// WithSystemPrompt replaces DefaultSystemPrompt. An empty prompt keeps the
// default.
func WithSystemPrompt(prompt string) Option {
	return func(b *Builder) {
		if prompt != "" {
			b.systemPrompt = prompt
		}
	}
}

// WithTextLayer controls whether extracted page text goes into the system
// message.
func WithTextLayer(include bool) Option {
	return func(b *Builder) { b.includeText = include }
}

// WithImageDetail sets the detail level sent with every page image.
func WithImageDetail(d types.ImageDetail) Option {
	return func(b *Builder) {
		if d != "" {
			b.detail = d
		}
	}
}

// New returns a Builder with the default prompt, text inclusion on and high
// image detail.
func New(opts ...Option) *Builder {
	b := &Builder{
		systemPrompt: DefaultSystemPrompt,
		includeText:  true,
		detail:       types.DefaultDetail,
		nameCounts:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add appends a document and returns the builder for chaining. Repeated file
// names are shown as "name (2)", "name (3)" and so on.
func (b *Builder) Add(doc *document.Document) *Builder {
	base := doc.FileID()
	b.nameCounts[base]++

	name := base
	if n := b.nameCounts[base]; n > 1 {
		name = fmt.Sprintf(duplicateNameForm, base, n)
	}

	b.entries = append(b.entries, entry{doc: doc, name: name})
	return b
}

// Documents returns the display names of the added documents, in order.
func (b *Builder) Documents() []string {
	names := make([]string, len(b.entries))
	for i, e := range b.entries {
		names[i] = e.name
	}
	return names
}

// SystemPrompt returns the prompt the system message starts with.
func (b *Builder) SystemPrompt() string { return b.systemPrompt }

// IncludesTextLayer reports whether extracted page text goes into the
// system message.
func (b *Builder) IncludesTextLayer() bool { return b.includeText }

// BuildMessages returns the system message followed by the user message.
func (b *Builder) BuildMessages(question string) ([]Message, error) {
	if len(b.entries) == 0 {
		return nil, ErrNoDocuments
	}

	system, err := b.systemText()
	if err != nil {
		return nil, err
	}
	parts, err := b.userParts(question)
	if err != nil {
		return nil, err
	}

	return []Message{
		{Role: RoleSystem, Text: system},
		{Role: RoleUser, Parts: parts},
	}, nil
}

// RequestOptions are the model settings placed in the payload.
type RequestOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// DefaultRequestOptions returns gpt-4o, 4096 tokens, temperature 0.
func DefaultRequestOptions() RequestOptions {
	return RequestOptions{
		Model:       types.DefaultModel,
		MaxTokens:   types.DefaultMaxTokens,
		Temperature: types.DefaultTemperature,
	}
}

// BuildRequestPayload returns the full request for question.
func (b *Builder) BuildRequestPayload(question string, opts RequestOptions) (*Request, error) {
	messages, err := b.BuildMessages(question)
	if err != nil {
		return nil, err
	}
	return &Request{
		Model:       opts.Model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}, nil
}

// systemText renders the prompt, the per-document metadata and, when enabled,
// every page's extracted text. Segments are joined with newlines.
func (b *Builder) systemText() (string, error) {
	parts := []string{b.systemPrompt, metadataHeading}

	for _, e := range b.entries {
		pages, err := e.doc.Pages()
		if err != nil {
			return "", err
		}

		parts = append(parts,
			fmt.Sprintf(documentHeading, e.name),
			fmt.Sprintf(totalPagesFormat, len(pages)),
			fmt.Sprintf(sourceFileFormat, e.doc.FileID()),
		)

		if !b.includeText {
			continue
		}
		parts = append(parts, textHeading)
		for _, p := range pages {
			if p.HasText() {
				parts = append(parts, fmt.Sprintf(pageTextFormat, p.Number, e.name, p.Text))
			} else {
				parts = append(parts, fmt.Sprintf(pageNoTextFormat, p.Number, e.name))
			}
		}
	}

	return strings.Join(parts, "\n"), nil
}

// userParts lists a label and an image for every page of every document,
// then the question.
func (b *Builder) userParts(question string) ([]ContentPart, error) {
	var parts []ContentPart

	for _, e := range b.entries {
		pages, err := e.doc.Pages()
		if err != nil {
			return nil, err
		}
		for _, p := range pages {
			parts = append(parts,
				ContentPart{Type: PartText, Text: fmt.Sprintf(pageImageFormat, p.Number, e.name)},
				ContentPart{Type: PartImageURL, ImageURL: &ImageURL{
					URL:    fmt.Sprintf(dataURLFormat, p.MIMEType, p.ImageBase64),
					Detail: b.detail,
				}},
			)
		}
	}

	parts = append(parts, ContentPart{Type: PartText, Text: fmt.Sprintf(questionFormat, question)})
	return parts, nil
}
