// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared between the pdfctx
// library packages and the CLI.
package types

// FinishLength is the finish reason reported when generation stopped at the
// token limit.
const FinishLength = "length"

// FinishUnknown replaces a finish reason the provider did not report.
const FinishUnknown = "unknown"

// Usage holds the token counts reported for one completion.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens" yaml:"total_tokens"`
}

// QueryResult is the normalized answer returned by the query engine.
type QueryResult struct {
	// Answer is the model's message content, empty when the provider sent none.
	Answer string `json:"answer" yaml:"answer"`

	// Model is the model name reported by the provider.
	Model string `json:"model" yaml:"model"`

	Usage Usage `json:"usage" yaml:"usage"`

	// FinishReason is the provider's stop tag in the OpenAI vocabulary
	// ("stop", "length", ...), or FinishUnknown.
	FinishReason string `json:"finish_reason" yaml:"finish_reason"`

	// Truncated mirrors IsTruncated so it is present in serialized output.
	Truncated bool `json:"is_truncated" yaml:"is_truncated"`
}

// NewQueryResult builds a QueryResult and derives the truncation flag.
func NewQueryResult(answer, model string, usage Usage, finishReason string) QueryResult {
	if finishReason == "" {
		finishReason = FinishUnknown
	}
	return QueryResult{
		Answer:       answer,
		Model:        model,
		Usage:        usage,
		FinishReason: finishReason,
		Truncated:    finishReason == FinishLength,
	}
}

// IsTruncated reports whether the answer was cut off by the token limit.
func (r QueryResult) IsTruncated() bool {
	return r.FinishReason == FinishLength
}
