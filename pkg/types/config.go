package types

// ImageDetail is the detail level requested for each page image.
type ImageDetail string

const (
	DetailLow  ImageDetail = "low"
	DetailHigh ImageDetail = "high"
	DetailAuto ImageDetail = "auto"
)

// Valid reports whether d is one of the levels accepted by vision models.
func (d ImageDetail) Valid() bool {
	switch d {
	case DetailLow, DetailHigh, DetailAuto:
		return true
	}
	return false
}

// Provider selects the chat-completion backend.
type Provider string

const (
	// ProviderOpenAI covers OpenAI and any OpenAI-compatible endpoint
	// (OpenRouter, local gateways) reached through BaseURL.
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Defaults shared by the CLI and the library.
const (
	DefaultModel       = "gpt-4o"
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.0
	DefaultDPI         = 150
	DefaultImageFormat = "PNG"
	DefaultDetail      = DetailHigh
)

// RenderConfig holds the page rasterization settings.
type RenderConfig struct {
	// DPI is the resolution used when rendering pages (default 150).
	DPI int `json:"dpi" yaml:"dpi"`

	// ImageFormat is PNG or JPEG (default PNG).
	ImageFormat string `json:"image_format" yaml:"image_format"`
}

// AIConfig holds the connection settings for the chat-completion API.
type AIConfig struct {
	// Provider picks the SDK used to talk to the endpoint (default openai).
	Provider Provider `json:"provider" yaml:"provider"`

	// APIKey is the authentication key. The library never reads it from the
	// environment; callers supply it.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint, e.g.
	// "https://openrouter.ai/api/v1". Empty means the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the vision-capable model identifier (default gpt-4o).
	Model string `json:"model" yaml:"model"`

	// MaxTokens caps the response length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature (default 0.0).
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// PromptConfig controls how the context is assembled.
type PromptConfig struct {
	// SystemPrompt replaces the built-in citation prompt when non-empty.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`

	// ExcludeTextLayer leaves each page's extracted text out of the system
	// message. The zero value includes it.
	ExcludeTextLayer bool `json:"exclude_text_layer,omitempty" yaml:"exclude_text_layer,omitempty"`

	// ImageDetail is sent with every page image (default high).
	ImageDetail ImageDetail `json:"image_detail" yaml:"image_detail"`
}

// QueryConfig groups everything the query engine needs.
type QueryConfig struct {
	AI     AIConfig     `json:"ai" yaml:"ai"`
	Prompt PromptConfig `json:"prompt" yaml:"prompt"`
	Render RenderConfig `json:"render" yaml:"render"`

	// Verbose prints the request payload, with image data truncated,
	// before it is sent.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// DefaultQueryConfig returns the settings used when nothing is configured.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		AI: AIConfig{
			Provider:    ProviderOpenAI,
			Model:       DefaultModel,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
		Prompt: PromptConfig{
			ImageDetail: DefaultDetail,
		},
		Render: RenderConfig{
			DPI:         DefaultDPI,
			ImageFormat: DefaultImageFormat,
		},
	}
}

// WithDefaults fills zero-valued fields from DefaultQueryConfig. Boolean
// fields are left as given; each is false by default.
func (c QueryConfig) WithDefaults() QueryConfig {
	d := DefaultQueryConfig()
	if c.AI.Provider == "" {
		c.AI.Provider = d.AI.Provider
	}
	if c.AI.Model == "" {
		c.AI.Model = d.AI.Model
	}
	if c.AI.MaxTokens <= 0 {
		c.AI.MaxTokens = d.AI.MaxTokens
	}
	if c.Prompt.ImageDetail == "" {
		c.Prompt.ImageDetail = d.Prompt.ImageDetail
	}
	if c.Render.DPI <= 0 {
		c.Render.DPI = d.Render.DPI
	}
	if c.Render.ImageFormat == "" {
		c.Render.ImageFormat = d.Render.ImageFormat
	}
	return c
}
