// Package config manages application configuration.
package config

// Config represents the application configuration.
type Config struct {
	DefaultProvider string              `yaml:"default_provider"`
	Providers       map[string]Provider `yaml:"providers"`
	Refine          RefineConfig        `yaml:"refine"`
	Dump            DumpConfig          `yaml:"dump"`
	Log             LogConfig           `yaml:"log"`
}

// Provider represents an LLM provider configuration.
type Provider struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	Endpoint  string `yaml:"endpoint,omitempty"` // for Ollama or custom endpoints
}

// RefineConfig controls optional LLM refinement of injected text.
type RefineConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Temperature float64 `yaml:"temperature"`
	Language    string  `yaml:"language"`
	MaxTokens   int     `yaml:"max_tokens"`
	Prompt      string  `yaml:"prompt,omitempty"` // replaces the built-in instruction
}

// DumpConfig holds reader defaults for the dump command.
type DumpConfig struct {
	AssetDir         string `yaml:"asset_dir,omitempty"` // defaults to the IR output directory
	Strict           bool   `yaml:"strict"`
	AllowThemeColors bool   `yaml:"allow_theme_colors"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultProvider: "anthropic",
		Providers: map[string]Provider{
			"openai": {
				APIKey:    "${OPENAI_API_KEY}",
				Model:     "gpt-4o-mini",
				MaxTokens: 1024,
			},
			"anthropic": {
				APIKey:    "${ANTHROPIC_API_KEY}",
				Model:     "claude-sonnet-4-20250514",
				MaxTokens: 1024,
			},
			"gemini": {
				APIKey:    "${GOOGLE_API_KEY}",
				Model:     "gemini-2.0-flash",
				MaxTokens: 1024,
			},
			"ollama": {
				Endpoint:  "http://localhost:11434",
				Model:     "llama3.2",
				MaxTokens: 1024,
			},
		},
		Refine: RefineConfig{
			Temperature: 0.3,
			Language:    "ko",
			MaxTokens:   1024,
		},
		Dump: DumpConfig{
			Strict: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// GetProvider returns the provider configuration by name.
func (c *Config) GetProvider(name string) (*Provider, bool) {
	p, ok := c.Providers[name]
	if !ok {
		return nil, false
	}
	return &p, true
}

// GetDefaultProvider returns the default provider configuration.
func (c *Config) GetDefaultProvider() (*Provider, bool) {
	return c.GetProvider(c.DefaultProvider)
}
