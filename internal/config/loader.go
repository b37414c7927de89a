package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = ".pptxinject"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"
	// EnvConfigPath overrides the configuration file location.
	EnvConfigPath = "PPTXINJECT_CONFIG"
	// EnvLogLevel overrides log.level.
	EnvLogLevel = "PPTXINJECT_LOG_LEVEL"
	// EnvProvider overrides default_provider.
	EnvProvider = "PPTXINJECT_PROVIDER"
	// EnvRefine enables refinement for every binding marked refine.
	EnvRefine = "PPTXINJECT_LLM"
)

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Loader handles configuration loading and saving.
type Loader struct {
	configDir  string
	configPath string
}

// NewLoader creates a loader for ~/.pptxinject/config.yaml, or for the path in
// PPTXINJECT_CONFIG when set.
func NewLoader() (*Loader, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return NewLoaderWithPath(p), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ConfigDirName)
	return &Loader{
		configDir:  configDir,
		configPath: filepath.Join(configDir, ConfigFileName),
	}, nil
}

// NewLoaderWithPath creates a loader with a custom config path.
func NewLoaderWithPath(configPath string) *Loader {
	return &Loader{
		configDir:  filepath.Dir(configPath),
		configPath: configPath,
	}
}

// ConfigPath returns the configuration file path.
func (l *Loader) ConfigPath() string {
	return l.configPath
}

// Load reads the configuration file with ${VAR} references expanded and the
// PPTXINJECT_* overrides applied. Sections missing from the file keep their
// defaults.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.read(true)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadRaw reads the configuration without expanding environment variables.
func (l *Loader) LoadRaw() (*Config, error) {
	return l.read(false)
}

func (l *Loader) read(expand bool) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if expand {
		data = []byte(expandEnvVars(string(data)))
	}

	// the file's provider table replaces the defaults instead of merging into them
	cfg.Providers = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Providers == nil {
		cfg.Providers = DefaultConfig().Providers
	}
	return cfg, nil
}

// Save writes the configuration to the file.
func (l *Loader) Save(cfg *Config) error {
	if err := os.MkdirAll(l.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// api keys may be stored inline
	if err := os.WriteFile(l.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists checks if the configuration file exists.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.configPath)
	return err == nil
}

// Init creates a default configuration file.
func (l *Loader) Init() error {
	if l.Exists() {
		return fmt.Errorf("config file already exists: %s", l.configPath)
	}
	return l.Save(DefaultConfig())
}

// ApplyEnv applies the PPTXINJECT_* environment overrides.
func (c *Config) ApplyEnv() {
	c.Log.Level = GetEnvOrDefault(EnvLogLevel, c.Log.Level)
	c.DefaultProvider = GetEnvOrDefault(EnvProvider, c.DefaultProvider)
	if GetEnvBool(EnvRefine) {
		c.Refine.Enabled = true
	}
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !oneOf(strings.ToLower(c.Log.Level), logLevels) {
		return fmt.Errorf("invalid log.level %q (expected one of %s)", c.Log.Level, strings.Join(logLevels, ", "))
	}
	if !oneOf(strings.ToLower(c.Log.Format), logFormats) {
		return fmt.Errorf("invalid log.format %q (expected one of %s)", c.Log.Format, strings.Join(logFormats, ", "))
	}
	if c.Refine.Temperature < 0 || c.Refine.Temperature > 2 {
		return fmt.Errorf("invalid refine.temperature %v (expected 0 to 2)", c.Refine.Temperature)
	}
	return nil
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Set assigns a dotted key such as "refine.temperature" or
// "providers.openai.model".
func (c *Config) Set(key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) == 3 && parts[0] == "providers" {
		return c.setProvider(parts[1], parts[2], value)
	}

	var err error
	switch key {
	case "default_provider":
		c.DefaultProvider = value
	case "refine.enabled":
		c.Refine.Enabled, err = strconv.ParseBool(value)
	case "refine.temperature":
		c.Refine.Temperature, err = strconv.ParseFloat(value, 64)
	case "refine.language":
		c.Refine.Language = value
	case "refine.max_tokens":
		c.Refine.MaxTokens, err = strconv.Atoi(value)
	case "refine.prompt":
		c.Refine.Prompt = value
	case "dump.asset_dir":
		c.Dump.AssetDir = value
	case "dump.strict":
		c.Dump.Strict, err = strconv.ParseBool(value)
	case "dump.allow_theme_colors":
		c.Dump.AllowThemeColors, err = strconv.ParseBool(value)
	case "log.level":
		c.Log.Level = value
	case "log.format":
		c.Log.Format = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return c.Validate()
}

func (c *Config) setProvider(name, field, value string) error {
	if c.Providers == nil {
		c.Providers = make(map[string]Provider)
	}
	p := c.Providers[name]
	switch field {
	case "api_key":
		p.APIKey = value
	case "model":
		p.Model = value
	case "endpoint":
		p.Endpoint = value
	case "max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for providers.%s.max_tokens: %w", name, err)
		}
		p.MaxTokens = n
	default:
		return fmt.Errorf("unknown provider field: %s", field)
	}
	c.Providers[name] = p
	return nil
}

// expandEnvVars replaces ${VAR_NAME} with environment variable values. Unset
// variables expand to the empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool returns true if the environment variable is set to "true", "1" or "yes".
func GetEnvBool(key string) bool {
	value := strings.ToLower(os.Getenv(key))
	return value == "true" || value == "1" || value == "yes"
}
