package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/docstruct/doc-structurer/internal/common"
)

const (
	// Default values
	DefaultHTTPAddr       = ":8080"
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1"
	DefaultOpenAIModel    = "gpt-4o"
	DefaultOpenAITimeout  = 60 * time.Second
	DefaultMaxUploadBytes = 32 << 20 // 32MB
)

// Config holds all configuration for the document structurer.
type Config struct {
	// Server configuration
	HTTPAddr       string
	MaxUploadBytes int64

	// LLM configuration
	OpenAI OpenAIConfig
}

// OpenAIConfig holds model-provider configuration. APIKey may be empty at
// startup: the upload form supplies a per-request key and the pipeline
// refuses to call out without one.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:       DefaultHTTPAddr,
		MaxUploadBytes: DefaultMaxUploadBytes,
		OpenAI: OpenAIConfig{
			BaseURL:     DefaultOpenAIBaseURL,
			Model:       DefaultOpenAIModel,
			Temperature: 0.0, // deterministic extraction
			Timeout:     DefaultOpenAITimeout,
		},
	}
}

// Load reads configuration from environment variables (prefix DOCSTRUCT_)
// on top of the defaults. OPENAI_API_KEY is honored as a fallback for the
// credential since that is what the wider tooling expects.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("DOCSTRUCT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", cfg.HTTPAddr)
	v.SetDefault("max_upload_bytes", cfg.MaxUploadBytes)
	v.SetDefault("openai.base_url", cfg.OpenAI.BaseURL)
	v.SetDefault("openai.model", cfg.OpenAI.Model)
	v.SetDefault("openai.temperature", cfg.OpenAI.Temperature)
	v.SetDefault("openai.timeout", cfg.OpenAI.Timeout)
	v.SetDefault("openai.api_key", "")

	cfg.HTTPAddr = v.GetString("http_addr")
	cfg.MaxUploadBytes = v.GetInt64("max_upload_bytes")
	cfg.OpenAI.BaseURL = v.GetString("openai.base_url")
	cfg.OpenAI.Model = v.GetString("openai.model")
	cfg.OpenAI.Temperature = float32(v.GetFloat64("openai.temperature"))
	cfg.OpenAI.Timeout = v.GetDuration("openai.timeout")
	cfg.OpenAI.APIKey = v.GetString("openai.api_key")

	if cfg.OpenAI.APIKey == "" {
		// Fallback to the conventional variable name.
		vv := viper.New()
		vv.AutomaticEnv()
		cfg.OpenAI.APIKey = vv.GetString("OPENAI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, common.WrapError(err, "invalid configuration")
	}
	return cfg, nil
}

// LoadFromFlags parses command line flags on top of Load.
func LoadFromFlags(fs *pflag.FlagSet, args []string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload-bytes", cfg.MaxUploadBytes, "maximum accepted PDF upload size in bytes")
	fs.StringVar(&cfg.OpenAI.Model, "model", cfg.OpenAI.Model, "OpenAI model used for extraction")
	fs.StringVar(&cfg.OpenAI.BaseURL, "base-url", cfg.OpenAI.BaseURL, "OpenAI-compatible API base URL")
	fs.DurationVar(&cfg.OpenAI.Timeout, "timeout", cfg.OpenAI.Timeout, "timeout for the model call")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, common.WrapError(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return common.NewAppError("CONFIG_ERROR", "http addr must not be empty", common.ErrInvalidInput)
	}
	if c.MaxUploadBytes <= 0 {
		return common.NewAppError("CONFIG_ERROR", fmt.Sprintf("max upload bytes must be positive, got %d", c.MaxUploadBytes), common.ErrInvalidInput)
	}
	if c.OpenAI.BaseURL == "" {
		return common.NewAppError("CONFIG_ERROR", "openai base url must not be empty", common.ErrInvalidInput)
	}
	if c.OpenAI.Model == "" {
		return common.NewAppError("CONFIG_ERROR", "openai model must not be empty", common.ErrInvalidInput)
	}
	if c.OpenAI.Timeout <= 0 {
		return common.NewAppError("CONFIG_ERROR", fmt.Sprintf("openai timeout must be positive, got %s", c.OpenAI.Timeout), common.ErrInvalidInput)
	}
	return nil
}
