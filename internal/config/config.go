// Package config loads service configuration from defaults, an optional config
// file and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/internship-matcher/internal/analysis"
	"github.com/jonathan/internship-matcher/internal/extraction"
	"github.com/jonathan/internship-matcher/internal/llm"
	"github.com/jonathan/internship-matcher/internal/pipeline"
	"github.com/jonathan/internship-matcher/internal/ranking"
	"github.com/jonathan/internship-matcher/internal/server/ratelimit"
	"github.com/jonathan/internship-matcher/internal/storage"
)

// EnvPrefix prefixes every environment override, e.g. MATCH_LLM_PROVIDER.
const EnvPrefix = "MATCH"

// Config is the complete service configuration.
type Config struct {
	LLM         LLMConfig        `mapstructure:"llm"`
	Extraction  ExtractionConfig `mapstructure:"extraction"`
	Scoring     ScoringConfig    `mapstructure:"scoring"`
	Analysis    AnalysisConfig   `mapstructure:"analysis"`
	Retry       RetryConfig      `mapstructure:"retry"`
	DatabaseURL string           `mapstructure:"database_url"`
	Storage     StorageConfig    `mapstructure:"storage"`
	Queue       QueueConfig      `mapstructure:"queue"`
	Server      ServerConfig     `mapstructure:"server"`
}

// LLMConfig selects and authenticates the generative provider.
type LLMConfig struct {
	Provider string        `mapstructure:"provider"` // gemini, groq or openai
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"` // overrides the standard-tier model
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ExtractionConfig holds document limits.
type ExtractionConfig struct {
	MaxBytes  int  `mapstructure:"max_bytes"`
	MinBytes  int  `mapstructure:"min_bytes"`
	MinChars  int  `mapstructure:"min_chars"`
	AllowDOCX bool `mapstructure:"allow_docx"`
}

// ScoringConfig holds the match scorer settings.
type ScoringConfig struct {
	Weights       ranking.Weights   `mapstructure:"weights"`
	MinMatchScore int               `mapstructure:"min_match_score"`
	Synonyms      map[string]string `mapstructure:"synonyms"`
}

// AnalysisConfig bounds skills-gap analysis throughput.
type AnalysisConfig struct {
	Concurrency       int `mapstructure:"concurrency"`
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	TopK              int `mapstructure:"top_k"`
}

// RetryConfig bounds retries of transient generation failures.
type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Backoff  time.Duration `mapstructure:"backoff"`
}

// StorageConfig locates resume objects in S3 or Cloudflare R2.
type StorageConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	R2AccountID     string `mapstructure:"r2_account_id"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	LocalDir        string `mapstructure:"local_dir"`
}

// QueueConfig configures the AMQP worker.
type QueueConfig struct {
	URL      string `mapstructure:"url"`
	Name     string `mapstructure:"name"`
	Exchange string `mapstructure:"exchange"`
	Workers  int    `mapstructure:"workers"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port      int             `mapstructure:"port"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig sets per-client request quotas. Whitelist and Blacklist
// are comma-separated client IPs.
type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DefaultLimit  int           `mapstructure:"default_limit"`
	DefaultWindow time.Duration `mapstructure:"default_window"`
	Whitelist     string        `mapstructure:"whitelist"`
	Blacklist     string        `mapstructure:"blacklist"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", string(llm.ProviderGemini))
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", llm.DefaultTimeout)

	v.SetDefault("extraction.max_bytes", extraction.DefaultMaxBytes)
	v.SetDefault("extraction.min_bytes", extraction.DefaultMinBytes)
	v.SetDefault("extraction.min_chars", extraction.DefaultMinChars)
	v.SetDefault("extraction.allow_docx", false)

	weights := ranking.DefaultWeights()
	v.SetDefault("scoring.weights.skills", weights.Skills)
	v.SetDefault("scoring.weights.experience", weights.Experience)
	v.SetDefault("scoring.weights.education", weights.Education)
	v.SetDefault("scoring.weights.eligibility", weights.Eligibility)
	v.SetDefault("scoring.min_match_score", pipeline.DefaultMinMatchScore)
	v.SetDefault("scoring.synonyms", map[string]string{})

	v.SetDefault("analysis.concurrency", analysis.DefaultConcurrency)
	v.SetDefault("analysis.requests_per_minute", analysis.DefaultRequestsPerMinute)
	v.SetDefault("analysis.top_k", 5)

	retry := pipeline.DefaultRetryPolicy()
	v.SetDefault("retry.attempts", retry.Attempts)
	v.SetDefault("retry.backoff", retry.Backoff)

	v.SetDefault("database_url", "")

	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.r2_account_id", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.local_dir", "")

	v.SetDefault("queue.url", "")
	v.SetDefault("queue.name", "match_requests")
	v.SetDefault("queue.exchange", "match_updates")
	v.SetDefault("queue.workers", 3)

	v.SetDefault("server.port", 8080)
	rl := ratelimit.DefaultConfig()
	v.SetDefault("server.rate_limit.enabled", rl.Enabled)
	v.SetDefault("server.rate_limit.default_limit", rl.DefaultLimit)
	v.SetDefault("server.rate_limit.default_window", rl.DefaultWindow)
	v.SetDefault("server.rate_limit.whitelist", "")
	v.SetDefault("server.rate_limit.blacklist", "")
}

// bindCredentials lets the conventional unprefixed variables satisfy credential keys
func bindCredentials(v *viper.Viper) error {
	bindings := map[string][]string{
		"llm.api_key":               {"MATCH_LLM_API_KEY", "GEMINI_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY"},
		"database_url":              {"MATCH_DATABASE_URL", "DATABASE_URL"},
		"queue.url":                 {"MATCH_QUEUE_URL", "RABBITMQ_URL"},
		"storage.bucket":            {"MATCH_STORAGE_BUCKET", "R2_BUCKET"},
		"storage.r2_account_id":     {"MATCH_STORAGE_R2_ACCOUNT_ID", "R2_ACCOUNT_ID"},
		"storage.access_key_id":     {"MATCH_STORAGE_ACCESS_KEY_ID", "R2_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"},
		"storage.secret_access_key": {"MATCH_STORAGE_SECRET_ACCESS_KEY", "R2_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"},
		"server.port":               {"MATCH_SERVER_PORT", "PORT"},
		"server.rate_limit.enabled": {"MATCH_SERVER_RATE_LIMIT_ENABLED", "RATE_LIMIT_ENABLED"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// Load builds the configuration. path is an optional YAML, JSON or TOML file;
// environment variables override both the file and the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindCredentials(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Credentials are not required here; commands that need them check on use.
func (c *Config) Validate() error {
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderGemini, llm.ProviderGroq, llm.ProviderOpenAI:
	default:
		return fmt.Errorf("config error: unknown llm.provider %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config error: 'llm.timeout' must be positive")
	}

	if c.Extraction.MinBytes < 0 || c.Extraction.MinChars < 0 {
		return fmt.Errorf("config error: extraction minimums must be non-negative")
	}
	if c.Extraction.MaxBytes <= c.Extraction.MinBytes {
		return fmt.Errorf("config error: 'extraction.max_bytes' must exceed 'extraction.min_bytes'")
	}

	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Scoring.MinMatchScore < 0 || c.Scoring.MinMatchScore > 100 {
		return fmt.Errorf("config error: 'scoring.min_match_score' must be between 0 and 100")
	}

	if c.Analysis.Concurrency < 1 {
		return fmt.Errorf("config error: 'analysis.concurrency' must be at least 1")
	}
	if c.Analysis.RequestsPerMinute < 0 || c.Analysis.TopK < 0 {
		return fmt.Errorf("config error: analysis limits must be non-negative")
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("config error: 'retry.attempts' must be at least 1")
	}
	if c.Queue.Workers < 1 {
		return fmt.Errorf("config error: 'queue.workers' must be at least 1")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535")
	}
	return nil
}

// ExtractionOptions converts the extraction settings.
func (c *Config) ExtractionOptions() extraction.Config {
	return extraction.Config{
		MaxBytes:  c.Extraction.MaxBytes,
		MinBytes:  c.Extraction.MinBytes,
		MinChars:  c.Extraction.MinChars,
		AllowDOCX: c.Extraction.AllowDOCX,
	}
}

// LLMOptions returns the provider configuration with any model override applied.
func (c *Config) LLMOptions() *llm.Config {
	cfg := llm.ConfigForProvider(c.LLM.Provider)
	if c.LLM.Model != "" {
		cfg = cfg.WithModel(llm.TierStandard, c.LLM.Model)
	}
	if c.LLM.BaseURL != "" {
		cfg.BaseURL = c.LLM.BaseURL
	}
	return cfg
}

// RetryPolicy converts the retry settings.
func (c *Config) RetryPolicy() pipeline.RetryPolicy {
	return pipeline.RetryPolicy{Attempts: c.Retry.Attempts, Backoff: c.Retry.Backoff}
}

// StorageOptions converts the document source settings.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Bucket:          c.Storage.Bucket,
		Region:          c.Storage.Region,
		Endpoint:        c.Storage.Endpoint,
		R2AccountID:     c.Storage.R2AccountID,
		AccessKeyID:     c.Storage.AccessKeyID,
		SecretAccessKey: c.Storage.SecretAccessKey,
		LocalDir:        c.Storage.LocalDir,
	}
}

// RateLimitOptions converts the rate limit settings, keeping the default
// per-endpoint quotas.
func (c *Config) RateLimitOptions() *ratelimit.Config {
	rl := ratelimit.DefaultConfig()
	rl.Enabled = c.Server.RateLimit.Enabled
	rl.DefaultLimit = c.Server.RateLimit.DefaultLimit
	rl.DefaultWindow = c.Server.RateLimit.DefaultWindow
	rl.Whitelist = ratelimit.ParseList(c.Server.RateLimit.Whitelist)
	rl.Blacklist = ratelimit.ParseList(c.Server.RateLimit.Blacklist)
	return rl
}
