// Package config loads the settings shared by the report and analysis commands.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	SourceNewsAPI = "newsapi"
	SourceFinnHub = "finnhub"

	DefaultProductHuntEndpoint = "https://api.producthunt.com/v2/api/graphql"
	DefaultGroqBaseURL         = "https://api.groq.com/openai/v1/"
)

var (
	ErrMissingProductHuntToken = errors.New("PRODUCTHUNT_TOKEN not found in environment variables")
	ErrMissingNewsAPIKey       = errors.New("NEWS_API_KEY not found in environment variables")
	ErrMissingFinnHubAPIKey    = errors.New("FINNHUB_API_KEY not found in environment variables")
	ErrMissingLLMAPIKey        = errors.New("llm api key not found in environment variables")
	ErrInvalidPageSize         = errors.New("producthunt.page_size must be at least 1")
	ErrEmptyTopicKeyword       = errors.New("producthunt.topic_keyword is required")
	ErrInvalidDaysBack         = errors.New("news.days_back must be non-negative")
	ErrInvalidMaxArticles      = errors.New("news.max_articles must be at least 1")
	ErrInvalidNewsSource       = errors.New("news.source must be one of: newsapi, finnhub")
	ErrInvalidProvider         = errors.New("llm.provider must be one of: groq, openai, anthropic")
	ErrMissingOutputDir        = errors.New("report.output_dir is required")
	ErrInvalidCacheTTL         = errors.New("cache_ttl_minutes must be non-negative")
	ErrInvalidLogLevel         = errors.New("log_level must be one of: debug, info, warn, error")
)

type Config struct {
	ProductHunt     ProductHuntConfig `yaml:"producthunt"`
	News            NewsConfig        `yaml:"news"`
	LLM             LLMConfig         `yaml:"llm"`
	Report          ReportConfig      `yaml:"report"`
	API             APIConfig         `yaml:"api"`
	DatabaseURL     string            `yaml:"database_url"`
	RedisURL        string            `yaml:"redis_url"`
	CacheTTLMinutes int               `yaml:"cache_ttl_minutes"`
	LogLevel        string            `yaml:"log_level"`
}

type ProductHuntConfig struct {
	Token        string `yaml:"token"`
	Endpoint     string `yaml:"endpoint"`
	PageSize     int    `yaml:"page_size"`
	TopicKeyword string `yaml:"topic_keyword"`
}

type NewsConfig struct {
	Source        string            `yaml:"source"`
	APIKey        string            `yaml:"api_key"`
	FinnHubAPIKey string            `yaml:"finnhub_api_key"`
	DaysBack      int               `yaml:"days_back"`
	MaxArticles   int               `yaml:"max_articles"`
	Competitors   []string          `yaml:"competitors"`
	Tickers       map[string]string `yaml:"tickers"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

type APIConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	ReportSchedule string   `yaml:"report_schedule"`
}

// Defaults returns a Config with every optional value set.
func Defaults() Config {
	return Config{
		ProductHunt: ProductHuntConfig{
			Endpoint:     DefaultProductHuntEndpoint,
			PageSize:     20,
			TopicKeyword: "saas",
		},
		News: NewsConfig{
			Source:      SourceNewsAPI,
			DaysBack:    30,
			MaxArticles: 10,
			Competitors: []string{"Salesforce", "HubSpot", "Zendesk"},
		},
		LLM: LLMConfig{
			Provider: ProviderGroq,
		},
		Report: ReportConfig{
			OutputDir: ".",
		},
		API: APIConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		CacheTTLMinutes: 360,
		LogLevel:        "info",
	}
}

// Load reads .env, then the optional YAML file at path (CONFIG_PATH wins),
// then environment overrides. The result is not validated; callers pick
// ValidateProducts or ValidateNews depending on the pipeline they run.
func Load(path string) (*Config, error) {
	godotenv.Load()

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		path = envPath
	}

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyProviderDefaults()

	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"PRODUCTHUNT_TOKEN": &c.ProductHunt.Token,
		"NEWS_API_KEY":      &c.News.APIKey,
		"FINNHUB_API_KEY":   &c.News.FinnHubAPIKey,
		"LLM_PROVIDER":      &c.LLM.Provider,
		"LLM_MODEL":         &c.LLM.Model,
		"REPORT_OUTPUT_DIR": &c.Report.OutputDir,
		"DATABASE_URL":      &c.DatabaseURL,
		"REDIS_URL":         &c.RedisURL,
		"LOG_LEVEL":         &c.LogLevel,
		"API_ADDR":          &c.API.Addr,
	}
	for key, target := range overrides {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*target = v
		}
	}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		c.API.AllowedOrigins = append(c.API.AllowedOrigins, frontendURL)
	}

	if key := os.Getenv(providerKeyEnv(c.LLM.Provider)); key != "" {
		c.LLM.APIKey = key
	}
}

func providerKeyEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GROQ_API_KEY"
	}
}

func (c *Config) applyProviderDefaults() {
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case ProviderOpenAI:
			c.LLM.Model = "gpt-4o-mini"
		case ProviderAnthropic:
			c.LLM.Model = "claude-haiku-4-5"
		default:
			c.LLM.Model = "llama-3.3-70b-versatile"
		}
	}

	if c.LLM.BaseURL == "" && c.LLM.Provider == ProviderGroq {
		c.LLM.BaseURL = DefaultGroqBaseURL
	}
}

// Validate checks the settings shared by every command.
func (c *Config) Validate() error {
	if c.ProductHunt.PageSize < 1 {
		return ErrInvalidPageSize
	}

	if strings.TrimSpace(c.ProductHunt.TopicKeyword) == "" {
		return ErrEmptyTopicKeyword
	}

	if c.News.DaysBack < 0 {
		return ErrInvalidDaysBack
	}

	if c.News.MaxArticles < 1 {
		return ErrInvalidMaxArticles
	}

	if c.News.Source != SourceNewsAPI && c.News.Source != SourceFinnHub {
		return ErrInvalidNewsSource
	}

	switch c.LLM.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderAnthropic:
	default:
		return ErrInvalidProvider
	}

	if c.Report.OutputDir == "" {
		return ErrMissingOutputDir
	}

	if c.CacheTTLMinutes < 0 {
		return ErrInvalidCacheTTL
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}

// ValidateProducts checks what the product report pipeline needs.
func (c *Config) ValidateProducts() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.ProductHunt.Token == "" {
		return ErrMissingProductHuntToken
	}

	return nil
}

// ValidateNews checks what the competitor news pipeline needs.
func (c *Config) ValidateNews() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.News.Source == SourceFinnHub {
		if c.News.FinnHubAPIKey == "" {
			return ErrMissingFinnHubAPIKey
		}
	} else if c.News.APIKey == "" {
		return ErrMissingNewsAPIKey
	}

	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: set %s", ErrMissingLLMAPIKey, providerKeyEnv(c.LLM.Provider))
	}

	return nil
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// SlogLevel maps log_level to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
