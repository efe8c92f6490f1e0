package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// LLM backend configuration
	LLM LLMConfig

	// OpenAI configuration
	OpenAI OpenAIConfig

	// AWS Bedrock configuration
	Bedrock BedrockConfig

	// Analysis gateway configuration
	Analysis AnalysisConfig

	// Market simulation configuration
	Market MarketConfig

	// HTTP configuration
	HTTP HTTPConfig

	// Site metadata
	Site SiteConfig
}

// LLMConfig selects the generative backend
type LLMConfig struct {
	Backend string // openai or bedrock
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey      string
	Model       string
	SearchModel string // search-enabled model variant used for web-grounded prompts
	MaxTokens   int
}

// BedrockConfig holds AWS Bedrock configuration
type BedrockConfig struct {
	Region    string
	ModelID   string
	MaxTokens int
}

// AnalysisConfig holds gateway prompt configuration
type AnalysisConfig struct {
	Language              string // output language requested from the backend
	ReportCurrency        string // target currency for financial normalization
	ReportUnit            string // reporting unit for monetary values
	NewsItemCount         int    // number of issuer news items requested
	NewsMinLineRunes      int    // reply lines at or below this length are discarded
	TimeoutSeconds        int
	HealthCacheTTLSeconds int
}

// MarketConfig holds watchlist simulation configuration
type MarketConfig struct {
	DriftIntervalSeconds int
	Seed                 int64 // 0 means time-seeded
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr               string
	CORSAllowedOrigins string
	GatewayBaseURL     string // base URL the in-process client uses to reach the gateway
}

// SiteConfig holds site metadata loaded once at startup
type SiteConfig struct {
	MetadataPath string
	Title        string
	Description  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		LLM: LLMConfig{
			Backend: getEnvString("LLM_BACKEND", "openai"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       getEnvString("OPENAI_MODEL", "gpt-4o"),
			SearchModel: getEnvString("OPENAI_SEARCH_MODEL", "gpt-4o-search-preview"),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 4096),
		},
		Bedrock: BedrockConfig{
			Region:    os.Getenv("AWS_REGION"),
			ModelID:   os.Getenv("BEDROCK_MODEL_ID"),
			MaxTokens: getEnvInt("BEDROCK_MAX_TOKENS", 4096),
		},
		Analysis: AnalysisConfig{
			Language:              getEnvString("ANALYSIS_LANGUAGE", "Traditional Chinese"),
			ReportCurrency:        getEnvString("ANALYSIS_REPORT_CURRENCY", "HKD"),
			ReportUnit:            getEnvString("ANALYSIS_REPORT_UNIT", "millions"),
			NewsItemCount:         getEnvInt("ANALYSIS_NEWS_ITEM_COUNT", 3),
			NewsMinLineRunes:      getEnvInt("ANALYSIS_NEWS_MIN_LINE_RUNES", 10),
			TimeoutSeconds:        getEnvInt("ANALYSIS_TIMEOUT_SECONDS", 30),
			HealthCacheTTLSeconds: getEnvInt("ANALYSIS_HEALTH_CACHE_TTL_SECONDS", 30),
		},
		Market: MarketConfig{
			DriftIntervalSeconds: getEnvInt("MARKET_DRIFT_INTERVAL_SECONDS", 8),
			Seed:                 getEnvInt64("MARKET_SEED", 0),
		},
		HTTP: HTTPConfig{
			Addr:               getEnvString("HTTP_ADDR", ":8080"),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
			GatewayBaseURL:     getEnvString("GATEWAY_BASE_URL", "http://localhost:8080"),
		},
		Site: SiteConfig{
			MetadataPath: getEnvString("SITE_METADATA_PATH", "metadata.json"),
		},
	}

	cfg.Site.Title, cfg.Site.Description = loadSiteMetadata(cfg.Site.MetadataPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.LLM.Backend {
	case "openai", "bedrock":
	default:
		return fmt.Errorf("LLM_BACKEND must be openai or bedrock, got %q", c.LLM.Backend)
	}

	if c.Analysis.NewsItemCount <= 0 {
		return fmt.Errorf("ANALYSIS_NEWS_ITEM_COUNT must be positive, got %d", c.Analysis.NewsItemCount)
	}
	if c.Analysis.TimeoutSeconds <= 0 {
		return fmt.Errorf("ANALYSIS_TIMEOUT_SECONDS must be positive, got %d", c.Analysis.TimeoutSeconds)
	}
	if c.Market.DriftIntervalSeconds <= 0 {
		return fmt.Errorf("MARKET_DRIFT_INTERVAL_SECONDS must be positive, got %d", c.Market.DriftIntervalSeconds)
	}
	if c.OpenAI.MaxTokens <= 0 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be positive, got %d", c.OpenAI.MaxTokens)
	}
	if c.Bedrock.MaxTokens <= 0 {
		return fmt.Errorf("BEDROCK_MAX_TOKENS must be positive, got %d", c.Bedrock.MaxTokens)
	}
	if c.Analysis.NewsMinLineRunes < 0 {
		return fmt.Errorf("ANALYSIS_NEWS_MIN_LINE_RUNES must be non-negative, got %d", c.Analysis.NewsMinLineRunes)
	}
	if c.Analysis.HealthCacheTTLSeconds < 0 {
		return fmt.Errorf("ANALYSIS_HEALTH_CACHE_TTL_SECONDS must be non-negative, got %d", c.Analysis.HealthCacheTTLSeconds)
	}

	return nil
}

// HasOpenAI returns true if OpenAI configuration is available
func (c *Config) HasOpenAI() bool {
	return c.OpenAI.APIKey != ""
}

// HasBedrock returns true if Bedrock configuration is available
func (c *Config) HasBedrock() bool {
	return c.Bedrock.Region != "" && c.Bedrock.ModelID != ""
}

// siteMetadata is the shape of the optional metadata file
type siteMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Hardcoded defaults used when the metadata file is missing or malformed
const (
	DefaultSiteTitle       = "Bond Terminal"
	DefaultSiteDescription = "Fixed-income watchlist with AI-assisted analysis"
)

// loadSiteMetadata reads the optional site metadata file once. Any read or
// parse failure falls back to the defaults.
func loadSiteMetadata(path string) (title, description string) {
	title = DefaultSiteTitle
	description = DefaultSiteDescription

	data, err := os.ReadFile(path)
	if err != nil {
		return title, description
	}

	var meta siteMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return title, description
	}

	if meta.Title != "" {
		title = meta.Title
	}
	if meta.Description != "" {
		description = meta.Description
	}
	return title, description
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// getEnvInt returns the parsed value whenever the variable parses as an
// integer; range checks belong to Validate so a misconfigured zero is
// rejected at startup instead of silently coerced to the default.
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Backend: "openai",
		},
		OpenAI: OpenAIConfig{
			APIKey:      "",
			Model:       "gpt-4o",
			SearchModel: "gpt-4o-search-preview",
			MaxTokens:   4096,
		},
		Bedrock: BedrockConfig{
			MaxTokens: 4096,
		},
		Analysis: AnalysisConfig{
			Language:              "Traditional Chinese",
			ReportCurrency:        "HKD",
			ReportUnit:            "millions",
			NewsItemCount:         3,
			NewsMinLineRunes:      10,
			TimeoutSeconds:        30,
			HealthCacheTTLSeconds: 30,
		},
		Market: MarketConfig{
			DriftIntervalSeconds: 8,
			Seed:                 1,
		},
		HTTP: HTTPConfig{
			Addr:               ":8080",
			CORSAllowedOrigins: "*",
			GatewayBaseURL:     "http://localhost:8080",
		},
		Site: SiteConfig{
			MetadataPath: "metadata.json",
			Title:        DefaultSiteTitle,
			Description:  DefaultSiteDescription,
		},
	}
}
