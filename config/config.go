package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/shopscout/backend/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Matching  MatchingConfig
	Retriever RetrieverConfig
	Vision    VisionConfig
	Store     StoreConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// MatchingConfig holds similarity scoring and ranking configuration.
// Weights and thresholds are deliberately tunable rather than constants;
// the defaults follow the title/price/image = 0.4/0.1/0.3 split.
type MatchingConfig struct {
	Weights            domain.ScoreWeights `mapstructure:"weights"`
	Threshold          float64             `mapstructure:"threshold"`
	PrefilterFloor     float64             `mapstructure:"prefilter_floor"`
	TopK               int                 `mapstructure:"top_k"`
	ImageConcurrency   int                 `mapstructure:"image_concurrency"`
	EnableDebugLogging bool                `mapstructure:"enable_debug_logging"`
}

// RetrieverConfig holds candidate retrieval configuration
type RetrieverConfig struct {
	ExtractorURL     string              `mapstructure:"extractor_url"`
	MaxRetries       int                 `mapstructure:"max_retries"`
	RetryDelay       time.Duration       `mapstructure:"retry_delay"`
	SettleDelay      time.Duration       `mapstructure:"settle_delay"`
	PerSiteLimit     int                 `mapstructure:"per_site_limit"`
	SiteConcurrency  int                 `mapstructure:"site_concurrency"`
	RequestsPerSec   float64             `mapstructure:"requests_per_sec"`
	Sites            []domain.SiteConfig `mapstructure:"sites"`
}

// VisionConfig holds image similarity configuration
type VisionConfig struct {
	Strategy      string        `mapstructure:"strategy"` // "phash" or "embedding"
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	HashCacheTTL  time.Duration `mapstructure:"hash_cache_ttl"`
	HashCacheSize int           `mapstructure:"hash_cache_size"`
	EmbeddingURL  string        `mapstructure:"embedding_url"`
	EmbeddingKey  string        `mapstructure:"embedding_key"`
}

// StoreConfig holds recent-products store configuration
type StoreConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopscout/")

	// Environment variable settings
	v.SetEnvPrefix("SHOPSCOUT")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})
	v.SetDefault("server.request_timeout", "30s")

	// Matching defaults
	v.SetDefault("matching.weights.title", 0.4)
	v.SetDefault("matching.weights.price", 0.1)
	v.SetDefault("matching.weights.image", 0.3)
	v.SetDefault("matching.threshold", 0.3)
	v.SetDefault("matching.prefilter_floor", 0.2)
	v.SetDefault("matching.top_k", 6)
	v.SetDefault("matching.image_concurrency", 4)
	v.SetDefault("matching.enable_debug_logging", false)

	// Retriever defaults
	v.SetDefault("retriever.max_retries", 3)
	v.SetDefault("retriever.retry_delay", "2s")
	v.SetDefault("retriever.settle_delay", "5s")
	v.SetDefault("retriever.per_site_limit", 10)
	v.SetDefault("retriever.site_concurrency", 3)
	v.SetDefault("retriever.requests_per_sec", 1.0)
	v.SetDefault("retriever.sites", defaultSites())

	// Vision defaults
	v.SetDefault("vision.strategy", "phash")
	v.SetDefault("vision.fetch_timeout", "10s")
	v.SetDefault("vision.hash_cache_ttl", "24h")
	v.SetDefault("vision.hash_cache_size", 512)

	// Store defaults
	v.SetDefault("store.capacity", 50)
}

// defaultSites is the built-in shopping site table. Each entry is a data
// record; adding a site means adding an entry here or in config.yaml.
func defaultSites() []map[string]interface{} {
	return []map[string]interface{}{
		{"domain": "amazon.in", "search_url": "https://www.amazon.in/s?k=", "result_limit": 10},
		{"domain": "flipkart.com", "search_url": "https://www.flipkart.com/search?q=", "result_limit": 10},
		{"domain": "myntra.com", "search_url": "https://www.myntra.com/search?q=", "result_limit": 10},
		{"domain": "ajio.com", "search_url": "https://www.ajio.com/search/?text=", "result_limit": 10},
		{"domain": "snapdeal.com", "search_url": "https://www.snapdeal.com/search?keyword=", "result_limit": 10},
	}
}

// validate validates the configuration
func validate(config *Config) error {
	w := config.Matching.Weights
	if w.Title < 0 || w.Price < 0 || w.Image < 0 {
		return fmt.Errorf("matching weights must be non-negative, got %+v", w)
	}
	if w.Title+w.Price+w.Image == 0 {
		return fmt.Errorf("at least one matching weight must be positive")
	}

	if config.Matching.Threshold < 0 || config.Matching.Threshold > 1 {
		return fmt.Errorf("matching threshold must be in [0,1], got %v", config.Matching.Threshold)
	}

	if config.Matching.TopK <= 0 {
		return fmt.Errorf("matching top_k must be positive, got %d", config.Matching.TopK)
	}

	if config.Vision.Strategy != "phash" && config.Vision.Strategy != "embedding" {
		return fmt.Errorf("vision strategy must be 'phash' or 'embedding', got: %s", config.Vision.Strategy)
	}

	if config.Vision.Strategy == "embedding" && config.Vision.EmbeddingURL == "" {
		return fmt.Errorf("embedding URL is required when vision strategy is 'embedding' (set SHOPSCOUT_VISION_EMBEDDING_URL)")
	}

	if config.Retriever.MaxRetries < 0 {
		return fmt.Errorf("retriever max_retries must not be negative, got %d", config.Retriever.MaxRetries)
	}

	for _, site := range config.Retriever.Sites {
		if site.Domain == "" || site.SearchURL == "" {
			return fmt.Errorf("site entries require domain and search_url, got %+v", site)
		}
	}

	if config.Store.Capacity <= 0 {
		return fmt.Errorf("store capacity must be positive, got %d", config.Store.Capacity)
	}

	return nil
}
