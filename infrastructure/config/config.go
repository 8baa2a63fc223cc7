package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreDynamoDB = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`
	FrontendURL   string `yaml:"frontend_url"`

	// Authentication
	JWTSecret      string `yaml:"jwt_secret"`
	JWTAlgorithm   string `yaml:"jwt_algorithm"`
	JWTExpireHours int    `yaml:"jwt_expire_hours"`

	// Storage
	StoreDriver      string `yaml:"store_driver"`
	AWSRegion        string `yaml:"aws_region"`
	DynamoDBTable    string `yaml:"dynamodb_table"`
	DynamoDBEndpoint string `yaml:"dynamodb_endpoint"`

	// External catalog
	YouTubeAPIKey    string        `yaml:"yt_key"`
	YouTubeBaseURL   string        `yaml:"youtube_base_url"`
	PlaylistCacheTTL time.Duration `yaml:"playlist_cache_ttl"`

	// Chatbot
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	// Enrichment worker
	EnrichTimeout       time.Duration `yaml:"enrich_timeout"`
	EnrichQueueSize     int           `yaml:"enrich_queue_size"`
	EnrichRatePerSecond float64       `yaml:"enrich_rate_per_second"`

	// Feature flags
	EnableEvents        bool   `yaml:"enable_events"`
	EventBusName        string `yaml:"event_bus_name"`
	EnableMetrics       bool   `yaml:"enable_metrics"`
	CloudWatchNamespace string `yaml:"cloudwatch_namespace"`
	EnableTracing       bool   `yaml:"enable_tracing"`
	RateLimitPerMinute  int    `yaml:"rate_limit_per_minute"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ServerAddress:       ":5000",
		Environment:         "development",
		FrontendURL:         "http://localhost:5173",
		JWTAlgorithm:        "HS256",
		JWTExpireHours:      10,
		StoreDriver:         StoreMemory,
		AWSRegion:           "us-east-1",
		DynamoDBTable:       "edutube",
		PlaylistCacheTTL:    10 * time.Minute,
		GeminiModel:         "gemini-2.0-flash",
		EnrichTimeout:       30 * time.Second,
		EnrichQueueSize:     64,
		EnrichRatePerSecond: 2,
		EventBusName:        "edutube-events",
		CloudWatchNamespace: "EduTube",
		RateLimitPerMinute:  300,
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file
// named by CONFIG_FILE if any, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.ServerAddress = ":" + port
	}
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.FrontendURL = getEnv("FRONTEND_URL", c.FrontendURL)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTAlgorithm = getEnv("JWT_ALGORITHM", c.JWTAlgorithm)
	c.JWTExpireHours = getEnvInt("JWT_EXPIRE_HOURS", c.JWTExpireHours)

	c.StoreDriver = getEnv("STORE_DRIVER", c.StoreDriver)
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.DynamoDBTable = getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", c.DynamoDBTable))
	c.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", c.DynamoDBEndpoint)

	c.YouTubeAPIKey = getEnv("YT_KEY", c.YouTubeAPIKey)
	c.YouTubeBaseURL = getEnv("YOUTUBE_BASE_URL", c.YouTubeBaseURL)
	c.PlaylistCacheTTL = getEnvDuration("PLAYLIST_CACHE_TTL", c.PlaylistCacheTTL)

	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)

	c.EnrichTimeout = getEnvDuration("ENRICH_TIMEOUT", c.EnrichTimeout)
	c.EnrichQueueSize = getEnvInt("ENRICH_QUEUE_SIZE", c.EnrichQueueSize)
	c.EnrichRatePerSecond = getEnvFloat("ENRICH_RATE_PER_SECOND", c.EnrichRatePerSecond)

	c.EnableEvents = getEnvBool("ENABLE_EVENTS", c.EnableEvents)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.CloudWatchNamespace = getEnv("CLOUDWATCH_NAMESPACE", c.CloudWatchNamespace)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StoreDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required for the dynamodb store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.JWTAlgorithm != "HS256" {
		return fmt.Errorf("unsupported JWT_ALGORITHM %q", c.JWTAlgorithm)
	}
	if c.JWTExpireHours <= 0 {
		return fmt.Errorf("JWT_EXPIRE_HOURS must be positive")
	}

	if c.IsProduction() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.EnableEvents && c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
	}
	return nil
}

// AllowedOrigins returns the CORS origins listed in FrontendURL.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// JWTExpiry returns the token lifetime.
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpireHours) * time.Hour
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
