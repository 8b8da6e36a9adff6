package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address" validate:"required"`
	Environment   string `yaml:"environment" validate:"oneof=development staging production"`

	// Catalog source
	CatalogPath  string `yaml:"catalog_path" validate:"required"`
	WatchCatalog bool   `yaml:"watch_catalog"`

	// Storage backend. When UseDynamoDB is false the in-memory store is
	// used and the AWS fields are ignored.
	UseDynamoDB    bool   `yaml:"use_dynamodb"`
	AWSRegion      string `yaml:"aws_region"`
	ProductsTable  string `yaml:"products_table"`
	EdgesTable     string `yaml:"edges_table"`

	// Graph tuning
	PagerankTagCount int `yaml:"pagerank_tag_count" validate:"gt=0"`

	// Layout and rendering
	CanvasWidth     float64 `yaml:"canvas_width" validate:"gt=0"`
	CanvasHeight    float64 `yaml:"canvas_height" validate:"gt=0"`
	FrameIntervalMs int     `yaml:"frame_interval_ms" validate:"gt=0"`

	// Chat provider
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIModel   string `yaml:"openai_model"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	ChatTimeoutS  int    `yaml:"chat_timeout_seconds" validate:"gt=0"`

	// Logging and features
	LogLevel      string `yaml:"log_level" validate:"oneof=debug info warn error"`
	EnableMetrics bool   `yaml:"enable_metrics"`
	EnableCORS    bool   `yaml:"enable_cors"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fromEnv builds an unvalidated config from environment variables
func fromEnv() *Config {
	return &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		CatalogPath:  getEnv("CATALOG_PATH", "data/catalog.csv"),
		WatchCatalog: getEnvBool("WATCH_CATALOG", true),

		UseDynamoDB:   getEnvBool("USE_DYNAMODB", false),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		ProductsTable: getEnv("PRODUCTS_TABLE", "stylegraph-products"),
		EdgesTable:    getEnv("EDGES_TABLE", "stylegraph-edges"),

		PagerankTagCount: getEnvInt("PAGERANK_TAG_COUNT", 10),

		CanvasWidth:     getEnvFloat("CANVAS_WIDTH", 1200),
		CanvasHeight:    getEnvFloat("CANVAS_HEIGHT", 800),
		FrameIntervalMs: getEnvInt("FRAME_INTERVAL_MS", 33),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ChatTimeoutS:  getEnvInt("CHAT_TIMEOUT_SECONDS", 30),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}
}

// Validate checks structural rules plus the cross-field requirements the
// tags cannot express
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.UseDynamoDB && c.ProductsTable == "" {
		return fmt.Errorf("PRODUCTS_TABLE is required when USE_DYNAMODB is set")
	}
	if c.IsProduction() && c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required in production")
	}

	return nil
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

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
