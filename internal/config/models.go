package config

import (
	"fmt"
	"time"
)

// ClassifierConfig selects and tunes the scoring model
type ClassifierConfig struct {
	Kind      string
	ModelPath string
	Dimension int
	Watch     bool
	Timeout   time.Duration
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// StoreConfig represents the URL and history store configuration
type StoreConfig struct {
	Type          string
	JSONDir       string
	SQLitePath    string
	MySQLDSN      string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Timeout       time.Duration
	QueueSize     int
}

// EventsConfig represents the analysis event publisher configuration
type EventsConfig struct {
	Enabled    bool
	AMQPURL    string
	Exchange   string
	RoutingKey string
}

// ServerConfig represents the HTTP daemon configuration
type ServerConfig struct {
	ListenAddress string
	MaxBodyBytes  int64
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() (ClassifierConfig, error) {
	timeout, err := c.GetDuration("classifier.timeout")
	if err != nil {
		return ClassifierConfig{}, fmt.Errorf("invalid classifier.timeout: %w", err)
	}
	return ClassifierConfig{
		Kind:      c.GetString("classifier.kind"),
		ModelPath: c.GetString("classifier.model_path"),
		Dimension: c.GetInt("classifier.dimension"),
		Watch:     c.GetBool("classifier.watch"),
		Timeout:   timeout,
	}, nil
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetStore returns the store configuration
func (c *Config) GetStore() (StoreConfig, error) {
	timeout, err := c.GetDuration("store.timeout")
	if err != nil {
		return StoreConfig{}, fmt.Errorf("invalid store.timeout: %w", err)
	}
	return StoreConfig{
		Type:          c.GetString("store.type"),
		JSONDir:       c.GetString("store.json_dir"),
		SQLitePath:    c.GetString("store.sqlite_path"),
		MySQLDSN:      c.GetString("store.mysql_dsn"),
		PostgresDSN:   c.GetString("store.postgres_dsn"),
		RedisAddr:     c.GetString("store.redis_addr"),
		RedisPassword: c.GetString("store.redis_password"),
		RedisDB:       c.GetInt("store.redis_db"),
		Timeout:       timeout,
		QueueSize:     c.GetInt("store.queue_size"),
	}, nil
}

// GetEvents returns the event publisher configuration
func (c *Config) GetEvents() EventsConfig {
	return EventsConfig{
		Enabled:    c.GetBool("events.enabled"),
		AMQPURL:    c.GetString("events.amqp_url"),
		Exchange:   c.GetString("events.exchange"),
		RoutingKey: c.GetString("events.routing_key"),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		MaxBodyBytes:  c.GetInt64("server.max_body_bytes"),
	}
}
