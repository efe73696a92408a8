package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every section of the service configuration.
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	auth, err := loadAuthConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		AI:       ai,
		Database: loadDatabaseConfig(),
		Auth:     auth,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the text-generation model.
type AIConfig struct {
	APIKey            string
	Model             string
	BaseURL           string
	Region            string
	Temperature       *float64
	TopP              *float64
	StrategyMaxTokens int
	TaglineMaxTokens  int
	ChatMaxTokens     int
	StreamResponse    bool
}

// Enabled reports whether the required model credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && c.APIKey != ""
}

// NewChatModel instantiates the configured model.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("model credentials missing: set ARK_API_KEY and ARK_MODEL")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		Model:       c.Model,
		MaxTokens:   c.chatTokenLimit(),
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

// chatTokenLimit is the output bound applied to conversation turns.
// Single-shot generation overrides it per call. The chain has no per-call
// seam for options, so the bound lives on the model itself.
func (c AIConfig) chatTokenLimit() *int {
	if c.ChatMaxTokens <= 0 {
		return nil
	}
	val := c.ChatMaxTokens
	return &val
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	stream, err := parseBoolEnv("ARK_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	strategyTokens, err := parseIntEnv("AI_STRATEGY_MAX_TOKENS", 200)
	if err != nil {
		return AIConfig{}, err
	}

	taglineTokens, err := parseIntEnv("AI_TAGLINE_MAX_TOKENS", 50)
	if err != nil {
		return AIConfig{}, err
	}

	chatTokens, err := parseIntEnv("AI_CHAT_MAX_TOKENS", 500)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:            strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		Model:             strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:           getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:            getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:       temperature,
		TopP:              topP,
		StrategyMaxTokens: strategyTokens,
		TaglineMaxTokens:  taglineTokens,
		ChatMaxTokens:     chatTokens,
		StreamResponse:    stream,
	}, nil
}

// DatabaseConfig describes the document store. An empty DSN selects the
// in-memory store.
type DatabaseConfig struct {
	DSN string
}

// Enabled reports whether a Postgres connection string was provided.
func (c DatabaseConfig) Enabled() bool {
	return c.DSN != ""
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{DSN: strings.TrimSpace(os.Getenv("DATABASE_URL"))}
}

// AuthConfig describes session signing and revocation.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	RedisAddr string
}

func loadAuthConfig() (AuthConfig, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return AuthConfig{}, fmt.Errorf("JWT_SECRET is required")
	}

	ttlHours, err := parseIntEnv("SESSION_TTL_HOURS", 72)
	if err != nil {
		return AuthConfig{}, err
	}
	if ttlHours < 1 {
		return AuthConfig{}, fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", ttlHours)
	}

	return AuthConfig{
		JWTSecret: secret,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
		RedisAddr: strings.TrimSpace(os.Getenv("REDIS_ADDR")),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
