package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	TransportURL   = "url"
	TransportCache = "cache"
)

type Config struct {
	// PublicAPIURL is the backend address handed to browsers. BackendURL is
	// the address the gateway itself uses while rendering. Either may be
	// empty; endpoint.Resolver owns the fallbacks.
	PublicAPIURL string
	BackendURL   string

	HTTPPort            string
	RedisAddr           string
	ResultTransport     string
	ResultCacheTTL      time.Duration
	CatalogLimit        int
	CatalogCacheTTL     time.Duration
	BackendTimeout      time.Duration
	PlaceholderImageURL string
	CookieSecure        bool
	SessionMaxAge       int
	RateLimitPerMinute  int
	Environment         string
	LogLevel            string
}

// NewConfig loads .env (when present) and then reads the environment.
func NewConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found; relying on existing environment")
	}
	return fromEnv()
}

func fromEnv() *Config {
	return &Config{
		PublicAPIURL:        strings.TrimSpace(os.Getenv("PUBLIC_API_URL")),
		BackendURL:          strings.TrimSpace(os.Getenv("BACKEND_URL")),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		RedisAddr:           strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		ResultTransport:     strings.ToLower(getEnv("RESULT_TRANSPORT", TransportURL)),
		ResultCacheTTL:      getDuration("RESULT_CACHE_TTL", 10*time.Minute),
		CatalogLimit:        getInt("CATALOG_LIMIT", 20),
		CatalogCacheTTL:     getDuration("CATALOG_CACHE_TTL", 30*time.Second),
		BackendTimeout:      getDuration("BACKEND_TIMEOUT", 15*time.Second),
		PlaceholderImageURL: getEnv("PLACEHOLDER_IMAGE_URL", "https://via.placeholder.com/300x300?text=No+Image"),
		CookieSecure:        getBool("COOKIE_SECURE", false),
		SessionMaxAge:       getInt("SESSION_MAX_AGE", 0),
		RateLimitPerMinute:  getInt("RATE_LIMIT_PER_MINUTE", 10),
		Environment:         getEnv("ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
}

// HTTPAddress returns the listen address for the gateway.
func (c *Config) HTTPAddress() string {
	return ":" + c.HTTPPort
}

// Blank values count as unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// StubConfig configures the development backend stubs.
type StubConfig struct {
	HTTPPort      string
	JWTSecret     string
	TokenTTL      time.Duration
	AdminPassword string
}

// NewStubConfig reads the stub settings. defaultPort differs per stub.
func NewStubConfig(defaultPort string) *StubConfig {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found; relying on existing environment")
	}
	return &StubConfig{
		HTTPPort:      getEnv("STUB_PORT", defaultPort),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
		AdminPassword: os.Getenv("STUB_ADMIN_PASSWORD"),
	}
}
