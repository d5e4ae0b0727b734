package config

import (
	"fmt"
	"strconv"
	"time"

	"galaxy-maker-server/internal/shared/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Galaxy    GalaxyConfig
}

type ServerConfig struct {
	Port         string
	URL          string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

type RedisConfig struct {
	Enabled   bool
	URL       string
	Host      string
	Port      string
	Password  string
	DB        int
	ExportTTL time.Duration
}

type AuthConfig struct {
	SessionSecret   string
	TokenExpiration time.Duration
	CookieSecure    bool
	CookieSameSite  string
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	Format     string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

type GalaxyConfig struct {
	ViewportWidth   float64
	ViewportHeight  float64
	Seed            uint64
	MaxSessions     int
	SessionTTL      time.Duration
	MaxViewPoints   int
	CapturesEnabled bool
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

func load() (*Config, error) {
	galaxy, err := loadGalaxyConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
		Galaxy:    galaxy,
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	readTimeout := utils.GetEnvInt("SERVER_READ_TIMEOUT_SECONDS", 15)
	writeTimeout := utils.GetEnvInt("SERVER_WRITE_TIMEOUT_SECONDS", 30)
	idleTimeout := utils.GetEnvInt("SERVER_IDLE_TIMEOUT_SECONDS", 60)

	return ServerConfig{
		Port:         utils.GetEnv("SERVER_PORT", "8080"),
		URL:          utils.GetEnv("SERVER_URL", "http://localhost:8080"),
		Environment:  utils.GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
		IdleTimeout:  time.Duration(idleTimeout) * time.Second,
	}
}

func loadDatabaseConfig() DatabaseConfig {
	connMaxLifetime := utils.GetEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)

	return DatabaseConfig{
		Enabled:         utils.GetEnvBool("DB_ENABLED", false),
		Host:            utils.GetEnv("DB_HOST", "localhost"),
		Port:            utils.GetEnv("DB_PORT", "5432"),
		User:            utils.GetEnv("DB_USER", "postgres"),
		Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
		Name:            utils.GetEnv("DB_NAME", "galaxy_maker"),
		SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    utils.GetEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    utils.GetEnvInt("DB_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime: time.Duration(connMaxLifetime) * time.Minute,
		MigrationsPath:  utils.GetEnv("DB_MIGRATIONS_PATH", ""),
	}
}

func loadRedisConfig() RedisConfig {
	exportTTL := utils.GetEnvInt("REDIS_EXPORT_TTL_MINUTES", 60)

	return RedisConfig{
		Enabled:   utils.GetEnvBool("REDIS_ENABLED", false),
		URL:       utils.GetEnv("REDIS_URL", ""),
		Host:      utils.GetEnv("REDIS_HOST", "localhost"),
		Port:      utils.GetEnv("REDIS_PORT", "6379"),
		Password:  utils.GetEnv("REDIS_PASSWORD", ""),
		DB:        utils.GetEnvInt("REDIS_DB", 0),
		ExportTTL: time.Duration(exportTTL) * time.Minute,
	}
}

func loadAuthConfig() AuthConfig {
	tokenExpiration := utils.GetEnvInt("SESSION_TOKEN_HOURS", 12)
	environment := utils.GetEnv("ENVIRONMENT", "development")

	return AuthConfig{
		SessionSecret:   utils.GetEnv("SESSION_SECRET", ""),
		TokenExpiration: time.Duration(tokenExpiration) * time.Hour,
		CookieSecure:    environment == "production",
		CookieSameSite:  utils.GetEnv("COOKIE_SAME_SITE", "lax"),
	}
}

func loadFrontendConfig() FrontendConfig {
	return FrontendConfig{
		URL:       utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSDebug: utils.GetEnvBool("CORS_DEBUG", false),
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "debug"),
		Format:     utils.GetEnv("LOG_FORMAT", "text"),
		JSONFormat: environment == "production",
	}
}

func loadRateLimitConfig() RateLimitConfig {
	requestsPerSecond, _ := strconv.ParseFloat(utils.GetEnv("RATE_LIMIT_REQUESTS_PER_SECOND", "10"), 64)

	return RateLimitConfig{
		Enabled:           utils.GetEnvBool("RATE_LIMIT_ENABLED", true),
		RequestsPerSecond: requestsPerSecond,
		BurstSize:         utils.GetEnvInt("RATE_LIMIT_BURST_SIZE", 20),
		TrustProxy:        utils.GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
	}
}

func loadGalaxyConfig() (GalaxyConfig, error) {
	width, err := strconv.ParseFloat(utils.GetEnv("GALAXY_VIEWPORT_WIDTH", "760"), 64)
	if err != nil {
		return GalaxyConfig{}, fmt.Errorf("GALAXY_VIEWPORT_WIDTH: %w", err)
	}
	height, err := strconv.ParseFloat(utils.GetEnv("GALAXY_VIEWPORT_HEIGHT", "520"), 64)
	if err != nil {
		return GalaxyConfig{}, fmt.Errorf("GALAXY_VIEWPORT_HEIGHT: %w", err)
	}
	seed, err := strconv.ParseUint(utils.GetEnv("GALAXY_SEED", "0"), 10, 64)
	if err != nil {
		return GalaxyConfig{}, fmt.Errorf("GALAXY_SEED: %w", err)
	}
	sessionTTL := utils.GetEnvInt("GALAXY_SESSION_TTL_MINUTES", 30)

	return GalaxyConfig{
		ViewportWidth:   width,
		ViewportHeight:  height,
		Seed:            seed,
		MaxSessions:     utils.GetEnvInt("GALAXY_MAX_SESSIONS", 64),
		SessionTTL:      time.Duration(sessionTTL) * time.Minute,
		MaxViewPoints:   utils.GetEnvInt("GALAXY_MAX_VIEW_POINTS", 2000000),
		CapturesEnabled: utils.GetEnvBool("GALAXY_CAPTURES_ENABLED", true),
	}, nil
}

func (c *Config) validate() error {
	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	if len(c.Auth.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Server.URL == "" {
		return fmt.Errorf("SERVER_URL is required")
	}

	if c.Database.Enabled && (c.Database.Host == "" || c.Database.Name == "") {
		return fmt.Errorf("DB_HOST and DB_NAME are required when DB_ENABLED is true")
	}

	if c.Galaxy.ViewportWidth < 64 || c.Galaxy.ViewportHeight < 64 {
		return fmt.Errorf("galaxy viewport must be at least 64x64, got %.0fx%.0f",
			c.Galaxy.ViewportWidth, c.Galaxy.ViewportHeight)
	}

	if c.Galaxy.MaxSessions <= 0 {
		return fmt.Errorf("GALAXY_MAX_SESSIONS must be positive")
	}

	if c.Galaxy.MaxViewPoints <= 0 {
		return fmt.Errorf("GALAXY_MAX_VIEW_POINTS must be positive")
	}

	return nil
}

// DSN is the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
