package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store backend identifiers. The backend is chosen once at startup; no
// consumer of the store branches on which one is active.
const (
	StoreBackendMongo  = "mongo"
	StoreBackendMemory = "memory"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store       StoreConfig
	ControlDB   ControlDBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Reports     ReportsConfig
	Entitlement EntitlementConfig
}

// StoreConfig selects and tunes the document store backend.
type StoreConfig struct {
	Backend   string
	MongoURI  string
	MongoDB   string
	OpTimeout time.Duration
}

// ControlDBConfig points at the control-plane PostgreSQL database holding
// client accounts and subscriptions.
type ControlDBConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ReportsConfig tunes dashboard report caching.
type ReportsConfig struct {
	CacheTTL time.Duration
}

// EntitlementConfig tunes how long a subscription verdict may be served
// from cache before the control database is consulted again.
type EntitlementConfig struct {
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Backend:   strings.ToLower(v.GetString("STORE_BACKEND")),
		MongoURI:  v.GetString("MONGO_URI"),
		MongoDB:   v.GetString("MONGO_DATABASE"),
		OpTimeout: parseDuration(v.GetString("STORE_OP_TIMEOUT"), 10*time.Second),
	}

	cfg.ControlDB = ControlDBConfig{
		Host:         v.GetString("CONTROL_DB_HOST"),
		Port:         v.GetInt("CONTROL_DB_PORT"),
		User:         v.GetString("CONTROL_DB_USER"),
		Password:     v.GetString("CONTROL_DB_PASSWORD"),
		Name:         v.GetString("CONTROL_DB_NAME"),
		SSLMode:      v.GetString("CONTROL_DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("CONTROL_DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("CONTROL_DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Reports = ReportsConfig{
		CacheTTL: parseDuration(v.GetString("REPORTS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Entitlement = EntitlementConfig{
		CacheTTL: parseDuration(v.GetString("ENTITLEMENT_CACHE_TTL"), time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_BACKEND", StoreBackendMemory)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "piecerate")
	v.SetDefault("STORE_OP_TIMEOUT", "10s")

	v.SetDefault("CONTROL_DB_HOST", "localhost")
	v.SetDefault("CONTROL_DB_PORT", 5432)
	v.SetDefault("CONTROL_DB_USER", "postgres")
	v.SetDefault("CONTROL_DB_PASSWORD", "postgres")
	v.SetDefault("CONTROL_DB_NAME", "piecerate_control")
	v.SetDefault("CONTROL_DB_SSL_MODE", "disable")
	v.SetDefault("CONTROL_DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("CONTROL_DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "piecerate-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REPORTS_CACHE_TTL", "5m")
	v.SetDefault("ENTITLEMENT_CACHE_TTL", "1m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
