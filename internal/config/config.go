package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"mg_dashboard/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	AppEnv      string
	Version     string
	DatabaseURL string
	AutoMigrate bool

	LogLevel string
	LogJSON  bool

	// Connection pool
	DBMaxConns       int32
	DBMinConns       int32
	DBMaxConnIdle    time.Duration
	DBAcquireTimeout time.Duration
	DBQueryTimeout   time.Duration

	// Rate limiting (Redis is optional, in-memory fallback otherwise)
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	APIRateLimit    int
	APIRateWindow   time.Duration
	CORSAllowOrigin []string
}

// Load reads the configuration from env (and .env if present)
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	// PORT is what most PaaS hosts inject
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "3000"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "2.0.0"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	var origins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &Config{
		AppPort:     port,
		AppEnv:      env,
		Version:     version,
		DatabaseURL: dbURL,
		AutoMigrate: os.Getenv("AUTO_MIGRATE") != "false",

		LogLevel: logLevel,
		LogJSON:  os.Getenv("LOG_FORMAT") == "json",

		DBMaxConns:       int32(intEnv("DB_MAX_CONNS", 20)),
		DBMinConns:       int32(intEnv("DB_MIN_CONNS", 0)),
		DBMaxConnIdle:    secondsEnv("DB_MAX_CONN_IDLE", 30*time.Second),
		DBAcquireTimeout: secondsEnv("DB_ACQUIRE_TIMEOUT", 2*time.Second),
		DBQueryTimeout:   secondsEnv("DB_QUERY_TIMEOUT", 10*time.Second),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         intEnv("REDIS_DB", 0),
		APIRateLimit:    intEnv("API_RATE_LIMIT", 100),
		APIRateWindow:   secondsEnv("API_RATE_WINDOW_SECONDS", time.Minute),
		CORSAllowOrigin: origins,
	}
}

// intEnv returns a positive int from env or def
func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		logger.Warn("ignoring invalid config value", "key", key, "value", v)
	}
	return def
}

// secondsEnv accepts either a Go duration ("1500ms") or whole seconds ("2")
func secondsEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	logger.Warn("ignoring invalid config value", "key", key, "value", v)
	return def
}
