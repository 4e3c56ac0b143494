package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the chat backend. It is constructed once
// at process start and passed into every component that needs it; there is
// no module-level singleton.
type Config struct {
	HTTPPort   string
	JWTSecret  []byte
	SessionTTL time.Duration

	Database DatabaseConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Probe    ProbeConfig
	Chat     ChatConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// StorageConfig holds settings-store selection inputs.
type StorageConfig struct {
	// EncryptionKey is the base64 key material for at-rest API key
	// encryption. A "base64:" prefix is tolerated.
	EncryptionKey string

	// SettingsFile is the JSON document path for the flat-file store.
	SettingsFile string
}

// CacheConfig holds the settings LRU cache tuning.
type CacheConfig struct {
	SettingsCacheSize int
	SettingsCacheTTL  time.Duration
}

// RedisConfig holds the optional Redis settings-cache connection. An empty
// address disables the cache.
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// ProbeConfig holds connectivity-tester settings.
type ProbeConfig struct {
	Timeout time.Duration
}

// ChatConfig holds chat relay settings.
type ChatConfig struct {
	RequestTimeout time.Duration

	// SimulateOnError substitutes a clearly-labeled simulated assistant
	// reply when the upstream provider call fails, instead of surfacing
	// the failure to the end user.
	SimulateOnError bool
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func getEnvBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val == "true" || val == "1"
}

// Load reads configuration from environment variables. A missing database
// URL is not an error; it just steers storage selection toward the
// ephemeral backends.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DB_URL")
	}

	cfg := &Config{
		HTTPPort:   getEnvString("HTTP_PORT", "8080"),
		JWTSecret:  []byte(getEnvString("JWT_SECRET", "supersecretkey")),
		SessionTTL: getEnvDuration("SESSION_TTL", 30*24*time.Hour),
		Database: DatabaseConfig{
			URL:             dbURL,
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 1),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 1),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		},
		Storage: StorageConfig{
			EncryptionKey: os.Getenv("ENCRYPTION_KEY"),
			SettingsFile:  getEnvString("SETTINGS_FILE", ".temp-storage/settings.json"),
		},
		Cache: CacheConfig{
			SettingsCacheSize: getEnvInt("CACHE_SETTINGS_SIZE", 500),
			SettingsCacheTTL:  getEnvDuration("CACHE_SETTINGS_TTL", 5*time.Minute),
		},
		Redis: RedisConfig{
			Address:      getEnvString("REDIS_ADDRESS", ""),
			Password:     getEnvString("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     getEnvDuration("REDIS_SETTINGS_CACHE_TTL", 5*time.Minute),
		},
		Probe: ProbeConfig{
			Timeout: getEnvDuration("PROBE_TIMEOUT", 10*time.Second),
		},
		Chat: ChatConfig{
			RequestTimeout:  getEnvDuration("CHAT_REQUEST_TIMEOUT", 60*time.Second),
			SimulateOnError: getEnvBool("CHAT_SIMULATE_ON_ERROR", true),
		},
	}

	return cfg, nil
}

// IsServerless reports whether the process runs on a serverless platform
// where local disk and long-lived connections are unreliable; storage
// selection biases toward the ephemeral backend there.
func IsServerless() bool {
	return os.Getenv("VERCEL") != "" ||
		os.Getenv("NETLIFY") != "" ||
		os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}
