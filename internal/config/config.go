package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LogConfig controls the zap logger and its optional rotating file sink.
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DiscoveryConfig describes how a service announces itself to the registry.
type DiscoveryConfig struct {
	Enabled  bool
	Provider string

	RegistryURL string

	InstanceHost string
	InstanceIP   string
	InstanceID   string

	LeaseRenewalIntervalSec int
	LeaseDurationSec        int

	ConsulAddr       string
	ConsulScheme     string
	ConsulToken      string
	ConsulDatacenter string
}

// RenewalInterval returns the heartbeat period as a duration.
func (d DiscoveryConfig) RenewalInterval() time.Duration {
	return time.Duration(d.LeaseRenewalIntervalSec) * time.Second
}

// RegistryConfig holds settings for the registry role.
type RegistryConfig struct {
	Store               string
	EvictionIntervalSec int
	SnapshotKey         string
	SnapshotIntervalSec int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppName   string
	Port      string
	Timezone  string
	Log       LogConfig
	Discovery DiscoveryConfig
	Registry  RegistryConfig
	Database  DatabaseConfig
	MinIO     MinIOConfig
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// PORT and APP_NAME are left empty when unset so each role can apply its own default.
func Load() *AppConfig {
	return &AppConfig{
		AppName:  getEnv("APP_NAME", ""),
		Port:     getEnv("PORT", ""),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
			Compress:   getEnvBool("LOG_COMPRESS", false),
		},
		Discovery: DiscoveryConfig{
			Enabled:                 getEnvBool("DISCOVERY_ENABLED", true),
			Provider:                getEnv("DISCOVERY_PROVIDER", "eureka"),
			RegistryURL:             getEnv("REGISTRY_URL", "http://localhost:8761/eureka"),
			InstanceHost:            getEnv("INSTANCE_HOST", ""),
			InstanceIP:              getEnv("INSTANCE_IP", ""),
			InstanceID:              getEnv("INSTANCE_ID", ""),
			LeaseRenewalIntervalSec: getEnvInt("LEASE_RENEWAL_INTERVAL_SEC", 30),
			LeaseDurationSec:        getEnvInt("LEASE_DURATION_SEC", 90),
			ConsulAddr:              getEnv("CONSUL_ADDR", "localhost:8500"),
			ConsulScheme:            getEnv("CONSUL_SCHEME", "http"),
			ConsulToken:             getEnv("CONSUL_TOKEN", ""),
			ConsulDatacenter:        getEnv("CONSUL_DATACENTER", ""),
		},
		Registry: RegistryConfig{
			Store:               getEnv("REGISTRY_STORE", "memory"),
			EvictionIntervalSec: getEnvInt("REGISTRY_EVICTION_INTERVAL_SEC", 60),
			SnapshotKey:         getEnv("SNAPSHOT_KEY", "registry/snapshot.json"),
			SnapshotIntervalSec: getEnvInt("SNAPSHOT_INTERVAL_SEC", 300),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
