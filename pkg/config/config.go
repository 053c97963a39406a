package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Compliance ComplianceConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// ComplianceConfig carries the tunables of the report generation engine.
// Defaults match the published regulation guidance; override per deployment.
type ComplianceConfig struct {
	// Risk scoring weights
	PlantationRiskFactor        float64
	PlantationTraceabilityBonus float64
	MillRiskFactor              float64
	MillTraceabilityBonus       float64
	DepthTraceabilityBonus      float64
	TraceDepthRiskFactor        float64
	MaxRiskScore                float64

	// Structural limits
	MaxSupplyChainDepth int
	MaxReportSize       int
	TemplateCacheSize   int

	// Rendering
	SanitizeTemplateData bool

	// Reference data cache
	HSCodeCacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:      normalizeRedisURL(getEnv("REDIS_URL", "localhost:6379")),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Compliance: ComplianceConfig{
			PlantationRiskFactor:        getFloatEnv("COMPLIANCE_PLANTATION_RISK_FACTOR", 0.3),
			PlantationTraceabilityBonus: getFloatEnv("COMPLIANCE_PLANTATION_TRACE_BONUS", 0.4),
			MillRiskFactor:              getFloatEnv("COMPLIANCE_MILL_RISK_FACTOR", 0.2),
			MillTraceabilityBonus:       getFloatEnv("COMPLIANCE_MILL_TRACE_BONUS", 0.3),
			DepthTraceabilityBonus:      getFloatEnv("COMPLIANCE_DEPTH_TRACE_BONUS", 0.3),
			TraceDepthRiskFactor:        getFloatEnv("COMPLIANCE_TRACE_DEPTH_RISK_FACTOR", 0.1),
			MaxRiskScore:                getFloatEnv("COMPLIANCE_MAX_RISK_SCORE", 1.0),
			MaxSupplyChainDepth:         getIntEnv("COMPLIANCE_MAX_SUPPLY_CHAIN_DEPTH", 20),
			MaxReportSize:               getIntEnv("COMPLIANCE_MAX_REPORT_SIZE", 10<<20),
			TemplateCacheSize:           getIntEnv("COMPLIANCE_TEMPLATE_CACHE_SIZE", 128),
			SanitizeTemplateData:        getBoolEnv("COMPLIANCE_SANITIZE_TEMPLATE_DATA", true),
			HSCodeCacheTTL:              getDurationEnv("HSCODE_CACHE_TTL", 12*time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func normalizeRedisURL(url string) string {
	// Strip redis:// or redis+tls:// scheme if present
	if strings.HasPrefix(url, "redis+tls://") {
		return url[len("redis+tls://"):]
	}
	if strings.HasPrefix(url, "redis://") {
		return url[len("redis://"):]
	}
	return url
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultValue
}
