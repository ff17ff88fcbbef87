// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Backend selection
	DataBackend  string
	SQLiteDBPath string
	PostgresURL  string
	SeedDemoData bool

	// Remote API (audit worker source)
	RemoteAPIURL  string
	RemoteTimeout time.Duration

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Audit worker
	AuditLogPath  string
	AuditInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/expensetracker.db"),
		PostgresURL:  getEnv("POSTGRES_URL", ""),
		SeedDemoData: getEnvBool("SEED_DEMO_DATA", false),

		RemoteAPIURL:  getEnv("REMOTE_API_URL", ""),
		RemoteTimeout: getEnvDuration("REMOTE_TIMEOUT", 10*time.Second),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expensetracker"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_events"),

		AuditLogPath:  getEnv("AUDIT_LOG_PATH", "./data/audit.jsonl"),
		AuditInterval: getEnvDuration("AUDIT_INTERVAL", 5*time.Minute),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLITE_DB_PATH cannot be empty when using the sqlite backend")
		}
	case "postgres":
		if c.PostgresURL == "" {
			errs = append(errs, "POSTGRES_URL is required when using the postgres backend")
		} else if u, err := url.Parse(c.PostgresURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid POSTGRES_URL: %v", err))
		} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			errs = append(errs, fmt.Sprintf("invalid POSTGRES_URL scheme '%s': must be 'postgres' or 'postgresql'", u.Scheme))
		}
	case "memory":
		// nothing to check
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [sqlite postgres memory]", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP_EXCHANGE cannot be empty when AMQP_URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP_QUEUE cannot be empty when AMQP_URL is provided")
		}
	}

	if c.RemoteAPIURL != "" {
		if u, err := url.Parse(c.RemoteAPIURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid REMOTE_API_URL '%s': %v", c.RemoteAPIURL, err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Sprintf("invalid REMOTE_API_URL scheme '%s': must be 'http' or 'https'", u.Scheme))
		}
	}

	if c.RemoteTimeout < time.Second || c.RemoteTimeout > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid remote timeout %v: must be between 1s and 1m", c.RemoteTimeout))
	}
	if c.AuditInterval < time.Second || c.AuditInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid audit interval %v: must be between 1s and 24h", c.AuditInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
