package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Tier groups endpoints that share a budget. Pipeline endpoints trigger
// several model calls per request; reads only touch the database.
type Tier struct {
	Name   string
	Limit  int // requests per Window; <= 0 means unlimited
	Window time.Duration
	Burst  int // bucket capacity; defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	CleanupInterval time.Duration
	Exempt          map[string]bool
	Pipeline        Tier
	Read            Tier
}

// LoadConfig reads configuration from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Exempt:          parseIPList(os.Getenv("RATE_LIMIT_EXEMPT")),
		Pipeline: Tier{
			Name:   "pipeline",
			Limit:  getEnvInt("RATE_LIMIT_PIPELINE_LIMIT", 20),
			Window: getEnvDuration("RATE_LIMIT_PIPELINE_WINDOW", time.Hour),
			Burst:  getEnvInt("RATE_LIMIT_PIPELINE_BURST", 3),
		},
		Read: Tier{
			Name:   "read",
			Limit:  getEnvInt("RATE_LIMIT_READ_LIMIT", 300),
			Window: getEnvDuration("RATE_LIMIT_READ_WINDOW", time.Minute),
		},
	}
}

// tierFor maps a request to its budget tier. Health checks are unlimited;
// every POST under /interviews runs the pipeline.
func (c *Config) tierFor(path, method string) Tier {
	if path == "/health" {
		return Tier{Name: "health"}
	}
	if method == "POST" && strings.HasPrefix(path, "/interviews") {
		return c.Pipeline
	}
	return c.Read
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
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

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
