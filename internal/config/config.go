// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration.  Each field maps to one
// environment variable; required ones abort startup when missing.
type Config struct {
	Env                 string // APP_ENV: dev, test or prod
	Port                string // APP_PORT: HTTP port to listen on
	DBUser              string // DB_USER
	DBPass              string // DB_PASS (optional)
	DBHost              string // DB_HOST
	DBPort              string // DB_PORT
	DBName              string // DB_NAME
	JWTSecret           string // JWT_SECRET: HS256 signing secret
	AccessTTLMin        int    // ACCESS_TOKEN_TTL_MIN
	BcryptCost          int    // BCRYPT_COST
	PriceChildPct       int    // PRICE_CHILD_PCT: child ticket discount percent
	PriceStudentPct     int    // PRICE_STUDENT_PCT: student ticket discount percent
	TicketRetentionDays int    // TICKET_RETENTION_DAYS: settled-ticket retention window
}

// Load reads the configuration from the environment.  Missing required
// variables are fatal; pricing and retention fall back to defaults.
func Load() Config {
	return Config{
		Env:                 must("APP_ENV"),
		Port:                must("APP_PORT"),
		DBUser:              must("DB_USER"),
		DBPass:              os.Getenv("DB_PASS"),
		DBHost:              must("DB_HOST"),
		DBPort:              must("DB_PORT"),
		DBName:              must("DB_NAME"),
		JWTSecret:           must("JWT_SECRET"),
		AccessTTLMin:        mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:          mustInt("BCRYPT_COST"),
		PriceChildPct:       envInt("PRICE_CHILD_PCT", 50),
		PriceStudentPct:     envInt("PRICE_STUDENT_PCT", 25),
		TicketRetentionDays: envInt("TICKET_RETENTION_DAYS", 90),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is must with integer conversion.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// Optional-variable helpers with defaults, shared by the cache and
// rate limit loaders.

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
