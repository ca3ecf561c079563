// Package config loads application configuration from environment
// variables.  Required variables are enforced by must(); tunables fall
// back to the reference policy defaults so a bare environment still runs.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBDriver string // "mysql" or "sqlite3"
	DBUser   string // mysql username
	DBPass   string // mysql password (optional)
	DBHost   string // mysql host address
	DBPort   string // mysql port number
	DBName   string // mysql database name
	DBPath   string // sqlite database file path

	MaxPartySize   int           // largest admissible party
	ClosingHour    int           // bookings must start before this hour
	MinLead        time.Duration // minimum notice before the booking instant
	HoldTTL        time.Duration // hold window for new reservations
	SweepInterval  time.Duration // how often the expiration sweep runs
	ExpireAccepted bool          // whether accepted holds are swept too
	RequirePhone   bool          // whether a phone number is mandatory
}

// Load reads configuration from the environment.  Missing required
// variables terminate the process with a fatal log message; which DB
// variables are required depends on the selected driver.
func Load() Config {
	cfg := Config{
		Env:      must("APP_ENV"),
		Port:     must("APP_PORT"),
		DBDriver: envStr("DB_DRIVER", "sqlite3"),

		MaxPartySize:   envInt("MAX_PARTY_SIZE", 20),
		ClosingHour:    envInt("CLOSING_HOUR", 21),
		MinLead:        time.Duration(envInt("MIN_LEAD_HOURS", 24)) * time.Hour,
		HoldTTL:        time.Duration(envInt("HOLD_TTL_MIN", 30)) * time.Minute,
		SweepInterval:  time.Duration(envInt("SWEEP_INTERVAL_SEC", 60)) * time.Second,
		ExpireAccepted: envBool("EXPIRE_ACCEPTED", true),
		RequirePhone:   envBool("REQUIRE_PHONE", false),
	}
	switch cfg.DBDriver {
	case "mysql":
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	case "sqlite3":
		cfg.DBPath = envStr("DB_PATH", "reservation.db")
	default:
		log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
