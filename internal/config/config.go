package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/boostphysio/clinic-booking/internal/clinic"
)

type Config struct {
	Env             string        // dev, prod
	HTTPPort        string        // default 8080
	DataDir         string        // directory holding the flat data files
	ShutdownTimeout time.Duration // graceful shutdown timeout
	Term            clinic.Term   // booking term and business hours
}

func Load() (Config, error) {
	_ = godotenv.Load()

	term := clinic.DefaultTerm()

	if v := os.Getenv("TERM_START"); v != "" {
		t, err := time.Parse(clinic.DateTimeLayout, v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TERM_START: %w", err)
		}
		term.Start = t
	}
	if v := os.Getenv("TERM_END"); v != "" {
		t, err := time.Parse(clinic.DateTimeLayout, v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TERM_END: %w", err)
		}
		term.End = t
	}
	term.DayStart = getInt("DAY_START_HOUR", term.DayStart)
	term.DayEnd = getInt("DAY_END_HOUR", term.DayEnd)

	if !term.Start.Before(term.End) {
		return Config{}, fmt.Errorf("TERM_START %s is not before TERM_END %s",
			term.Start.Format(clinic.DateTimeLayout), term.End.Format(clinic.DateTimeLayout))
	}

	cfg := Config{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DataDir:         getEnv("DATA_DIR", "data"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Term:            term,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		fmt.Fprintf(os.Stderr, "invalid integer for %s=%q, using default %d\n", key, v, def)
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	}
	return def
}
