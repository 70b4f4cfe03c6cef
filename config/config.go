// Package config loads the small environment-variable surface this server
// actually has (§6): no DB, no JWT, no currency — a listen address, an
// allowed-origin list, the privileged-mode secret, and the handful of
// durations the room actor needs.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every environment-derived setting the server reads.
type Config struct {
	ListenAddr       string
	AllowedOrigins   []string
	PrivilegedSecret string

	DefaultMaxSeats   int
	DefaultSmallBlind int
	DefaultBigBlind   int
	DefaultMinBuyInBB int

	ActionTimeout   time.Duration
	DisplayDelay    time.Duration
	NextHandDelay   time.Duration
	ReapGrace       time.Duration
	DisconnectGrace time.Duration
}

// Load reads Config from the environment, in the style of the teacher's
// GetEnv helper, falling back to sane defaults for anything unset.
func Load() Config {
	return Config{
		ListenAddr:       GetEnv("LISTEN_ADDR", ":8080"),
		AllowedOrigins:   splitCSV(GetEnv("ALLOWED_ORIGINS", "*")),
		PrivilegedSecret: GetEnv("PRIVILEGED_SECRET", "dev-secret"),

		DefaultMaxSeats:   getEnvInt("DEFAULT_MAX_SEATS", 6),
		DefaultSmallBlind: getEnvInt("DEFAULT_SMALL_BLIND", 1),
		DefaultBigBlind:   getEnvInt("DEFAULT_BIG_BLIND", 2),
		DefaultMinBuyInBB: getEnvInt("DEFAULT_MIN_BUYIN_BB", 10),

		ActionTimeout:   getEnvSeconds("ACTION_TIMEOUT_SECONDS", 20),
		DisplayDelay:    getEnvSeconds("DISPLAY_DELAY_SECONDS", 2),
		NextHandDelay:   getEnvSeconds("NEXT_HAND_DELAY_SECONDS", 5),
		ReapGrace:       getEnvSeconds("REAP_GRACE_SECONDS", 60),
		DisconnectGrace: getEnvSeconds("DISCONNECT_GRACE_SECONDS", 30),
	}
}

// GetEnv returns an environment variable's value or a fallback, matching
// the teacher's internal/server/config.GetEnv.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvSeconds(key string, fallbackSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackSeconds)) * time.Second
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
