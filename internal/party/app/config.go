package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/service"
)

type Config struct {
	Issuer        string               // Issuer claim stamped on access tokens (default: campusparty)
	AccessTTL     time.Duration        // Access token lifetime (default: 1h)
	PaymentPolicy domain.PaymentPolicy // Which payment records open the join gate: trust or confirmed (default: trust)
	ScanLimit     int                  // Cap on the fallback scan when a listing index is missing (default: 5000)

	DatabaseFile         string        // Path to the SQLite database file (default: ./party.db)
	PepperFile           string        // Path to the password pepper file (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text, console) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingSchedule string        // Cron spec for housekeeping (default: @every 1h)
	RideExpiry           time.Duration // How long after a party pending rides expire (default: 12h)
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory if there is one.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Issuer:        getEnvOrDefault("PARTY_ISSUER", "campusparty"),
		AccessTTL:     getEnvDurationOrDefault("PARTY_ACCESS_TTL", time.Hour),
		PaymentPolicy: parsePolicy(os.Getenv("PARTY_PAYMENT_POLICY")),
		ScanLimit:     getEnvIntOrDefault("PARTY_SCAN_LIMIT", service.DefaultScanLimit),

		DatabaseFile:         getEnvOrDefault("PARTY_DATABASE_FILE", "party.db"),
		PepperFile:           getEnvOrDefault("PARTY_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingSchedule: getEnvOrDefault("HOUSEKEEPING_SCHEDULE", service.DefaultHousekeepingSchedule),
		RideExpiry:           getEnvDurationOrDefault("RIDE_EXPIRY", service.DefaultRideExpiry),
	}
}

// parsePolicy maps anything other than "confirmed" to trust.
func parsePolicy(v string) domain.PaymentPolicy {
	if strings.EqualFold(strings.TrimSpace(v), string(domain.PolicyConfirmed)) {
		return domain.PolicyConfirmed
	}
	return domain.PolicyTrust
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
