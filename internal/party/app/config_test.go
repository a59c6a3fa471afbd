package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"PARTY_ISSUER", "PARTY_ACCESS_TTL", "PARTY_PAYMENT_POLICY", "PARTY_SCAN_LIMIT",
		"PARTY_DATABASE_FILE", "PORT", "HOUSEKEEPING_SCHEDULE", "RIDE_EXPIRY",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "campusparty", cfg.Issuer)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.Equal(t, domain.PolicyTrust, cfg.PaymentPolicy)
	assert.Equal(t, 5000, cfg.ScanLimit)
	assert.Equal(t, "party.db", cfg.DatabaseFile)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "@every 1h", cfg.HousekeepingSchedule)
	assert.Equal(t, 12*time.Hour, cfg.RideExpiry)
	assert.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PARTY_PAYMENT_POLICY", "Confirmed")
	t.Setenv("PARTY_ACCESS_TTL", "30")
	t.Setenv("PARTY_SCAN_LIMIT", "250")
	t.Setenv("PORT", "not-a-port")
	t.Setenv("RIDE_EXPIRY", "90m")

	cfg := LoadConfig()

	assert.Equal(t, domain.PolicyConfirmed, cfg.PaymentPolicy)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 250, cfg.ScanLimit)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.RideExpiry)
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, domain.PolicyTrust, parsePolicy(""))
	assert.Equal(t, domain.PolicyTrust, parsePolicy("trust"))
	assert.Equal(t, domain.PolicyTrust, parsePolicy("whatever"))
	assert.Equal(t, domain.PolicyConfirmed, parsePolicy(" confirmed "))
}
