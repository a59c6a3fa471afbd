package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/campusparty/pkg/jwtx"
)

// InitKeys generates the process signing key. Keys live only in memory, so
// every restart invalidates outstanding tokens.
func InitKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	km, err := jwtx.NewEphemeralKeyManager(cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
	}

	logger.Info("generated ephemeral signing key", "issuer", km.Issuer(), "access_ttl", cfg.AccessTTL)
	logger.Warn("all existing tokens are now invalid due to key rotation on startup")
	return km, nil
}
