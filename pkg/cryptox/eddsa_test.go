package cryptox_test

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/aussiebroadwan/campusparty/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateEd25519Key(t *testing.T) {
	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	require.Equal(t, "PRIVATE KEY", block.Type)

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)

	priv, ok := key.(ed25519.PrivateKey)
	require.True(t, ok)
	require.Len(t, priv, ed25519.PrivateKeySize)
}

func TestGenerateEd25519KeyIsRandom(t *testing.T) {
	a, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	b, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}
