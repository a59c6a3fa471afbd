package party_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL := setupPartyContainer(t, nil)
	client := partysdk.NewSDKClient(baseURL)

	live, err := client.GetLiveness(t.Context())
	assertHealthy(t, live, err)

	ready, err := client.GetReadiness(t.Context())
	assertHealthy(t, ready, err)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Signer)

	jwks, err := client.GetJWKS(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, jwks.Keys, "JWKS should contain the signing key")

	for _, key := range jwks.Keys {
		t.Logf("Key ID: %s, Algorithm: %s", key.Kid, key.Alg)
	}
}
