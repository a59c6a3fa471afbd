package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/campusparty/pkg/cryptox"
	"github.com/aussiebroadwan/campusparty/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "campusparty-test"

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	s, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	return s
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer := newSigner(t, "kid-1")
	require.Equal(t, "EdDSA", signer.Alg())

	claims := jwtx.NewAccessClaims("user-456", "eddsauser", "Boston University",
		[]string{jwtx.ScopePartyRead, jwtx.ScopePartyWrite}, 5*time.Minute, testIssuer, time.Now().UTC())

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	jwks := keys.PublicJWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)

	got, err := jwtx.NewVerifierEdDSA(keys, testIssuer).Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.Subject, got.Subject)
	require.Equal(t, claims.Username, got.Username)
	require.Equal(t, claims.University, got.University)
	require.ElementsMatch(t, claims.Scopes, got.Scopes)
}

func TestEdDSAVerifyFailures(t *testing.T) {
	signer := newSigner(t, "kid-1")
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	t.Run("wrong issuer", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("u", "u", "", nil, time.Minute, "other", time.Now())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = jwtx.NewVerifierEdDSA(keys, testIssuer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("unknown kid", func(t *testing.T) {
		stranger := newSigner(t, "kid-2")
		token, err := stranger.Sign(jwtx.NewAccessClaims("u", "u", "", nil, time.Minute, testIssuer, time.Now()))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierEdDSA(keys, testIssuer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrNoKey)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewAccessClaims("u", "u", "", nil, time.Minute, testIssuer, time.Now().Add(-time.Hour)))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierEdDSA(keys, testIssuer).Verify(token)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := jwtx.NewVerifierEdDSA(keys, testIssuer).Verify("not.a.jwt")
		require.Error(t, err)
	})
}

func TestKeyManagerIssuesVerifiableTokens(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(testIssuer)
	require.NoError(t, err)
	require.True(t, km.KeySet.IsReady())

	token, claims, err := km.IssueAccessToken("user-1", "alice", "Carleton College", 0, time.Now())
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(jwtx.DefaultAccessTokenTTL), claims.ExpiresAt.Time, 5*time.Second)

	got, err := km.Verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	require.True(t, got.HasScope(jwtx.ScopePartyWrite))

	_, err = jwtx.NewEphemeralKeyManager("")
	require.Error(t, err)
}
