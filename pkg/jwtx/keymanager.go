package jwtx

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/aussiebroadwan/campusparty/pkg/cryptox"
)

// KeyManager owns the process signing key and the matching verifier. Keys are
// ephemeral: a restart invalidates every issued token and students log in
// again.
type KeyManager struct {
	Signer   Signer
	Verifier Verifier
	KeySet   *KeySet

	issuer string
}

// NewEphemeralKeyManager generates a fresh Ed25519 key for issuer.
func NewEphemeralKeyManager(issuer string) (*KeyManager, error) {
	if issuer == "" {
		return nil, fmt.Errorf("jwtx: issuer is required")
	}

	kid, err := randomKeyID()
	if err != nil {
		return nil, fmt.Errorf("jwtx: key id: %w", err)
	}

	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}

	signer, err := NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, err
	}

	keys := NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, err
	}

	return &KeyManager{
		Signer:   signer,
		Verifier: NewVerifierEdDSA(keys, issuer),
		KeySet:   keys,
		issuer:   issuer,
	}, nil
}

// Issuer is the iss claim stamped on tokens.
func (km *KeyManager) Issuer() string { return km.issuer }

// IssueAccessToken signs an access token for a user.
func (km *KeyManager) IssueAccessToken(userID, username, university string, ttl time.Duration, now time.Time) (string, Claims, error) {
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	claims := NewAccessClaims(
		userID, username, university,
		[]string{ScopePartyRead, ScopePartyWrite},
		ttl, km.issuer, now,
	)
	token, err := km.Signer.Sign(claims)
	if err != nil {
		return "", Claims{}, err
	}
	return token, claims, nil
}

func randomKeyID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return "partyd-" + hex.EncodeToString(b[:]), nil
}
