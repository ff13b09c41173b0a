package social

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// pkceAlphabet is the unreserved character set RFC 7636 allows in a code
// verifier.
const pkceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

const pkceVerifierLength = 128

// GeneratePKCEPair returns a code verifier and its S256 challenge for the
// authorization-code-with-PKCE flow.
func GeneratePKCEPair() (verifier, challenge string, err error) {
	raw := make([]byte, pkceVerifierLength)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate code verifier: %w", err)
	}
	buf := make([]byte, pkceVerifierLength)
	for i, b := range raw {
		buf[i] = pkceAlphabet[int(b)%len(pkceAlphabet)]
	}
	verifier = string(buf)

	sum := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(sum[:])
	return verifier, challenge, nil
}

// GenerateStateToken returns an unguessable anti-forgery state token.
func GenerateStateToken() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate state token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
