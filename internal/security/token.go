package security

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateStateToken returns a random hex token for OAuth state and
// similar one-shot secrets.
func GenerateStateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}
