package randutil

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	mathrand "math/rand/v2"
)

// GenerateSecret returns a fresh 32-byte value from a cryptographically
// secure source, rendered as 64 lowercase hex characters. A new secret is
// drawn once per hand and kept unexposed until showdown.
func GenerateSecret() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("randutil: generate secret: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

// ComputeCommitment returns HMAC-SHA256(key=secret, message=handID) as hex.
// Published at hand start, it lets anyone holding the later-revealed secret
// verify the shuffle seed was fixed before the deal.
func ComputeCommitment(secret, handID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(handID))
	return hex.EncodeToString(mac.Sum(nil))
}

// DeriveSeed returns the 32-byte digest of secret+":"+handID. This is the
// value the shuffle PRNG is reseeded from; identical (secret, handID) pairs
// always yield an identical seed and therefore an identical shuffle.
func DeriveSeed(secret, handID string) [32]byte {
	return sha256.Sum256([]byte(secret + ":" + handID))
}

// NewFromHandSeed returns a *rand.Rand seeded deterministically from a
// 32-byte digest produced by DeriveSeed. The digest already has full avalanche
// from SHA-256, so the two PCG seed halves are taken directly from its first
// and last 8 bytes rather than re-mixed with New's splitmix step.
func NewFromHandSeed(seed [32]byte) *mathrand.Rand {
	hi := binary.BigEndian.Uint64(seed[0:8])
	lo := binary.BigEndian.Uint64(seed[24:32])
	return mathrand.New(mathrand.NewPCG(hi, lo))
}
