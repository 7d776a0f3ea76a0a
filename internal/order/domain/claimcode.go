package domain

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
)

// Claim codes avoid 0/O/1/I so staff can read them back over a counter.
const claimCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const ClaimCodeLength = 8

// NewClaimCode returns a random pickup code. Uniqueness is enforced by
// the store; callers retry on ErrDuplicateClaimCode.
func NewClaimCode() (string, error) {
	buf := make([]byte, ClaimCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate claim code: %w", err)
	}
	for i, b := range buf {
		buf[i] = claimCodeAlphabet[int(b)%len(claimCodeAlphabet)]
	}
	return string(buf), nil
}

// VerifyClaimCode compares codes in constant time.
func VerifyClaimCode(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
