package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClaimCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewClaimCode()
		require.NoError(t, err)
		require.Len(t, code, ClaimCodeLength)
		for _, c := range code {
			require.True(t, strings.ContainsRune(claimCodeAlphabet, c), "unexpected rune %q", c)
		}
		seen[code] = true
	}
	// 100 draws from a 32^8 space should not collide.
	require.Len(t, seen, 100)
}

func TestVerifyClaimCode(t *testing.T) {
	require.True(t, VerifyClaimCode("ABCD2345", "ABCD2345"))
	require.False(t, VerifyClaimCode("ABCD2345", "ABCD2346"))
	require.False(t, VerifyClaimCode("ABCD2345", ""))
	require.False(t, VerifyClaimCode("ABCD2345", "ABCD234"))
}
