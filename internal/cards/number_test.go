package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumber(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n, err := GenerateNumber()
		require.NoError(t, err)
		require.Len(t, n, 16)
		for _, r := range n {
			assert.True(t, r >= '0' && r <= '9', "digit expected, got %q", r)
		}
		seen[n] = true
	}
	// 100 draws from a 10^16 space colliding would point at a broken
	// random source.
	assert.Greater(t, len(seen), 90)
}
