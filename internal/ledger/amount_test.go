package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSubunits(t *testing.T) {
	t.Run("should format satoshi amounts with 8 decimals", func(t *testing.T) {
		assert.Equal(t, "0.0002", FormatSubunits(big.NewInt(20_000), 8))
	})

	t.Run("should format lamport amounts with 9 decimals", func(t *testing.T) {
		assert.Equal(t, "0.5", FormatSubunits(big.NewInt(500_000_000), 9))
	})

	t.Run("should take the absolute value of negative net amounts", func(t *testing.T) {
		assert.Equal(t, "0.0002", FormatSubunits(big.NewInt(-20_000), 8))
	})

	t.Run("should strip trailing zeros", func(t *testing.T) {
		assert.Equal(t, "1", FormatSubunits(big.NewInt(100_000_000), 8))
	})

	t.Run("should format zero as 0", func(t *testing.T) {
		assert.Equal(t, "0", FormatSubunits(big.NewInt(0), 8))
	})

	t.Run("should handle sums beyond int64", func(t *testing.T) {
		n, ok := new(big.Int).SetString("123456789012345678901", 10)
		assert.True(t, ok)
		assert.Equal(t, "1234567890123.45678901", FormatSubunits(n, 8))
	})
}
