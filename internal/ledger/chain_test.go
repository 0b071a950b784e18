package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChain(t *testing.T) {
	t.Run("should accept long chain names", func(t *testing.T) {
		for name, expected := range map[string]Chain{
			"bitcoin":  ChainBitcoin,
			"ethereum": ChainEthereum,
			"litecoin": ChainLitecoin,
			"solana":   ChainSolana,
			"xrp":      ChainRipple,
		} {
			chain, err := ParseChain(name)
			require.NoError(t, err, name)
			assert.Equal(t, expected, chain)
		}
	})

	t.Run("should accept symbols case-insensitively", func(t *testing.T) {
		for _, name := range []string{"BTC", "btc", "Btc"} {
			chain, err := ParseChain(name)
			require.NoError(t, err)
			assert.Equal(t, ChainBitcoin, chain)
		}
	})

	t.Run("should accept mixed-case long names", func(t *testing.T) {
		chain, err := ParseChain("Ethereum")
		require.NoError(t, err)
		assert.Equal(t, ChainEthereum, chain)
	})

	t.Run("should trim surrounding whitespace", func(t *testing.T) {
		chain, err := ParseChain("  sol ")
		require.NoError(t, err)
		assert.Equal(t, ChainSolana, chain)
	})

	t.Run("should reject unknown chains with ErrUnsupportedChain", func(t *testing.T) {
		_, err := ParseChain("dogecoin")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedChain)
	})

	t.Run("should reject the empty string", func(t *testing.T) {
		_, err := ParseChain("")
		assert.ErrorIs(t, err, ErrUnsupportedChain)
	})
}

func TestChain_Supported(t *testing.T) {
	t.Run("should report adapters for the implemented chains", func(t *testing.T) {
		for _, chain := range []Chain{ChainBitcoin, ChainEthereum, ChainLitecoin, ChainSolana} {
			assert.True(t, chain.Supported(), chain.String())
		}
	})

	t.Run("should report XRP as recognized but unimplemented", func(t *testing.T) {
		assert.False(t, ChainRipple.Supported())
	})
}
