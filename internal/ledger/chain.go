package ledger

import (
	"errors"
	"strings"
)

// ErrUnsupportedChain is returned when a caller names a blockchain that has
// no ledger partition. It signals a client input error, not a lookup miss.
var ErrUnsupportedChain = errors.New("unsupported blockchain")

// Chain identifies a ledger partition by its currency symbol.
type Chain string

const (
	ChainBitcoin  Chain = "BTC"
	ChainEthereum Chain = "ETH"
	ChainLitecoin Chain = "LTC"
	ChainSolana   Chain = "SOL"

	// ChainRipple is a recognized partition with no adapter behind it.
	// Polling it yields an empty result rather than an error.
	ChainRipple Chain = "XRP"
)

// chainNames maps accepted chain spellings (long form and symbol, compared
// case-insensitively) to their partition key.
var chainNames = map[string]Chain{
	"bitcoin":  ChainBitcoin,
	"btc":      ChainBitcoin,
	"ethereum": ChainEthereum,
	"eth":      ChainEthereum,
	"litecoin": ChainLitecoin,
	"ltc":      ChainLitecoin,
	"solana":   ChainSolana,
	"sol":      ChainSolana,
	"xrp":      ChainRipple,
}

// ParseChain resolves a user-supplied blockchain name into a Chain.
//
// Both long names ("bitcoin") and symbols ("BTC") are accepted,
// case-insensitively. Unrecognized names return ErrUnsupportedChain.
func ParseChain(name string) (Chain, error) {
	chain, ok := chainNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", ErrUnsupportedChain
	}

	return chain, nil
}

// String returns the chain's currency symbol.
func (c Chain) String() string {
	return string(c)
}

// Supported reports whether an adapter exists for this chain. XRP is the
// only recognized chain without one.
func (c Chain) Supported() bool {
	return c != ChainRipple
}
