package ledger

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// FormatSubunits converts an amount expressed in a chain's smallest unit
// into a fixed-point decimal string with trailing zeros stripped.
//
// The input is taken by absolute value: direction carries the sign, the
// stored amount never does. Subunit sums may exceed int64, so callers
// accumulate with big.Int and convert only here.
func FormatSubunits(n *big.Int, decimals int32) string {
	abs := new(big.Int).Abs(n)
	return decimal.NewFromBigInt(abs, -decimals).String()
}
