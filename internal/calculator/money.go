package calculator

import "github.com/shopspring/decimal"

// Epsilon is the one-cent tolerance used for money comparisons
// throughout balance and settlement computations. Anything within a
// cent of zero is treated as settled.
const Epsilon = 0.01

// Round2 rounds a money amount to two decimal places, half away from
// zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
