// Package money holds the integer cent arithmetic used for all totals.
// Amounts are minor units (cents); floating point never enters a total.
package money

import "github.com/shopspring/decimal"

// PercentOf returns floor(amountCents * percent / 100).
func PercentOf(amountCents, percent int) int {
	if amountCents <= 0 || percent <= 0 {
		return 0
	}
	return int(int64(amountCents) * int64(percent) / 100)
}

// ClampDiscount bounds a raw discount to [0, subtotal].
func ClampDiscount(rawCents, subtotalCents int) int {
	if rawCents <= 0 || subtotalCents <= 0 {
		return 0
	}
	if rawCents > subtotalCents {
		return subtotalCents
	}
	return rawCents
}

// CapDiscount applies an optional absolute cap to a discount.
func CapDiscount(rawCents int, capCents *int) int {
	if capCents == nil {
		return rawCents
	}
	if rawCents > *capCents {
		return *capCents
	}
	return rawCents
}

// Decimal renders cents as a two-place decimal for display payloads.
func Decimal(cents int) decimal.Decimal {
	return decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100))
}
