package models

import "math"

// Balances and transaction amounts are stored as int64 minor units (pence)
// to keep ledger arithmetic exact. The API speaks major units, so the
// conversion happens exactly once in each direction, at the view boundary.

const minorPerMajor = 100

// DefaultCurrency is the single currency the service operates in.
const DefaultCurrency = "GBP"

// ToMinorUnits converts a major-unit amount (e.g. 10.50) to minor units
// (1050), rounding to the nearest penny.
func ToMinorUnits(major float64) int64 {
	return int64(math.Round(major * minorPerMajor))
}

// ToMajorUnits converts minor units back to the major-unit amount used in
// API responses.
func ToMajorUnits(minor int64) float64 {
	return float64(minor) / minorPerMajor
}
