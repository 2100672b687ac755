package support

import (
	"github.com/shopspring/decimal"
)

// Adjustment coefficients of the 2021 schedule.
var (
	oneChildMultiplier   = decimal.RequireFromString("1.065")
	multiChildMultiplier = decimal.RequireFromString("0.783")
	urbanMultiplier      = decimal.RequireFromString("1.079")
	ruralMultiplier      = decimal.RequireFromString("0.835")

	hundred = decimal.NewFromInt(100)
)

// paymentPrecision keeps the quotient exact enough that a payment lying on
// a multiple of 5 is never truncated below it before rounding.
const paymentPrecision = 24

// CountMultiplier returns the factor for the number of eligible children:
// 1.065 for one, 0.783 for three or more, 1 otherwise.
func CountMultiplier(eligible int) decimal.Decimal {
	switch {
	case eligible == 1:
		return oneChildMultiplier
	case eligible >= 3:
		return multiChildMultiplier
	}
	return decimal.NewFromInt(1)
}

// ResidenceMultiplier returns the factor for the residence category.
func ResidenceMultiplier(r Residence) decimal.Decimal {
	switch r {
	case ResidenceUrban:
		return urbanMultiplier
	case ResidenceRural:
		return ruralMultiplier
	}
	return decimal.NewFromInt(1)
}

// Adjust scales the baseline sum by the count factor, then the residence
// factor, and adds the extra expenses unscaled.
func Adjust(baseTotal int64, countMultiplier, residenceMultiplier decimal.Decimal, extra int64) decimal.Decimal {
	adjusted := decimal.NewFromInt(baseTotal).Mul(countMultiplier).Mul(residenceMultiplier)
	return adjusted.Add(decimal.NewFromInt(extra))
}

// ShareRatio returns the non-custodial parent's fraction of combined
// income, or zero when combined income is zero.
func ShareRatio(combined, nonCustodial int64) decimal.Decimal {
	if combined <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(nonCustodial).Div(decimal.NewFromInt(combined))
}

// RatioPercent reports a ratio as a percentage with one decimal place.
func RatioPercent(ratio decimal.Decimal) float64 {
	return ratio.Mul(hundred).Round(1).InexactFloat64()
}

// Allocate returns the non-custodial parent's payment, total times
// nonCustodial/combined, rounded to the nearest 10 with ties away from zero.
// The product is taken before the division. Zero combined income pays zero.
func Allocate(total decimal.Decimal, combined, nonCustodial int64) int64 {
	if combined <= 0 {
		return 0
	}
	share := total.Mul(decimal.NewFromInt(nonCustodial)).DivRound(decimal.NewFromInt(combined), paymentPrecision)
	return share.Round(-1).IntPart()
}
