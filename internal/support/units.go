package support

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is the denomination an entry form collects money in.
type Unit string

const (
	// UnitWon is plain won, the default.
	UnitWon Unit = "won"
	// UnitTenThousand is the 10,000-won denomination (manwon) used by
	// the short-entry form.
	UnitTenThousand Unit = "manwon"
)

var (
	tenThousand = decimal.NewFromInt(10_000)
	maxAmount   = decimal.NewFromInt(MaxAmount)
)

// ParseUnit maps a case-insensitive name to a Unit. An empty string means UnitWon.
func ParseUnit(raw string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(raw))) {
	case "", UnitWon:
		return UnitWon, nil
	case UnitTenThousand:
		return UnitTenThousand, nil
	}
	return "", fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, raw)
}

// ToWon converts an amount entered in u to whole won, rounding half away
// from zero. The sign is kept; Validate rejects negative amounts.
func (u Unit) ToWon(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: amount must be a finite number", ErrInvalidInput)
	}
	d := decimal.NewFromFloat(v)
	if u == UnitTenThousand {
		d = d.Mul(tenThousand)
	}
	d = d.Round(0)
	if d.Abs().GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: amount exceeds %s", ErrInvalidInput, maxAmount)
	}
	return d.IntPart(), nil
}
