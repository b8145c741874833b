package depreciation

import (
	"github.com/shopspring/decimal"

	"github.com/atlas-finance/atlas/internal/model"
)

// Coefficient returns the declining-balance multiplier for a useful life.
func Coefficient(years int) decimal.Decimal {
	switch {
	case years <= 4:
		return decimal.NewFromFloat(1.5)
	case years <= 6:
		return decimal.NewFromInt(2)
	default:
		return decimal.NewFromFloat(2.5)
	}
}

// DecliningRate returns the percentage applied to the opening book value:
// the stated rate when one is given, else the linear rate times the coefficient.
func DecliningRate(years int, stated decimal.Decimal) decimal.Decimal {
	if stated.IsPositive() {
		return stated
	}
	return hundred.Div(decimal.NewFromInt(int64(years))).Mul(Coefficient(years))
}

// decliningBalance charges rate% of the opening book value each year and
// switches to linear on the remaining value as soon as that is larger.
// Once linear, it stays linear: the remaining-value split is constant while
// the declining charge keeps shrinking.
func decliningBalance(v Validated) []model.Line {
	a := newAssembler(v)
	rate := DecliningRate(v.Years, v.Params.StatedRate)
	residual := v.Params.ResidualValue
	floor := residual.Add(cent)

	// Two extra iterations leave room for the switch-to-residual step; the
	// bound also guarantees termination under pathological rounding.
	for i := 0; i < v.Years+2; i++ {
		opening := a.opening()
		if opening.LessThanOrEqual(floor) {
			break
		}

		remainingYears := v.Years - i
		declining := round2(opening.Mul(rate).Div(hundred))
		linear := opening.Sub(residual)
		if remainingYears > 0 {
			linear = round2(linear.Div(decimal.NewFromInt(int64(remainingYears))))
		}

		amount, regime := declining, model.RegimeDeclining
		if linear.GreaterThanOrEqual(declining) {
			amount, regime = linear, model.RegimeLinear
		}
		if i == 0 && v.StartMonth > 0 {
			amount = prorata(amount, v.StartMonth)
		}

		capped := a.capped(amount)
		if !capped.IsPositive() {
			break
		}
		// A charge cut down to the linear remainder is a linear charge.
		if capped.LessThan(amount) && capped.Equal(linear) {
			regime = model.RegimeLinear
		}
		a.add(i, capped, regime)
	}
	return a.lines
}
