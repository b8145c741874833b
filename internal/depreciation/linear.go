package depreciation

import (
	"github.com/shopspring/decimal"

	"github.com/atlas-finance/atlas/internal/model"
)

// straightLine spreads the base evenly over the useful life. A start after
// January prorates the first year; the stub policy decides who absorbs the
// rest of the base.
func straightLine(v Validated, policy StubPolicy) []model.Line {
	a := newAssembler(v)
	annual := round2(v.Base.Div(decimal.NewFromInt(int64(v.Years))))
	prorated := v.StartMonth > 0

	for i := 0; i < v.Years; i++ {
		amount := annual
		if i == 0 && prorated {
			amount = prorata(annual, v.StartMonth)
		}
		// Closing complement: the last year takes whatever is left so the
		// total hits the base exactly. Without proration it only absorbs
		// the cents lost rounding the annual amount.
		if i == v.Years-1 && (!prorated || policy != StubProrated) {
			amount = round2(a.remaining())
		}

		amount = a.capped(amount)
		if !amount.IsPositive() {
			break
		}
		a.add(i, amount, model.RegimeLinear)
	}

	if prorated && a.accumulated.LessThan(v.Base) {
		a.addStub()
	}
	return a.lines
}
