package depreciation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlas-finance/atlas/internal/model"
)

var (
	twelve = decimal.NewFromInt(12)
	cent   = decimal.New(1, -2)
)

// round2 rounds to cents, half away from zero. For the non-negative amounts
// the engine produces this equals half-up.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// prorata scales an annual amount to the months left in the start year.
func prorata(amount decimal.Decimal, startMonth int) decimal.Decimal {
	months := decimal.NewFromInt(int64(12 - startMonth))
	return round2(amount.Mul(months).Div(twelve))
}

// assembler accumulates schedule lines and enforces the shared invariants:
// the accumulated total never exceeds the base and the closing book value
// never drops below the residual value.
type assembler struct {
	v           Validated
	lines       []model.Line
	accumulated decimal.Decimal
}

func newAssembler(v Validated) *assembler {
	return &assembler{v: v, lines: make([]model.Line, 0, v.Years+1)}
}

// opening returns the book value before the next charge.
func (a *assembler) opening() decimal.Decimal {
	return a.v.Params.AcquisitionCost.Sub(a.accumulated)
}

// capped limits amount to what is left of the base.
func (a *assembler) capped(amount decimal.Decimal) decimal.Decimal {
	if a.accumulated.Add(amount).GreaterThan(a.v.Base) {
		return a.v.Base.Sub(a.accumulated)
	}
	return amount
}

// remaining returns the part of the base not yet depreciated.
func (a *assembler) remaining() decimal.Decimal {
	return a.v.Base.Sub(a.accumulated)
}

// add appends the line for iteration i (0-based) of the generator.
func (a *assembler) add(i int, amount decimal.Decimal, regime model.Regime) {
	start, end := a.periodRange(i)
	a.push(start, end, amount, regime)
}

// addStub appends the trailing partial year that ends the day before the
// anniversary of the start date. It carries the whole remainder.
func (a *assembler) addStub() {
	start := time.Date(a.v.StartYear+a.v.Years, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := a.v.Params.StartDate.AddDate(a.v.Years, 0, -1)
	a.push(start, end, a.remaining(), model.RegimeLinear)
	a.lines[len(a.lines)-1].ClosingBookValue = a.v.Params.ResidualValue
}

func (a *assembler) push(start, end time.Time, amount decimal.Decimal, regime model.Regime) {
	opening := a.opening()
	a.accumulated = a.accumulated.Add(amount)
	closing := round2(a.opening())
	if closing.LessThan(a.v.Params.ResidualValue) {
		closing = a.v.Params.ResidualValue
	}
	a.lines = append(a.lines, model.Line{
		Period:           len(a.lines) + 1,
		Start:            start,
		End:              end,
		OpeningBookValue: opening,
		Expense:          amount,
		Accumulated:      a.accumulated,
		ClosingBookValue: closing,
		Regime:           regime,
	})
}

// periodRange covers the calendar year startYear+i; the first period starts
// on the actual start date.
func (a *assembler) periodRange(i int) (time.Time, time.Time) {
	year := a.v.StartYear + i
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if i == 0 {
		start = a.v.Params.StartDate
	}
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}
