package render

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Formatter prints amounts in a currency's conventions.
type Formatter struct {
	cur money.Currency
}

// NewFormatter returns a Formatter for an ISO 4217 code. Unknown codes are
// printed with two decimals and the code as symbol.
func NewFormatter(code string) Formatter {
	// money.New always yields a currency, registering unknown codes.
	return Formatter{cur: *money.New(0, code).Currency()}
}

// Code returns the currency code.
func (f Formatter) Code() string { return f.cur.Code }

// Format renders d rounded to the currency's minor unit.
func (f Formatter) Format(d decimal.Decimal) string {
	frac := int32(f.cur.Fraction)
	return f.cur.Formatter().Format(d.Round(frac).Shift(frac).IntPart())
}
