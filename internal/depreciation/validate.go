package depreciation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlas-finance/atlas/internal/model"
)

// EmptyReason explains why a schedule has no lines.
type EmptyReason string

const (
	ReasonNone           EmptyReason = ""
	ReasonNonDepreciable EmptyReason = "non_depreciable"
	ReasonZeroLife       EmptyReason = "zero_useful_life"
	ReasonNoStartDate    EmptyReason = "missing_start_date"
	ReasonNoBase         EmptyReason = "no_depreciable_base"
)

var hundred = decimal.NewFromInt(100)

// Validated holds parameters that passed validation, with the derived values
// both generators need.
type Validated struct {
	Params     model.Parameters
	Base       decimal.Decimal
	Years      int
	StartYear  int
	StartMonth int // 0 = January
}

// Validate checks params. A non-empty reason means there is nothing to
// amortize; that is not an error. Errors are reserved for input that cannot
// describe a real asset.
func Validate(p model.Parameters) (Validated, EmptyReason, error) {
	switch p.Method {
	case model.MethodStraightLine, model.MethodDecliningBalance:
	case model.MethodNonDepreciable:
		return Validated{}, ReasonNonDepreciable, nil
	case model.MethodUnitsOfProduction:
		return Validated{}, ReasonNone, fmt.Errorf("%w: %s", ErrUnsupportedMethod, p.Method)
	default:
		return Validated{}, ReasonNone, &ValidationError{Field: "method", Reason: fmt.Sprintf("unknown method %q", p.Method)}
	}

	if p.UsefulLifeYears == 0 {
		return Validated{}, ReasonZeroLife, nil
	}

	if err := checkRanges(p); err != nil {
		return Validated{}, ReasonNone, err
	}

	if p.StartDate.IsZero() {
		return Validated{}, ReasonNoStartDate, nil
	}

	base := p.Base()
	if !base.IsPositive() {
		return Validated{}, ReasonNoBase, nil
	}

	sd := p.StartDate
	p.StartDate = time.Date(sd.Year(), sd.Month(), sd.Day(), 0, 0, 0, 0, time.UTC)

	return Validated{
		Params:     p,
		Base:       base,
		Years:      p.UsefulLifeYears,
		StartYear:  p.StartDate.Year(),
		StartMonth: int(p.StartDate.Month()) - 1,
	}, ReasonNone, nil
}

func checkRanges(p model.Parameters) error {
	switch {
	case p.UsefulLifeYears < 0:
		return &ValidationError{Field: "useful_life_years", Reason: fmt.Sprintf("must not be negative, got %d", p.UsefulLifeYears)}
	case p.AcquisitionCost.IsNegative():
		return &ValidationError{Field: "acquisition_cost", Reason: fmt.Sprintf("must not be negative, got %s", p.AcquisitionCost)}
	case p.ResidualValue.IsNegative():
		return &ValidationError{Field: "residual_value", Reason: fmt.Sprintf("must not be negative, got %s", p.ResidualValue)}
	case !wholeCents(p.AcquisitionCost):
		return &ValidationError{Field: "acquisition_cost", Reason: fmt.Sprintf("must be whole cents, got %s", p.AcquisitionCost)}
	case !wholeCents(p.ResidualValue):
		return &ValidationError{Field: "residual_value", Reason: fmt.Sprintf("must be whole cents, got %s", p.ResidualValue)}
	case p.ResidualValue.GreaterThan(p.AcquisitionCost):
		return &ValidationError{Field: "residual_value", Reason: fmt.Sprintf("%s exceeds acquisition cost %s", p.ResidualValue, p.AcquisitionCost)}
	case p.StatedRate.IsNegative():
		return &ValidationError{Field: "stated_rate", Reason: fmt.Sprintf("must not be negative, got %s", p.StatedRate)}
	case p.StatedRate.GreaterThan(hundred):
		return &ValidationError{Field: "stated_rate", Reason: fmt.Sprintf("must not exceed 100%%, got %s", p.StatedRate)}
	}
	return nil
}

func wholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
