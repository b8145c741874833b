package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the wire format for every date the module reads or writes.
const DateFormat = "2006-01-02"

// Method selects the depreciation rule.
type Method string

const (
	MethodStraightLine     Method = "straight_line"
	MethodDecliningBalance Method = "declining_balance"
	MethodNonDepreciable   Method = "non_depreciable"
	// MethodUnitsOfProduction is recognised so it can be rejected; no rule exists for it.
	MethodUnitsOfProduction Method = "units_of_production"
)

// ParseMethod maps user input to a Method. The French labels used on the
// asset form are accepted as aliases.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "straight_line", "linear", "lineaire", "linéaire":
		return MethodStraightLine, nil
	case "declining_balance", "declining", "degressif", "dégressif":
		return MethodDecliningBalance, nil
	case "non_depreciable", "none":
		return MethodNonDepreciable, nil
	case "units_of_production", "unites_oeuvre":
		return MethodUnitsOfProduction, nil
	default:
		return "", fmt.Errorf("unknown depreciation method %q", s)
	}
}

// CostBreakdown lists the components capitalized into an asset's cost.
type CostBreakdown struct {
	Purchase     decimal.Decimal
	Transport    decimal.Decimal
	Installation decimal.Decimal
	Other        decimal.Decimal
}

// Total returns the acquisition cost.
func (c CostBreakdown) Total() decimal.Decimal {
	return c.Purchase.Add(c.Transport).Add(c.Installation).Add(c.Other)
}

// Parameters is the immutable input of a schedule computation.
type Parameters struct {
	AcquisitionCost decimal.Decimal
	ResidualValue   decimal.Decimal
	UsefulLifeYears int
	Method          Method
	StatedRate      decimal.Decimal // percent; zero = compute default
	StartDate       time.Time       // zero = not yet known
}

// Base returns the depreciable base (cost minus residual value).
func (p Parameters) Base() decimal.Decimal {
	return p.AcquisitionCost.Sub(p.ResidualValue)
}

// Asset is one row of an asset register.
type Asset struct {
	Code      string
	Name      string
	ClassCode string
	Cost      CostBreakdown
	// Overrides; zero values fall back to the asset class.
	ResidualValue   decimal.Decimal
	UsefulLifeYears int
	Method          Method
	StatedRate      decimal.Decimal
	StartDate       time.Time
}

// Parameters returns the asset's own parameters without class defaults.
func (a Asset) Parameters() Parameters {
	return Parameters{
		AcquisitionCost: a.Cost.Total(),
		ResidualValue:   a.ResidualValue,
		UsefulLifeYears: a.UsefulLifeYears,
		Method:          a.Method,
		StatedRate:      a.StatedRate,
		StartDate:       a.StartDate,
	}
}
