// Package depreciation computes fixed-asset depreciation schedules.
//
// Generate is a pure function of its inputs: it holds no state, does no I/O
// and may be called concurrently. Insufficient input (no start date, zero
// useful life, non-depreciable asset, nothing to amortize) yields a Result
// of kind KindEmpty rather than an error; errors are reserved for
// parameters that cannot describe a real asset.
package depreciation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/atlas-finance/atlas/internal/id"
	"github.com/atlas-finance/atlas/internal/model"
)

// StubPolicy decides how a straight-line schedule that starts after January
// closes out its base.
type StubPolicy string

const (
	// StubClosingComplement gives the last of N periods whatever remains of the base.
	StubClosingComplement StubPolicy = "closing_complement"
	// StubProrated keeps the last period at the annual amount and appends an
	// N+1th period running up to the anniversary of the start date.
	StubProrated StubPolicy = "prorated_stub"
)

// ParseStubPolicy validates a policy name. Empty selects the default.
func ParseStubPolicy(s string) (StubPolicy, error) {
	switch StubPolicy(s) {
	case "", StubClosingComplement:
		return StubClosingComplement, nil
	case StubProrated:
		return StubProrated, nil
	default:
		return "", fmt.Errorf("unknown stub policy %q", s)
	}
}

// Options tune a schedule computation. The zero value is valid.
type Options struct {
	StubPolicy StubPolicy
	// AssetCode is stamped into posting references.
	AssetCode string
	// Accounts for the derived postings; DefaultAccounts when empty.
	Accounts PostingAccounts
}

// Kind tags a Result.
type Kind string

const (
	KindEmpty    Kind = "empty"
	KindSchedule Kind = "schedule"
)

// Result is a computed schedule, or the reason there is none.
type Result struct {
	Kind     Kind
	Reason   EmptyReason
	Params   model.Parameters
	Base     decimal.Decimal
	Rate     decimal.Decimal // effective declining rate in percent; zero for straight line
	Lines    []model.Line
	Postings []model.Posting
}

// IsEmpty reports whether there is nothing to amortize.
func (r Result) IsEmpty() bool { return r.Kind == KindEmpty }

// Total returns the sum of all period charges.
func (r Result) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Expense)
	}
	return total
}

// Final returns the last line, if any.
func (r Result) Final() (model.Line, bool) {
	if len(r.Lines) == 0 {
		return model.Line{}, false
	}
	return r.Lines[len(r.Lines)-1], true
}

// Generate validates params and computes the schedule and its postings.
func Generate(params model.Parameters, opts Options) (Result, error) {
	if opts.AssetCode != "" && !id.ValidAssetCode(opts.AssetCode) {
		return Result{}, &ValidationError{
			Field:  "asset_code",
			Reason: fmt.Sprintf("only letters, digits and dashes allowed, got %q", opts.AssetCode),
		}
	}

	v, reason, err := Validate(params)
	if err != nil {
		return Result{}, err
	}
	if reason != ReasonNone {
		return Result{Kind: KindEmpty, Reason: reason, Params: params}, nil
	}

	policy, err := ParseStubPolicy(string(opts.StubPolicy))
	if err != nil {
		return Result{}, &ValidationError{Field: "stub_policy", Reason: err.Error()}
	}

	res := Result{Kind: KindSchedule, Params: v.Params, Base: v.Base}
	switch v.Params.Method {
	case model.MethodDecliningBalance:
		res.Rate = DecliningRate(v.Years, v.Params.StatedRate)
		res.Lines = decliningBalance(v)
	default:
		res.Lines = straightLine(v, policy)
	}

	// A sub-cent base rounds to no charge at all.
	if len(res.Lines) == 0 {
		return Result{Kind: KindEmpty, Reason: ReasonNoBase, Params: params}, nil
	}

	res.Postings = Project(opts.AssetCode, res.Lines, opts.Accounts)
	return res, nil
}
