package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/atlas-finance/atlas/internal/id"
	"github.com/atlas-finance/atlas/internal/model"
)

// Rule identifies which check a leg failed.
type Rule string

const (
	RuleBalanced   Rule = "balanced"
	RuleOneSide    Rule = "one_side"
	RuleAccount    Rule = "account"
	RuleReference  Rule = "reference"
	RuleDecimals   Rule = "decimals"
	RuleDuplicate  Rule = "duplicate"
	RulePositive   Rule = "positive"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        Rule
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.EntryID, e.Description)
}

// AccountChecker tests whether an account code can be posted to.
type AccountChecker interface {
	HasAccount(code string) bool
}

var hundred = decimal.NewFromInt(100)

// ValidateLegs checks a set of pre-fill legs. A nil checker skips the
// account check.
func ValidateLegs(legs []model.Leg, accounts AccountChecker) []ValidationError {
	var errs []ValidationError

	// Group legs by entry.
	groups := make(map[string][]model.Leg)
	var groupOrder []string
	for _, leg := range legs {
		g := id.EntryGroup(leg.EntryID)
		if _, seen := groups[g]; !seen {
			groupOrder = append(groupOrder, g)
		}
		groups[g] = append(groups[g], leg)
	}

	for _, g := range groupOrder {
		totalDebit := decimal.Zero
		totalCredit := decimal.Zero
		for _, leg := range groups[g] {
			totalDebit = totalDebit.Add(leg.Debit)
			totalCredit = totalCredit.Add(leg.Credit)
		}
		if !totalDebit.Equal(totalCredit) {
			errs = append(errs, ValidationError{
				Rule:        RuleBalanced,
				EntryID:     g,
				Description: fmt.Sprintf("debits (%s) != credits (%s)", totalDebit.StringFixed(2), totalCredit.StringFixed(2)),
			})
		}
		if _, _, _, err := id.ParsePostingID(g); err != nil {
			errs = append(errs, ValidationError{
				Rule:        RuleReference,
				EntryID:     g,
				Description: err.Error(),
			})
		}
	}

	seen := make(map[string]bool, len(legs))
	for _, leg := range legs {
		if seen[leg.EntryID] {
			errs = append(errs, ValidationError{
				Rule:        RuleDuplicate,
				EntryID:     leg.EntryID,
				Description: "leg appears more than once",
			})
		}
		seen[leg.EntryID] = true

		hasDebit := !leg.Debit.IsZero()
		hasCredit := !leg.Credit.IsZero()
		if hasDebit == hasCredit {
			errs = append(errs, ValidationError{
				Rule:        RuleOneSide,
				EntryID:     leg.EntryID,
				Description: "leg must have exactly one of debit or credit",
			})
		}

		if leg.Debit.IsNegative() || leg.Credit.IsNegative() {
			errs = append(errs, ValidationError{
				Rule:        RulePositive,
				EntryID:     leg.EntryID,
				Description: "amounts must not be negative",
			})
		}

		if accounts != nil && !accounts.HasAccount(leg.AccountID) {
			errs = append(errs, ValidationError{
				Rule:        RuleAccount,
				EntryID:     leg.EntryID,
				Description: fmt.Sprintf("unknown account %q", leg.AccountID),
			})
		}

		for _, amt := range []decimal.Decimal{leg.Debit, leg.Credit} {
			if !amt.Mul(hundred).Equal(amt.Mul(hundred).Floor()) {
				errs = append(errs, ValidationError{
					Rule:        RuleDecimals,
					EntryID:     leg.EntryID,
					Description: fmt.Sprintf("amount %s has more than 2 decimal places", amt),
				})
			}
		}
	}

	return errs
}
