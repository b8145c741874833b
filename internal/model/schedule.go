package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlas-finance/atlas/internal/id"
)

// Regime records which formula produced a period's charge.
type Regime string

const (
	RegimeLinear    Regime = "linear"
	RegimeDeclining Regime = "declining"
)

// Line is one period of a depreciation schedule.
type Line struct {
	Period           int
	Start            time.Time
	End              time.Time
	OpeningBookValue decimal.Decimal
	Expense          decimal.Decimal // dotation
	Accumulated      decimal.Decimal
	ClosingBookValue decimal.Decimal // VNC, never below the residual value
	Regime           Regime
}

// Posting is the ledger entry derived from one Line: debit the dotation
// expense account, credit the accumulated depreciation account.
type Posting struct {
	Reference     string
	Period        int
	Date          time.Time
	DebitAccount  string
	CreditAccount string
	Amount        decimal.Decimal
	Description   string
}

// Leg is one side of a journal pre-fill entry.
type Leg struct {
	EntryID     string // posting reference + leg suffix: "DOT-A1-2024-01a"
	Date        time.Time
	AccountID   string
	Description string
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
	Reference   string
}

// Legs splits a posting into its debit and credit legs.
func (p Posting) Legs() []Leg {
	return []Leg{
		{
			EntryID:     id.FormatLegID(p.Reference, 0),
			Date:        p.Date,
			AccountID:   p.DebitAccount,
			Description: p.Description,
			Debit:       p.Amount,
			Reference:   p.Reference,
		},
		{
			EntryID:     id.FormatLegID(p.Reference, 1),
			Date:        p.Date,
			AccountID:   p.CreditAccount,
			Description: p.Description,
			Credit:      p.Amount,
			Reference:   p.Reference,
		},
	}
}
