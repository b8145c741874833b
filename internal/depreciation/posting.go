package depreciation

import (
	"fmt"

	"github.com/atlas-finance/atlas/internal/id"
	"github.com/atlas-finance/atlas/internal/model"
)

// PostingAccounts are the ledger accounts a dotation is posted to. They come
// from the asset's classification, never from the engine.
type PostingAccounts struct {
	Expense     string // debit: dotation aux amortissements
	Accumulated string // credit: amortissement cumulé
}

// DefaultAccounts are the SYSCOHADA class-level accounts used when the
// caller resolved none.
var DefaultAccounts = PostingAccounts{Expense: "681", Accumulated: "28"}

// IsZero reports whether no account was given.
func (a PostingAccounts) IsZero() bool {
	return a.Expense == "" && a.Accumulated == ""
}

// Project maps each line to its posting. Account existence is not checked;
// that belongs to the journal.
func Project(assetCode string, lines []model.Line, accounts PostingAccounts) []model.Posting {
	if accounts.IsZero() {
		accounts = DefaultAccounts
	}

	postings := make([]model.Posting, 0, len(lines))
	for _, l := range lines {
		year := l.End.Year()
		postings = append(postings, model.Posting{
			Reference:     id.FormatPostingID(assetCode, year, l.Period),
			Period:        l.Period,
			Date:          l.End,
			DebitAccount:  accounts.Expense,
			CreditAccount: accounts.Accumulated,
			Amount:        l.Expense,
			Description:   description(assetCode, year),
		})
	}
	return postings
}

func description(assetCode string, year int) string {
	if assetCode == "" {
		return fmt.Sprintf("Dotation aux amortissements %d", year)
	}
	return fmt.Sprintf("Dotation aux amortissements %s %d", assetCode, year)
}
