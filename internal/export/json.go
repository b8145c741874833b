package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/atlas-finance/atlas/internal/depreciation"
	"github.com/atlas-finance/atlas/internal/model"
)

// LineDTO is one schedule period on the wire. Amounts are fixed two-decimal
// strings so no float ever touches them.
type LineDTO struct {
	Period           int    `json:"period"`
	Start            string `json:"start"`
	End              string `json:"end"`
	OpeningBookValue string `json:"opening_book_value"`
	Expense          string `json:"expense"`
	Accumulated      string `json:"accumulated"`
	ClosingBookValue string `json:"closing_book_value"`
	Regime           string `json:"regime"`
}

// PostingDTO is one derived ledger entry on the wire.
type PostingDTO struct {
	Reference     string `json:"reference"`
	Period        int    `json:"period"`
	Date          string `json:"date"`
	DebitAccount  string `json:"debit_account"`
	CreditAccount string `json:"credit_account"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
}

// ScheduleDTO is a computed schedule, or the reason there is none.
type ScheduleDTO struct {
	AssetCode string       `json:"asset_code,omitempty"`
	Kind      string       `json:"kind"`
	Reason    string       `json:"reason,omitempty"`
	Method    string       `json:"method,omitempty"`
	Base      string       `json:"base,omitempty"`
	Rate      string       `json:"rate,omitempty"`
	Lines     []LineDTO    `json:"lines"`
	Postings  []PostingDTO `json:"postings"`
	Total     string       `json:"total"`
}

// NewSchedule converts a Result. Lines and postings are never null.
func NewSchedule(assetCode string, res depreciation.Result) ScheduleDTO {
	dto := ScheduleDTO{
		AssetCode: assetCode,
		Kind:      string(res.Kind),
		Reason:    string(res.Reason),
		Lines:     make([]LineDTO, 0, len(res.Lines)),
		Postings:  make([]PostingDTO, 0, len(res.Postings)),
		Total:     res.Total().StringFixed(2),
	}
	if !res.IsEmpty() {
		dto.Method = string(res.Params.Method)
		dto.Base = res.Base.StringFixed(2)
		if !res.Rate.IsZero() {
			dto.Rate = res.Rate.String()
		}
	}
	for _, l := range res.Lines {
		dto.Lines = append(dto.Lines, NewLine(l))
	}
	for _, p := range res.Postings {
		dto.Postings = append(dto.Postings, NewPosting(p))
	}
	return dto
}

// NewLine converts a schedule line.
func NewLine(l model.Line) LineDTO {
	return LineDTO{
		Period:           l.Period,
		Start:            l.Start.Format(model.DateFormat),
		End:              l.End.Format(model.DateFormat),
		OpeningBookValue: l.OpeningBookValue.StringFixed(2),
		Expense:          l.Expense.StringFixed(2),
		Accumulated:      l.Accumulated.StringFixed(2),
		ClosingBookValue: l.ClosingBookValue.StringFixed(2),
		Regime:           string(l.Regime),
	}
}

// NewPosting converts a posting.
func NewPosting(p model.Posting) PostingDTO {
	return PostingDTO{
		Reference:     p.Reference,
		Period:        p.Period,
		Date:          p.Date.Format(model.DateFormat),
		DebitAccount:  p.DebitAccount,
		CreditAccount: p.CreditAccount,
		Amount:        p.Amount.StringFixed(2),
		Description:   p.Description,
	}
}

// ClassDTO is an asset class on the wire.
type ClassDTO struct {
	Code               string `json:"code"`
	Label              string `json:"label"`
	UsefulLifeYears    int    `json:"useful_life_years"`
	Method             string `json:"method"`
	StatedRate         string `json:"stated_rate,omitempty"`
	AssetAccount       string `json:"asset_account,omitempty"`
	AccumulatedAccount string `json:"accumulated_account,omitempty"`
	ExpenseAccount     string `json:"expense_account,omitempty"`
}

// NewClass converts an asset class.
func NewClass(c model.AssetClass) ClassDTO {
	dto := ClassDTO{
		Code:               c.Code,
		Label:              c.Label,
		UsefulLifeYears:    c.UsefulLifeYears,
		Method:             string(c.Method),
		AssetAccount:       c.AssetAccount,
		AccumulatedAccount: c.AccumulatedAccount,
		ExpenseAccount:     c.ExpenseAccount,
	}
	if !c.StatedRate.IsZero() {
		dto.StatedRate = c.StatedRate.String()
	}
	return dto
}

// ParseAmount reads an optional wire amount. Empty is zero.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &depreciation.ValidationError{Field: field, Reason: fmt.Sprintf("not a decimal: %q", s)}
	}
	return d, nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
