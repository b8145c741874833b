package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/atlas-finance/atlas/internal/depreciation"
	"github.com/atlas-finance/atlas/internal/model"
)

// Markdown returns a report with a summary and a GFM table of the schedule
// and its postings.
func Markdown(title string, res depreciation.Result, f Formatter) string {
	var b strings.Builder
	if title == "" {
		title = "Depreciation schedule"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if res.IsEmpty() {
		fmt.Fprintf(&b, "No schedule: %s.\n", describe(res.Reason))
		return b.String()
	}

	fmt.Fprintf(&b, "- Method: `%s`\n", res.Params.Method)
	fmt.Fprintf(&b, "- Depreciable base: %s\n", f.Format(res.Base))
	fmt.Fprintf(&b, "- Useful life: %d years\n", res.Params.UsefulLifeYears)
	if !res.Rate.IsZero() {
		fmt.Fprintf(&b, "- Declining rate: %s%%\n", res.Rate.StringFixed(2))
	}
	b.WriteString("\n## Schedule\n\n")
	b.WriteString("| Period | Start | End | Opening | Dotation | Accumulated | Closing | Regime |\n")
	b.WriteString("|---:|---|---|---:|---:|---:|---:|---|\n")
	for _, l := range res.Lines {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			l.Period,
			l.Start.Format(model.DateFormat),
			l.End.Format(model.DateFormat),
			f.Format(l.OpeningBookValue),
			f.Format(l.Expense),
			f.Format(l.Accumulated),
			f.Format(l.ClosingBookValue),
			l.Regime,
		)
	}
	fmt.Fprintf(&b, "| | | **Total** | | **%s** | | | |\n", f.Format(res.Total()))

	if len(res.Postings) > 0 {
		b.WriteString("\n## Postings\n\n")
		b.WriteString("| Reference | Date | Debit | Credit | Amount |\n")
		b.WriteString("|---|---|---|---|---:|\n")
		for _, p := range res.Postings {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				p.Reference, p.Date.Format(model.DateFormat), p.DebitAccount, p.CreditAccount, f.Format(p.Amount))
		}
	}
	return b.String()
}

// Pretty renders Markdown for a terminal. style is a glamour standard style
// ("dark", "light", "notty"); empty detects it from the terminal.
func Pretty(md, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(0)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
