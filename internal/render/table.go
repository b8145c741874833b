// Package render formats schedules for people: aligned text tables and
// Markdown reports.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/atlas-finance/atlas/internal/depreciation"
	"github.com/atlas-finance/atlas/internal/export"
	"github.com/atlas-finance/atlas/internal/model"
)

// Table writes an aligned text preview of a schedule.
func Table(w io.Writer, title string, res depreciation.Result, f Formatter) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if res.IsEmpty() {
		_, err := fmt.Fprintf(w, "No schedule: %s\n", describe(res.Reason))
		return err
	}

	if _, err := fmt.Fprintln(w, summary(res, f)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Period\tStart\tEnd\tOpening\tDotation\tAccumulated\tClosing\tRegime\t")
	for _, l := range res.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
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
	fmt.Fprintf(tw, "\t\tTotal\t\t%s\t\t\t\t\n", f.Format(res.Total()))
	return tw.Flush()
}

// Summaries writes one aligned line per asset of a batch.
func Summaries(w io.Writer, rows []export.Summary, f Formatter) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Asset\tName\tClass\tMethod\tPeriods\tTotal\tStatus")
	for _, s := range rows {
		status := "ok"
		if s.Result.IsEmpty() {
			status = describe(s.Result.Reason)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			s.AssetCode, s.Name, s.ClassCode, method(s.Result), len(s.Result.Lines), f.Format(s.Result.Total()), status)
	}
	return tw.Flush()
}

func summary(res depreciation.Result, f Formatter) string {
	s := fmt.Sprintf("Method: %s  Base: %s  Life: %d years", res.Params.Method, f.Format(res.Base), res.Params.UsefulLifeYears)
	if !res.Rate.IsZero() {
		s += fmt.Sprintf("  Rate: %s%%", res.Rate.StringFixed(2))
	}
	return s
}

func method(res depreciation.Result) string {
	if res.IsEmpty() {
		return "-"
	}
	return string(res.Params.Method)
}

func describe(r depreciation.EmptyReason) string {
	switch r {
	case depreciation.ReasonNonDepreciable:
		return "asset is not depreciable"
	case depreciation.ReasonZeroLife:
		return "useful life is zero"
	case depreciation.ReasonNoStartDate:
		return "start date not set"
	case depreciation.ReasonNoBase:
		return "nothing to depreciate"
	default:
		return string(r)
	}
}
