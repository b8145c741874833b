package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atlas-finance/atlas/internal/depreciation"
	"github.com/atlas-finance/atlas/internal/model"
)

// ScheduleHeader is the CSV header for a schedule file.
const ScheduleHeader = "period,start,end,opening_book_value,expense,accumulated,closing_book_value,regime"

// SummaryHeader is the CSV header for a batch summary.
const SummaryHeader = "asset_code,name,class,kind,reason,method,base,periods,first_end,last_end,total"

// WriteSchedule writes schedule lines with a header.
func WriteSchedule(w io.Writer, lines []model.Line) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(ScheduleHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, l := range lines {
		if err := cw.Write(MarshalLine(l)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLine converts a schedule line to a CSV row.
func MarshalLine(l model.Line) []string {
	d := NewLine(l)
	return []string{
		strconv.Itoa(d.Period),
		d.Start,
		d.End,
		d.OpeningBookValue,
		d.Expense,
		d.Accumulated,
		d.ClosingBookValue,
		d.Regime,
	}
}

// Summary is one asset's outcome in a batch.
type Summary struct {
	AssetCode string
	Name      string
	ClassCode string
	Result    depreciation.Result
}

// WriteSummaries writes one row per asset with a header.
func WriteSummaries(w io.Writer, rows []Summary) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(SummaryHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, s := range rows {
		if err := cw.Write(MarshalSummary(s)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalSummary converts a Summary to a CSV row.
func MarshalSummary(s Summary) []string {
	res := s.Result
	row := []string{
		s.AssetCode,
		s.Name,
		s.ClassCode,
		string(res.Kind),
		string(res.Reason),
		"",
		"",
		strconv.Itoa(len(res.Lines)),
		"",
		"",
		res.Total().StringFixed(2),
	}
	if res.IsEmpty() {
		return row
	}
	row[5] = string(res.Params.Method)
	row[6] = res.Base.StringFixed(2)
	if len(res.Lines) > 0 {
		row[8] = res.Lines[0].End.Format(model.DateFormat)
		row[9] = res.Lines[len(res.Lines)-1].End.Format(model.DateFormat)
	}
	return row
}
