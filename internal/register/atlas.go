package register

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlas-finance/atlas/internal/model"
)

// AtlasParser parses the native register layout written by WriteAssets.
type AtlasParser struct{}

const (
	numFields       = 12
	colCode         = 0
	colName         = 1
	colClass        = 2
	colPurchase     = 3
	colTransport    = 4
	colInstallation = 5
	colOther        = 6
	colResidual     = 7
	colLife         = 8
	colMethod       = 9
	colRate         = 10
	colStart        = 11
)

var header = []string{
	"asset_code", "name", "class", "purchase", "transport", "installation", "other",
	"residual_value", "useful_life_years", "method", "stated_rate", "start_date",
}

// Format returns the parser name.
func (p *AtlasParser) Format() string { return "atlas" }

// Parse reads a register CSV and returns its assets.
func (p *AtlasParser) Parse(r io.Reader) ([]model.Asset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading register CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var assets []model.Asset
	for i, rec := range records[1:] {
		a, err := UnmarshalAsset(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// WriteAssets writes assets in the native register layout.
func WriteAssets(w io.Writer, assets []model.Asset) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range assets {
		if err := cw.Write(MarshalAsset(a)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAsset converts an Asset to a CSV row. Zero overrides are left blank.
func MarshalAsset(a model.Asset) []string {
	row := make([]string, numFields)
	row[colCode] = a.Code
	row[colName] = a.Name
	row[colClass] = a.ClassCode
	row[colPurchase] = formatAmount(a.Cost.Purchase)
	row[colTransport] = formatAmount(a.Cost.Transport)
	row[colInstallation] = formatAmount(a.Cost.Installation)
	row[colOther] = formatAmount(a.Cost.Other)
	row[colResidual] = formatAmount(a.ResidualValue)
	if a.UsefulLifeYears != 0 {
		row[colLife] = strconv.Itoa(a.UsefulLifeYears)
	}
	row[colMethod] = string(a.Method)
	row[colRate] = formatAmount(a.StatedRate)
	if !a.StartDate.IsZero() {
		row[colStart] = a.StartDate.Format(model.DateFormat)
	}
	return row
}

// UnmarshalAsset converts a CSV row to an Asset.
func UnmarshalAsset(rec []string) (model.Asset, error) {
	if len(rec) != numFields {
		return model.Asset{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}
	code := strings.TrimSpace(rec[colCode])
	if code == "" {
		return model.Asset{}, errors.New("missing asset code")
	}

	a := model.Asset{
		Code:      code,
		Name:      rec[colName],
		ClassCode: strings.TrimSpace(rec[colClass]),
	}

	amounts := []struct {
		col  int
		name string
		dst  *decimal.Decimal
	}{
		{colPurchase, "purchase", &a.Cost.Purchase},
		{colTransport, "transport", &a.Cost.Transport},
		{colInstallation, "installation", &a.Cost.Installation},
		{colOther, "other", &a.Cost.Other},
		{colResidual, "residual_value", &a.ResidualValue},
		{colRate, "stated_rate", &a.StatedRate},
	}
	for _, f := range amounts {
		d, err := parseAmount(rec[f.col])
		if err != nil {
			return model.Asset{}, fmt.Errorf("asset %s: parsing %s %q: %w", code, f.name, rec[f.col], err)
		}
		*f.dst = d
	}

	if s := strings.TrimSpace(rec[colLife]); s != "" {
		life, err := strconv.Atoi(s)
		if err != nil {
			return model.Asset{}, fmt.Errorf("asset %s: parsing useful_life_years %q: %w", code, s, err)
		}
		a.UsefulLifeYears = life
	}

	if s := strings.TrimSpace(rec[colMethod]); s != "" {
		m, err := model.ParseMethod(s)
		if err != nil {
			return model.Asset{}, fmt.Errorf("asset %s: %w", code, err)
		}
		a.Method = m
	}

	if s := strings.TrimSpace(rec[colStart]); s != "" {
		start, err := time.Parse(model.DateFormat, s)
		if err != nil {
			return model.Asset{}, fmt.Errorf("asset %s: parsing start_date %q: %w", code, s, err)
		}
		a.StartDate = start
	}
	return a, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func formatAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
