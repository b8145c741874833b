package register

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlas-finance/atlas/internal/model"
)

// LedgerParser parses the fixed-asset listing exported by French-locale
// accounting packages: semicolon separated, comma decimals, DD/MM/YYYY dates.
type LedgerParser struct{}

const (
	ledgerDateFormat = "02/01/2006"
	ledgerNumFields  = 7
	ledgerColCode    = 0
	ledgerColName    = 1
	ledgerColClass   = 2
	ledgerColCost    = 3
	ledgerColStart   = 4
	ledgerColLife    = 5
	ledgerColMethod  = 6
)

// Format returns the parser name.
func (p *LedgerParser) Format() string { return "ledger" }

// Parse reads a ledger export and returns Assets. The whole cost is booked as
// purchase price.
func (p *LedgerParser) Parse(r io.Reader) ([]model.Asset, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = ledgerNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var assets []model.Asset
	for i, rec := range records[1:] {
		a, err := parseLedgerRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

func parseLedgerRow(rec []string) (model.Asset, error) {
	code := strings.TrimSpace(rec[ledgerColCode])
	if code == "" {
		return model.Asset{}, fmt.Errorf("missing asset code")
	}

	cost, err := parseFrenchAmount(rec[ledgerColCost])
	if err != nil {
		return model.Asset{}, fmt.Errorf("parsing amount %q: %w", rec[ledgerColCost], err)
	}

	a := model.Asset{
		Code:      code,
		Name:      strings.TrimSpace(rec[ledgerColName]),
		ClassCode: strings.TrimSpace(rec[ledgerColClass]),
		Cost:      model.CostBreakdown{Purchase: cost},
	}

	if s := strings.TrimSpace(rec[ledgerColStart]); s != "" {
		start, err := time.Parse(ledgerDateFormat, s)
		if err != nil {
			return model.Asset{}, fmt.Errorf("parsing date %q: %w", s, err)
		}
		a.StartDate = start
	}

	if s := strings.TrimSpace(rec[ledgerColLife]); s != "" {
		life, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSuffix(s, " ans"), " an"))
		if err != nil {
			return model.Asset{}, fmt.Errorf("parsing duration %q: %w", s, err)
		}
		a.UsefulLifeYears = life
	}

	if s := strings.TrimSpace(rec[ledgerColMethod]); s != "" {
		m, err := model.ParseMethod(s)
		if err != nil {
			return model.Asset{}, err
		}
		a.Method = m
	}
	return a, nil
}

// parseFrenchAmount accepts "1 500,50", "1.500,50" and "1500,5". A dot
// only groups thousands, so "1500.50" is rejected rather than read as 150050.
func parseFrenchAmount(s string) (decimal.Decimal, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, nil
	}

	whole, frac, hasFrac := strings.Cut(s, ",")
	if strings.Contains(whole, ".") {
		groups := strings.Split(whole, ".")
		for i, g := range groups {
			if (i == 0 && (len(g) == 0 || len(g) > 3)) || (i > 0 && len(g) != 3) {
				return decimal.Zero, fmt.Errorf("ambiguous dot in %q: decimals take a comma", s)
			}
		}
		whole = strings.Join(groups, "")
	}
	if hasFrac {
		whole += "." + frac
	}
	return decimal.NewFromString(whole)
}
