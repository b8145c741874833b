package classification

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/atlas-finance/atlas/internal/model"
)

const (
	numFields      = 8
	colCode        = 0
	colLabel       = 1
	colLife        = 2
	colMethod      = 3
	colRate        = 4
	colAssetAcct   = 5
	colAccumAcct   = 6
	colExpenseAcct = 7
)

// ReadClasses reads asset-classes.csv.
func ReadClasses(r io.Reader) ([]model.AssetClass, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading asset classes CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var classes []model.AssetClass
	for i, rec := range records[1:] {
		c, err := UnmarshalClass(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// WriteClasses writes asset-classes.csv.
func WriteClasses(w io.Writer, classes []model.AssetClass) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"code", "label", "useful_life_years", "method", "stated_rate", "asset_account", "accumulated_account", "expense_account"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, c := range classes {
		if err := cw.Write(MarshalClass(c)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalClass converts an AssetClass to a CSV row.
func MarshalClass(c model.AssetClass) []string {
	row := make([]string, numFields)
	row[colCode] = c.Code
	row[colLabel] = c.Label
	row[colLife] = strconv.Itoa(c.UsefulLifeYears)
	row[colMethod] = string(c.Method)
	if !c.StatedRate.IsZero() {
		row[colRate] = c.StatedRate.String()
	}
	row[colAssetAcct] = c.AssetAccount
	row[colAccumAcct] = c.AccumulatedAccount
	row[colExpenseAcct] = c.ExpenseAccount
	return row
}

// UnmarshalClass converts a CSV row to an AssetClass.
func UnmarshalClass(record []string) (model.AssetClass, error) {
	if len(record) != numFields {
		return model.AssetClass{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colCode] == "" {
		return model.AssetClass{}, errors.New("missing class code")
	}

	var life int
	if record[colLife] != "" {
		var err error
		life, err = strconv.Atoi(record[colLife])
		if err != nil {
			return model.AssetClass{}, fmt.Errorf("parsing useful_life_years %q: %w", record[colLife], err)
		}
	}

	method, err := model.ParseMethod(record[colMethod])
	if err != nil {
		return model.AssetClass{}, fmt.Errorf("class %s: %w", record[colCode], err)
	}

	var rate decimal.Decimal
	if record[colRate] != "" {
		rate, err = decimal.NewFromString(record[colRate])
		if err != nil {
			return model.AssetClass{}, fmt.Errorf("parsing stated_rate %q: %w", record[colRate], err)
		}
	}

	return model.AssetClass{
		Code:               record[colCode],
		Label:              record[colLabel],
		UsefulLifeYears:    life,
		Method:             method,
		StatedRate:         rate,
		AssetAccount:       record[colAssetAcct],
		AccumulatedAccount: record[colAccumAcct],
		ExpenseAccount:     record[colExpenseAcct],
	}, nil
}
