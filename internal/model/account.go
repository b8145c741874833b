package model

import "github.com/shopspring/decimal"

// AssetClass represents a row in asset-classes.csv: the defaults the chart of
// accounts attaches to a fixed-asset category.
type AssetClass struct {
	Code               string // category code, e.g. "2441"
	Label              string
	UsefulLifeYears    int
	Method             Method
	StatedRate         decimal.Decimal // percent; zero = engine default
	AssetAccount       string          // 2x gross value
	AccumulatedAccount string          // 28x amortissements
	ExpenseAccount     string          // 681x dotations
}

// Depreciable reports whether assets of this class are ever amortized.
func (c AssetClass) Depreciable() bool {
	return c.UsefulLifeYears > 0 && c.Method != MethodNonDepreciable
}
