package classification

import (
	"github.com/shopspring/decimal"

	"github.com/atlas-finance/atlas/internal/model"
)

// DefaultTable returns the asset classes for a chart of accounts.
func DefaultTable(chart string) []model.AssetClass {
	switch chart {
	case "syscohada":
		return syscohadaTable()
	default:
		return syscohadaTable()
	}
}

func syscohadaTable() []model.AssetClass {
	return []model.AssetClass{
		{Code: "2131", Label: "Logiciels", UsefulLifeYears: 3, Method: model.MethodStraightLine, AssetAccount: "2131", AccumulatedAccount: "2813", ExpenseAccount: "6812"},
		{Code: "2151", Label: "Fonds commercial", Method: model.MethodNonDepreciable, AssetAccount: "2151"},
		{Code: "2211", Label: "Terrains", Method: model.MethodNonDepreciable, AssetAccount: "2211"},
		{Code: "2311", Label: "Bâtiments industriels", UsefulLifeYears: 20, Method: model.MethodStraightLine, AssetAccount: "2311", AccumulatedAccount: "2831", ExpenseAccount: "6813"},
		{Code: "2341", Label: "Installations techniques", UsefulLifeYears: 10, Method: model.MethodStraightLine, AssetAccount: "2341", AccumulatedAccount: "2834", ExpenseAccount: "6813"},
		{Code: "2411", Label: "Matériel industriel", UsefulLifeYears: 5, Method: model.MethodDecliningBalance, AssetAccount: "2411", AccumulatedAccount: "2841", ExpenseAccount: "6813"},
		{Code: "2441", Label: "Matériel de bureau", UsefulLifeYears: 5, Method: model.MethodStraightLine, AssetAccount: "2441", AccumulatedAccount: "2844", ExpenseAccount: "6813"},
		{Code: "2442", Label: "Matériel informatique", UsefulLifeYears: 3, Method: model.MethodDecliningBalance, StatedRate: decimal.NewFromInt(50), AssetAccount: "2442", AccumulatedAccount: "2844", ExpenseAccount: "6813"},
		{Code: "2444", Label: "Mobilier de bureau", UsefulLifeYears: 10, Method: model.MethodStraightLine, AssetAccount: "2444", AccumulatedAccount: "2844", ExpenseAccount: "6813"},
		{Code: "2451", Label: "Matériel automobile", UsefulLifeYears: 4, Method: model.MethodStraightLine, AssetAccount: "2451", AccumulatedAccount: "2845", ExpenseAccount: "6813"},
	}
}
