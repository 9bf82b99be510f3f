package domain

import "github.com/shopspring/decimal"

// MonthTotal and WeekTotal are the typed results of the grouped aggregation
// queries. The reporting layer turns them into labeled sales buckets.
type MonthTotal struct {
	Month int
	Total decimal.Decimal
}

type WeekTotal struct {
	Week  int
	Total decimal.Decimal
}

type MonthlySales struct {
	MonthName  string          `json:"month_name"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type WeeklySales struct {
	WeekName   string          `json:"week_name"`
	TotalSales decimal.Decimal `json:"total_sales"`
}
