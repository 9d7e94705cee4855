package models

import "time"

// Summary — итоговые показатели за период.
type Summary struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`
}

// CropRevenue — выручка по культуре.
type CropRevenue struct {
	Crop         string  `json:"crop"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalAmount  float64 `json:"totalAmount"`
}

// MonthlyFinancials — доходы и расходы за месяц в формате YYYY-MM.
type MonthlyFinancials struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// Исходы попытки входа.
const (
	LoginSuccess = "success"
	LoginFail    = "fail"
)

// LoginActivity — запись журнала попыток входа.
type LoginActivity struct {
	Username string    `json:"username"`
	Status   string    `json:"status"`
	Time     time.Time `json:"time"`
}
