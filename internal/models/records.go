package models

import "time"

// Income — запись о доходе. Итог хранится либо в TotalIncome (разбивка
// урожай × цена), либо в Amount (единая сумма); отчёты берут TotalIncome,
// а при его отсутствии — Amount.
type Income struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Project     string    `json:"project"`
	Crop        string    `json:"crop"`
	Yield       *float64  `json:"yield"`
	PriceUnit   *float64  `json:"priceUnit"`
	TotalIncome *float64  `json:"totalIncome"`
	Amount      *float64  `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Expense — запись о расходе с той же схемой «итог или сумма», что и Income.
type Expense struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Project     string    `json:"project"`
	Units       *float64  `json:"units"`
	CostPerUnit *float64  `json:"costPerUnit"`
	TotalCost   *float64  `json:"totalCost"`
	Amount      *float64  `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Project — проект (поле, участок, сезон), к которому относятся записи.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Crop      string    `json:"crop"`
	Acreage   *float64  `json:"acreage"`
	StartDate string    `json:"startDate"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProjectStatusActive — статус проекта по умолчанию.
const ProjectStatusActive = "active"

// Crop — культура в справочнике.
type Crop struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Variety      string    `json:"variety"`
	PlantingDate string    `json:"plantingDate"`
	HarvestDate  string    `json:"harvestDate"`
	Project      string    `json:"project"`
	CreatedAt    time.Time `json:"createdAt"`
}

// InventoryItem — позиция складского учёта.
type InventoryItem struct {
	ID        int64     `json:"id"`
	Item      string    `json:"item"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	Category  string    `json:"category"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
}
