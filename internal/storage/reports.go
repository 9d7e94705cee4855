package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/magabrotheeeer/farm-manager/internal/lib/query"
	"github.com/magabrotheeeer/farm-manager/internal/models"
)

// Итог записи: разбивка (total_income, total_cost), а при её отсутствии — сумма amount.
const (
	incomeValue  = "COALESCE(total_income, amount)"
	expenseValue = "COALESCE(total_cost, amount)"
)

// Summary считает выручку, расходы и прибыль по записям, подходящим под фильтр.
// Отсутствующие суммы считаются нулём.
func (s *Storage) Summary(ctx context.Context, f models.Filter) (*models.Summary, error) {
	const op = "storage.Summary"

	revenue, err := s.sum(ctx, "income", incomeValue, f, incomeColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	expenses, err := s.sum(ctx, "expenses", expenseValue, f, expenseColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Summary{
		TotalRevenue:  revenue,
		TotalExpenses: expenses,
		NetProfit:     revenue - expenses,
	}, nil
}

func (s *Storage) sum(ctx context.Context, table, value string, f models.Filter, cols query.Columns) (float64, error) {
	q, args := query.ApplyFilter(
		query.Select("SELECT COALESCE(SUM("+value+"), 0) FROM "+table), f, cols,
	).Build()

	var total float64
	if err := s.DB.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// RevenueByCrop группирует доходы по культурам, самые доходные первыми.
func (s *Storage) RevenueByCrop(ctx context.Context, f models.Filter) ([]models.CropRevenue, error) {
	const op = "storage.RevenueByCrop"

	q, args := query.ApplyFilter(query.Select(
		"SELECT crop, COALESCE(SUM("+incomeValue+"), 0) AS total_revenue, "+
			"COALESCE(SUM(amount), 0) AS total_amount FROM income"), f, incomeColumns).
		GroupBy("crop").
		OrderBy("total_revenue DESC", "crop ASC").
		Build()

	res, err := list(ctx, s.DB, q, args, func(row scanner) (models.CropRevenue, error) {
		var cr models.CropRevenue
		err := row.Scan(&cr.Crop, &cr.TotalRevenue, &cr.TotalAmount)
		return cr, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

type monthTotal struct {
	month string
	total float64
}

// MonthlyFinancials возвращает доходы и расходы по месяцам (YYYY-MM), последние месяцы первыми.
// Месяц попадает в результат, если в нём есть хотя бы один доход или расход.
func (s *Storage) MonthlyFinancials(ctx context.Context, f models.Filter) ([]models.MonthlyFinancials, error) {
	const op = "storage.MonthlyFinancials"

	income, err := s.monthly(ctx, "income", incomeValue, f, incomeColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	expenses, err := s.monthly(ctx, "expenses", expenseValue, f, expenseColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byMonth := make(map[string]*models.MonthlyFinancials, len(income)+len(expenses))
	get := func(month string) *models.MonthlyFinancials {
		m, ok := byMonth[month]
		if !ok {
			m = &models.MonthlyFinancials{Month: month}
			byMonth[month] = m
		}
		return m
	}
	for _, mt := range income {
		get(mt.month).Income = mt.total
	}
	for _, mt := range expenses {
		get(mt.month).Expenses = mt.total
	}

	result := make([]models.MonthlyFinancials, 0, len(byMonth))
	for _, m := range byMonth {
		result = append(result, *m)
	}
	slices.SortFunc(result, func(a, b models.MonthlyFinancials) int {
		return strings.Compare(b.Month, a.Month)
	})
	return result, nil
}

func (s *Storage) monthly(ctx context.Context, table, value string, f models.Filter, cols query.Columns) ([]monthTotal, error) {
	q, args := query.ApplyFilter(query.Select(
		"SELECT substr(date, 1, 7) AS month, COALESCE(SUM("+value+"), 0) FROM "+table), f, cols).
		GroupBy("month").
		Build()

	return list(ctx, s.DB, q, args, func(row scanner) (monthTotal, error) {
		var mt monthTotal
		err := row.Scan(&mt.month, &mt.total)
		return mt, err
	})
}
