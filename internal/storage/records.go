package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/farm-manager/internal/lib/query"
	"github.com/magabrotheeeer/farm-manager/internal/models"
)

var (
	incomeColumns  = query.Columns{Project: "project", Date: "date"}
	expenseColumns = query.Columns{Project: "project", Date: "date"}
	projectColumns = query.Columns{Project: "name", Date: "start_date"}
)

const (
	selectIncome = `SELECT id, date, project, crop, yield, price_unit, total_income, amount, created_at FROM income`

	selectExpenses = `SELECT id, date, description, category, project, units, cost_per_unit, total_cost, amount, created_at FROM expenses`

	selectProjects = `SELECT id, name, crop, acreage, start_date, status, created_at FROM projects`

	selectCrops = `SELECT id, name, variety, planting_date, harvest_date, project, created_at FROM crops`

	selectInventory = `SELECT id, item, quantity, unit, category, location, created_at FROM inventory`
)

type scanner interface {
	Scan(dest ...any) error
}

// ListIncome возвращает записи о доходах, подходящие под фильтр, новые даты первыми.
func (s *Storage) ListIncome(ctx context.Context, f models.Filter) ([]models.Income, error) {
	const op = "storage.ListIncome"

	q, args := query.ApplyFilter(query.Select(selectIncome), f, incomeColumns).
		OrderBy("date DESC", "id DESC").
		Build()
	res, err := list(ctx, s.DB, q, args, scanIncome)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ListExpenses возвращает записи о расходах, подходящие под фильтр, новые даты первыми.
func (s *Storage) ListExpenses(ctx context.Context, f models.Filter) ([]models.Expense, error) {
	const op = "storage.ListExpenses"

	q, args := query.ApplyFilter(query.Select(selectExpenses), f, expenseColumns).
		OrderBy("date DESC", "id DESC").
		Build()
	res, err := list(ctx, s.DB, q, args, scanExpense)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ListProjects возвращает проекты. Фильтр проекта сравнивается с именем,
// фильтр дат — с датой начала.
func (s *Storage) ListProjects(ctx context.Context, f models.Filter) ([]models.Project, error) {
	const op = "storage.ListProjects"

	q, args := query.ApplyFilter(query.Select(selectProjects), f, projectColumns).
		OrderBy("created_at DESC", "id DESC").
		Build()
	res, err := list(ctx, s.DB, q, args, scanProject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ListCrops возвращает справочник культур.
func (s *Storage) ListCrops(ctx context.Context) ([]models.Crop, error) {
	const op = "storage.ListCrops"

	q, args := query.Select(selectCrops).OrderBy("created_at DESC", "id DESC").Build()
	res, err := list(ctx, s.DB, q, args, func(row scanner) (models.Crop, error) {
		var c models.Crop
		err := row.Scan(&c.ID, &c.Name, &c.Variety, &c.PlantingDate, &c.HarvestDate, &c.Project, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ListInventory возвращает складские позиции.
func (s *Storage) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	const op = "storage.ListInventory"

	q, args := query.Select(selectInventory).OrderBy("created_at DESC", "id DESC").Build()
	res, err := list(ctx, s.DB, q, args, func(row scanner) (models.InventoryItem, error) {
		var it models.InventoryItem
		err := row.Scan(&it.ID, &it.Item, &it.Quantity, &it.Unit, &it.Category, &it.Location, &it.CreatedAt)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// CreateIncome сохраняет запись о доходе и возвращает её в сохранённом виде.
func (s *Storage) CreateIncome(ctx context.Context, in models.Income) (*models.Income, error) {
	const op = "storage.CreateIncome"

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO income (date, project, crop, yield, price_unit, total_income, amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Date, in.Project, in.Crop, in.Yield, in.PriceUnit, in.TotalIncome, in.Amount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := scanIncome(s.DB.QueryRowContext(ctx, selectIncome+` WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// CreateExpense сохраняет запись о расходе и возвращает её в сохранённом виде.
func (s *Storage) CreateExpense(ctx context.Context, e models.Expense) (*models.Expense, error) {
	const op = "storage.CreateExpense"

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO expenses (date, description, category, project, units, cost_per_unit, total_cost, amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Date, e.Description, e.Category, e.Project, e.Units, e.CostPerUnit, e.TotalCost, e.Amount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := scanExpense(s.DB.QueryRowContext(ctx, selectExpenses+` WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// CreateProject сохраняет проект и возвращает его в сохранённом виде.
func (s *Storage) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	const op = "storage.CreateProject"

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO projects (name, crop, acreage, start_date, status) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Crop, p.Acreage, p.StartDate, p.Status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := scanProject(s.DB.QueryRowContext(ctx, selectProjects+` WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

func list[T any](ctx context.Context, db *sql.DB, q string, args []any, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanIncome(row scanner) (models.Income, error) {
	var (
		in                                    models.Income
		yield, priceUnit, totalIncome, amount sql.NullFloat64
	)
	if err := row.Scan(&in.ID, &in.Date, &in.Project, &in.Crop,
		&yield, &priceUnit, &totalIncome, &amount, &in.CreatedAt); err != nil {
		return in, err
	}
	in.Yield = nullFloat(yield)
	in.PriceUnit = nullFloat(priceUnit)
	in.TotalIncome = nullFloat(totalIncome)
	in.Amount = nullFloat(amount)
	return in, nil
}

func scanExpense(row scanner) (models.Expense, error) {
	var (
		e                                     models.Expense
		units, costPerUnit, totalCost, amount sql.NullFloat64
	)
	if err := row.Scan(&e.ID, &e.Date, &e.Description, &e.Category, &e.Project,
		&units, &costPerUnit, &totalCost, &amount, &e.CreatedAt); err != nil {
		return e, err
	}
	e.Units = nullFloat(units)
	e.CostPerUnit = nullFloat(costPerUnit)
	e.TotalCost = nullFloat(totalCost)
	e.Amount = nullFloat(amount)
	return e, nil
}

func scanProject(row scanner) (models.Project, error) {
	var (
		p       models.Project
		acreage sql.NullFloat64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Crop, &acreage, &p.StartDate, &p.Status, &p.CreatedAt); err != nil {
		return p, err
	}
	p.Acreage = nullFloat(acreage)
	return p, nil
}
