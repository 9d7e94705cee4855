// Package services содержит бизнес-логику финансового учёта фермы:
// нормализацию новых записей перед сохранением, выборки и отчёты с фильтрами.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/farm-manager/internal/lib/validate"
	"github.com/magabrotheeeer/farm-manager/internal/models"
)

// Repository определяет методы хранилища финансовых записей.
type Repository interface {
	ListIncome(ctx context.Context, f models.Filter) ([]models.Income, error)
	ListExpenses(ctx context.Context, f models.Filter) ([]models.Expense, error)
	ListProjects(ctx context.Context, f models.Filter) ([]models.Project, error)
	ListCrops(ctx context.Context) ([]models.Crop, error)
	ListInventory(ctx context.Context) ([]models.InventoryItem, error)

	CreateIncome(ctx context.Context, in models.Income) (*models.Income, error)
	CreateExpense(ctx context.Context, e models.Expense) (*models.Expense, error)
	CreateProject(ctx context.Context, p models.Project) (*models.Project, error)

	Summary(ctx context.Context, f models.Filter) (*models.Summary, error)
	RevenueByCrop(ctx context.Context, f models.Filter) ([]models.CropRevenue, error)
	MonthlyFinancials(ctx context.Context, f models.Filter) ([]models.MonthlyFinancials, error)
}

// FinanceService реализует бизнес-логику работы с доходами, расходами и проектами.
type FinanceService struct {
	repo Repository
	log  *slog.Logger
}

// NewFinanceService создает новый экземпляр FinanceService.
func NewFinanceService(repo Repository, log *slog.Logger) *FinanceService {
	return &FinanceService{
		repo: repo,
		log:  log,
	}
}

// CreateIncome сохраняет запись о доходе. Дата приводится к YYYY-MM-DD; если итог
// не указан, а урожай и цена есть, итог вычисляется как их произведение.
func (s *FinanceService) CreateIncome(ctx context.Context, in models.Income) (*models.Income, error) {
	const op = "services.finance.CreateIncome"

	date, err := validate.NormalizeDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	in.Date = date
	if in.TotalIncome == nil {
		in.TotalIncome = product(in.Yield, in.PriceUnit)
	}

	created, err := s.repo.CreateIncome(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created income record", slog.Int64("id", created.ID), slog.String("project", created.Project))
	return created, nil
}

// CreateExpense сохраняет запись о расходе по тем же правилам, что и CreateIncome.
func (s *FinanceService) CreateExpense(ctx context.Context, e models.Expense) (*models.Expense, error) {
	const op = "services.finance.CreateExpense"

	date, err := validate.NormalizeDate(e.Date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e.Date = date
	if e.TotalCost == nil {
		e.TotalCost = product(e.Units, e.CostPerUnit)
	}

	created, err := s.repo.CreateExpense(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created expense record", slog.Int64("id", created.ID), slog.String("project", created.Project))
	return created, nil
}

// CreateProject сохраняет проект. Пустой статус заменяется на models.ProjectStatusActive.
func (s *FinanceService) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	const op = "services.finance.CreateProject"

	if p.StartDate != "" {
		date, err := validate.NormalizeDate(p.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.StartDate = date
	}
	if p.Status == "" {
		p.Status = models.ProjectStatusActive
	}

	created, err := s.repo.CreateProject(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created project", slog.Int64("id", created.ID), slog.String("name", created.Name))
	return created, nil
}

func product(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	v := *a * *b
	return &v
}

// ListIncome возвращает доходы по фильтру.
func (s *FinanceService) ListIncome(ctx context.Context, f models.Filter) ([]models.Income, error) {
	return s.repo.ListIncome(ctx, f)
}

// ListExpenses возвращает расходы по фильтру.
func (s *FinanceService) ListExpenses(ctx context.Context, f models.Filter) ([]models.Expense, error) {
	return s.repo.ListExpenses(ctx, f)
}

// ListProjects возвращает проекты по фильтру.
func (s *FinanceService) ListProjects(ctx context.Context, f models.Filter) ([]models.Project, error) {
	return s.repo.ListProjects(ctx, f)
}

// ListCrops возвращает справочник культур.
func (s *FinanceService) ListCrops(ctx context.Context) ([]models.Crop, error) {
	return s.repo.ListCrops(ctx)
}

// ListInventory возвращает складские позиции.
func (s *FinanceService) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	return s.repo.ListInventory(ctx)
}

// Summary возвращает выручку, расходы и прибыль по фильтру.
func (s *FinanceService) Summary(ctx context.Context, f models.Filter) (*models.Summary, error) {
	return s.repo.Summary(ctx, f)
}

// RevenueByCrop возвращает выручку по культурам.
func (s *FinanceService) RevenueByCrop(ctx context.Context, f models.Filter) ([]models.CropRevenue, error) {
	return s.repo.RevenueByCrop(ctx, f)
}

// MonthlyFinancials возвращает помесячные доходы и расходы.
func (s *FinanceService) MonthlyFinancials(ctx context.Context, f models.Filter) ([]models.MonthlyFinancials, error) {
	return s.repo.MonthlyFinancials(ctx, f)
}
