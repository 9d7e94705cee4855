package reports

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/farm-manager/internal/models"
	services "github.com/magabrotheeeer/farm-manager/internal/services/finance"
	"github.com/magabrotheeeer/farm-manager/internal/storage"
)

type ReportServiceMock struct {
	mock.Mock
}

func (m *ReportServiceMock) Summary(ctx context.Context, f models.Filter) (*models.Summary, error) {
	args := m.Called(ctx, f)
	s, _ := args.Get(0).(*models.Summary)
	return s, args.Error(1)
}

func (m *ReportServiceMock) RevenueByCrop(ctx context.Context, f models.Filter) ([]models.CropRevenue, error) {
	args := m.Called(ctx, f)
	rows, _ := args.Get(0).([]models.CropRevenue)
	return rows, args.Error(1)
}

func (m *ReportServiceMock) MonthlyFinancials(ctx context.Context, f models.Filter) ([]models.MonthlyFinancials, error) {
	args := m.Called(ctx, f)
	rows, _ := args.Get(0).([]models.MonthlyFinancials)
	return rows, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestHandler_Summary(t *testing.T) {
	svc := new(ReportServiceMock)
	f := models.Filter{Project: "Project A"}
	svc.On("Summary", mock.Anything, f).Return(&models.Summary{TotalRevenue: 300, TotalExpenses: 50, NetProfit: 250}, nil).Once()

	rec := httptest.NewRecorder()
	New(newNoopLogger(), svc).Summary(rec, httptest.NewRequest(http.MethodGet, "/api/summary?project=Project+A", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalRevenue":300,"totalExpenses":50,"netProfit":250}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestHandler_InvalidFilterRejectedByEveryReport(t *testing.T) {
	h := New(newNoopLogger(), new(ReportServiceMock))
	endpoints := map[string]http.HandlerFunc{
		"summary":            h.Summary,
		"revenue-by-crop":    h.RevenueByCrop,
		"monthly-financials": h.MonthlyFinancials,
	}
	for name, fn := range endpoints {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			fn(rec, httptest.NewRequest(http.MethodGet, "/api/"+name+"?fromDate=2024-1-5", nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "fromDate must be a date in YYYY-MM-DD format")
		})
	}
}

// Отчёты поверх настоящего хранилища: итог берётся из totalIncome/totalCost,
// а при его отсутствии из amount.
func TestHandler_ReportsOverStorage(t *testing.T) {
	db, err := storage.New("file:reports_handler?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	amount, total, cost := 100.0, 200.0, 50.0
	_, err = db.CreateIncome(ctx, models.Income{Date: "2024-01-10", Project: "Project A", Crop: "Corn", Amount: &amount})
	require.NoError(t, err)
	_, err = db.CreateIncome(ctx, models.Income{Date: "2024-02-10", Project: "Project A", Crop: "Wheat", TotalIncome: &total})
	require.NoError(t, err)
	_, err = db.CreateExpense(ctx, models.Expense{Date: "2024-02-11", Project: "Project A", Amount: &cost})
	require.NoError(t, err)

	h := New(newNoopLogger(), services.NewFinanceService(db, newNoopLogger()))

	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalRevenue":300,"totalExpenses":50,"netProfit":250}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.RevenueByCrop(rec, httptest.NewRequest(http.MethodGet, "/api/revenue-by-crop", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var crops []models.CropRevenue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &crops))
	require.Len(t, crops, 2)
	assert.Equal(t, "Wheat", crops[0].Crop)
	assert.Equal(t, 200.0, crops[0].TotalRevenue)

	rec = httptest.NewRecorder()
	h.MonthlyFinancials(rec, httptest.NewRequest(http.MethodGet, "/api/monthly-financials?fromDate=2024-02-01", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var months []models.MonthlyFinancials
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &months))
	assert.Equal(t, []models.MonthlyFinancials{{Month: "2024-02", Income: 200, Expenses: 50}}, months)
}
