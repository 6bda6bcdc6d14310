package service

import (
	"context"
	"time"

	"fin-dashboard/internal/dispatch"
	"fin-dashboard/internal/finance"
	"fin-dashboard/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecordService serves the per-table views, exports and analytics. Reads go
// through the lenient converters, so a stored row with an unknown enum value
// is shown with the default instead of failing the page.
type RecordService struct {
	store           dispatch.RecordStore
	exporter        *ExportService
	startingBalance decimal.Decimal
	now             func() time.Time
	logger          *zap.Logger
}

func NewRecordService(store dispatch.RecordStore, exporter *ExportService, startingBalance float64, logger *zap.Logger) *RecordService {
	return &RecordService{
		store:           store,
		exporter:        exporter,
		startingBalance: decimal.NewFromFloat(startingBalance),
		now:             time.Now,
		logger:          logger,
	}
}

func (s *RecordService) rows(ctx context.Context, ownerID string, table models.Table) ([]models.Record, error) {
	rows, err := s.store.Select(ctx, table, ownerID, 0)
	if err != nil {
		return nil, &dispatch.StoreError{Op: dispatch.OpSelect, Err: err}
	}
	return rows, nil
}

// List returns the owner's records of table, newest first, as typed values.
func (s *RecordService) List(ctx context.Context, ownerID string, table models.Table) ([]any, error) {
	rows, err := s.rows(ctx, ownerID, table)
	if err != nil {
		return nil, err
	}
	items := make([]any, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.Convert(table, row))
	}
	return items, nil
}

func (s *RecordService) Export(ctx context.Context, ownerID string, table models.Table, format ExportFormat) (*Export, error) {
	rows, err := s.rows(ctx, ownerID, table)
	if err != nil {
		return nil, err
	}
	return s.exporter.Export(table, rows, format)
}

func (s *RecordService) BudgetSummary(ctx context.Context, ownerID string) (finance.BudgetSummary, error) {
	rows, err := s.rows(ctx, ownerID, models.TableBudgetItems)
	if err != nil {
		return finance.BudgetSummary{}, err
	}
	items := make([]models.BudgetItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.ConvertToBudgetItem(row))
	}
	return finance.SummarizeBudget(items), nil
}

func (s *RecordService) PortfolioSummary(ctx context.Context, ownerID string) (finance.PortfolioSummary, error) {
	rows, err := s.rows(ctx, ownerID, models.TableInvestments)
	if err != nil {
		return finance.PortfolioSummary{}, err
	}
	investments := make([]models.Investment, 0, len(rows))
	for _, row := range rows {
		investments = append(investments, models.ConvertToInvestment(row))
	}
	return finance.SummarizePortfolio(investments), nil
}

// Forecast projects cash flow from the configured starting balance unless the
// caller supplies one.
func (s *RecordService) Forecast(ctx context.Context, ownerID string, months int, start *decimal.Decimal) (finance.Forecast, error) {
	rows, err := s.rows(ctx, ownerID, models.TableCashFlowItems)
	if err != nil {
		return finance.Forecast{}, err
	}
	items := make([]models.CashFlowItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.ConvertToCashFlowItem(row))
	}

	balance := s.startingBalance
	if start != nil {
		balance = *start
	}
	return finance.ForecastCashFlow(items, balance, s.now(), months), nil
}
