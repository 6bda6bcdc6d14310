package finance

import (
	"testing"
	"time"

	"fin-dashboard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestSummarizeBudget(t *testing.T) {
	items := []models.BudgetItem{
		{Category: "salary", Type: models.FlowIncome, Budgeted: dec("5000"), Actual: dec("4800")},
		{Category: "groceries", Type: models.FlowExpense, Budgeted: dec("400"), Actual: dec("450")},
		{Category: "rent", Type: models.FlowExpense, Budgeted: dec("1200"), Actual: dec("1200")},
		{Category: "groceries", Type: models.FlowExpense, Budgeted: dec("100"), Actual: dec("0")},
	}

	s := SummarizeBudget(items)

	assertDecimal(t, "5000", s.Income.Budgeted)
	assertDecimal(t, "4800", s.Income.Actual)
	assertDecimal(t, "1700", s.Expenses.Budgeted)
	assertDecimal(t, "1650", s.Expenses.Actual)
	assertDecimal(t, "3300", s.Net.Budgeted)
	assertDecimal(t, "3150", s.Net.Actual)
	assertDecimal(t, "-150", s.Net.Variance)

	require.Len(t, s.Categories, 3)
	assert.Equal(t, "salary", s.Categories[0].Category)
	assert.True(t, s.Categories[0].OverBudget)

	groceries := s.Categories[1]
	assert.Equal(t, "groceries", groceries.Category)
	assertDecimal(t, "500", groceries.Budgeted)
	assertDecimal(t, "450", groceries.Actual)
	assertDecimal(t, "-50", groceries.Variance)
	assert.False(t, groceries.OverBudget)

	assert.False(t, s.Categories[2].OverBudget)
}

func TestSummarizeBudgetEmpty(t *testing.T) {
	s := SummarizeBudget(nil)
	assert.NotNil(t, s.Categories)
	assert.True(t, s.Net.Actual.IsZero())
}

func TestSummarizePortfolio(t *testing.T) {
	investments := []models.Investment{
		{Symbol: "AAPL", Type: models.InvestmentStock, Quantity: dec("10"), PurchasePrice: dec("150"), CurrentPrice: dec("180")},
		{Symbol: "BTC", Type: models.InvestmentCrypto, Quantity: dec("0.5"), PurchasePrice: dec("40000"), CurrentPrice: dec("30000")},
	}

	s := SummarizePortfolio(investments)

	assert.Equal(t, 2, s.Positions)
	assertDecimal(t, "21500", s.CostBasis)
	assertDecimal(t, "16800", s.MarketValue)
	assertDecimal(t, "-4700", s.Gain)
	assertDecimal(t, "-21.86", s.GainPercent)

	require.Contains(t, s.ByType, models.InvestmentStock)
	assertDecimal(t, "300", s.ByType[models.InvestmentStock].Gain)
	assertDecimal(t, "20", s.ByType[models.InvestmentStock].GainPercent)
	assertDecimal(t, "-25", s.ByType[models.InvestmentCrypto].GainPercent)
}

func TestGainPercentWithoutCost(t *testing.T) {
	assert.True(t, gainPercent(dec("10"), decimal.Zero).IsZero())
}

func TestForecastCashFlow(t *testing.T) {
	from := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	items := []models.CashFlowItem{
		{Description: "salary", Amount: dec("3000"), Type: models.FlowIncome, Recurring: true},
		{Description: "rent", Amount: dec("1000"), Type: models.FlowExpense, Recurring: true},
		{Description: "repair", Amount: dec("500"), Type: models.FlowExpense, Date: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)},
		{Description: "last year", Amount: dec("900"), Type: models.FlowExpense, Date: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)},
		{Description: "undated", Amount: dec("700"), Type: models.FlowExpense},
	}

	f := ForecastCashFlow(items, dec("10000"), from, 3)

	require.Len(t, f.Months, 3)
	assert.Equal(t, "Mar 2026", f.Months[0].Month)
	assert.Equal(t, "Apr 2026", f.Months[1].Month)
	assertDecimal(t, "12000", f.Months[0].Balance)
	assertDecimal(t, "1500", f.Months[1].Expenses)
	assertDecimal(t, "13500", f.Months[1].Balance)
	assertDecimal(t, "15500", f.ProjectedBalance)
	assertDecimal(t, "9000", f.TotalIncome)
	assertDecimal(t, "3500", f.TotalExpenses)
}

func TestForecastClampsMonths(t *testing.T) {
	now := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	assert.Len(t, ForecastCashFlow(nil, decimal.Zero, now, 0).Months, 1)
	f := ForecastCashFlow(nil, decimal.Zero, now, 1000)
	assert.Len(t, f.Months, MaxForecastMonths)
	assert.Equal(t, "Jan 2027", f.Months[1].Month)
}

func TestMonthlyPayment(t *testing.T) {
	payment, err := MonthlyPayment(dec("100000"), dec("6"), 360)
	require.NoError(t, err)
	assertDecimal(t, "599.55", payment.Round(2))

	payment, err = MonthlyPayment(dec("1200"), decimal.Zero, 12)
	require.NoError(t, err)
	assertDecimal(t, "100", payment)
}

func TestMonthlyPaymentRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		months    int
	}{
		{"zero principal", "0", "5", 12},
		{"negative rate", "1000", "-1", 12},
		{"no term", "1000", "5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MonthlyPayment(dec(tt.principal), dec(tt.rate), tt.months)
			assert.ErrorIs(t, err, ErrInvalidLoan)
		})
	}
}

func TestAmortize(t *testing.T) {
	loan, err := Amortize(dec("100000"), dec("6"), 360)
	require.NoError(t, err)
	require.Len(t, loan.Schedule, 360)

	first := loan.Schedule[0]
	assert.Equal(t, 1, first.Month)
	assertDecimal(t, "500", first.Interest)
	assertDecimal(t, "99.55", first.Principal)

	last := loan.Schedule[359]
	assert.True(t, last.Balance.IsZero(), "final balance %s", last.Balance)
	assertDecimal(t, "115838", loan.TotalInterest.Round(0))
}
