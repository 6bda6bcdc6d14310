package finance

import (
	"time"

	"fin-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

const MaxForecastMonths = 60

type ForecastMonth struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
	Balance  decimal.Decimal `json:"balance"`
}

type Forecast struct {
	StartingBalance  decimal.Decimal `json:"starting_balance"`
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	Months           []ForecastMonth `json:"months"`
}

// ForecastCashFlow projects a running balance over months calendar months
// starting with the month of from. Recurring items count every month; one-off
// items only in the month and year of their date. Amounts are taken as
// absolute values and signed by type.
func ForecastCashFlow(items []models.CashFlowItem, start decimal.Decimal, from time.Time, months int) Forecast {
	if months < 1 {
		months = 1
	}
	if months > MaxForecastMonths {
		months = MaxForecastMonths
	}

	f := Forecast{
		StartingBalance: start,
		Months:          make([]ForecastMonth, 0, months),
	}
	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	balance := start

	for i := 0; i < months; i++ {
		month := first.AddDate(0, i, 0)
		m := ForecastMonth{Month: month.Format("Jan 2006")}

		for _, item := range items {
			if !item.Recurring && !sameMonth(item.Date, month) {
				continue
			}
			amount := item.Amount.Abs()
			if item.Type == models.FlowIncome {
				m.Income = m.Income.Add(amount)
			} else {
				m.Expenses = m.Expenses.Add(amount)
			}
		}

		m.Net = m.Income.Sub(m.Expenses)
		balance = balance.Add(m.Net)
		m.Balance = balance

		f.TotalIncome = f.TotalIncome.Add(m.Income)
		f.TotalExpenses = f.TotalExpenses.Add(m.Expenses)
		f.Months = append(f.Months, m)
	}

	f.ProjectedBalance = balance
	return f
}

func sameMonth(date, month time.Time) bool {
	if date.IsZero() {
		return false
	}
	return date.Year() == month.Year() && date.Month() == month.Month()
}
