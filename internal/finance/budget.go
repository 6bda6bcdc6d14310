// Package finance computes the dashboard analytics from stored records.
package finance

import (
	"fin-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

type BudgetTotals struct {
	Budgeted decimal.Decimal `json:"budgeted"`
	Actual   decimal.Decimal `json:"actual"`
	Variance decimal.Decimal `json:"variance"`
}

func (t *BudgetTotals) add(item models.BudgetItem) {
	t.Budgeted = t.Budgeted.Add(item.Budgeted)
	t.Actual = t.Actual.Add(item.Actual)
	t.Variance = t.Actual.Sub(t.Budgeted)
}

type CategoryVariance struct {
	Category string          `json:"category"`
	Type     models.FlowType `json:"type"`
	BudgetTotals
	OverBudget bool `json:"over_budget"`
}

type BudgetSummary struct {
	Income     BudgetTotals       `json:"income"`
	Expenses   BudgetTotals       `json:"expenses"`
	Net        BudgetTotals       `json:"net"`
	Categories []CategoryVariance `json:"categories"`
}

// SummarizeBudget totals budget items by type. Net is income minus expenses
// for both the budgeted and the actual figures. An expense category is over
// budget when it spent more than planned; an income category when it earned
// less.
func SummarizeBudget(items []models.BudgetItem) BudgetSummary {
	var s BudgetSummary
	index := make(map[string]int)

	for _, item := range items {
		if item.Type == models.FlowIncome {
			s.Income.add(item)
		} else {
			s.Expenses.add(item)
		}

		key := string(item.Type) + "\x00" + item.Category
		i, ok := index[key]
		if !ok {
			i = len(s.Categories)
			index[key] = i
			s.Categories = append(s.Categories, CategoryVariance{Category: item.Category, Type: item.Type})
		}
		s.Categories[i].add(item)
	}

	for i := range s.Categories {
		c := &s.Categories[i]
		if c.Type == models.FlowIncome {
			c.OverBudget = c.Actual.LessThan(c.Budgeted)
		} else {
			c.OverBudget = c.Actual.GreaterThan(c.Budgeted)
		}
	}

	s.Net.Budgeted = s.Income.Budgeted.Sub(s.Expenses.Budgeted)
	s.Net.Actual = s.Income.Actual.Sub(s.Expenses.Actual)
	s.Net.Variance = s.Net.Actual.Sub(s.Net.Budgeted)
	if s.Categories == nil {
		s.Categories = []CategoryVariance{}
	}
	return s
}
