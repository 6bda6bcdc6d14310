package models

import (
	"fin-dashboard/pkg/logger"

	"go.uber.org/zap"
)

// The converters below read stored rows leniently: an unknown enum value is
// downgraded to the category default with a warning and never rejected.

func ConvertToBudgetItem(row Record) BudgetItem {
	t := FlowType(row.String("type"))
	if !t.Valid() {
		warnCoerced(TableBudgetItems, "type", row, FlowExpense)
		t = FlowExpense
	}
	return BudgetItem{
		ID:       row.ID(),
		Category: row.String("category"),
		Budgeted: row.Decimal("budgeted"),
		Actual:   row.Decimal("actual"),
		Type:     t,
	}
}

func ConvertToCashFlowItem(row Record) CashFlowItem {
	t := FlowType(row.String("type"))
	if !t.Valid() {
		warnCoerced(TableCashFlowItems, "type", row, FlowExpense)
		t = FlowExpense
	}
	item := CashFlowItem{
		ID:          row.ID(),
		Description: row.String("description"),
		Amount:      row.Decimal("amount").Abs(),
		Type:        t,
		Recurring:   row.Bool("recurring"),
	}
	if d, ok := row.Date("date"); ok {
		item.Date = d
		item.DateLabel = FormatDate(d)
	} else {
		item.DateLabel = row.String("date")
	}
	return item
}

func ConvertToInvestment(row Record) Investment {
	t := InvestmentType(row.String("type"))
	if !t.Valid() {
		warnCoerced(TableInvestments, "type", row, InvestmentStock)
		t = InvestmentStock
	}
	return Investment{
		ID:            row.ID(),
		Symbol:        row.String("symbol"),
		Name:          row.String("name"),
		Quantity:      row.Decimal("quantity"),
		PurchasePrice: row.Decimal("purchase_price"),
		CurrentPrice:  row.Decimal("current_price"),
		Type:          t,
	}
}

func ConvertToInvoice(row Record) Invoice {
	s := InvoiceStatus(row.String("status"))
	if !s.Valid() {
		warnCoerced(TableInvoices, "status", row, InvoiceDraft)
		s = InvoiceDraft
	}
	return Invoice{
		ID:            row.ID(),
		InvoiceNumber: row.String("invoice_number"),
		ClientName:    row.String("client_name"),
		Amount:        row.Decimal("amount"),
		DueDate:       row.String("due_date"),
		Status:        s,
		Description:   row.String("description"),
		CreatedDate:   row.String("created_date"),
	}
}

func ConvertToFinancialData(row Record) FinancialData {
	return FinancialData{
		ID:          row.ID(),
		Period:      row.String("period"),
		Revenue:     row.Decimal("revenue"),
		Expenses:    row.Decimal("expenses"),
		NetIncome:   row.Decimal("net_income"),
		Assets:      row.Decimal("assets"),
		Liabilities: row.Decimal("liabilities"),
		Equity:      row.Decimal("equity"),
	}
}

// Convert dispatches to the typed converter for table.
func Convert(table Table, row Record) any {
	switch table {
	case TableBudgetItems:
		return ConvertToBudgetItem(row)
	case TableCashFlowItems:
		return ConvertToCashFlowItem(row)
	case TableInvoices:
		return ConvertToInvoice(row)
	case TableInvestments:
		return ConvertToInvestment(row)
	case TableFinancialData:
		return ConvertToFinancialData(row)
	default:
		return row
	}
}

func warnCoerced(table Table, field string, row Record, fallback any) {
	logger.Warn("Invalid enum value in stored record, coercing",
		zap.String("table", string(table)),
		zap.String("field", field),
		zap.Any("value", row[field]),
		zap.Any("coerced_to", fallback),
		zap.String("id", row.ID()),
	)
}
