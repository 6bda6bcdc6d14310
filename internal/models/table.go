package models

import (
	"fmt"
	"strings"
)

// Table names one of the fixed record categories.
type Table string

const (
	TableBudgetItems   Table = "budget_items"
	TableCashFlowItems Table = "cash_flow_items"
	TableInvoices      Table = "invoices"
	TableInvestments   Table = "investments"
	TableFinancialData Table = "financial_data"
)

// Tables lists every record category in a stable order.
var Tables = []Table{
	TableBudgetItems,
	TableCashFlowItems,
	TableInvoices,
	TableInvestments,
	TableFinancialData,
}

// ColumnKind tells the store how a column is typed in Postgres.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumeric
	KindBool
	KindDate
	KindTimestamp
	KindUUID
)

type Column struct {
	Name string
	Kind ColumnKind
}

var commonHead = []Column{
	{Name: "id", Kind: KindUUID},
	{Name: "user_id", Kind: KindUUID},
}

var commonTail = []Column{
	{Name: "created_at", Kind: KindTimestamp},
	{Name: "updated_at", Kind: KindTimestamp},
}

type tableSpec struct {
	fields   []Column
	required []string
	headers  []string
}

var specs = map[Table]tableSpec{
	TableBudgetItems: {
		fields: []Column{
			{Name: "category", Kind: KindText},
			{Name: "budgeted", Kind: KindNumeric},
			{Name: "actual", Kind: KindNumeric},
			{Name: "type", Kind: KindText},
		},
		required: []string{"category", "budgeted", "actual", "type"},
		headers:  []string{"Category", "Type", "Budgeted", "Actual", "Variance"},
	},
	TableCashFlowItems: {
		fields: []Column{
			{Name: "description", Kind: KindText},
			{Name: "amount", Kind: KindNumeric},
			{Name: "date", Kind: KindDate},
			{Name: "type", Kind: KindText},
			{Name: "recurring", Kind: KindBool},
		},
		required: []string{"description", "amount", "date", "type"},
		headers:  []string{"Description", "Amount", "Date", "Type", "Recurring"},
	},
	TableInvoices: {
		fields: []Column{
			{Name: "invoice_number", Kind: KindText},
			{Name: "client_name", Kind: KindText},
			{Name: "amount", Kind: KindNumeric},
			{Name: "due_date", Kind: KindDate},
			{Name: "status", Kind: KindText},
			{Name: "description", Kind: KindText},
			{Name: "created_date", Kind: KindDate},
		},
		required: []string{"invoice_number", "client_name", "amount", "due_date", "status"},
		headers:  []string{"Invoice #", "Client", "Amount", "Due Date", "Status", "Description"},
	},
	TableInvestments: {
		fields: []Column{
			{Name: "symbol", Kind: KindText},
			{Name: "name", Kind: KindText},
			{Name: "quantity", Kind: KindNumeric},
			{Name: "purchase_price", Kind: KindNumeric},
			{Name: "current_price", Kind: KindNumeric},
			{Name: "type", Kind: KindText},
		},
		required: []string{"symbol", "name", "quantity", "purchase_price", "current_price", "type"},
		headers:  []string{"Symbol", "Name", "Quantity", "Purchase Price", "Current Price", "Type", "Gain/Loss"},
	},
	TableFinancialData: {
		fields: []Column{
			{Name: "period", Kind: KindText},
			{Name: "revenue", Kind: KindNumeric},
			{Name: "expenses", Kind: KindNumeric},
			{Name: "net_income", Kind: KindNumeric},
			{Name: "assets", Kind: KindNumeric},
			{Name: "liabilities", Kind: KindNumeric},
			{Name: "equity", Kind: KindNumeric},
		},
		required: []string{"period", "revenue", "expenses", "net_income", "assets", "liabilities", "equity"},
		headers:  []string{"Period", "Revenue", "Expenses", "Net Income", "Assets", "Liabilities", "Equity"},
	},
}

// ParseTable accepts a table name in any case, with spaces or dashes for underscores.
func ParseTable(name string) (Table, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	t := Table(normalized)
	if _, ok := specs[t]; !ok {
		return "", fmt.Errorf("unknown table %q", name)
	}
	return t, nil
}

func (t Table) Valid() bool {
	_, ok := specs[t]
	return ok
}

// DisplayName is the human form used in chat replies, e.g. "cash flow items".
func (t Table) DisplayName() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// Columns returns every stored column including id, owner and timestamps.
func (t Table) Columns() []Column {
	spec := specs[t]
	cols := make([]Column, 0, len(commonHead)+len(spec.fields)+len(commonTail))
	cols = append(cols, commonHead...)
	cols = append(cols, spec.fields...)
	cols = append(cols, commonTail...)
	return cols
}

// Fields returns the domain columns only.
func (t Table) Fields() []Column {
	return append([]Column(nil), specs[t].fields...)
}

func (t Table) RequiredFields() []string {
	return append([]string(nil), specs[t].required...)
}

func (t Table) ExportHeaders() []string {
	return append([]string(nil), specs[t].headers...)
}

func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns() {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
