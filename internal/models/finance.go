package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type FlowType string

const (
	FlowIncome  FlowType = "income"
	FlowExpense FlowType = "expense"
)

func (t FlowType) Valid() bool {
	return t == FlowIncome || t == FlowExpense
}

type InvestmentType string

const (
	InvestmentStock  InvestmentType = "stock"
	InvestmentBond   InvestmentType = "bond"
	InvestmentCrypto InvestmentType = "crypto"
	InvestmentETF    InvestmentType = "etf"
)

func (t InvestmentType) Valid() bool {
	switch t {
	case InvestmentStock, InvestmentBond, InvestmentCrypto, InvestmentETF:
		return true
	}
	return false
}

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

type BudgetItem struct {
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Budgeted decimal.Decimal `json:"budgeted"`
	Actual   decimal.Decimal `json:"actual"`
	Type     FlowType        `json:"type"`
}

// Variance is actual minus budgeted.
func (b BudgetItem) Variance() decimal.Decimal {
	return b.Actual.Sub(b.Budgeted)
}

type CashFlowItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"-"`
	DateLabel   string          `json:"date"`
	Type        FlowType        `json:"type"`
	Recurring   bool            `json:"recurring"`
}

type Investment struct {
	ID            string          `json:"id"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	Type          InvestmentType  `json:"type"`
}

func (i Investment) CostBasis() decimal.Decimal {
	return i.Quantity.Mul(i.PurchasePrice)
}

func (i Investment) MarketValue() decimal.Decimal {
	return i.Quantity.Mul(i.CurrentPrice)
}

func (i Investment) Gain() decimal.Decimal {
	return i.MarketValue().Sub(i.CostBasis())
}

type Invoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientName    string          `json:"client_name"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       string          `json:"due_date"`
	Status        InvoiceStatus   `json:"status"`
	Description   string          `json:"description,omitempty"`
	CreatedDate   string          `json:"created_date"`
}

// FinancialData is a period snapshot. The accounting identity between assets,
// liabilities and equity is not enforced.
type FinancialData struct {
	ID          string          `json:"id"`
	Period      string          `json:"period"`
	Revenue     decimal.Decimal `json:"revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
	NetIncome   decimal.Decimal `json:"net_income"`
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Equity      decimal.Decimal `json:"equity"`
}
