package dispatch

import (
	"testing"
	"time"

	"fin-dashboard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		text  string
		want  string
		found bool
	}{
		{text: "add 120 for groceries", want: "120", found: true},
		{text: "add $45.50 for food", want: "45.5", found: true},
		{text: "due in 14 days, $300 for rent", want: "300", found: true},
		{text: "invoice 7 amount: 2,500", want: "2500", found: true},
		{text: "salary of $3,200.00", want: "3200", found: true},
		{text: "no numbers here", want: "0", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := extractAmount(tt.text)
			require.Equal(t, tt.found, ok)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		text string
		id   string
		ok   bool
	}{
		{text: "delete record 12", id: "12", ok: true},
		{text: "update #7 to $300", id: "7", ok: true},
		{text: "update $300 on item 9", id: "9", ok: true},
		{text: "set $250 then update 41", id: "41", ok: true},
		{text: "remove 3F2504E0-4F89-11D3-9A0C-0305E82C3301 please", id: "3f2504e0-4f89-11d3-9a0c-0305e82c3301", ok: true},
		{text: "delete this", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			id, _, ok := extractID(tt.text)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestExtractInvoice(t *testing.T) {
	rec, missing := extractInvoice(
		"Create invoice INV042 for client ABC Corp, description: Web development services, amount: $2500, due in 14 days, sent",
		fixedNow,
	)

	require.Empty(t, missing)
	assert.Equal(t, "INV042", rec["invoice_number"])
	assert.Equal(t, "ABC Corp", rec["client_name"])
	assert.Equal(t, "Web development services", rec["description"])
	assert.Equal(t, 2500.0, rec["amount"])
	assert.Equal(t, "2026-03-15", rec["due_date"])
	assert.Equal(t, "2026-03-01", rec["created_date"])
	assert.Equal(t, "sent", rec["status"])
}

func TestExtractInvoiceOverflowingDueDays(t *testing.T) {
	rec, _ := extractInvoice("create invoice INV9 for client Acme, amount: $100, due in 99999999999999999999 days", fixedNow)

	assert.Equal(t, "2026-03-31", rec["due_date"])
}

func TestExtractInvoiceDefaults(t *testing.T) {
	rec, missing := extractInvoice("create invoice", fixedNow)

	assert.Equal(t, []string{fieldClientName, fieldDescription, fieldAmount}, missing)
	assert.Equal(t, "Unknown Client", rec["client_name"])
	assert.Equal(t, "Invoice", rec["description"])
	assert.Equal(t, "2026-03-31", rec["due_date"])
	assert.Equal(t, "draft", rec["status"])
	assert.Regexp(t, `^INV-\d+$`, rec["invoice_number"])
}

func TestExtractInvoiceExplicitDates(t *testing.T) {
	rec, missing := extractInvoice(
		"new invoice client: Globex, desc: Audit, overdue, due: March 20, 2026, amount $900",
		fixedNow,
	)

	require.Empty(t, missing)
	assert.Equal(t, "Globex", rec["client_name"])
	assert.Equal(t, "Audit", rec["description"])
	assert.Equal(t, "2026-03-20", rec["due_date"])
	assert.Equal(t, 900.0, rec["amount"])
	assert.Equal(t, string(models.InvoiceOverdue), rec["status"])
}

func TestExtractInvoiceNumberIsNotTheAmount(t *testing.T) {
	_, missing := extractInvoice("create invoice #1001 for client Initech, description: Support", fixedNow)
	assert.Equal(t, []string{fieldAmount}, missing)
}

func TestFromUpload(t *testing.T) {
	upload := &models.ExtractedData{
		FileName: "budget.csv",
		FileType: "csv",
		Content: models.NewTabularExtract(
			[]string{"Name", "Amount", "Type"},
			[][]string{{"Consulting", "$1,200", "Income"}, {"Coffee", "4", "Expense"}},
		),
	}

	rec, ok := FromUpload(upload)
	require.True(t, ok)
	assert.Equal(t, models.Record{
		"category": "Consulting",
		"budgeted": 1200.0,
		"actual":   0.0,
		"type":     "income",
	}, rec)
}

func TestFromUploadAmbiguousHeader(t *testing.T) {
	tests := map[string][]string{
		"no amount column":   {"Category", "Notes"},
		"no category column": {"Amount", "Date"},
		"same column":        {"Budget name"},
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			upload := &models.ExtractedData{Content: models.NewTabularExtract(header, [][]string{make([]string, len(header))})}
			_, ok := FromUpload(upload)
			assert.False(t, ok)
		})
	}

	_, ok := FromUpload(&models.ExtractedData{Content: models.NewErrorExtract("Failed to parse CSV file")})
	assert.False(t, ok)
	_, ok = FromUpload(nil)
	assert.False(t, ok)
}

func TestFromTextInsertReshapes(t *testing.T) {
	p, err := FromText(OpInsert, models.TableCashFlowItems, "add salary $3000 to cash flow", fixedNow)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, models.Record{
		"description": "Salary",
		"amount":      3000.0,
		"type":        "income",
		"date":        "2026-03-01",
	}, p.Records[0])

	p, err = FromText(OpInsert, models.TableInvestments, "add 250 of transport to my portfolio", fixedNow)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "TRANSPORTATION", p.Records[0]["symbol"])
	assert.Equal(t, 250.0, p.Records[0]["current_price"])

	p, err = FromText(OpInsert, models.TableFinancialData, "add rent 100 to financial data", fixedNow)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = FromText(OpInsert, models.TableBudgetItems, "add something nice", fixedNow)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestFromTextUpdateAndDelete(t *testing.T) {
	p, err := FromText(OpUpdate, models.TableBudgetItems, "update item 12 to $450", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, models.Record{"id": "12", "budgeted": 450.0}, p.Records[0])

	p, err = FromText(OpDelete, models.TableInvoices, "delete invoice #3", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, models.Record{"id": "3"}, p.Records[0])

	_, err = FromText(OpDelete, models.TableBudgetItems, "delete this", fixedNow)
	require.ErrorIs(t, err, ErrMissingIdentifier)
}

func TestFromTextInvoiceGate(t *testing.T) {
	_, err := FromText(OpInsert, models.TableInvoices, "create invoice", fixedNow)

	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	require.ErrorIs(t, err, ErrMissingRequiredField)
	assert.Equal(t, []string{"client_name", "description", "amount"}, missing.Fields)
}

func TestParseDocument(t *testing.T) {
	p, err := ParseDocument(`{"category":"Food"}`)
	require.NoError(t, err)
	assert.False(t, p.Batch)
	assert.Len(t, p.Records, 1)

	p, err = ParseDocument(`[{"category":"Food"}]`)
	require.NoError(t, err)
	assert.True(t, p.Batch)

	_, err = ParseDocument("   ")
	require.ErrorIs(t, err, ErrNoDocument)

	for _, doc := range []string{`{"category":`, `[1,2]`, `"text"`, `[]`, `null`} {
		_, err = ParseDocument(doc)
		require.ErrorIs(t, err, ErrInvalidPayload, doc)
	}
}
