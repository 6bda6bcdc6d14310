package dispatch

import (
	"context"
	"testing"

	"fin-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorRejectsBeforeStore(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		table   models.Table
		payload *Payload
		target  error
	}{
		{name: "update without id", op: OpUpdate, table: models.TableBudgetItems, payload: SingleRecord(models.Record{"budgeted": 500.0}), target: ErrMissingIdentifier},
		{name: "update with only id", op: OpUpdate, table: models.TableBudgetItems, payload: SingleRecord(models.Record{"id": "x"}), target: ErrMissingRequiredField},
		{name: "delete without payload", op: OpDelete, table: models.TableInvoices, target: ErrMissingIdentifier},
		{name: "batch delete with one id missing", op: OpDelete, table: models.TableInvoices, payload: &Payload{Batch: true, Records: []models.Record{{"id": "a"}, {"client_name": "b"}}}, target: ErrMissingIdentifier},
		{name: "insert without payload", op: OpInsert, table: models.TableBudgetItems, target: ErrInvalidPayload},
		{name: "unknown column", op: OpUpdate, table: models.TableInvestments, payload: SingleRecord(models.Record{"id": "a", "ticker": "X"}), target: ErrInvalidPayload},
		{name: "unknown table", op: OpSelect, table: models.Table("users"), target: ErrUnknownTable},
		{name: "unknown operation", op: Operation("upsert"), table: models.TableBudgetItems, target: ErrUnknownOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			_, err := NewExecutor(store).Execute(context.Background(), owner, tt.op, tt.table, tt.payload)
			require.ErrorIs(t, err, tt.target)
			assert.Empty(t, store.calls)
		})
	}
}

func TestExecutorInsertStripsManagedColumns(t *testing.T) {
	store := newMemStore()
	payload := SingleRecord(models.Record{
		"id":         "stale",
		"user_id":    "someone-else",
		"created_at": "2020-01-01T00:00:00Z",
		"period":     "Q1",
		"revenue":    10.0, "expenses": 5.0, "net_income": 5.0,
		"assets": 100.0, "liabilities": 40.0, "equity": 60.0,
	})

	res, err := NewExecutor(store).Execute(context.Background(), owner, OpInsert, models.TableFinancialData, payload)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.NotEqual(t, "stale", res.Rows[0].ID())
	assert.Equal(t, owner, res.Rows[0]["user_id"])
	assert.NotContains(t, res.Rows[0], "created_at")
}

func TestExecutorUpdateStripsID(t *testing.T) {
	store := newMemStore()
	store.seed(models.TableCashFlowItems, owner, models.Record{"id": "cf", "description": "Rent", "amount": 1.0})

	res, err := NewExecutor(store).Execute(context.Background(), owner, OpUpdate, models.TableCashFlowItems,
		SingleRecord(models.Record{"id": "cf", "amount": 2.0}))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 2.0, res.Rows[0]["amount"])
	assert.Equal(t, "cf", res.Rows[0].ID())
}

func TestResultDocument(t *testing.T) {
	doc, err := (&Result{}).Document()
	require.NoError(t, err)
	assert.Equal(t, "[]", doc)

	doc, err = (&Result{Rows: []models.Record{{"b": 1.0, "a": "x"}}}).Document()
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"a\": \"x\",\n    \"b\": 1\n  }\n]", doc)
}
