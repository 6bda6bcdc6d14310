package repository

import (
	"testing"

	"fin-dashboard/internal/dispatch"
	"fin-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerID = "8f14e45f-ceea-467f-a8a1-7c1e2c3c8e11"

func TestReturningColumns(t *testing.T) {
	cols := returningColumns(models.TableCashFlowItems)
	assert.Equal(t, []string{
		`"id"::text AS "id"`,
		`"user_id"::text AS "user_id"`,
		`"description"`,
		`"amount"::float8 AS "amount"`,
		`"date"::text AS "date"`,
		`"type"`,
		`"recurring"`,
		`"created_at"`,
		`"updated_at"`,
	}, cols)
}

func TestBuildSelect(t *testing.T) {
	sql, args, err := buildSelect(models.TableBudgetItems, ownerID, 5).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM budget_items WHERE user_id = $1 ORDER BY created_at DESC LIMIT 5")
	assert.Equal(t, []any{ownerID}, args)

	sql, _, err = buildSelect(models.TableBudgetItems, ownerID, 0).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "LIMIT")
}

func TestBuildInsertUsesDefaultForMissingKeys(t *testing.T) {
	records := []models.Record{
		{"description": "Rent", "amount": 1200.0, "date": "2026-03-01", "type": "expense", "recurring": true},
		{"description": "Salary", "amount": 3000.0, "date": "2026-03-01", "type": "income"},
	}

	sql, args, err := buildInsert(models.TableCashFlowItems, ownerID, records).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, `INSERT INTO cash_flow_items (user_id,"amount","date","description","recurring","type") VALUES ($1,$2,$3,$4,$5,$6),($7,$8,$9,$10,DEFAULT,$11)`)
	assert.Contains(t, sql, `RETURNING "id"::text AS "id"`)
	assert.Equal(t, []any{
		ownerID, 1200.0, "2026-03-01", "Rent", true, "expense",
		ownerID, 3000.0, "2026-03-01", "Salary", "income",
	}, args)
}

func TestBuildUpdateScopesByOwner(t *testing.T) {
	change := dispatch.Change{ID: "a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11", Fields: models.Record{"budgeted": 450.0}}

	sql, args, err := buildUpdate(models.TableBudgetItems, ownerID, change).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, `UPDATE budget_items SET "budgeted" = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`)
	assert.Equal(t, []any{450.0, change.ID, ownerID}, args)
}

func TestBuildDelete(t *testing.T) {
	ids := []string{"a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11", "b0eebc99-9c0b-4ef8-bb6d-6bb9bd380a12"}

	sql, args, err := buildDelete(models.TableInvoices, ownerID, ids).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "DELETE FROM invoices WHERE id IN ($1,$2) AND user_id = $3")
	assert.Equal(t, []any{ids[0], ids[1], ownerID}, args)
}
