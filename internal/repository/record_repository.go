package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fin-dashboard/internal/dispatch"
	"fin-dashboard/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// RecordRepository stores the five record tables. Every statement is scoped
// by user_id.
type RecordRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRecordRepository(db *pgxpool.Pool, logger *zap.Logger) *RecordRepository {
	return &RecordRepository{
		db:     db,
		logger: logger,
	}
}

var _ dispatch.RecordStore = (*RecordRepository)(nil)

// Select returns the owner's rows newest first. limit <= 0 means all rows.
func (r *RecordRepository) Select(ctx context.Context, table models.Table, ownerID string, limit int) ([]models.Record, error) {
	sql, args, err := buildSelect(table, ownerID, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	records, err := r.query(ctx, r.db, sql, args)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", table, err)
	}
	return records, nil
}

func (r *RecordRepository) Insert(ctx context.Context, table models.Table, ownerID string, records []models.Record) ([]models.Record, error) {
	if len(records) == 0 {
		return nil, nil
	}

	sql, args, err := buildInsert(table, ownerID, records).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	inserted, err := r.query(ctx, r.db, sql, args)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	r.logger.Info("Records inserted",
		zap.String("table", string(table)),
		zap.Int("count", len(inserted)),
	)
	return inserted, nil
}

// Update applies every change in one transaction.
func (r *RecordRepository) Update(ctx context.Context, table models.Table, ownerID string, changes []dispatch.Change) ([]models.Record, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var updated []models.Record
	for _, c := range changes {
		if _, err := uuid.Parse(c.ID); err != nil {
			continue
		}
		sql, args, err := buildUpdate(table, ownerID, c).ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build query: %w", err)
		}
		rows, err := r.query(ctx, tx, sql, args)
		if err != nil {
			return nil, fmt.Errorf("failed to update %s %s: %w", table, c.ID, err)
		}
		updated = append(updated, rows...)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("Records updated",
		zap.String("table", string(table)),
		zap.Int("requested", len(changes)),
		zap.Int("count", len(updated)),
	)
	return updated, nil
}

func (r *RecordRepository) Delete(ctx context.Context, table models.Table, ownerID string, ids []string) ([]models.Record, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	sql, args, err := buildDelete(table, ownerID, valid).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	deleted, err := r.query(ctx, r.db, sql, args)
	if err != nil {
		return nil, fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	r.logger.Info("Records deleted",
		zap.String("table", string(table)),
		zap.Int("count", len(deleted)),
	)
	return deleted, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *RecordRepository) query(ctx context.Context, q querier, sql string, args []any) ([]models.Record, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	records := make([]models.Record, len(maps))
	for i, m := range maps {
		records[i] = models.Record(m)
	}
	return records, nil
}

func buildSelect(table models.Table, ownerID string, limit int) squirrel.SelectBuilder {
	query := squirrel.Select(returningColumns(table)...).
		From(string(table)).
		Where(squirrel.Eq{"user_id": ownerID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	return query
}

// buildInsert writes all records in one statement. Columns are the union of
// the records' keys; a record without a column gets the column default.
func buildInsert(table models.Table, ownerID string, records []models.Record) squirrel.InsertBuilder {
	seen := map[string]bool{}
	var columns []string
	for _, rec := range records {
		for k := range rec {
			if k != "user_id" && !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)

	query := squirrel.Insert(string(table)).
		Columns(append([]string{"user_id"}, quoteAll(columns)...)...).
		Suffix("RETURNING " + strings.Join(returningColumns(table), ", ")).
		PlaceholderFormat(squirrel.Dollar)

	for _, rec := range records {
		values := make([]any, 0, len(columns)+1)
		values = append(values, ownerID)
		for _, c := range columns {
			if v, ok := rec[c]; ok {
				values = append(values, v)
			} else {
				values = append(values, squirrel.Expr("DEFAULT"))
			}
		}
		query = query.Values(values...)
	}
	return query
}

func buildUpdate(table models.Table, ownerID string, change dispatch.Change) squirrel.UpdateBuilder {
	set := make(map[string]any, len(change.Fields)+1)
	for k, v := range change.Fields {
		set[quote(k)] = v
	}
	set["updated_at"] = squirrel.Expr("NOW()")

	return squirrel.Update(string(table)).
		SetMap(set).
		Where(squirrel.Eq{"id": change.ID, "user_id": ownerID}).
		Suffix("RETURNING " + strings.Join(returningColumns(table), ", ")).
		PlaceholderFormat(squirrel.Dollar)
}

func buildDelete(table models.Table, ownerID string, ids []string) squirrel.DeleteBuilder {
	return squirrel.Delete(string(table)).
		Where(squirrel.Eq{"user_id": ownerID, "id": ids}).
		Suffix("RETURNING " + strings.Join(returningColumns(table), ", ")).
		PlaceholderFormat(squirrel.Dollar)
}

// returningColumns casts columns to types that scan into plain Go values:
// numerics to float8, uuids and dates to text.
func returningColumns(table models.Table) []string {
	cols := table.Columns()
	out := make([]string, len(cols))
	for i, c := range cols {
		name := quote(c.Name)
		switch c.Kind {
		case models.KindNumeric:
			out[i] = name + "::float8 AS " + name
		case models.KindUUID, models.KindDate:
			out[i] = name + "::text AS " + name
		default:
			out[i] = name
		}
	}
	return out
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quote(n)
	}
	return out
}
