package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fin-dashboard/internal/models"
)

// RecordStore is the owner-scoped persistence the executor runs against.
// Every method filters by ownerID; a record owned by someone else is never
// read or changed.
type RecordStore interface {
	Select(ctx context.Context, table models.Table, ownerID string, limit int) ([]models.Record, error)
	Insert(ctx context.Context, table models.Table, ownerID string, records []models.Record) ([]models.Record, error)
	Update(ctx context.Context, table models.Table, ownerID string, changes []Change) ([]models.Record, error)
	Delete(ctx context.Context, table models.Table, ownerID string, ids []string) ([]models.Record, error)
}

// Change is one record update: the id to match and the fields to set.
type Change struct {
	ID     string
	Fields models.Record
}

// Result is what an executed operation returned from the store.
type Result struct {
	Operation Operation
	Table     models.Table
	Batch     bool
	Rows      []models.Record
}

// Document renders the rows as the pretty-printed working document.
func (r *Result) Document() (string, error) {
	rows := r.Rows
	if rows == nil {
		rows = []models.Record{}
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render records: %w", err)
	}
	return string(b), nil
}

// Columns the store maintains itself; payloads may carry them but they are
// never written from user data.
var managedColumns = []string{"id", "user_id", "created_at", "updated_at"}

type Executor struct {
	store RecordStore
	now   func() time.Time
}

func NewExecutor(store RecordStore) *Executor {
	return &Executor{store: store, now: time.Now}
}

// Execute validates the payload against the table and runs op. Validation
// happens before any store call, so a rejected batch touches nothing.
func (e *Executor) Execute(ctx context.Context, ownerID string, op Operation, table models.Table, payload *Payload) (*Result, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	result := &Result{Operation: op, Table: table}
	if payload != nil {
		result.Batch = payload.Batch
	}

	var err error
	switch op {
	case OpSelect:
		result.Rows, err = e.store.Select(ctx, table, ownerID, 0)
	case OpInsert:
		var records []models.Record
		if records, err = e.prepareInsert(table, payload); err != nil {
			return nil, err
		}
		result.Rows, err = e.store.Insert(ctx, table, ownerID, records)
	case OpUpdate:
		var changes []Change
		if changes, err = prepareUpdate(table, payload); err != nil {
			return nil, err
		}
		result.Rows, err = e.store.Update(ctx, table, ownerID, changes)
	case OpDelete:
		var ids []string
		if ids, err = prepareDelete(payload); err != nil {
			return nil, err
		}
		result.Rows, err = e.store.Delete(ctx, table, ownerID, ids)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	if err != nil {
		return nil, &StoreError{Op: op, Err: err}
	}
	return result, nil
}

func (e *Executor) prepareInsert(table models.Table, payload *Payload) ([]models.Record, error) {
	if payload == nil || len(payload.Records) == 0 {
		return nil, &PayloadError{Detail: "no records to insert"}
	}

	records := make([]models.Record, 0, len(payload.Records))
	for _, r := range payload.Records {
		if err := checkColumns(table, r); err != nil {
			return nil, err
		}
		rec := r.Clone()
		for _, c := range managedColumns {
			delete(rec, c)
		}
		if table == models.TableInvoices && !rec.Has("created_date") {
			rec["created_date"] = models.FormatDate(e.now())
		}

		var missing []string
		for _, f := range table.RequiredFields() {
			if !rec.Has(f) {
				missing = append(missing, f)
			}
		}
		if len(missing) > 0 {
			return nil, &MissingFieldsError{Table: string(table), Fields: missing}
		}
		records = append(records, rec)
	}
	return records, nil
}

func prepareUpdate(table models.Table, payload *Payload) ([]Change, error) {
	if payload == nil || len(payload.Records) == 0 {
		return nil, fmt.Errorf("%w: no record to update", ErrMissingIdentifier)
	}

	changes := make([]Change, 0, len(payload.Records))
	for i, r := range payload.Records {
		id := r.ID()
		if id == "" {
			return nil, fmt.Errorf("%w: record %d to update has no id", ErrMissingIdentifier, i+1)
		}
		if err := checkColumns(table, r); err != nil {
			return nil, err
		}
		fields := r.Clone()
		for _, c := range managedColumns {
			delete(fields, c)
		}
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: nothing to change on record %s", ErrMissingRequiredField, id)
		}
		changes = append(changes, Change{ID: id, Fields: fields})
	}
	return changes, nil
}

func prepareDelete(payload *Payload) ([]string, error) {
	if payload == nil || len(payload.Records) == 0 {
		return nil, fmt.Errorf("%w: no record to delete", ErrMissingIdentifier)
	}

	ids := make([]string, 0, len(payload.Records))
	for i, r := range payload.Records {
		id := r.ID()
		if id == "" {
			return nil, fmt.Errorf("%w: record %d to delete has no id", ErrMissingIdentifier, i+1)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func checkColumns(table models.Table, r models.Record) error {
	for key := range r {
		if _, ok := table.Column(key); !ok {
			return &PayloadError{Detail: fmt.Sprintf("%s has no column %q", table, key)}
		}
	}
	return nil
}
