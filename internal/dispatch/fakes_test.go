package dispatch

import (
	"context"
	"fmt"
	"sync"

	"fin-dashboard/internal/models"
)

type storeCall struct {
	method string
	table  models.Table
	owner  string
}

// memStore is an owner-scoped in-memory RecordStore.
type memStore struct {
	mu     sync.Mutex
	rows   map[models.Table][]models.Record
	calls  []storeCall
	nextID int
	err    error
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[models.Table][]models.Record)}
}

func (s *memStore) seed(table models.Table, owner string, records ...models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		row := r.Clone()
		s.nextID++
		if !row.Has("id") {
			row["id"] = fmt.Sprintf("id-%d", s.nextID)
		}
		row["user_id"] = owner
		s.rows[table] = append(s.rows[table], row)
	}
}

func (s *memStore) owned(table models.Table, owner string) []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Record
	for _, r := range s.rows[table] {
		if r["user_id"] == owner {
			out = append(out, r.Clone())
		}
	}
	return out
}

func (s *memStore) record(method string, table models.Table, owner string) error {
	s.calls = append(s.calls, storeCall{method: method, table: table, owner: owner})
	return s.err
}

func (s *memStore) mutations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.method != "select" {
			n++
		}
	}
	return n
}

func (s *memStore) Select(_ context.Context, table models.Table, owner string, limit int) ([]models.Record, error) {
	s.mu.Lock()
	err := s.record("select", table, owner)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	rows := s.owned(table, owner)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *memStore) Insert(_ context.Context, table models.Table, owner string, records []models.Record) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("insert", table, owner); err != nil {
		return nil, err
	}
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		row := r.Clone()
		s.nextID++
		row["id"] = fmt.Sprintf("id-%d", s.nextID)
		row["user_id"] = owner
		s.rows[table] = append(s.rows[table], row)
		out = append(out, row.Clone())
	}
	return out, nil
}

func (s *memStore) Update(_ context.Context, table models.Table, owner string, changes []Change) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("update", table, owner); err != nil {
		return nil, err
	}
	var out []models.Record
	for _, c := range changes {
		for _, row := range s.rows[table] {
			if row.ID() == c.ID && row["user_id"] == owner {
				for k, v := range c.Fields {
					row[k] = v
				}
				out = append(out, row.Clone())
			}
		}
	}
	return out, nil
}

func (s *memStore) Delete(_ context.Context, table models.Table, owner string, ids []string) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("delete", table, owner); err != nil {
		return nil, err
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept, out []models.Record
	for _, row := range s.rows[table] {
		if drop[row.ID()] && row["user_id"] == owner {
			out = append(out, row)
			continue
		}
		kept = append(kept, row)
	}
	s.rows[table] = kept
	return out, nil
}

type fakeCompleter struct {
	answer string
	err    error
	calls  int
	system string
	user   string
}

func (c *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	c.calls++
	c.system = system
	c.user = user
	return c.answer, c.err
}
