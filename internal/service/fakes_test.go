package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fin-dashboard/internal/dispatch"
	"fin-dashboard/internal/models"
	"fin-dashboard/internal/repository"

	"github.com/google/uuid"
)

// memRecords is an owner-scoped RecordStore kept in memory.
type memRecords struct {
	mu     sync.Mutex
	rows   map[models.Table][]models.Record
	nextID int
	err    error
}

func newMemRecords() *memRecords {
	return &memRecords{rows: make(map[models.Table][]models.Record)}
}

func (s *memRecords) add(table models.Table, owner string, rec models.Record) models.Record {
	s.nextID++
	row := rec.Clone()
	if !row.Has("id") {
		row["id"] = fmt.Sprintf("rec-%d", s.nextID)
	}
	row["user_id"] = owner
	s.rows[table] = append(s.rows[table], row)
	return row.Clone()
}

func (s *memRecords) seed(table models.Table, owner string, records ...models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.add(table, owner, r)
	}
}

func (s *memRecords) Select(_ context.Context, table models.Table, owner string, limit int) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Record
	for i := len(s.rows[table]) - 1; i >= 0; i-- {
		if row := s.rows[table][i]; row["user_id"] == owner {
			out = append(out, row.Clone())
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memRecords) Insert(_ context.Context, table models.Table, owner string, records []models.Record) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		out = append(out, s.add(table, owner, r))
	}
	return out, nil
}

func (s *memRecords) Update(_ context.Context, table models.Table, owner string, changes []dispatch.Change) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
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

func (s *memRecords) Delete(_ context.Context, table models.Table, owner string, ids []string) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
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

// blockingCompleter parks inside Complete until release is closed.
type blockingCompleter struct {
	entered chan struct{}
	release chan struct{}
	answer  string
}

func (c *blockingCompleter) Complete(ctx context.Context, _, _ string) (string, error) {
	if c.entered != nil {
		close(c.entered)
		c.entered = nil
	}
	if c.release != nil {
		select {
		case <-c.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return c.answer, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]*models.User)}
}

func (s *memUsers) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("user %s: %w", user.Email, repository.ErrDuplicate)
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}
