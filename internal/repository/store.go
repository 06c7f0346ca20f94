package repository

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/iliyamo/innovation-hub/internal/model"
)

// Store is the record store over the three entity tables.  Load/Save give
// raw whole-table access; the Update methods add the single-writer
// discipline every mutation must go through: the table's mutex is held
// across load, mutate and save, and the save is still version-checked so a
// second process writing the same database gets ErrConflict instead of a
// lost update.
type Store struct {
	db *sql.DB

	ideasMu    sync.Mutex
	usersMu    sync.Mutex
	commentsMu sync.Mutex

	defaults []model.User
}

// NewStore returns a Store bound to db.  defaults is what LoadUsers returns
// while the users table has never been written.
func NewStore(db *sql.DB, defaults []model.User) *Store {
	return &Store{db: db, defaults: defaults}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// LoadIdeas returns every idea row ordered by id.
func (s *Store) LoadIdeas(ctx context.Context) (Snapshot[model.Idea], error) {
	return loadTable(ctx, s.db, ideaTable)
}

// SaveIdeas replaces the ideas table.  expected must be the Version of the
// snapshot the rows were derived from.
func (s *Store) SaveIdeas(ctx context.Context, rows []model.Idea, expected int64) (int64, error) {
	return saveTable(ctx, s.db, ideaTable, rows, expected)
}

// UpdateIdeas runs fn against a fresh copy of the ideas table under the
// table's writer lock and saves the result.
func (s *Store) UpdateIdeas(ctx context.Context, fn func([]model.Idea) ([]model.Idea, error)) error {
	s.ideasMu.Lock()
	defer s.ideasMu.Unlock()
	return update(ctx, s.LoadIdeas, s.SaveIdeas, fn)
}

// LoadUsers returns every user row ordered by username.  Before the first
// save it returns the default Admin/Employee pair so the system is usable
// out of the box.
func (s *Store) LoadUsers(ctx context.Context) (Snapshot[model.User], error) {
	snap, err := loadTable(ctx, s.db, userTable)
	if err != nil {
		return snap, err
	}
	if snap.Version == 0 && len(snap.Rows) == 0 {
		snap.Rows = append(snap.Rows, s.defaults...)
	}
	return snap, nil
}

// SaveUsers replaces the users table.
func (s *Store) SaveUsers(ctx context.Context, rows []model.User, expected int64) (int64, error) {
	return saveTable(ctx, s.db, userTable, rows, expected)
}

// UpdateUsers is UpdateIdeas for the users table.
func (s *Store) UpdateUsers(ctx context.Context, fn func([]model.User) ([]model.User, error)) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	return update(ctx, s.LoadUsers, s.SaveUsers, fn)
}

// LoadComments returns every comment row ordered by id.
func (s *Store) LoadComments(ctx context.Context) (Snapshot[model.Comment], error) {
	return loadTable(ctx, s.db, commentTable)
}

// SaveComments replaces the comments table.
func (s *Store) SaveComments(ctx context.Context, rows []model.Comment, expected int64) (int64, error) {
	return saveTable(ctx, s.db, commentTable, rows, expected)
}

// UpdateComments is UpdateIdeas for the comments table.
func (s *Store) UpdateComments(ctx context.Context, fn func([]model.Comment) ([]model.Comment, error)) error {
	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()
	return update(ctx, s.LoadComments, s.SaveComments, fn)
}

func update[T any](
	ctx context.Context,
	load func(context.Context) (Snapshot[T], error),
	save func(context.Context, []T, int64) (int64, error),
	fn func([]T) ([]T, error),
) error {
	snap, err := load(ctx)
	if err != nil {
		return err
	}
	rows, err := fn(snap.Rows)
	if errors.Is(err, ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = save(ctx, rows, snap.Version)
	return err
}
