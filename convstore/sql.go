package convstore

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/sandipan1/hica/hicaerrors"
	"github.com/sandipan1/hica/thread"
)

// SQLStore persists threads in a single table, "threads(id TEXT PRIMARY
// KEY, data TEXT)", grounded on the original's SQLMemoryStore. Upsert
// uses ON CONFLICT DO UPDATE, the portable equivalent of the original's
// sqlite-specific REPLACE INTO.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens a modernc.org/sqlite database at dsn and ensures the
// threads table exists. dsn follows the driver's DSN conventions, e.g.
// "file:hica.db?_pragma=busy_timeout(5000)".
func NewSQLStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "open sqlite database", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS threads (id TEXT PRIMARY KEY, data TEXT)`); err != nil {
		db.Close()
		return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "create threads table", err)
	}
	return &SQLStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error { return s.db.Close() }

// Set implements Store.
func (s *SQLStore) Set(ctx context.Context, th *thread.Thread) error {
	data, err := th.ToSerialized()
	if err != nil {
		return hicaerrors.Wrap(hicaerrors.SerializationError, "serialize thread", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO threads(id, data) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		th.ThreadID, string(data))
	if err != nil {
		return hicaerrors.Wrap(hicaerrors.StoreIOError, "upsert thread snapshot", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, id string) (*thread.Thread, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM threads WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "query thread snapshot", err)
	}
	th, err := thread.FromSerialized([]byte(data))
	if err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.SerializationError, "deserialize thread", err)
	}
	return th, nil
}

// Delete implements Store.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM threads WHERE id = ?`, id); err != nil {
		return hicaerrors.Wrap(hicaerrors.StoreIOError, "delete thread snapshot", err)
	}
	return nil
}

// All implements Store.
func (s *SQLStore) All(ctx context.Context) ([]*thread.Thread, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM threads`)
	if err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "list thread snapshots", err)
	}
	defer rows.Close()

	var threads []*thread.Thread
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "scan thread snapshot", err)
		}
		th, err := thread.FromSerialized([]byte(data))
		if err != nil {
			return nil, hicaerrors.Wrap(hicaerrors.SerializationError, "deserialize thread", err)
		}
		threads = append(threads, th)
	}
	return threads, rows.Err()
}
