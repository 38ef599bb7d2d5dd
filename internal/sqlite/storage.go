package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/teenjuna/vec/internal"
)

var (
	// ErrClosed is returned by Storage methods when the storage has been closed.
	ErrClosed = errors.New("storage is closed")
	// ErrNotFound is returned by [Storage.Get] when there is no snapshot with the provided name.
	ErrNotFound = errors.New("snapshot not found")
)

const (
	memory = ":memory:"
)

// Storage is a persistent snapshot storage backed by SQLite.
type Storage struct {
	cfg *Config
	db  *sql.DB
}

// New creates a new Storage with the provided configuration functions.
//
// Default configuration:
//   - URI: ":memory:" (in-memory database)
//   - Workers: 1
//
// Returns an error if the SQLite database cannot be opened or initialized.
func New(configFuncs ...ConfigFunc) (*Storage, error) {
	cfg := &Config{}
	cfg.URI(memory)
	cfg.Workers(1)
	for _, cf := range configFuncs {
		cf(cfg)
	}

	db, err := open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	if err := setup(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setup: %w", err)
	}

	storage := Storage{
		cfg: cfg,
		db:  db,
	}

	return &storage, nil
}

// Put inserts the provided snapshots in a single transaction. A snapshot with an existing name
// replaces the stored one.
//
// Returns [ErrClosed] if the storage has been closed.
func (s *Storage) Put(ctx context.Context, snapshots ...Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return closedOr(err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(
		ctx,
		`
		insert into snapshot (
			name,
			data,
			size,
			capacity,
			compression,
			saved_at
		) values (
			:name,
			:data,
			:size,
			:capacity,
			:compression,
			:saved_at
		)
		on conflict (name) do update set
			data        = excluded.data,
			size        = excluded.size,
			capacity    = excluded.capacity,
			compression = excluded.compression,
			saved_at    = excluded.saved_at
		`,
	)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, snapshot := range snapshots {
		if _, err := stmt.ExecContext(
			ctx,
			sql.Named("name", snapshot.Name),
			sql.Named("data", snapshot.Data),
			sql.Named("size", snapshot.Size),
			sql.Named("capacity", snapshot.Capacity),
			sql.Named("compression", snapshot.Compression),
			sql.Named("saved_at", toTimestamp(now)),
		); err != nil {
			return fmt.Errorf("insert %q: %w", snapshot.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Get returns the snapshot with the provided name.
//
// Returns [ErrNotFound] if there is no such snapshot and [ErrClosed] if the storage has been
// closed.
func (s *Storage) Get(ctx context.Context, name string) (*Snapshot, error) {
	var (
		snapshot Snapshot
		savedAt  int64
	)
	err := s.db.QueryRowContext(
		ctx,
		`
		select
			name,
			data,
			size,
			capacity,
			compression,
			saved_at
		from
			snapshot
		where
			name = :name
		`,
		sql.Named("name", name),
	).Scan(
		&snapshot.Name,
		&snapshot.Data,
		&snapshot.Size,
		&snapshot.Capacity,
		&snapshot.Compression,
		&savedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, closedOr(err)
	}

	snapshot.SavedAt = fromTimestamp(savedAt)

	return &snapshot, nil
}

// Delete permanently removes the snapshots with the provided names and returns the number of
// removed snapshots. Unknown names are ignored.
func (s *Storage) Delete(ctx context.Context, names ...string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(
		ctx,
		`
		delete from snapshot
		where
			name in (
				select value from json_each(:names)
			)
		`,
		sql.Named("names", jsonNames(names)),
	)
	if err != nil {
		return 0, closedOr(err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(deleted), nil
}

// Names returns the names of all stored snapshots in ascending order.
func (s *Storage) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "select name from snapshot order by name asc")
	if err != nil {
		return nil, closedOr(err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return names, nil
}

// Stats returns current storage statistics.
func (s *Storage) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(
		ctx,
		`
		select
			coalesce(count(*), 0) as snapshots,
			coalesce(sum(size), 0) as items,
			coalesce(sum(length(data)), 0) as bytes
		from
			snapshot
		`,
	).Scan(
		&stats.Snapshots,
		&stats.Items,
		&stats.Bytes,
	)
	if err != nil {
		return nil, closedOr(err)
	}

	return &stats, nil
}

// Close closes the underlying SQLite database.
//
// After closing, all methods on Storage will return [ErrClosed].
func (s *Storage) Close() error {
	return s.db.Close()
}

// Snapshot represents a stored vector.
type Snapshot struct {
	// Name is the unique identifier of this snapshot.
	Name string
	// Data is the encoded (and possibly compressed) elements.
	Data []byte
	// Size is the number of elements.
	Size int
	// Capacity is the capacity of the vector at the time it was saved.
	Capacity int
	// Compression identifies the algorithm Data is compressed with.
	Compression int
	// SavedAt is the time of the last save.
	SavedAt time.Time
}

// Stats represents statistics about the storage.
type Stats struct {
	// Snapshots is the total number of snapshots in storage.
	Snapshots int
	// Items is the total number of elements across all snapshots.
	Items int
	// Bytes is the total size of the stored data.
	Bytes int64
}

// IsTransient reports whether err is an SQLite error that may go away on its own, such as a
// busy or locked database.
func IsTransient(err error) bool {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
}

func open(cfg *Config) (*sql.DB, error) {
	path := cfg.path

	params := url.Values{}
	params.Add("_txlock", "immediate")
	params.Add("_timeout", "5000") // 5s
	if path == memory {
		path = "file:" + internal.GenerateID()
		params.Add("mode", "memory")
		params.Add("cache", "shared")
	} else {
		params.Add("_journal", "wal")
		params.Add("_sync", "normal")
		params.Add("_cache_size", "-20000") // 20mb
	}
	for k, v := range cfg.query {
		if len(v) != 0 {
			params.Set(k, v[0])
		}
	}

	db, err := sql.Open("sqlite3", path+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	if params.Get("mode") == "memory" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(cfg.workers)
		db.SetMaxIdleConns(cfg.workers)
	}

	return db, nil
}

func setup(db *sql.DB) error {
	if _, err := db.Exec(
		`
		create table if not exists snapshot (
			name        text primary key,
			data        blob not null,
			size        int not null,
			capacity    int not null,
			compression int not null,
			saved_at    int not null
		) strict
		`,
	); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	return nil
}

func closedOr(err error) error {
	if err != nil && err.Error() == "sql: database is closed" {
		return ErrClosed
	}
	return err
}

func jsonNames(names []string) string {
	jsonNames, _ := json.Marshal(names)
	return string(jsonNames)
}

func toTimestamp(time time.Time) int64 {
	return time.UnixNano()
}

func fromTimestamp(timestamp int64) time.Time {
	return time.Unix(0, timestamp)
}
