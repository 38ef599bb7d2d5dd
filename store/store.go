// This package contains [Store], a persistent storage of named vector snapshots.
package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teenjuna/vec"
	"github.com/teenjuna/vec/codec"
	"github.com/teenjuna/vec/internal/sqlite"
	"github.com/teenjuna/vec/retry"
)

var (
	ErrClosed    = errors.New("store is closed")
	ErrNotFound  = errors.New("snapshot not found")
	ErrBlankName = errors.New("snapshot name is blank")
	ErrCorrupted = errors.New("snapshot is corrupted")
)

// Store keeps named snapshots of vectors in SQLite.
//
// A snapshot records the elements of a vector together with its capacity, so a loaded vector
// has the same [vec.Vector.Len] and [vec.Vector.Cap] as the saved one.
//
// Store is safe for concurrent use. Vectors passed to it must not be mutated until the call
// returns.
type Store[T any] struct {
	cfg     *Config[T]
	storage *sqlite.Storage
	metrics *metrics
	logger  *zap.Logger
	closing *atomic.Bool
}

// Open opens the store with the provided configuration functions.
//
// Default configuration:
//   - File: nil (in-memory database)
//   - Codec: JSON
//   - Compression: none
//   - RetryPolicy: a single attempt
//   - Workers: 1
//   - Prometheus: unregistered metrics
//   - Logger: no-op
func Open[T any](configFuncs ...ConfigFunc[T]) (*Store[T], error) {
	cfg := newConfig(configFuncs...)

	storage, err := sqlite.New(func(c *sqlite.Config) {
		c.URI(cfg.file.uri())
		c.Workers(cfg.workers)
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	store := Store[T]{
		cfg:     cfg,
		storage: storage,
		metrics: cfg.prometheus.metrics(),
		logger:  cfg.logger,
		closing: new(atomic.Bool),
	}

	stats, err := storage.Stats(context.Background())
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("get stats from sqlite: %w", err)
	}
	store.metrics.snapshots.Set(float64(stats.Snapshots))

	store.logger.Debug("store opened",
		zap.String("uri", cfg.file.uri()),
		zap.Int("snapshots", stats.Snapshots),
	)

	return &store, nil
}

// Save stores a snapshot of v under the provided name, replacing an existing one.
func (s *Store[T]) Save(ctx context.Context, name string, v *vec.Vector[T]) (err error) {
	defer s.observe("save", time.Now(), &err)

	if s.closing.Load() {
		return ErrClosed
	}

	snapshot, err := s.snapshot(s.cfg.codec.Derive(), name, v)
	if err != nil {
		return err
	}

	if err := s.put(ctx, snapshot); err != nil {
		return err
	}

	s.logger.Debug("snapshot saved",
		zap.String("name", name),
		zap.Int("size", snapshot.Size),
		zap.Int("capacity", snapshot.Capacity),
		zap.Int("bytes", len(snapshot.Data)),
		zap.Stringer("compression", Compression(snapshot.Compression)),
	)

	return nil
}

// SaveAll stores snapshots of all provided vectors atomically. Vectors are encoded concurrently
// by up to [Config.Workers] goroutines.
func (s *Store[T]) SaveAll(ctx context.Context, vectors map[string]*vec.Vector[T]) (err error) {
	defer s.observe("save", time.Now(), &err)

	if s.closing.Load() {
		return ErrClosed
	}

	var (
		names     = slices.Sorted(maps.Keys(vectors))
		snapshots = make([]sqlite.Snapshot, len(names))
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.workers)
	for i, name := range names {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			snapshot, err := s.snapshot(s.cfg.codec.Derive(), name, vectors[name])
			if err != nil {
				return err
			}
			snapshots[i] = snapshot
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if err := s.put(ctx, snapshots...); err != nil {
		return err
	}

	s.logger.Debug("snapshots saved", zap.Strings("names", names))

	return nil
}

// Load returns the vector stored under the provided name.
//
// Returns [ErrNotFound] if there is no such snapshot.
func (s *Store[T]) Load(ctx context.Context, name string) (_ *vec.Vector[T], err error) {
	defer s.observe("load", time.Now(), &err)

	if s.closing.Load() {
		return nil, ErrClosed
	}

	snapshot, err := s.storage.Get(ctx, name)
	if errors.Is(err, sqlite.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	} else if err != nil {
		return nil, fmt.Errorf("get %q from sqlite: %w", name, s.closed(err))
	}

	data, err := Compression(snapshot.Compression).decompress(snapshot.Data)
	if err != nil {
		return nil, fmt.Errorf("decompress %q: %w", name, err)
	}

	v := vec.Reserved[T](vec.Reserve(snapshot.Capacity))
	if err := s.cfg.codec.Derive().Decode(data, v.PushBack); err != nil {
		return nil, fmt.Errorf("decode %q: %w", name, err)
	}
	if v.Len() != snapshot.Size || v.Cap() != snapshot.Capacity {
		return nil, fmt.Errorf(
			"%w: %q has %d elements, expected %d",
			ErrCorrupted, name, v.Len(), snapshot.Size,
		)
	}

	s.metrics.loads.Inc()
	s.logger.Debug("snapshot loaded",
		zap.String("name", name),
		zap.Int("size", snapshot.Size),
		zap.Int("capacity", snapshot.Capacity),
	)

	return v, nil
}

// Delete removes the snapshots with the provided names and returns the number of removed
// snapshots. Unknown names are ignored.
func (s *Store[T]) Delete(ctx context.Context, names ...string) (deleted int, err error) {
	defer s.observe("delete", time.Now(), &err)

	if s.closing.Load() {
		return 0, ErrClosed
	}

	err = retry.Do(ctx, s.cfg.retryPolicy.Derive(), sqlite.IsTransient, func() error {
		var err error
		deleted, err = s.storage.Delete(ctx, names...)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete from sqlite: %w", s.closed(err))
	}

	s.metrics.deletes.Add(float64(deleted))
	s.refresh(ctx)
	s.logger.Debug("snapshots deleted", zap.Strings("names", names), zap.Int("deleted", deleted))

	return deleted, nil
}

// Names returns the names of all snapshots in ascending order.
func (s *Store[T]) Names(ctx context.Context) ([]string, error) {
	if s.closing.Load() {
		return nil, ErrClosed
	}

	names, err := s.storage.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("get names from sqlite: %w", s.closed(err))
	}

	return names, nil
}

// Stats returns current store statistics.
func (s *Store[T]) Stats(ctx context.Context) (*Stats, error) {
	if s.closing.Load() {
		return nil, ErrClosed
	}

	stats, err := s.storage.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get stats from sqlite: %w", s.closed(err))
	}

	return &Stats{
		Snapshots: stats.Snapshots,
		Items:     stats.Items,
		Bytes:     stats.Bytes,
	}, nil
}

// Close closes the store. Subsequent calls of any method return [ErrClosed].
func (s *Store[T]) Close() error {
	if s.closing.Swap(true) {
		return ErrClosed
	}

	errs := make([]error, 0)

	if err := s.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sqlite: %w", err))
	}

	s.logger.Debug("store closed")

	return errors.Join(errs...)
}

// Stats represents statistics about the store.
type Stats struct {
	// Snapshots is the total number of snapshots.
	Snapshots int
	// Items is the total number of elements across all snapshots.
	Items int
	// Bytes is the total size of the stored (compressed) data.
	Bytes int64
}

func (s *Store[T]) snapshot(
	codec codec.Codec[T],
	name string,
	v *vec.Vector[T],
) (sqlite.Snapshot, error) {
	if strings.TrimSpace(name) == "" {
		return sqlite.Snapshot{}, ErrBlankName
	}

	data, err := v.Encode(codec)
	if err != nil {
		return sqlite.Snapshot{}, fmt.Errorf("encode %q: %w", name, err)
	}

	data, compression, err := s.cfg.compression.compress(data)
	if err != nil {
		return sqlite.Snapshot{}, fmt.Errorf("compress %q: %w", name, err)
	}
	if data == nil {
		data = make([]byte, 0)
	}

	return sqlite.Snapshot{
		Name:        name,
		Data:        data,
		Size:        v.Len(),
		Capacity:    v.Cap(),
		Compression: int(compression),
	}, nil
}

func (s *Store[T]) put(ctx context.Context, snapshots ...sqlite.Snapshot) error {
	attempt := 0
	err := retry.Do(ctx, s.cfg.retryPolicy.Derive(), sqlite.IsTransient, func() error {
		attempt++
		err := s.storage.Put(ctx, snapshots...)
		if err != nil && sqlite.IsTransient(err) {
			s.logger.Warn("transient sqlite error",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("put into sqlite: %w", s.closed(err))
	}

	s.metrics.saves.Add(float64(len(snapshots)))
	for _, snapshot := range snapshots {
		s.metrics.snapshotBytes.Observe(float64(len(snapshot.Data)))
	}
	s.refresh(ctx)

	return nil
}

// refresh updates the snapshots gauge.
func (s *Store[T]) refresh(ctx context.Context) {
	stats, err := s.storage.Stats(ctx)
	if err != nil {
		s.logger.Warn("failed to refresh stats", zap.Error(err))
		return
	}
	s.metrics.snapshots.Set(float64(stats.Snapshots))
}

func (s *Store[T]) observe(op string, start time.Time, err *error) {
	s.metrics.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if *err != nil {
		s.metrics.errors.WithLabelValues(op).Inc()
		s.logger.Debug("store operation failed", zap.String("op", op), zap.Error(*err))
	}
}

func (s *Store[T]) closed(err error) error {
	if errors.Is(err, sqlite.ErrClosed) {
		return ErrClosed
	}
	return err
}
