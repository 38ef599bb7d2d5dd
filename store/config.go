package store

import (
	"go.uber.org/zap"

	"github.com/teenjuna/vec/codec"
	"github.com/teenjuna/vec/codec/json"
	"github.com/teenjuna/vec/retry"
)

// Config is a config of the [Store].
//
// The zero value is invalid; use [Open] with configuration functions.
type Config[T any] struct {
	file        *FileConfig
	codec       codec.Codec[T]
	compression Compression
	retryPolicy retry.Policy
	workers     int
	prometheus  *PrometheusConfig
	logger      *zap.Logger
}

type ConfigFunc[T any] = func(c *Config[T])

// File sets the database file. Nil means a private in-memory database.
func (c *Config[T]) File(file *FileConfig) {
	c.file = file
}

// Codec sets the codec the elements are encoded with.
func (c *Config[T]) Codec(codec codec.Codec[T]) {
	if codec == nil {
		panic("codec can't be nil")
	}
	c.codec = codec
}

// Compression sets the algorithm encoded snapshots are compressed with.
func (c *Config[T]) Compression(compression Compression) {
	if !compression.valid() {
		panic("compression is unknown")
	}
	c.compression = compression
}

// RetryPolicy sets the policy of retrying writes that failed due to a busy or locked database.
func (c *Config[T]) RetryPolicy(policy retry.Policy) {
	if policy == nil {
		panic("policy can't be nil")
	}
	c.retryPolicy = policy
}

// Workers sets the number of goroutines encoding snapshots in [Store.SaveAll] and the number of
// database connections.
func (c *Config[T]) Workers(workers int) {
	if workers < 1 {
		panic("workers can't be < 1")
	}
	c.workers = workers
}

// Prometheus sets the config of the store metrics.
func (c *Config[T]) Prometheus(prometheus *PrometheusConfig) {
	if prometheus == nil {
		panic("prometheus can't be nil")
	}
	c.prometheus = prometheus
}

// Logger sets the logger of the store.
func (c *Config[T]) Logger(logger *zap.Logger) {
	if logger == nil {
		panic("logger can't be nil")
	}
	c.logger = logger
}

func newConfig[T any](configFuncs ...ConfigFunc[T]) *Config[T] {
	cfg := Config[T]{}
	cfg.File(nil)
	cfg.Codec(json.New[T]())
	cfg.Compression(CompressionNone)
	cfg.RetryPolicy(retry.Immediate(1))
	cfg.Workers(1)
	cfg.Prometheus(Prometheus(nil))
	cfg.Logger(zap.NewNop())

	for _, cf := range configFuncs {
		if cf != nil {
			cf(&cfg)
		}
	}

	return &cfg
}
