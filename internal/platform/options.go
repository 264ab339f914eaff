package platform

import (
	"log/slog"

	"github.com/aretw0/studykit/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS    = "fs"
	AdapterRedis = "redis"
	AdapterSQL   = "sql"
)

// RedisConfig selects the Redis server for the redis adapter. The adapter's
// URI argument, when non-empty, overrides Addr.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// options holds the internal configuration for a workspace.
type options struct {
	repository    core.Repository
	logger        *slog.Logger
	adapter       string
	redis         RedisConfig
	systemDir     string
	mustExist     bool
	readOnly      bool
	eventBuffer   int
	errorHandler  func(error)
	allowDangling bool
}

// Option defines a functional option for configuring a workspace.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		systemDir: DefaultSystemDir,
	}
}

func resolve(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithLogger sets the logger shared by the service and the adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a custom storage adapter (e.g. a test fake).
// If provided, WithAdapter is ignored.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name: "fs" (default), "redis" or "sql".
// The URI passed to New is a directory for fs, an address for redis and a DSN for sql.
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithRedis configures the redis adapter.
func WithRedis(cfg RedisConfig) Option {
	return func(o *options) {
		o.redis = cfg
	}
}

// WithSystemDir sets the hidden directory of a filesystem workspace.
// Defaults to ".studykit".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithMustExist refuses to create a missing filesystem workspace.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly enables read-only mode: saves and deletes return
// core.ErrReadOnly and nothing is created on initialization.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithEventBuffer sets the size of the watch event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the
// watch loop (e.g. permission denied), which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithAllowDangling keeps mind-map edges that reference undeclared nodes
// instead of dropping them.
func WithAllowDangling(allow bool) Option {
	return func(o *options) {
		o.allowDangling = allow
	}
}

// AllowDangling reports whether WithAllowDangling(true) is among opts.
func AllowDangling(opts ...Option) bool {
	return resolve(opts).allowDangling
}
