package studykit

import (
	"log/slog"

	"github.com/aretw0/studykit/internal/platform"
	"github.com/aretw0/studykit/pkg/core"
	"github.com/aretw0/studykit/pkg/generate"
	"github.com/aretw0/studykit/pkg/typed"
	"github.com/aretw0/studykit/pkg/workspace"
)

// --- Types ---

// Store is a public alias for the typed artifact store.
type Store[T any] = typed.Store[T]

// Workspace is a public alias for the application service.
type Workspace = workspace.Workspace

// --- Configuration ---

// Option defines a functional option for configuring studykit.
type Option = platform.Option

// RedisConfig selects the Redis server used by the redis adapter.
type RedisConfig = platform.RedisConfig

// Adapter names accepted by WithAdapter.
const (
	AdapterFS    = platform.AdapterFS
	AdapterRedis = platform.AdapterRedis
	AdapterSQL   = platform.AdapterSQL
)

// WithLogger sets the logger for the service and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithRedis configures the redis adapter.
func WithRedis(cfg RedisConfig) Option {
	return platform.WithRedis(cfg)
}

// WithSystemDir sets the hidden directory name (e.g. ".studykit").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithMustExist refuses to create a missing workspace directory.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly refuses every save and delete with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithEventBuffer sets the size of the watch event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler receives errors raised inside the watch loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithAllowDangling keeps mind-map edges to undeclared nodes.
func WithAllowDangling(allow bool) Option {
	return platform.WithAllowDangling(allow)
}

// --- Factory ---

// New creates the storage service over the adapter selected by opts.
func New(uri string, opts ...Option) (*core.Service, error) {
	return platform.New(uri, opts...)
}

// Init initializes a repository explicitly.
func Init(uri string, opts ...Option) (core.Repository, error) {
	return platform.Init(uri, opts...)
}

// Open creates a Workspace over the store at uri. gen may be nil when only
// stored artifacts are used.
func Open(uri string, gen generate.Generator, opts ...Option) (*Workspace, error) {
	svc, err := New(uri, opts...)
	if err != nil {
		return nil, err
	}
	return workspace.New(svc,
		workspace.WithGenerator(gen),
		workspace.WithAllowDangling(platform.AllowDangling(opts...)),
	), nil
}

// --- Typed Factories ---

// NewStore creates a type-safe store over svc; see typed.NewStore.
func NewStore[T any](svc *core.Service, empty func() T) *Store[T] {
	return typed.NewStore(svc, empty)
}

// OpenStore simplifies creating a Store from a URI.
func OpenStore[T any](uri string, empty func() T, opts ...Option) (*Store[T], error) {
	svc, err := New(uri, opts...)
	if err != nil {
		return nil, err
	}
	return typed.NewStore(svc, empty), nil
}

// --- Utils ---

// FindRoot looks upwards from startDir for a workspace marker
// (".studykit" or "studykit.yaml").
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
