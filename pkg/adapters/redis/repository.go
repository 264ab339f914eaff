// Package redis stores artifacts as string values in a Redis database.
//
// Every save and delete is also published on a notification channel, which is
// what Watch subscribes to, so several processes sharing one database observe
// each other's changes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	goredis "github.com/redis/go-redis/v9"

	"github.com/aretw0/studykit/pkg/core"
)

const (
	// DefaultPrefix namespaces every key written by the repository.
	DefaultPrefix = "studykit:"
	eventsSuffix  = "events"
	scanBatch     = 100
)

// Config holds the configuration for the Redis repository.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // defaults to DefaultPrefix
	ReadOnly bool
	Logger   *slog.Logger
}

// Repository implements core.Repository and core.Watchable on Redis.
type Repository struct {
	client *goredis.Client
	config Config

	mu       sync.RWMutex
	watchers int
}

// NewRepository creates a repository with its own client. The connection is
// verified by Initialize.
func NewRepository(config Config) *Repository {
	return NewRepositoryWithClient(goredis.NewClient(&goredis.Options{
		Addr:        config.Addr,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: 5 * time.Second,
	}), config)
}

// NewRepositoryWithClient wraps an existing client.
func NewRepositoryWithClient(client *goredis.Client, config Config) *Repository {
	if config.Prefix == "" {
		config.Prefix = DefaultPrefix
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{client: client, config: config}
}

// Initialize checks the server is reachable.
func (r *Repository) Initialize(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	r.config.Logger.Debug("redis repository ready", "addr", r.config.Addr, "db", r.config.DB)
	return nil
}

// Close releases the client.
func (r *Repository) Close() error {
	return r.client.Close()
}

// Save stores data under key and publishes the change.
func (r *Repository) Save(ctx context.Context, key string, data []byte) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	created, err := r.client.Exists(ctx, r.storageKey(key)).Result()
	if err != nil {
		return fmt.Errorf("error checking key %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.storageKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("error saving key %s: %w", key, err)
	}

	eType := core.EventCreate
	if created > 0 {
		eType = core.EventModify
	}
	r.publish(ctx, core.Event{Type: eType, Key: key, Timestamp: time.Now().Unix()})
	return nil
}

// Get returns the data stored under key.
func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.storageKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("error getting key %s: %w", key, err)
	}
	return data, nil
}

// List scans the namespace and returns the sorted keys matching pattern.
func (r *Repository) List(ctx context.Context, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := r.client.Scan(ctx, cursor, r.config.Prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("error scanning keys: %w", err)
		}
		for _, raw := range batch {
			key := strings.TrimPrefix(raw, r.config.Prefix)
			if key == eventsSuffix {
				continue
			}
			if match, _ := doublestar.Match(pattern, key); match {
				keys = append(keys, key)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *Repository) Delete(ctx context.Context, key string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	n, err := r.client.Del(ctx, r.storageKey(key)).Result()
	if err != nil {
		return fmt.Errorf("error deleting key %s: %w", key, err)
	}
	if n > 0 {
		r.publish(ctx, core.Event{Type: core.EventDelete, Key: key, Timestamp: time.Now().Unix()})
	}
	return nil
}

// Watch subscribes to change notifications for keys matching pattern.
// The returned channel is closed when ctx is cancelled.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	sub := r.client.Subscribe(ctx, r.eventsChannel())
	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan core.Event, 16)
	r.trackWatcher(1)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer r.trackWatcher(-1)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case m, ok := <-ch:
				if !ok || m == nil {
					return nil
				}
				var e core.Event
				if err := json.Unmarshal([]byte(m.Payload), &e); err != nil {
					r.config.Logger.Warn("bad change notification", "error", err)
					continue
				}
				if match, _ := doublestar.Match(pattern, e.Key); !match {
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		r.config.Logger.Error("redis watcher stopped", "error", err)
	}))
	return out, nil
}

func (r *Repository) publish(ctx context.Context, e core.Event) {
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := r.client.Publish(ctx, r.eventsChannel(), raw).Err(); err != nil {
		r.config.Logger.Warn("failed to publish change", "key", e.Key, "error", err)
	}
}

func (r *Repository) storageKey(key string) string {
	return r.config.Prefix + key
}

func (r *Repository) eventsChannel() string {
	return r.config.Prefix + eventsSuffix
}

func (r *Repository) trackWatcher(delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers += delta
}

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Addr     string `json:"addr"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"`
	ReadOnly bool   `json:"read_only"`
	Watchers int    `json:"watchers"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RepositoryState{
		Addr:     r.config.Addr,
		DB:       r.config.DB,
		Prefix:   r.config.Prefix,
		ReadOnly: r.config.ReadOnly,
		Watchers: r.watchers,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "redis-repository"
}

var (
	_ core.Repository              = (*Repository)(nil)
	_ core.Watchable               = (*Repository)(nil)
	_ introspection.Introspectable = (*Repository)(nil)
	_ introspection.Component      = (*Repository)(nil)
)
