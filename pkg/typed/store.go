// Package typed stores artifacts as canonical, pretty-printed JSON on top of a core.Service.
package typed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/studykit/pkg/core"
)

// Store persists one artifact type. Each key holds exactly one value of T.
type Store[T any] struct {
	svc   *core.Service
	empty func() T
}

// NewStore creates a type-safe store. empty builds the default value returned
// for missing or corrupted keys; nil selects the zero value of T.
func NewStore[T any](svc *core.Service, empty func() T) *Store[T] {
	if empty == nil {
		empty = func() T {
			var zero T
			return zero
		}
	}
	return &Store[T]{svc: svc, empty: empty}
}

// Save serializes v and overwrites the value stored under key.
// Failures wrap core.ErrPersistenceFailure.
func (s *Store[T]) Save(ctx context.Context, key string, v T) error {
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", core.ErrPersistenceFailure, key, err)
	}
	if bytes.Equal(data, []byte("null")) {
		if data, err = encode(s.empty()); err != nil {
			return fmt.Errorf("%w: encode %s: %w", core.ErrPersistenceFailure, key, err)
		}
	}
	return s.svc.Put(ctx, key, data)
}

// Load returns the value stored under key.
//
// A missing key yields the default value and no error. Content that does not
// decode yields the default value and an error wrapping core.ErrCorruptedStore;
// callers should report it and carry on. Read failures wrap
// core.ErrPersistenceFailure.
func (s *Store[T]) Load(ctx context.Context, key string) (T, error) {
	data, err := s.svc.Fetch(ctx, key)
	if errors.Is(err, core.ErrNotFound) {
		s.svc.Logger().Debug("no stored artifact, starting fresh", "key", key)
		return s.empty(), nil
	}
	if err != nil {
		return s.empty(), fmt.Errorf("%w: read %s: %w", core.ErrPersistenceFailure, key, err)
	}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return s.empty(), nil
	}
	v := s.empty()
	if err := json.Unmarshal(data, &v); err != nil {
		s.svc.Logger().Warn("stored artifact is corrupted, starting with an empty one", "key", key, "error", err)
		return s.empty(), fmt.Errorf("%w: %s: %v", core.ErrCorruptedStore, key, err)
	}
	return v, nil
}

// Delete removes the value stored under key.
func (s *Store[T]) Delete(ctx context.Context, key string) error {
	return s.svc.Remove(ctx, key)
}

// Keys lists the keys matching a doublestar pattern.
func (s *Store[T]) Keys(ctx context.Context, pattern string) ([]string, error) {
	return s.svc.Keys(ctx, pattern)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
