package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

const defaultEventBuffer = 100

// Service validates keys and fronts a Repository.
type Service struct {
	repo            Repository
	logger          *slog.Logger
	eventBufferSize int
	mu              sync.RWMutex
}

// NewService creates a new Service.
// A nil logger disables logging; a non-positive buffer selects the default.
func NewService(repo Repository, logger *slog.Logger, eventBufferSize int) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if eventBufferSize <= 0 {
		eventBufferSize = defaultEventBuffer
	}
	return &Service{repo: repo, logger: logger, eventBufferSize: eventBufferSize}
}

// Logger returns the service logger. It is never nil.
func (s *Service) Logger() *slog.Logger {
	return s.logger
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("artifact key cannot be empty")
	}
	return nil
}

// Put stores a payload. Any failure is reported as ErrPersistenceFailure.
func (s *Service) Put(ctx context.Context, key string, data []byte) error {
	if err := validKey(key); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if err := s.repo.Save(ctx, key, data); err != nil {
		s.logger.Warn("save failed", "key", key, "error", err)
		if errors.Is(err, ErrPersistenceFailure) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", ErrPersistenceFailure, key, err)
	}
	s.logger.Debug("artifact saved", "key", key, "bytes", len(data))
	return nil
}

// Fetch retrieves a payload. Missing keys return ErrNotFound.
func (s *Service) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, key)
}

// Remove deletes a payload.
func (s *Service) Remove(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPersistenceFailure, key, err)
	}
	s.logger.Debug("artifact deleted", "key", key)
	return nil
}

// Keys lists stored keys matching pattern.
func (s *Service) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	return s.repo.List(ctx, pattern)
}

// Watch observes changes in the repository if supported.
// Events are buffered so a slow consumer never stalls the repository.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	upstream, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	size := s.eventBufferSize
	s.mu.RUnlock()

	out := make(chan Event, size)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-upstream:
				if !ok {
					return
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
