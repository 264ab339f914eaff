package fs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studykit/pkg/adapters/fs"
	"github.com/aretw0/studykit/pkg/core"
)

func nextEvent(t *testing.T, events <-chan core.Event) core.Event {
	t.Helper()

	select {
	case e, ok := <-events:
		require.True(t, ok, "event channel closed early")
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return core.Event{}
	}
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, _ := setupRepo(t)
	require.NoError(t, repo.Save(ctx, "bio/quizzes/cells", []byte("[]")))

	events, err := repo.Watch(ctx, "**/quizzes/*")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return repo.State().(fs.RepositoryState).WatcherActive
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, repo.Save(ctx, "bio/mindmaps/ignored", []byte("{}")))
	require.NoError(t, repo.Save(ctx, "bio/quizzes/cells", []byte("[1]")))
	e := nextEvent(t, events)
	assert.Equal(t, core.EventModify, e.Type)
	assert.Equal(t, "bio/quizzes/cells", e.Key)

	require.NoError(t, repo.Delete(ctx, "bio/quizzes/cells"))
	e = nextEvent(t, events)
	assert.Equal(t, core.EventDelete, e.Type)
	assert.Equal(t, "bio/quizzes/cells", e.Key)

	require.NoError(t, repo.Save(ctx, "bio/quizzes/genes", []byte("[]")))
	e = nextEvent(t, events)
	assert.Equal(t, core.EventCreate, e.Type)
	assert.Equal(t, "bio/quizzes/genes", e.Key)

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "channel closes on cancel")
}

func TestWatchNewDirectory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, _ := setupRepo(t)
	events, err := repo.Watch(ctx, "**")
	require.NoError(t, err)

	// The project directory does not exist yet; Save creates it.
	require.NoError(t, repo.Save(ctx, "physics/flashcards/approved", []byte("[]")))

	assert.Eventually(t, func() bool {
		_ = repo.Save(ctx, "physics/flashcards/approved", []byte("[]"))
		select {
		case e := <-events:
			return e.Key == "physics/flashcards/approved"
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 50*time.Millisecond)
}

func TestWatchInvalidPattern(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.Watch(context.Background(), "[")
	assert.Error(t, err)
}

func TestWatchErrorHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reported []error
	repo, _ := setupRepo(t, func(c *fs.Config) {
		c.ErrorHandler = func(err error) { reported = append(reported, err) }
	})
	events, err := repo.Watch(ctx, "**")
	require.NoError(t, err)

	cancel()
	for range events {
	}
	assert.Empty(t, reported, "clean shutdown reports nothing")
}
