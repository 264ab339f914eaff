package redis_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studykit/pkg/adapters/redis"
	"github.com/aretw0/studykit/pkg/core"
)

// setupRepo connects to the server named by STUDYKIT_TEST_REDIS. Each test
// gets its own key prefix so runs never collide.
func setupRepo(t *testing.T) *redis.Repository {
	t.Helper()

	addr := os.Getenv("STUDYKIT_TEST_REDIS")
	if addr == "" {
		t.Skip("STUDYKIT_TEST_REDIS not set")
	}

	prefix := fmt.Sprintf("studykit-test:%s:", uuid.NewString())
	repo := redis.NewRepository(redis.Config{Addr: addr, Prefix: prefix})
	require.NoError(t, repo.Initialize(context.Background()))

	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := repo.List(ctx, "**")
		for _, k := range keys {
			_ = repo.Delete(ctx, k)
		}
		_ = repo.Close()
	})
	return repo
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	_, err := repo.Get(ctx, "p/quizzes/a")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, repo.Save(ctx, "p/quizzes/a", []byte("[]")))
	require.NoError(t, repo.Save(ctx, "p/quizzes/b", []byte("[1]")))
	require.NoError(t, repo.Save(ctx, "p/mindmaps/m", []byte("{}")))

	data, err := repo.Get(ctx, "p/quizzes/b")
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(data))

	keys, err := repo.List(ctx, "p/quizzes/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"p/quizzes/a", "p/quizzes/b"}, keys)

	require.NoError(t, repo.Delete(ctx, "p/quizzes/a"))
	require.NoError(t, repo.Delete(ctx, "p/quizzes/a"))
	keys, err = repo.List(ctx, "**")
	require.NoError(t, err)
	assert.Equal(t, []string{"p/mindmaps/m", "p/quizzes/b"}, keys)
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := setupRepo(t)

	events, err := repo.Watch(ctx, "**/quizzes/*")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, "p/mindmaps/m", []byte("{}")))
	require.NoError(t, repo.Save(ctx, "p/quizzes/a", []byte("[]")))
	require.NoError(t, repo.Save(ctx, "p/quizzes/a", []byte("[1]")))
	require.NoError(t, repo.Delete(ctx, "p/quizzes/a"))

	var got []string
	timeout := time.After(3 * time.Second)
	for len(got) < 3 {
		select {
		case e := <-events:
			got = append(got, e.String())
		case <-timeout:
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.Equal(t, []string{"CREATE p/quizzes/a", "MODIFY p/quizzes/a", "DELETE p/quizzes/a"}, got)
}

func TestReadOnly(t *testing.T) {
	repo := redis.NewRepository(redis.Config{Addr: "localhost:0", ReadOnly: true})
	defer repo.Close()

	assert.ErrorIs(t, repo.Save(context.Background(), "k", nil), core.ErrReadOnly)
	assert.ErrorIs(t, repo.Delete(context.Background(), "k"), core.ErrReadOnly)
}

func TestState(t *testing.T) {
	repo := redis.NewRepository(redis.Config{Addr: "localhost:6379", DB: 2})
	defer repo.Close()

	state := repo.State().(redis.RepositoryState)
	assert.Equal(t, redis.DefaultPrefix, state.Prefix)
	assert.Equal(t, 2, state.DB)
	assert.Equal(t, "redis-repository", repo.ComponentType())
}
