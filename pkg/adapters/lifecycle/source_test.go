package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studykit/pkg/adapters/lifecycle"
	"github.com/aretw0/studykit/pkg/core"
)

func TestSourceForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 2)
	in <- core.Event{Type: core.EventCreate, Key: "p/quizzes/a"}
	in <- core.Event{Type: core.EventDelete, Key: "p/quizzes/a"}
	close(in)

	src := lifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))

	var got []string
	for e := range src.Events() {
		got = append(got, e.String())
	}
	assert.Equal(t, []string{"CREATE p/quizzes/a", "DELETE p/quizzes/a"}, got)
}

func TestSourceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := lifecycle.NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not close after cancel")
	}
}
