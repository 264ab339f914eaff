package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studykit/pkg/core"
	"github.com/aretw0/studykit/pkg/session"
)

// recordingWriter keeps every saved deck and can be told to fail.
type recordingWriter struct {
	mu    sync.Mutex
	saves [][]core.Flashcard
	err   error
}

func (w *recordingWriter) Save(_ context.Context, _ string, deck []core.Flashcard) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.saves = append(w.saves, append([]core.Flashcard{}, deck...))
	return nil
}

func (w *recordingWriter) last() []core.Flashcard {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.saves) == 0 {
		return nil
	}
	return w.saves[len(w.saves)-1]
}

func sampleDeck() []core.Flashcard {
	return []core.Flashcard{
		{Front: "Mitochondria", Back: "Powerhouse of the cell"},
		{Front: "DNA", Back: "Genetic material"},
		{Front: "ATP", Back: "Energy currency"},
	}
}

func TestLearningNavigation(t *testing.T) {
	f := session.NewFlashcards("bio/flashcards/approved", sampleDeck(), &recordingWriter{})

	assert.ErrorIs(t, f.Flip(), core.ErrInvalidTransition)
	require.NoError(t, f.StartLearning())

	assert.ErrorIs(t, f.Previous(), core.ErrInvalidTransition, "clamped at the first card")
	require.NoError(t, f.Flip())
	assert.True(t, f.Snapshot().Flipped)

	require.NoError(t, f.Next())
	snap := f.Snapshot()
	assert.Equal(t, 1, snap.Index)
	assert.False(t, snap.Flipped, "moving resets flip")

	require.NoError(t, f.Next())
	assert.ErrorIs(t, f.Next(), core.ErrInvalidTransition, "clamped at the last card")
	current, ok := f.Current()
	require.True(t, ok)
	assert.Equal(t, "ATP", current.Front)

	require.NoError(t, f.Flip())
	require.NoError(t, f.Previous())
	assert.False(t, f.Snapshot().Flipped)

	f.FinishLearning()
	_, ok = f.Current()
	assert.False(t, ok)
}

func TestStartLearningEmptyDeck(t *testing.T) {
	f := session.NewFlashcards("k", nil, &recordingWriter{})
	assert.ErrorIs(t, f.StartLearning(), core.ErrInvalidTransition)
	assert.False(t, f.Snapshot().Learning)
}

func TestDeleteCurrentClampsIndex(t *testing.T) {
	ctx := context.Background()
	w := &recordingWriter{}
	f := session.NewFlashcards("k", sampleDeck(), w)
	require.NoError(t, f.StartLearning())
	require.NoError(t, f.Next())
	require.NoError(t, f.Next())

	require.NoError(t, f.DeleteCurrent(ctx))
	snap := f.Snapshot()
	assert.Equal(t, 2, snap.Size)
	assert.Equal(t, 1, snap.Index, "index clamps to the new last card")
	assert.Equal(t, f.Deck(), w.last(), "deck persisted immediately")

	require.NoError(t, f.DeleteCurrent(ctx))
	require.NoError(t, f.DeleteCurrent(ctx))
	snap = f.Snapshot()
	assert.Equal(t, 0, snap.Size)
	assert.Equal(t, 0, snap.Index)
	assert.False(t, snap.Learning, "empty deck leaves learning mode")
	assert.Empty(t, w.last())
}

func TestDeleteCurrentKeepsDeckOnSaveFailure(t *testing.T) {
	w := &recordingWriter{err: core.ErrPersistenceFailure}
	f := session.NewFlashcards("k", sampleDeck(), w)
	require.NoError(t, f.StartLearning())

	assert.ErrorIs(t, f.DeleteCurrent(context.Background()), core.ErrPersistenceFailure)
	assert.Equal(t, sampleDeck(), f.Deck())
	assert.True(t, f.Snapshot().Learning)
}

func TestApproveEditReplacesInPlace(t *testing.T) {
	w := &recordingWriter{}
	f := session.NewFlashcards("k", sampleDeck(), w)

	f.Edit(sampleDeck()[1])
	require.NoError(t, f.UpdateDraft("DNA", "Deoxyribonucleic acid"))
	draft, ok := f.Draft()
	require.True(t, ok)
	require.NoError(t, f.Approve(context.Background(), draft))

	deck := f.Deck()
	assert.Len(t, deck, 3)
	assert.Equal(t, core.Flashcard{Front: "DNA", Back: "Deoxyribonucleic acid"}, deck[1])
	assert.Equal(t, deck, w.last())

	_, ok = f.Draft()
	assert.False(t, ok, "approval clears the draft")
}

func TestApproveNewCardAppends(t *testing.T) {
	w := &recordingWriter{}
	f := session.NewFlashcards("k", sampleDeck(), w)

	require.NoError(t, f.Approve(context.Background(), core.Flashcard{Front: "RNA", Back: "Messenger"}))
	deck := f.Deck()
	assert.Len(t, deck, 4)
	assert.Equal(t, "RNA", deck[3].Front)
}

func TestApproveFallsBackToAppend(t *testing.T) {
	f := session.NewFlashcards("k", sampleDeck(), &recordingWriter{})

	// The original no longer exists in the deck.
	f.Edit(core.Flashcard{Front: "Gone", Back: "Card"})
	require.NoError(t, f.Approve(context.Background(), core.Flashcard{Front: "Gone", Back: "Edited"}))
	assert.Len(t, f.Deck(), 4)
}

func TestApproveKeepsStateOnSaveFailure(t *testing.T) {
	w := &recordingWriter{err: errors.New("disk full")}
	f := session.NewFlashcards("k", sampleDeck(), w)

	f.Edit(sampleDeck()[0])
	assert.Error(t, f.Approve(context.Background(), core.Flashcard{Front: "x", Back: "y"}))
	assert.Equal(t, sampleDeck(), f.Deck())
	_, ok := f.Draft()
	assert.True(t, ok, "draft survives a failed save")
}

func TestEditCurrentLeavesLearning(t *testing.T) {
	f := session.NewFlashcards("k", sampleDeck(), &recordingWriter{})

	_, err := f.EditCurrent()
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	require.NoError(t, f.StartLearning())
	require.NoError(t, f.Next())
	card, err := f.EditCurrent()
	require.NoError(t, err)
	assert.Equal(t, "DNA", card.Front)

	snap := f.Snapshot()
	assert.False(t, snap.Learning)
	assert.True(t, snap.Editing)
}

func TestDiscardAndFinish(t *testing.T) {
	w := &recordingWriter{}
	f := session.NewFlashcards("k", sampleDeck(), w)

	f.Edit(sampleDeck()[0])
	f.Discard()
	_, ok := f.Draft()
	assert.False(t, ok)
	assert.ErrorIs(t, f.UpdateDraft("a", "b"), core.ErrInvalidTransition)

	f.Edit(sampleDeck()[0])
	f.Finish()
	assert.False(t, f.Snapshot().Editing)
	assert.Empty(t, w.saves, "nothing persisted")
}

func TestRequestCardRefusesWhilePending(t *testing.T) {
	f := session.NewFlashcards("k", nil, &recordingWriter{})

	started := make(chan struct{})
	release := make(chan struct{})
	src := session.CardSourceFunc(func(ctx context.Context) (core.Flashcard, error) {
		close(started)
		<-release
		return core.Flashcard{Front: "New", Back: "Card"}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := f.RequestCard(context.Background(), src)
		done <- err
	}()
	<-started

	assert.True(t, f.Snapshot().Pending)
	_, err := f.RequestCard(context.Background(), src)
	assert.ErrorIs(t, err, core.ErrPending)
	_, err = f.Regenerate(context.Background(), src)
	assert.ErrorIs(t, err, core.ErrPending)

	close(release)
	require.NoError(t, <-done)

	draft, ok := f.Draft()
	require.True(t, ok)
	assert.Equal(t, "New", draft.Front)
	assert.False(t, f.Snapshot().Pending)
	assert.False(t, f.Snapshot().Editing, "generated cards are new, not edits")
}

func TestRequestCardFailure(t *testing.T) {
	f := session.NewFlashcards("k", nil, &recordingWriter{})
	src := session.CardSourceFunc(func(ctx context.Context) (core.Flashcard, error) {
		return core.Flashcard{}, core.ErrGenerationFailure
	})

	_, err := f.RequestCard(context.Background(), src)
	assert.ErrorIs(t, err, core.ErrGenerationFailure)
	assert.False(t, f.Snapshot().Pending, "failure clears the pending flag")
	_, ok := f.Draft()
	assert.False(t, ok)
}

func TestRegenerateReplacesDraft(t *testing.T) {
	f := session.NewFlashcards("k", nil, &recordingWriter{})
	n := 0
	src := session.CardSourceFunc(func(ctx context.Context) (core.Flashcard, error) {
		n++
		if n == 1 {
			return core.Flashcard{Front: "first", Back: "x"}, nil
		}
		return core.Flashcard{Front: "second", Back: "y"}, nil
	})

	_, err := f.RequestCard(context.Background(), src)
	require.NoError(t, err)
	card, err := f.Regenerate(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "second", card.Front)

	draft, _ := f.Draft()
	assert.Equal(t, "second", draft.Front)
}

func TestNewFlashcardsCopiesDeck(t *testing.T) {
	deck := sampleDeck()
	f := session.NewFlashcards("k", deck, &recordingWriter{})
	deck[0].Front = "mutated"
	assert.Equal(t, "Mitochondria", f.Deck()[0].Front)
	assert.Equal(t, "flashcard-session", f.ComponentType())
}
